package server

// This file contains the event broadcasting side of the Server:
// - agent_state snapshots with change detection
// - run_started / run_finished (the Server is the agent's Notifier)
// - publish_result for operator-initiated publishes
// - usage_update for text-generation usage counters

import (
	"time"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/ai/textgen"
)

// agentStateMessage builds the current controller snapshot
func (s *Server) agentStateMessage() AgentStateMessage {
	spec := s.controller.Spec()

	var lastRun int64
	if at := s.controller.LastRunAt(); !at.IsZero() {
		lastRun = at.Unix()
	}

	return AgentStateMessage{
		Type:            "agent_state",
		State:           string(s.controller.State()),
		Topic:           spec.Topic,
		Keywords:        spec.Keywords,
		IntervalSeconds: int(s.controller.Interval() / time.Second),
		Runs:            s.controller.Runs(),
		LastRunAt:       lastRun,
		Timestamp:       time.Now().Unix(),
	}
}

// BroadcastAgentState pushes the controller state to all clients when it has
// changed since the last broadcast. Safe from any goroutine.
func (s *Server) BroadcastAgentState() {
	msg := s.agentStateMessage()

	s.mu.Lock()
	if !s.agentStateChangedLocked(msg) {
		s.mu.Unlock()
		return // Skip broadcast if nothing changed
	}
	s.lastState = &cachedAgentState{
		state: msg.State,
		topic: msg.Topic,
		runs:  msg.Runs,
	}
	s.mu.Unlock()

	s.queueBroadcast(msg)
}

// stopAgent requests a controller stop and, when one was actually running,
// broadcasts the transition now (StopRequested) and again once the scheduler
// goroutine has drained (Idle). Returns false if the agent was not running.
func (s *Server) stopAgent() bool {
	if !s.controller.Stop() {
		return false
	}
	s.BroadcastAgentState()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.controller.Wait()
		s.BroadcastAgentState()
	}()
	return true
}

// agentStateChangedLocked checks whether the state differs from the last
// broadcast. REQUIRES: s.mu must be held by caller.
func (s *Server) agentStateChangedLocked(msg AgentStateMessage) bool {
	if s.lastState == nil {
		return true // First broadcast always sends
	}
	return s.lastState.state != msg.State ||
		s.lastState.topic != msg.Topic ||
		s.lastState.runs != msg.Runs
}

// RunStarted implements agent.Notifier: announce a scheduled iteration.
func (s *Server) RunStarted(runID string, spec agent.JobSpec) {
	s.queueBroadcast(RunStartedMessage{
		Type:      "run_started",
		RunID:     runID,
		Topic:     spec.Topic,
		Timestamp: time.Now().Unix(),
	})
	s.BroadcastAgentState()
}

// RunFinished implements agent.Notifier: push the run record.
func (s *Server) RunFinished(rec agent.RunRecord) {
	s.queueBroadcast(RunFinishedMessage{
		Type:      "run_finished",
		Run:       rec,
		Timestamp: time.Now().Unix(),
	})
	s.BroadcastAgentState()
}

// BroadcastPublishResult reports an operator-initiated publish outcome.
// Scheduled publish outcomes travel inside run_finished instead.
func (s *Server) BroadcastPublishResult(title string, published bool) {
	s.queueBroadcast(PublishResultMessage{
		Type:      "publish_result",
		Title:     title,
		Published: published,
		Timestamp: time.Now().Unix(),
	})
}

func (s *Server) usageMessage(stats textgen.Stats) UsageUpdateMessage {
	return UsageUpdateMessage{
		Type:      "usage_update",
		Requests:  stats.Requests,
		Failures:  stats.Failures,
		Tokens:    stats.TotalTokens,
		CostUSD:   stats.CostUSD,
		Timestamp: time.Now().Unix(),
	}
}

// broadcastUsageUpdate pushes usage counters when they have changed
func (s *Server) broadcastUsageUpdate() {
	stats := s.usage.Stats()

	s.mu.Lock()
	if s.lastUsage != nil && *s.lastUsage == stats {
		s.mu.Unlock()
		return // Skip broadcast if nothing changed
	}
	s.lastUsage = &stats
	s.mu.Unlock()

	s.queueBroadcast(s.usageMessage(stats))
}

// startUsageUpdateTicker starts a periodic usage update broadcaster
func (s *Server) startUsageUpdateTicker() {
	if s.usage == nil {
		return
	}

	ticker := time.NewTicker(2 * time.Second)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Debugw("Usage update ticker stopping due to context cancellation")
				return
			case <-ticker.C:
				// Only send updates if there are connected clients
				s.mu.RLock()
				hasClients := len(s.clients) > 0
				s.mu.RUnlock()

				if hasClients {
					s.broadcastUsageUpdate()
				}
			}
		}
	}()
}
