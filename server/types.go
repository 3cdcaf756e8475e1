package server

import (
	"time"

	"github.com/postforge/postforge/agent"
)

const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout is how long to wait for graceful shutdown. Covers an
	// in-flight scheduled iteration finishing plus WebSocket pump teardown.
	ShutdownTimeout = 30 * time.Second
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// cachedAgentState tracks the last broadcast agent state to detect changes
type cachedAgentState struct {
	state string
	topic string
	runs  int64
}

// ControlMessage represents a client message on /ws
type ControlMessage struct {
	Type      string   `json:"type"`      // "agent_control", "set_verbosity", "ping"
	Action    string   `json:"action"`    // For agent_control: "start", "stop"
	Topic     string   `json:"topic"`     // For agent_control start
	Keywords  []string `json:"keywords"`  // For agent_control start
	Verbosity int      `json:"verbosity"` // For set_verbosity
}

// AgentStateMessage reports the recurring job controller's state
type AgentStateMessage struct {
	Type            string   `json:"type"` // "agent_state"
	State           string   `json:"state"`
	Topic           string   `json:"topic,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	IntervalSeconds int      `json:"interval_seconds"`
	Runs            int64    `json:"runs"`
	LastRunAt       int64    `json:"last_run_at,omitempty"` // Unix timestamp, 0 = never
	Timestamp       int64    `json:"timestamp"`
}

// RunStartedMessage announces a scheduled iteration beginning
type RunStartedMessage struct {
	Type      string `json:"type"` // "run_started"
	RunID     string `json:"run_id"`
	Topic     string `json:"topic"`
	Timestamp int64  `json:"timestamp"`
}

// RunFinishedMessage carries the full record of a completed run
type RunFinishedMessage struct {
	Type      string          `json:"type"` // "run_finished"
	Run       agent.RunRecord `json:"run"`
	Timestamp int64           `json:"timestamp"`
}

// PublishResultMessage reports the outcome of an operator-initiated publish
type PublishResultMessage struct {
	Type      string `json:"type"` // "publish_result"
	Title     string `json:"title"`
	Published bool   `json:"published"`
	Timestamp int64  `json:"timestamp"`
}

// UsageUpdateMessage reports text-generation usage counters
type UsageUpdateMessage struct {
	Type      string  `json:"type"` // "usage_update"
	Requests  int64   `json:"requests"`
	Failures  int64   `json:"failures"`
	Tokens    int64   `json:"tokens"`
	CostUSD   float64 `json:"cost_usd"`
	Timestamp int64   `json:"timestamp"`
}

// ErrorMessage reports a rejected control request back to one client
type ErrorMessage struct {
	Type      string `json:"type"` // "error"
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}
