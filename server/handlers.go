package server

// This file contains HTTP handler methods for Server.
// It provides HTTP endpoints for:
// - WebSocket connections (HandleWebSocket)
// - Controller start/stop (HandleAgentStart, HandleAgentStop)
// - One-shot pipeline operations (HandleGenerate, HandlePublish,
//   HandleSocial, HandlePlan)
// - Run history (HandleRuns), status (HandleStatus), health (HandleHealth)

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/ai/textgen"
	"github.com/postforge/postforge/social"
	"github.com/postforge/postforge/version"
)

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.newUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("WebSocket upgrade failed",
			"error", err,
			"remote_addr", r.RemoteAddr,
		)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan interface{}, MaxClientMessageQueueSize),
		id:     fmt.Sprintf("%s_%d", r.RemoteAddr, time.Now().UnixNano()),
	}

	// Send version info BEFORE starting writePump (avoid concurrent writes)
	versionInfo := version.Get()
	versionMsg := map[string]interface{}{
		"type":       "version",
		"version":    versionInfo.Version,
		"commit":     versionInfo.Short(),
		"build_time": versionInfo.BuildTime,
	}
	if err := conn.WriteJSON(versionMsg); err != nil {
		s.logger.Debugw("Failed to send version info",
			"client_id", client.id,
			"error", err,
		)
	}

	s.register <- client

	// Start goroutines for reading and writing
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
}

// HandleHealth serves the health check endpoint with version info
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()

	health := map[string]interface{}{
		"status":       "ok",
		"version":      versionInfo.Version,
		"commit":       versionInfo.CommitHash,
		"build_time":   versionInfo.BuildTime,
		"clients":      s.ClientCount(),
		"server_state": stateString(s.getState()),
	}

	writeJSON(w, http.StatusOK, health)
}

// StatusResponse is the GET /api/status payload
type StatusResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Agent   AgentStateMessage `json:"agent"`
	Clients int               `json:"clients"`
	Usage   *textgen.Stats    `json:"usage,omitempty"`
}

// HandleStatus reports the controller state, client count and usage counters
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	resp := StatusResponse{
		Status:  "ok",
		Version: version.Get().Version,
		Agent:   s.agentStateMessage(),
		Clients: s.ClientCount(),
	}
	if s.usage != nil {
		stats := s.usage.Stats()
		resp.Usage = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

type startRequest struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
}

// HandleAgentStart starts the recurring job with the posted spec.
// A second start while running is a conflict: the live job keeps its
// snapshot and changing the topic requires an explicit stop first.
func (s *Server) HandleAgentStart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req startRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if len(req.Keywords) == 0 {
		writeError(w, http.StatusBadRequest, "keywords are required")
		return
	}

	if !s.controller.Start(agent.JobSpec{Topic: req.Topic, Keywords: req.Keywords}) {
		writeError(w, http.StatusConflict, "agent already running")
		return
	}

	s.BroadcastAgentState()
	writeJSON(w, http.StatusAccepted, map[string]string{
		"state": string(s.controller.State()),
	})
}

// HandleAgentStop requests the recurring job to stop. The in-flight
// iteration, if any, completes; stop takes effect at the next wait point.
func (s *Server) HandleAgentStop(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if !s.stopAgent() {
		writeError(w, http.StatusConflict, "agent is not running")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"state": string(s.controller.State()),
	})
}

type generateRequest struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Publish  bool     `json:"publish"`
}

type generateResponse struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

// HandleGenerate runs one interactive generation, optionally publishing the
// result. The generated post is cached for /api/export/blog.
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req generateRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	post, err := s.agent.GenerateBlog(r.Context(), agent.JobSpec{Topic: req.Topic, Keywords: req.Keywords})
	if err != nil {
		writeDomainError(w, s.logger, err, "blog generation failed")
		return
	}

	s.results.setBlog(post)

	published := false
	if req.Publish {
		published = s.agent.PublishPost(r.Context(), post)
		s.BroadcastPublishResult(post.Title, published)
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Title:     post.Title,
		Body:      post.Body,
		Published: published,
	})
}

type publishRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HandlePublish publishes operator-supplied content. The outcome is a plain
// boolean; a refused or failed publish is not an HTTP error.
func (s *Server) HandlePublish(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req publishRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	published := s.agent.PublishPost(r.Context(), &agent.GeneratedPost{
		Title: req.Title,
		Body:  req.Content,
	})
	s.BroadcastPublishResult(req.Title, published)

	writeJSON(w, http.StatusOK, map[string]bool{"published": published})
}

type socialRequest struct {
	Title    string   `json:"title"`
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Channels []string `json:"channels"`
}

// HandleSocial generates per-channel social posts from blog metadata.
// The mapping is cached for /api/export/social.
func (s *Server) HandleSocial(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req socialRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	channels := make([]social.Channel, 0, len(req.Channels))
	for _, raw := range req.Channels {
		channels = append(channels, social.Normalize(raw))
	}

	posts, err := s.agent.SocialPosts(r.Context(), req.Title, req.Topic, req.Keywords, channels)
	if err != nil {
		writeDomainError(w, s.logger, err, "social generation failed")
		return
	}

	s.results.setSocial(posts)

	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

type planRequest struct {
	BusinessPlan string `json:"business_plan"`
}

// HandlePlan generates a weekly content plan from a business plan.
// The plan is cached for /api/export/plan.
func (s *Server) HandlePlan(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req planRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	plan, err := s.agent.Plan(r.Context(), req.BusinessPlan)
	if err != nil {
		writeDomainError(w, s.logger, err, "plan generation failed")
		return
	}

	s.results.setPlan(plan)

	writeJSON(w, http.StatusOK, map[string]string{"plan": plan})
}

// HandleRuns returns the run history, newest first
func (s *Server) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": s.agent.History(),
	})
}
