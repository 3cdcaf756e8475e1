// Package server exposes the operator surface: a JSON HTTP API over the
// agent pipeline, text exports of the last results, and a WebSocket hub
// pushing run lifecycle, publish, and usage events.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/agent/schedule"
	"github.com/postforge/postforge/ai/textgen"
	"github.com/postforge/postforge/errors"
)

// UsageSource reports accumulated text-generation usage for the status API
// and usage_update events. *textgen.Client satisfies it.
type UsageSource interface {
	Stats() textgen.Stats
}

// Config assembles a Server's collaborators.
type Config struct {
	Agent      *agent.Agent
	Controller *schedule.Controller

	// Usage is optional; without it /api/status omits the usage block and
	// no usage_update events are sent.
	Usage UsageSource

	// AllowedOrigins restricts browser requests; empty means localhost only.
	AllowedOrigins []string

	// Verbosity is the initial output-category level (the -v flag count).
	// Clients may adjust it at runtime with a set_verbosity message.
	Verbosity int

	Logger *zap.SugaredLogger
}

// Server owns the HTTP mux, the WebSocket client set, and the event hub.
//
// Channel-ownership invariant: client send channels are closed only by the
// hub goroutine (Run), and the hub is also the only broadcast fan-out
// writer. The per-client readPump writes only to its own channel, which
// cannot be closed before its unregister has been processed. This keeps
// every send/close pair ordered without per-message locking.
type Server struct {
	agent      *agent.Agent
	controller *schedule.Controller
	usage      UsageSource

	mux     *http.ServeMux
	clients map[*Client]bool

	broadcast  chan interface{} // Event fan-out requests (thread-safe sends)
	register   chan *Client
	unregister chan *Client

	mu        sync.RWMutex
	lastState *cachedAgentState // Cache last agent state for change detection
	lastUsage *textgen.Stats    // Cache last usage stats for change detection
	results   resultCache       // Last generated blog/plan/social for export

	allowedOrigins []string
	logger         *zap.SugaredLogger

	httpServer *http.Server

	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	broadcastDrops atomic.Int64
	state          atomic.Int32
	verbosity      atomic.Int32 // Output-category level, adjustable per set_verbosity
}

// NewServer creates a Server over an agent and its schedule controller.
// The HTTP routes are registered immediately; call Start to listen.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.NewConfigf("server requires an agent")
	}
	if cfg.Controller == nil {
		return nil, errors.NewConfigf("server requires a schedule controller")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		agent:          cfg.Agent,
		controller:     cfg.Controller,
		usage:          cfg.Usage,
		mux:            http.NewServeMux(),
		clients:        make(map[*Client]bool),
		broadcast:      make(chan interface{}, MaxClientMessageQueueSize),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		allowedOrigins: cfg.AllowedOrigins,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
	s.verbosity.Store(int32(cfg.Verbosity))

	s.setupRoutes()
	return s, nil
}

// Run starts the server hub event loop. It owns all client channel sends
// and closes, so fan-out never races a disconnect.
func (s *Server) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case msg := <-s.broadcast:
			s.fanOut(msg)
		}
	}
}

// handleClientRegister handles a new client connection
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()

	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		if client.conn != nil {
			client.conn.Close()
		}
		return
	}

	s.clients[client] = true
	totalClients := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		"client_id", client.id,
		"total_clients", totalClients,
	)

	// Snapshot the current agent state (and usage, when tracked) straight to
	// the new client so the UI renders immediately instead of waiting for the
	// next change-driven broadcast.
	s.sendToClient(client, s.agentStateMessage())
	if s.usage != nil {
		s.sendToClient(client, s.usageMessage(s.usage.Stats()))
	}
}

// handleClientUnregister handles a client disconnection
func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		totalClients := len(s.clients)
		s.mu.Unlock()

		// Safe to close directly: we are the hub, the single channel owner.
		client.close()

		s.logger.Infow("Client disconnected",
			"client_id", client.id,
			"total_clients", totalClients,
		)
	} else {
		s.mu.Unlock()
	}
}

// removeSlowClient drops a client that can't keep up with broadcasts.
// Only called from the hub. The connection is closed so the client's pumps
// exit; the normal unregister path then finds it already removed.
func (s *Server) removeSlowClient(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		s.mu.Unlock()
	} else {
		s.mu.Unlock()
		return // Already removed
	}

	if client.conn != nil {
		client.conn.Close()
	}

	s.logger.Warnw("Client send channel full, removing client",
		"client_id", client.id,
		"total_drops", s.broadcastDrops.Load(),
	)
}

// fanOut delivers one event to every connected client. Hub-only.
func (s *Server) fanOut(msg interface{}) {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if !s.sendToClient(client, msg) {
			s.broadcastDrops.Add(1)
			s.removeSlowClient(client)
		}
	}
}

// sendToClient queues one message for one client without blocking. Hub-only.
func (s *Server) sendToClient(client *Client, msg interface{}) bool {
	select {
	case client.send <- msg:
		return true
	default:
		return false
	}
}

// queueBroadcast hands an event to the hub for fan-out. Safe from any
// goroutine; drops the event rather than blocking a caller.
func (s *Server) queueBroadcast(msg interface{}) {
	select {
	case s.broadcast <- msg:
	case <-s.ctx.Done():
	default:
		s.broadcastDrops.Add(1)
		s.logger.Warnw("Broadcast queue full, dropping event")
	}
}

// ClientCount returns the number of connected WebSocket clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
