package server

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/logger"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer (control messages are small)
	maxMessageSize = 64 * 1024
)

// Client represents a WebSocket client connection
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan interface{}
	id        string
	closeOnce sync.Once // Prevents double-close panics
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		// The hub may already be gone during shutdown; don't block on it.
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.logger.Debugw("Read pump started", "client_id", c.id)

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			break
		}

		if logger.ShouldOutput(int(c.server.verbosity.Load()), logger.OutputDataDump) {
			c.server.logger.Debugw("Received WebSocket message",
				"client_id", c.id,
				"size_bytes", len(messageBytes),
				"raw", string(messageBytes),
			)
		}

		var msg ControlMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error",
				"error", err.Error(),
				"client_id", c.id,
			)
			continue
		}

		c.routeMessage(&msg)
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("WebSocket read error",
			"error", err.Error(),
			"client_id", c.id,
		)
	}
}

// routeMessage dispatches incoming WebSocket messages to appropriate handlers
func (c *Client) routeMessage(msg *ControlMessage) {
	switch msg.Type {
	case "agent_control":
		c.handleAgentControl(msg)
	case "set_verbosity":
		c.handleSetVerbosity(msg.Verbosity)
	case "ping":
		// Just update deadline, handled by pong handler
	default:
		c.server.logger.Debugw("Unknown message type",
			"type", msg.Type,
			"client_id", c.id,
		)
	}
}

// handleSetVerbosity updates the server's output-category level. The base
// zap level is fixed at startup, so raising verbosity here only widens what
// a debug-enabled process logs; it cannot resurrect suppressed levels.
func (c *Client) handleSetVerbosity(verbosity int) {
	if verbosity < logger.VerbosityUser || verbosity > logger.VerbosityAll {
		c.sendJSON(newErrorMessage("verbosity must be between 0 and 4"))
		return
	}

	oldVerbosity := int(c.server.verbosity.Swap(int32(verbosity)))
	c.server.logger.Infow("Verbosity level changed",
		"client_id", c.id,
		"old_verbosity", oldVerbosity,
		"new_verbosity", verbosity,
		"level_name", logger.LevelName(verbosity),
	)
}

// handleAgentControl starts or stops the recurring job on behalf of a client
func (c *Client) handleAgentControl(msg *ControlMessage) {
	c.server.logger.Infow("Agent control request",
		"action", msg.Action,
		"client_id", c.id,
	)

	switch msg.Action {
	case "start":
		if strings.TrimSpace(msg.Topic) == "" || len(msg.Keywords) == 0 {
			c.sendJSON(newErrorMessage("topic and keywords are required to start the agent"))
			return
		}
		if !c.server.controller.Start(agent.JobSpec{Topic: msg.Topic, Keywords: msg.Keywords}) {
			c.sendJSON(newErrorMessage("agent already running"))
			return
		}
	case "stop":
		if !c.server.stopAgent() {
			c.sendJSON(newErrorMessage("agent is not running"))
		}
		return // stopAgent broadcasts both transitions itself
	default:
		c.server.logger.Warnw("Unknown agent control action",
			"action", msg.Action,
			"client_id", c.id,
		)
		return
	}

	c.server.BroadcastAgentState()
}

// writePump writes queued events to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.server.logger.Debugw("Write pump started", "client_id", c.id)

	for {
		select {
		case <-c.server.ctx.Done():
			c.server.logger.Debugw("Write pump stopping due to server shutdown", "client_id", c.id)
			return
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Warnw("Message write error",
					"error", err.Error(),
					"client_id", c.id,
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendJSON queues a message for this client without blocking. Only called
// from the client's own readPump, which always precedes its unregister.
func (c *Client) sendJSON(data interface{}) {
	select {
	case c.send <- data:
		// Message queued successfully
	default:
		c.server.logger.Warnw("Failed to queue message (channel full)",
			"client_id", c.id,
		)
	}
}

// close shuts the send channel exactly once. Hub-only.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		if c.send != nil {
			close(c.send)
		}
	})
}

func newErrorMessage(msg string) ErrorMessage {
	return ErrorMessage{
		Type:      "error",
		Error:     msg,
		Timestamp: time.Now().Unix(),
	}
}
