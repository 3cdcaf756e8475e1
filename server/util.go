package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/postforge/postforge/config"
)

// newUpgrader creates a WebSocket upgrader with origin checking
func (s *Server) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates a request origin against the configured allowed
// origins. Prefix matching allows any port on an allowed host.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow requests with no origin header (CLI clients, curl, tests)
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) == 0 {
		// No configuration: secure default, localhost only
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost")
	}

	for _, allowed := range s.allowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}

	return false
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port int) bool {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	_ = listener.Close() // Best-effort check, caller retries on actual bind
	return true
}

// findAvailablePort tries the requested port first, then the default port,
// then a small high range as a last resort.
func findAvailablePort(requestedPort int) (int, error) {
	if isPortAvailable(requestedPort) {
		return requestedPort, nil
	}

	if requestedPort != config.DefaultServerPort && isPortAvailable(config.DefaultServerPort) {
		return config.DefaultServerPort, nil
	}

	fallbackStart := 58878
	for i := 0; i < 10; i++ {
		port := fallbackStart + i
		if isPortAvailable(port) {
			return port, nil
		}
	}

	return 0, fmt.Errorf("no available ports found (tried %d, %d, and range %d-%d)",
		requestedPort, config.DefaultServerPort, fallbackStart, fallbackStart+9)
}
