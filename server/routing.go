package server

import "net/http"

// setupRoutes configures all HTTP handlers on the server's own mux, so two
// servers in one process (or test) never collide on the default mux.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))
	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	s.mux.HandleFunc("/api/status", s.corsMiddleware(s.HandleStatus))
	s.mux.HandleFunc("/api/agent/start", s.corsMiddleware(s.HandleAgentStart))
	s.mux.HandleFunc("/api/agent/stop", s.corsMiddleware(s.HandleAgentStop))
	s.mux.HandleFunc("/api/generate", s.corsMiddleware(s.HandleGenerate))
	s.mux.HandleFunc("/api/publish", s.corsMiddleware(s.HandlePublish))
	s.mux.HandleFunc("/api/social", s.corsMiddleware(s.HandleSocial))
	s.mux.HandleFunc("/api/plan", s.corsMiddleware(s.HandlePlan))
	s.mux.HandleFunc("/api/runs", s.corsMiddleware(s.HandleRuns))
	s.mux.HandleFunc("/api/export/blog", s.corsMiddleware(s.HandleExportBlog))
	s.mux.HandleFunc("/api/export/plan", s.corsMiddleware(s.HandleExportPlan))
	s.mux.HandleFunc("/api/export/social", s.corsMiddleware(s.HandleExportSocial))
}

// Handler exposes the routed mux (used by tests and embedding callers)
func (s *Server) Handler() http.Handler {
	return s.mux
}

// corsMiddleware adds CORS headers using the configured allowed origins.
// The same origin validation gates WebSocket upgrades.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
