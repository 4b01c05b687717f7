package api

import (
	"net/http"
	"time"
)

// GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"name":    "agentdeck",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"streams": s.bus.Subscribers(),
	})
}
