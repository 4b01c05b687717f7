package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentdeck/agentdeck/internal/bus"
)

// GET /api/chat/stream
//
// Server-sent events. Emits a connected event immediately, then heartbeats on
// the configured interval interleaved with message events from the bus. An
// optional sessionId query parameter scopes message events to one session.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := queryUUID(w, r, "sessionId", false)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cancel := s.bus.Subscribe(sessionID)
	defer cancel()

	writeEvent(w, bus.Event{
		Type:      bus.EventConnected,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	})
	flusher.Flush()

	heartbeat := time.NewTicker(s.cfg.Server.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			writeEvent(w, bus.Event{
				Type:      bus.EventHeartbeat,
				Timestamp: time.Now().UTC(),
			})
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev bus.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("encode stream event", "type", ev.Type, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
}
