package api

import (
	"net/http"
	"time"

	"github.com/agentdeck/agentdeck/internal/bus"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/store"
	webassets "github.com/agentdeck/agentdeck/web"
)

// Server holds the dashboard's HTTP handlers and their dependencies.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	bus     *bus.Bus
	started time.Time
	version string
}

// NewServer wires a server over the given store and event bus.
func NewServer(cfg *config.Config, st *store.Store, b *bus.Bus, version string) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		bus:     b,
		started: time.Now(),
		version: version,
	}
}

// Handler builds the route table. All API routes live under /api; the
// embedded dashboard page is served at the root.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.handleStatus)

	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("POST /api/agents", s.handleCreateAgent)
	mux.HandleFunc("GET /api/agents/system-metrics", s.handleSystemMetrics)
	mux.HandleFunc("GET /api/agents/{agentId}", s.handleGetAgent)
	mux.HandleFunc("PUT /api/agents/{agentId}", s.handleUpdateAgent)
	mux.HandleFunc("DELETE /api/agents/{agentId}", s.handleDeleteAgent)
	mux.HandleFunc("GET /api/agents/{agentId}/logs", s.handleAgentLogs)

	mux.HandleFunc("GET /api/chat/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/chat/sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /api/chat/sessions", s.handleDeleteAllSessions)
	mux.HandleFunc("GET /api/chat/sessions/{sessionId}", s.handleGetSession)
	mux.HandleFunc("PUT /api/chat/sessions/{sessionId}", s.handleUpdateSession)
	mux.HandleFunc("DELETE /api/chat/sessions/{sessionId}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/chat/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/chat/messages", s.handleCreateMessage)
	mux.HandleFunc("GET /api/chat/stream", s.handleStream)

	mux.HandleFunc("GET /api/mcp/tools", s.handleListTools)
	mux.HandleFunc("POST /api/mcp/tools", s.handleCreateTool)
	mux.HandleFunc("GET /api/mcp/tools/{toolId}", s.handleGetTool)
	mux.HandleFunc("PUT /api/mcp/tools/{toolId}", s.handleUpdateTool)
	mux.HandleFunc("DELETE /api/mcp/tools/{toolId}", s.handleDeleteTool)
	mux.HandleFunc("POST /api/mcp/execute", s.handleExecuteTool)

	mux.HandleFunc("GET /api/memory/entries", s.handleListEntries)
	mux.HandleFunc("POST /api/memory/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /api/memory/entries/{entryId}", s.handleGetEntry)
	mux.HandleFunc("PUT /api/memory/entries/{entryId}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/memory/entries/{entryId}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/memory/search", s.handleSearchMemory)
	mux.HandleFunc("GET /api/memory/stats", s.handleMemoryStats)

	mux.Handle("GET /", http.FileServerFS(webassets.Files))

	return withRecovery(withLogging(withCORS(mux)))
}
