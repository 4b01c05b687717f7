package api

import (
	"net/http"

	"github.com/agentdeck/agentdeck/internal/bus"
	"github.com/agentdeck/agentdeck/internal/store"
)

type createSessionRequest struct {
	AgentID string `json:"agentId"`
	Name    string `json:"name"`
}

type updateSessionRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

type createMessageRequest struct {
	SessionID   string                 `json:"sessionId"`
	Role        store.MessageRole      `json:"role"`
	Content     string                 `json:"content"`
	Attachments []store.FileAttachment `json:"attachments"`
	Metadata    *store.MessageMetadata `json:"metadata"`
}

// GET /api/chat/sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r, s.cfg.Limits.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := parseOffset(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	agentID, ok := queryUUID(w, r, "agentId", false)
	if !ok {
		return
	}
	page := s.store.Sessions.GetPaginated(limit, offset, agentID)
	respond(w, http.StatusOK, map[string]any{
		"sessions": page.Items,
		"total":    page.Total,
		"hasMore":  page.HasMore,
		"offset":   page.Offset,
		"limit":    page.Limit,
	})
}

// POST /api/chat/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := checkRequired("agentId", req.AgentID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validUUID(req.AgentID) {
		respondError(w, http.StatusBadRequest, "invalid agentId format")
		return
	}
	if err := checkRequired("name", req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkLen("name", req.Name, maxNameLength); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, found := s.store.Agents.GetByID(req.AgentID); !found {
		respondError(w, http.StatusNotFound, "agent not found")
		return
	}
	sess, err := s.store.Sessions.Create(store.ChatSession{
		AgentID:  req.AgentID,
		Name:     req.Name,
		IsActive: true,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	respond(w, http.StatusCreated, sess)
}

// DELETE /api/chat/sessions
func (s *Server) handleDeleteAllSessions(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Sessions.DeleteAll()
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"deletedCount": count,
		"message":      "all sessions deleted",
	})
}

// GET /api/chat/sessions/{sessionId}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sessionId")
	if !ok {
		return
	}
	sess, found := s.store.Sessions.GetByID(id)
	if !found {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respond(w, http.StatusOK, sess)
}

// PUT /api/chat/sessions/{sessionId}
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sessionId")
	if !ok {
		return
	}
	var req updateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != nil {
		if err := checkRequired("name", *req.Name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := checkLen("name", *req.Name, maxNameLength); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	sess, found, err := s.store.Sessions.Update(id, store.SessionUpdate{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respond(w, http.StatusOK, sess)
}

// DELETE /api/chat/sessions/{sessionId}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sessionId")
	if !ok {
		return
	}
	deleted, err := s.store.Sessions.Delete(id)
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondMessage(w, http.StatusOK, "session deleted")
}

// GET /api/chat/messages
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := queryUUID(w, r, "sessionId", true)
	if !ok {
		return
	}
	limit, err := s.parseLimit(r, s.cfg.Limits.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	before, err := parseTime(r, "before")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, found := s.store.Sessions.GetByID(sessionID); !found {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	msgs := s.store.Messages.GetBySession(sessionID, limit, before)
	respond(w, http.StatusOK, map[string]any{
		"messages": msgs,
		"hasMore":  len(msgs) == limit,
	})
}

// POST /api/chat/messages
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := checkRequired("sessionId", req.SessionID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validUUID(req.SessionID) {
		respondError(w, http.StatusBadRequest, "invalid sessionId format")
		return
	}
	if !store.ValidMessageRole(req.Role) {
		respondError(w, http.StatusBadRequest, "role: must be one of user, assistant, system")
		return
	}
	if err := checkRequired("content", req.Content); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkLen("content", req.Content, maxMessageLength); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, found := s.store.Sessions.GetByID(req.SessionID); !found {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	msg, err := s.store.Messages.Create(store.ChatMessage{
		SessionID:   req.SessionID,
		Role:        req.Role,
		Content:     req.Content,
		Attachments: req.Attachments,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	s.bus.Publish(bus.Event{
		Type:      bus.EventMessage,
		SessionID: msg.SessionID,
		Payload:   msg,
	})
	respond(w, http.StatusCreated, msg)
}
