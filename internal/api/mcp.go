package api

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agentdeck/agentdeck/internal/store"
)

type createToolRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Parameters  []store.ToolParameter `json:"parameters"`
	Permissions []string              `json:"permissions"`
	IsActive    *bool                 `json:"isActive"`
}

func (req *createToolRequest) validate() error {
	if err := checkRequired("name", req.Name); err != nil {
		return err
	}
	if err := checkLen("name", req.Name, maxNameLength); err != nil {
		return err
	}
	if err := checkLen("description", req.Description, maxDescriptionLength); err != nil {
		return err
	}
	if err := checkRequired("category", req.Category); err != nil {
		return err
	}
	if err := checkLen("category", req.Category, maxNameLength); err != nil {
		return err
	}
	for i, p := range req.Parameters {
		if p.Name == "" {
			return fieldErr(fmt.Sprintf("parameters[%d].name", i), "is required")
		}
		if !store.ValidParameterType(p.Type) {
			return fieldErr(fmt.Sprintf("parameters[%d].type", i),
				"must be one of string, number, boolean, array, object")
		}
	}
	return nil
}

type updateToolRequest struct {
	Description *string   `json:"description"`
	IsActive    *bool     `json:"isActive"`
	Permissions *[]string `json:"permissions"`
}

type executeToolRequest struct {
	ToolID     string         `json:"toolId"`
	AgentID    string         `json:"agentId"`
	Parameters map[string]any `json:"parameters"`
	Timeout    *int           `json:"timeout"`
}

// GET /api/mcp/tools
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r, s.cfg.Limits.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	category := q.Get("category")
	// Inactive tools are hidden unless asked for explicitly.
	wantActive := true
	if q.Has("isActive") {
		wantActive = q.Get("isActive") == "true"
	}

	all := s.store.Tools.GetAll()
	categories := map[string]struct{}{}
	tools := all[:0]
	for _, t := range all {
		categories[t.Category] = struct{}{}
		if category != "" && t.Category != category {
			continue
		}
		if t.IsActive != wantActive {
			continue
		}
		tools = append(tools, t)
	}
	total := len(tools)
	if len(tools) > limit {
		tools = tools[:limit]
	}
	catList := make([]string, 0, len(categories))
	for c := range categories {
		catList = append(catList, c)
	}
	sort.Strings(catList)

	respond(w, http.StatusOK, map[string]any{
		"tools":      tools,
		"total":      total,
		"categories": catList,
	})
}

// POST /api/mcp/tools
func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	tool, err := s.store.Tools.Create(store.MCPTool{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Parameters:  req.Parameters,
		Permissions: req.Permissions,
		IsActive:    isActive,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	respond(w, http.StatusCreated, tool)
}

// GET /api/mcp/tools/{toolId}
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "toolId")
	if !ok {
		return
	}
	tool, found := s.store.Tools.GetByID(id)
	if !found {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}
	respond(w, http.StatusOK, tool)
}

// PUT /api/mcp/tools/{toolId}
func (s *Server) handleUpdateTool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "toolId")
	if !ok {
		return
	}
	var req updateToolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Description != nil {
		if err := checkLen("description", *req.Description, maxDescriptionLength); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	tool, found, err := s.store.Tools.Update(id, store.ToolUpdate{
		Description: req.Description,
		IsActive:    req.IsActive,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}
	respond(w, http.StatusOK, tool)
}

// DELETE /api/mcp/tools/{toolId}
func (s *Server) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "toolId")
	if !ok {
		return
	}
	deleted, err := s.store.Tools.Delete(id)
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "tool not found")
		return
	}
	respondMessage(w, http.StatusOK, "tool deleted")
}

// POST /api/mcp/execute
func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	executionID := uuid.NewString()
	start := time.Now()

	var req executeToolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validUUID(req.ToolID) {
		respondError(w, http.StatusBadRequest, "invalid toolId format")
		return
	}
	if !validUUID(req.AgentID) {
		respondError(w, http.StatusBadRequest, "invalid agentId format")
		return
	}
	if req.Timeout != nil && (*req.Timeout < 1 || *req.Timeout > maxExecuteTimeout) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("timeout must be between 1 and %d", maxExecuteTimeout))
		return
	}
	if req.Parameters == nil {
		req.Parameters = map[string]any{}
	}

	fail := func(status int, message string) {
		elapsed := time.Since(start).Milliseconds()
		if _, found := s.store.Tools.GetByID(req.ToolID); found {
			if err := s.store.Tools.RecordExecution(req.ToolID, float64(elapsed), false); err != nil {
				respondStorageFault(w, err)
				return
			}
		}
		writeEnvelope(w, status, Envelope{
			Success: true,
			Data: map[string]any{
				"executionId":   executionID,
				"status":        "error",
				"executionTime": elapsed,
				"timestamp":     time.Now().UTC(),
				"error": map[string]any{
					"message": message,
				},
			},
		})
	}

	tool, found := s.store.Tools.GetByID(req.ToolID)
	if !found {
		fail(http.StatusNotFound, "tool not found")
		return
	}
	agent, found := s.store.Agents.GetByID(req.AgentID)
	if !found {
		fail(http.StatusNotFound, "agent not found")
		return
	}
	if !tool.IsActive {
		fail(http.StatusForbidden, "tool is not active")
		return
	}
	// An empty toolAccess list grants access to every tool.
	if len(agent.Permissions.ToolAccess) > 0 && !containsString(agent.Permissions.ToolAccess, tool.ID) {
		fail(http.StatusForbidden, "agent does not have permission to use this tool")
		return
	}
	for _, p := range tool.Parameters {
		if !p.Required {
			continue
		}
		if _, present := req.Parameters[p.Name]; !present {
			fail(http.StatusBadRequest, fmt.Sprintf("missing required parameter %s", p.Name))
			return
		}
	}

	if _, err := s.store.Logs.Create(store.AccessLog{
		AgentID:    req.AgentID,
		Operation:  store.OpExecute,
		Resource:   "mcp_tool",
		ResourceID: req.ToolID,
		Status:     store.LogSuccess,
	}); err != nil {
		respondStorageFault(w, err)
		return
	}

	elapsed := time.Since(start).Milliseconds()
	if err := s.store.Tools.RecordExecution(tool.ID, float64(elapsed), true); err != nil {
		respondStorageFault(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"executionId": executionID,
		"status":      "success",
		"result": map[string]any{
			"message":    fmt.Sprintf("Tool %s executed successfully", tool.Name),
			"parameters": req.Parameters,
			"timestamp":  time.Now().UTC(),
		},
		"executionTime": elapsed,
		"timestamp":     time.Now().UTC(),
	})
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
