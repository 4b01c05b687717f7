package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentdeck/agentdeck/internal/store"
)

type createAgentRequest struct {
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Configuration *store.AgentConfig      `json:"configuration"`
	Permissions   *store.AgentPermissions `json:"permissions"`
}

func (req *createAgentRequest) validate() error {
	if err := checkRequired("name", req.Name); err != nil {
		return err
	}
	if err := checkLen("name", req.Name, maxNameLength); err != nil {
		return err
	}
	if err := checkLen("description", req.Description, maxDescriptionLength); err != nil {
		return err
	}
	if req.Configuration == nil {
		return fieldErr("configuration", "is required")
	}
	if err := validateAgentConfig(req.Configuration); err != nil {
		return err
	}
	if req.Permissions != nil {
		if err := validateAgentPermissions(req.Permissions); err != nil {
			return err
		}
	}
	return nil
}

func validateAgentConfig(c *store.AgentConfig) error {
	if err := checkRequired("configuration.model", c.Model); err != nil {
		return err
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fieldErr("configuration.temperature", "must be between 0 and 1")
	}
	if c.MaxTokens < 1 || c.MaxTokens > maxModelTokens {
		return fieldErr("configuration.maxTokens", "must be between 1 and %d", maxModelTokens)
	}
	return checkLen("configuration.systemPrompt", c.SystemPrompt, maxSystemPromptLength)
}

func validateAgentPermissions(p *store.AgentPermissions) error {
	if !store.ValidPermissionLevel(p.MemoryAccess) {
		return fieldErr("permissions.memoryAccess", "must be one of none, read, write, admin")
	}
	if p.RateLimitRPM < 1 || p.RateLimitRPM > maxRateLimitRPM {
		return fieldErr("permissions.rateLimitRpm", "must be between 1 and %d", maxRateLimitRPM)
	}
	if p.MaxMemorySize < 1 || p.MaxMemorySize > maxMemorySize {
		return fieldErr("permissions.maxMemorySize", "must be between 1 and %d", maxMemorySize)
	}
	return nil
}

type updateAgentRequest struct {
	Name          *string                 `json:"name"`
	Description   *string                 `json:"description"`
	Status        *store.AgentStatus      `json:"status"`
	Configuration *store.AgentConfig      `json:"configuration"`
	Permissions   *store.AgentPermissions `json:"permissions"`
}

func (req *updateAgentRequest) validate() error {
	if req.Name != nil {
		if err := checkRequired("name", *req.Name); err != nil {
			return err
		}
		if err := checkLen("name", *req.Name, maxNameLength); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := checkLen("description", *req.Description, maxDescriptionLength); err != nil {
			return err
		}
	}
	if req.Status != nil && !store.ValidAgentStatus(*req.Status) {
		return fieldErr("status", "must be one of online, offline, error, maintenance")
	}
	if req.Configuration != nil {
		if err := validateAgentConfig(req.Configuration); err != nil {
			return err
		}
	}
	if req.Permissions != nil {
		if err := validateAgentPermissions(req.Permissions); err != nil {
			return err
		}
	}
	return nil
}

// GET /api/agents
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r, s.cfg.Limits.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	statusFilter := store.AgentStatus(r.URL.Query().Get("status"))

	agents := s.store.Agents.GetAll()
	if statusFilter != "" && store.ValidAgentStatus(statusFilter) {
		filtered := agents[:0]
		for _, a := range agents {
			if a.Status == statusFilter {
				filtered = append(filtered, a)
			}
		}
		agents = filtered
	}
	// Counts reflect the filtered listing, so a status filter zeroes the
	// other buckets.
	counts := map[store.AgentStatus]int{}
	for _, a := range agents {
		counts[a.Status]++
	}
	total := len(agents)
	if len(agents) > limit {
		agents = agents[:limit]
	}
	respond(w, http.StatusOK, map[string]any{
		"agents": agents,
		"total":  total,
		"statusCounts": map[string]int{
			"online":      counts[store.AgentOnline],
			"offline":     counts[store.AgentOffline],
			"error":       counts[store.AgentError],
			"maintenance": counts[store.AgentMaintenance],
		},
	})
}

// POST /api/agents
func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Permissions == nil {
		req.Permissions = &store.AgentPermissions{
			MemoryAccess:  store.PermissionRead,
			ToolAccess:    []string{},
			RateLimitRPM:  60,
			MaxMemorySize: 100,
		}
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Permissions.ToolAccess == nil {
		req.Permissions.ToolAccess = []string{}
	}
	// New agents always register offline.
	agent, err := s.store.Agents.Create(store.Agent{
		Name:          req.Name,
		Description:   req.Description,
		Status:        store.AgentOffline,
		Permissions:   *req.Permissions,
		Configuration: *req.Configuration,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	respond(w, http.StatusCreated, agent)
}

// GET /api/agents/{agentId}
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agentId")
	if !ok {
		return
	}
	if _, found := s.store.Agents.GetByID(id); !found {
		respondError(w, http.StatusNotFound, "agent not found")
		return
	}
	if err := s.store.Agents.TouchLastSeen(id); err != nil {
		respondStorageFault(w, err)
		return
	}
	agent, _ := s.store.Agents.GetByID(id)
	respond(w, http.StatusOK, agent)
}

// PUT /api/agents/{agentId}
func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agentId")
	if !ok {
		return
	}
	var req updateAgentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	agent, found, err := s.store.Agents.Update(id, store.AgentUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Configuration: req.Configuration,
		Permissions:   req.Permissions,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "agent not found")
		return
	}
	respond(w, http.StatusOK, agent)
}

// DELETE /api/agents/{agentId}
func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agentId")
	if !ok {
		return
	}
	deleted, err := s.store.Agents.Delete(id)
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "agent not found")
		return
	}
	respondMessage(w, http.StatusOK, "agent deleted")
}

// GET /api/agents/{agentId}/logs
func (s *Server) handleAgentLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "agentId")
	if !ok {
		return
	}
	limit, err := s.parseLimit(r, 100)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	since, err := parseTime(r, "since")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	logs := s.store.Logs.GetByAgent(id, limit, since)
	respond(w, http.StatusOK, map[string]any{
		"logs":  logs,
		"total": len(logs),
	})
}

// GET /api/agents/system-metrics
func (s *Server) handleSystemMetrics(w http.ResponseWriter, r *http.Request) {
	agents := s.store.Agents.GetAll()
	agentMetrics := map[string]int{"total": len(agents)}
	for _, a := range agents {
		switch a.Status {
		case store.AgentOnline:
			agentMetrics["online"]++
		case store.AgentOffline:
			agentMetrics["offline"]++
		case store.AgentError:
			agentMetrics["error"]++
		}
	}

	memStats := s.store.Memory.Stats()
	topCategories := memStats.CategoryBreakdown
	if len(topCategories) > 5 {
		topCategories = topCategories[:5]
	}

	tools := s.store.Tools.GetAll()
	active, totalExec := 0, 0
	var sumAvgTime, sumErrRate float64
	for _, t := range tools {
		if t.IsActive {
			active++
		}
		totalExec += t.UsageStats.TotalExecutions
		sumAvgTime += t.UsageStats.AverageExecutionTime
		sumErrRate += 1 - t.UsageStats.SuccessRate
	}
	mcpMetrics := map[string]any{
		"activeTools":          active,
		"totalExecutions":      totalExec,
		"averageExecutionTime": 0.0,
		"errorRate":            0.0,
	}
	if len(tools) > 0 {
		mcpMetrics["averageExecutionTime"] = sumAvgTime / float64(len(tools))
		mcpMetrics["errorRate"] = sumErrRate / float64(len(tools))
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	respond(w, http.StatusOK, map[string]any{
		"timestamp": time.Now().UTC(),
		"agents":    agentMetrics,
		"memory": map[string]any{
			"totalEntries":      memStats.TotalEntries,
			"totalSize":         memStats.TotalSize,
			"averageAccessTime": 0,
			"topCategories":     topCategories,
		},
		"mcp": mcpMetrics,
		"system": map[string]any{
			"uptime":      time.Since(s.started).Milliseconds(),
			"memoryUsage": float64(mem.HeapAlloc) / (1 << 20),
			"diskUsage":   0,
		},
	})
}
