package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentdeck/agentdeck/internal/bus"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/store"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := config.DefaultConfig()
	srv := NewServer(cfg, store.Open(t.TempDir()), bus.New(), "test")
	return srv, srv.Handler()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope from %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}

func createAgent(t *testing.T, h http.Handler) store.Agent {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/agents", map[string]any{
		"name":        "researcher",
		"description": "summarizes papers",
		"configuration": map[string]any{
			"model":       "claude-sonnet",
			"temperature": 0.7,
			"maxTokens":   4096,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create agent: status %d body %s", rec.Code, rec.Body.String())
	}
	var agent store.Agent
	decodeData(t, env, &agent)
	return agent
}

func TestCreateAgentAppliesDefaults(t *testing.T) {
	_, h := newTestServer(t)
	agent := createAgent(t, h)

	if agent.Status != store.AgentOffline {
		t.Fatalf("expected new agents offline, got %s", agent.Status)
	}
	if agent.Permissions.MemoryAccess != store.PermissionRead {
		t.Fatalf("expected default read access, got %s", agent.Permissions.MemoryAccess)
	}
	if agent.Permissions.RateLimitRPM != 60 || agent.Permissions.MaxMemorySize != 100 {
		t.Fatalf("unexpected default permissions: %+v", agent.Permissions)
	}
	if agent.Permissions.ToolAccess == nil {
		t.Fatal("toolAccess should be an empty list, not null")
	}
	if agent.Metrics.Uptime != 100 {
		t.Fatalf("expected initial uptime 100, got %v", agent.Metrics.Uptime)
	}
}

func TestCreateAgentValidation(t *testing.T) {
	_, h := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{
			"configuration": map[string]any{"model": "m", "temperature": 0.5, "maxTokens": 100},
		}},
		{"missing configuration", map[string]any{"name": "a"}},
		{"temperature out of range", map[string]any{
			"name":          "a",
			"configuration": map[string]any{"model": "m", "temperature": 1.5, "maxTokens": 100},
		}},
		{"name too long", map[string]any{
			"name":          strings.Repeat("x", 101),
			"configuration": map[string]any{"model": "m", "temperature": 0.5, "maxTokens": 100},
		}},
	}
	for _, tc := range cases {
		rec, env := doJSON(t, h, http.MethodPost, "/api/agents", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		if env.Success || env.Error == "" {
			t.Fatalf("%s: expected failure envelope, got %+v", tc.name, env)
		}
	}
}

func TestAgentLifecycle(t *testing.T) {
	_, h := newTestServer(t)
	agent := createAgent(t, h)

	rec, env := doJSON(t, h, http.MethodGet, "/api/agents/"+agent.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get agent: %d", rec.Code)
	}
	var got store.Agent
	decodeData(t, env, &got)
	if got.ID != agent.ID {
		t.Fatalf("wrong agent: %s", got.ID)
	}

	rec, env = doJSON(t, h, http.MethodPut, "/api/agents/"+agent.ID, map[string]any{
		"status": "online",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update agent: %d %s", rec.Code, rec.Body.String())
	}
	decodeData(t, env, &got)
	if got.Status != store.AgentOnline {
		t.Fatalf("status not updated: %s", got.Status)
	}
	if got.Name != "researcher" {
		t.Fatalf("untouched field changed: %q", got.Name)
	}

	rec, env = doJSON(t, h, http.MethodDelete, "/api/agents/"+agent.ID, nil)
	if rec.Code != http.StatusOK || !env.Success || env.Message == "" {
		t.Fatalf("delete agent: %d %+v", rec.Code, env)
	}
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/agents/"+agent.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestAgentNotFoundAndBadID(t *testing.T) {
	_, h := newTestServer(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/agents/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: expected 400, got %d", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodGet, "/api/agents/00000000-0000-0000-0000-000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rec.Code)
	}
}

func TestListAgentsStatusCounts(t *testing.T) {
	srv, h := newTestServer(t)
	a := createAgent(t, h)
	createAgent(t, h)
	online := store.AgentOnline
	if _, _, err := srv.store.Agents.Update(a.ID, store.AgentUpdate{Status: &online}); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	rec, env := doJSON(t, h, http.MethodGet, "/api/agents", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list agents: %d", rec.Code)
	}
	var data struct {
		Agents       []store.Agent  `json:"agents"`
		Total        int            `json:"total"`
		StatusCounts map[string]int `json:"statusCounts"`
	}
	decodeData(t, env, &data)
	if data.Total != 2 || len(data.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %+v", data)
	}
	if data.StatusCounts["online"] != 1 || data.StatusCounts["offline"] != 1 {
		t.Fatalf("wrong status counts: %+v", data.StatusCounts)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/agents?status=online", nil)
	decodeData(t, env, &data)
	if data.Total != 1 || data.Agents[0].ID != a.ID {
		t.Fatalf("status filter failed: %+v", data)
	}
	// Counts follow the filter: non-matching buckets read zero.
	if data.StatusCounts["online"] != 1 || data.StatusCounts["offline"] != 0 {
		t.Fatalf("filtered status counts wrong: %+v", data.StatusCounts)
	}
}

func TestChatMessageFlow(t *testing.T) {
	_, h := newTestServer(t)
	agent := createAgent(t, h)

	rec, env := doJSON(t, h, http.MethodPost, "/api/chat/sessions", map[string]any{
		"agentId": agent.ID,
		"name":    "planning",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	var sess store.ChatSession
	decodeData(t, env, &sess)
	if !sess.IsActive || sess.MessageCount != 0 {
		t.Fatalf("unexpected new session: %+v", sess)
	}

	rec, env = doJSON(t, h, http.MethodPost, "/api/chat/messages", map[string]any{
		"sessionId": sess.ID,
		"role":      "user",
		"content":   "hello",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create message: %d %s", rec.Code, rec.Body.String())
	}
	var msg store.ChatMessage
	decodeData(t, env, &msg)
	if msg.Role != store.RoleUser || msg.Content != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/chat/sessions/"+sess.ID, nil)
	decodeData(t, env, &sess)
	if sess.MessageCount != 1 || sess.LastMessage != "hello" {
		t.Fatalf("session not updated: count=%d preview=%q", sess.MessageCount, sess.LastMessage)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/chat/messages?sessionId="+sess.ID+"&limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list messages: %d", rec.Code)
	}
	var listing struct {
		Messages []store.ChatMessage `json:"messages"`
		HasMore  bool                `json:"hasMore"`
	}
	decodeData(t, env, &listing)
	if len(listing.Messages) != 1 || !listing.HasMore {
		t.Fatalf("unexpected listing: %+v", listing)
	}
}

func TestCreateSessionUnknownAgent(t *testing.T) {
	_, h := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/api/chat/sessions", map[string]any{
		"agentId": "00000000-0000-0000-0000-000000000000",
		"name":    "orphan",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown agent, got %d", rec.Code)
	}
}

func TestBulkDeleteSessions(t *testing.T) {
	_, h := newTestServer(t)
	agent := createAgent(t, h)
	for i := 0; i < 3; i++ {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/chat/sessions", map[string]any{
			"agentId": agent.ID,
			"name":    fmt.Sprintf("s%d", i),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create session %d: %d", i, rec.Code)
		}
	}

	rec, env := doJSON(t, h, http.MethodDelete, "/api/chat/sessions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk delete: %d", rec.Code)
	}
	var data struct {
		DeletedCount int    `json:"deletedCount"`
		Message      string `json:"message"`
	}
	decodeData(t, env, &data)
	if data.DeletedCount != 3 || data.Message == "" {
		t.Fatalf("unexpected bulk delete response: %+v", data)
	}

	_, env = doJSON(t, h, http.MethodGet, "/api/chat/sessions", nil)
	var listing struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &listing)
	if listing.Total != 0 {
		t.Fatalf("sessions survived bulk delete: %d", listing.Total)
	}
}

func createTool(t *testing.T, h http.Handler, body map[string]any) store.MCPTool {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/mcp/tools", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tool: %d %s", rec.Code, rec.Body.String())
	}
	var tool store.MCPTool
	decodeData(t, env, &tool)
	return tool
}

func TestCreateToolDefaults(t *testing.T) {
	_, h := newTestServer(t)
	tool := createTool(t, h, map[string]any{
		"name":        "web_search",
		"description": "searches the web",
		"category":    "search",
	})
	if !tool.IsActive {
		t.Fatal("expected tools active by default")
	}
	if tool.UsageStats.SuccessRate != 1 {
		t.Fatalf("expected initial success rate 1, got %v", tool.UsageStats.SuccessRate)
	}
}

func TestListToolsActiveFilter(t *testing.T) {
	_, h := newTestServer(t)
	active := createTool(t, h, map[string]any{"name": "web_search", "category": "search"})
	inactive := createTool(t, h, map[string]any{"name": "old_search", "category": "search"})
	rec, _ := doJSON(t, h, http.MethodPut, "/api/mcp/tools/"+inactive.ID, map[string]any{
		"isActive": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate tool: %d %s", rec.Code, rec.Body.String())
	}

	var listing struct {
		Tools []store.MCPTool `json:"tools"`
	}
	for _, tc := range []struct {
		query  string
		wantID string
	}{
		{"", active.ID},
		{"?isActive=true", active.ID},
		{"?isActive=false", inactive.ID},
		// Any value other than "true" selects inactive tools.
		{"?isActive=0", inactive.ID},
	} {
		rec, env := doJSON(t, h, http.MethodGet, "/api/mcp/tools"+tc.query, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list %q: %d %s", tc.query, rec.Code, rec.Body.String())
		}
		decodeData(t, env, &listing)
		if len(listing.Tools) != 1 || listing.Tools[0].ID != tc.wantID {
			t.Fatalf("list %q: got %d tools, want exactly %s", tc.query, len(listing.Tools), tc.wantID)
		}
	}
}

func TestExecuteToolSuccess(t *testing.T) {
	srv, h := newTestServer(t)
	agent := createAgent(t, h)
	tool := createTool(t, h, map[string]any{
		"name":     "web_search",
		"category": "search",
		"parameters": []map[string]any{
			{"name": "q", "type": "string", "required": true, "description": "query"},
		},
	})

	rec, env := doJSON(t, h, http.MethodPost, "/api/mcp/execute", map[string]any{
		"toolId":     tool.ID,
		"agentId":    agent.ID,
		"parameters": map[string]any{"q": "golang"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("execute: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		ExecutionID string `json:"executionId"`
		Status      string `json:"status"`
		Result      struct {
			Message string `json:"message"`
		} `json:"result"`
	}
	decodeData(t, env, &data)
	if data.Status != "success" || data.ExecutionID == "" {
		t.Fatalf("unexpected execution result: %+v", data)
	}
	if !strings.Contains(data.Result.Message, "web_search") {
		t.Fatalf("result message missing tool name: %q", data.Result.Message)
	}

	got, _ := srv.store.Tools.GetByID(tool.ID)
	if got.UsageStats.TotalExecutions != 1 || got.UsageStats.SuccessRate != 1 {
		t.Fatalf("stats not updated: %+v", got.UsageStats)
	}
	logs := srv.store.Logs.GetByAgent(agent.ID, 50, nil)
	if len(logs) != 1 || logs[0].Operation != store.OpExecute {
		t.Fatalf("execution not logged: %+v", logs)
	}
}

func TestExecuteToolDenied(t *testing.T) {
	srv, h := newTestServer(t)
	agent := createAgent(t, h)
	tool := createTool(t, h, map[string]any{
		"name": "shell", "category": "system", "isActive": false,
	})

	rec, env := doJSON(t, h, http.MethodPost, "/api/mcp/execute", map[string]any{
		"toolId":  tool.ID,
		"agentId": agent.ID,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("inactive tool: expected 403, got %d", rec.Code)
	}
	var data struct {
		Status string `json:"status"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeData(t, env, &data)
	if data.Status != "error" || data.Error.Message == "" {
		t.Fatalf("unexpected error result: %+v", data)
	}
	got, _ := srv.store.Tools.GetByID(tool.ID)
	if got.UsageStats.TotalExecutions != 1 || got.UsageStats.SuccessRate != 0 {
		t.Fatalf("failed execution not recorded: %+v", got.UsageStats)
	}

	// Granting access to a different tool id shuts this agent out.
	granted := []string{tool.ID}
	if _, _, err := srv.store.Agents.Update(agent.ID, store.AgentUpdate{
		Permissions: &store.AgentPermissions{
			MemoryAccess: store.PermissionRead, ToolAccess: granted, RateLimitRPM: 60, MaxMemorySize: 100,
		},
	}); err != nil {
		t.Fatalf("seed permissions: %v", err)
	}
	other := createTool(t, h, map[string]any{"name": "calc", "category": "math"})
	rec, _ = doJSON(t, h, http.MethodPost, "/api/mcp/execute", map[string]any{
		"toolId":  other.ID,
		"agentId": agent.ID,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unlisted tool: expected 403, got %d", rec.Code)
	}
}

func TestExecuteToolMissingRequiredParameter(t *testing.T) {
	_, h := newTestServer(t)
	agent := createAgent(t, h)
	tool := createTool(t, h, map[string]any{
		"name":     "web_search",
		"category": "search",
		"parameters": []map[string]any{
			{"name": "q", "type": "string", "required": true, "description": "query"},
		},
	})

	rec, _ := doJSON(t, h, http.MethodPost, "/api/mcp/execute", map[string]any{
		"toolId":  tool.ID,
		"agentId": agent.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing parameter: expected 400, got %d", rec.Code)
	}
}

func createEntry(t *testing.T, h http.Handler, body map[string]any) store.MemoryEntry {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/memory/entries", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: %d %s", rec.Code, rec.Body.String())
	}
	var entry store.MemoryEntry
	decodeData(t, env, &entry)
	return entry
}

func TestMemoryEntryLifecycle(t *testing.T) {
	_, h := newTestServer(t)
	entry := createEntry(t, h, map[string]any{
		"type":     "fact",
		"content":  "water boils at 100C",
		"category": "science",
	})
	if entry.Priority != 3 {
		t.Fatalf("expected default priority 3, got %d", entry.Priority)
	}

	// Reads through the API count as accesses.
	rec, env := doJSON(t, h, http.MethodGet, "/api/memory/entries/"+entry.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get entry: %d", rec.Code)
	}
	decodeData(t, env, &entry)
	if entry.AccessCount != 1 || entry.LastAccessed == nil {
		t.Fatalf("access not recorded: count=%d", entry.AccessCount)
	}

	rec, env = doJSON(t, h, http.MethodPut, "/api/memory/entries/"+entry.ID, map[string]any{
		"priority": 5,
	})
	decodeData(t, env, &entry)
	if entry.Priority != 5 || entry.Content != "water boils at 100C" {
		t.Fatalf("partial update wrong: %+v", entry)
	}

	rec, env = doJSON(t, h, http.MethodDelete, "/api/memory/entries/"+entry.ID, nil)
	if rec.Code != http.StatusOK || env.Message == "" {
		t.Fatalf("delete entry: %d %+v", rec.Code, env)
	}
}

func TestMemorySearchResponseShape(t *testing.T) {
	_, h := newTestServer(t)
	createEntry(t, h, map[string]any{
		"type": "fact", "content": "go channels synchronize goroutines", "category": "golang",
	})

	rec, env := doJSON(t, h, http.MethodGet, "/api/memory/search?query=channels", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Results []struct {
			Entry   store.MemoryEntry `json:"entry"`
			Score   float64           `json:"score"`
			Matches []struct {
				Field   string `json:"field"`
				Snippet string `json:"snippet"`
			} `json:"matches"`
		} `json:"results"`
		Total int    `json:"total"`
		Query string `json:"query"`
	}
	decodeData(t, env, &data)
	if data.Total != 1 || data.Query != "channels" {
		t.Fatalf("unexpected search response: %+v", data)
	}
	if len(data.Results[0].Matches) != 1 || data.Results[0].Matches[0].Field != "content" {
		t.Fatalf("unexpected matches: %+v", data.Results[0].Matches)
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/api/memory/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing query: expected 400, got %d", rec.Code)
	}
}

func TestMemoryStatsTopTags(t *testing.T) {
	_, h := newTestServer(t)
	createEntry(t, h, map[string]any{
		"type": "fact", "content": "a", "category": "ops", "tags": []string{"Deploy", "ci"},
	})
	createEntry(t, h, map[string]any{
		"type": "fact", "content": "b", "category": "ops", "tags": []string{"deploy"},
	})

	rec, env := doJSON(t, h, http.MethodGet, "/api/memory/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d", rec.Code)
	}
	var data struct {
		TotalEntries int `json:"totalEntries"`
		TopTags      []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"topTags"`
	}
	decodeData(t, env, &data)
	if data.TotalEntries != 2 {
		t.Fatalf("expected 2 entries, got %d", data.TotalEntries)
	}
	if len(data.TopTags) != 2 || data.TopTags[0].Tag != "deploy" || data.TopTags[0].Count != 2 {
		t.Fatalf("tags not lowercased and counted: %+v", data.TopTags)
	}
}

func TestListEntriesFiltersAndSorts(t *testing.T) {
	_, h := newTestServer(t)
	createEntry(t, h, map[string]any{
		"type": "fact", "content": "a", "category": "ops", "priority": 1,
	})
	top := createEntry(t, h, map[string]any{
		"type": "instruction", "content": "b", "category": "ops", "priority": 5,
	})
	createEntry(t, h, map[string]any{
		"type": "preference", "content": "c", "category": "ui", "priority": 2,
	})

	rec, env := doJSON(t, h, http.MethodGet, "/api/memory/entries?category=ops&sortBy=priority&sortOrder=desc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list entries: %d", rec.Code)
	}
	var data struct {
		Entries    []store.MemoryEntry `json:"entries"`
		Total      int                 `json:"total"`
		Categories []string            `json:"categories"`
	}
	decodeData(t, env, &data)
	if data.Total != 2 || data.Entries[0].ID != top.ID {
		t.Fatalf("filter or sort wrong: %+v", data)
	}
	if len(data.Categories) != 2 {
		t.Fatalf("expected all categories listed, got %v", data.Categories)
	}
}

func TestSystemMetrics(t *testing.T) {
	_, h := newTestServer(t)
	createAgent(t, h)
	createEntry(t, h, map[string]any{"type": "fact", "content": "a", "category": "ops"})
	createTool(t, h, map[string]any{"name": "t", "category": "misc"})

	rec, env := doJSON(t, h, http.MethodGet, "/api/agents/system-metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("system metrics: %d", rec.Code)
	}
	var data struct {
		Agents map[string]int `json:"agents"`
		Memory struct {
			TotalEntries int `json:"totalEntries"`
		} `json:"memory"`
		MCP struct {
			ActiveTools int `json:"activeTools"`
		} `json:"mcp"`
	}
	decodeData(t, env, &data)
	if data.Agents["total"] != 1 || data.Agents["offline"] != 1 {
		t.Fatalf("agent metrics wrong: %+v", data.Agents)
	}
	if data.Memory.TotalEntries != 1 || data.MCP.ActiveTools != 1 {
		t.Fatalf("metrics wrong: %+v", data)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var data struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	decodeData(t, env, &data)
	if data.Name != "agentdeck" || data.Version != "test" {
		t.Fatalf("unexpected status: %+v", data)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/agents", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestInvalidJSONBody(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/agents", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", rec.Code)
	}
}
