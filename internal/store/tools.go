package store

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// ToolStore persists tool definitions in a single collection document.
type ToolStore struct {
	path string
	mu   sync.Mutex
}

// ToolUpdate holds the fields a tool update may change.
type ToolUpdate struct {
	Description *string
	IsActive    *bool
	Permissions *[]string
}

// GetAll returns every registered tool in document order.
func (s *ToolStore) GetAll() []MCPTool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[MCPTool](s.path)
}

// GetByID returns the tool with the given id.
func (s *ToolStore) GetByID(id string) (MCPTool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range readCollection[MCPTool](s.path) {
		if t.ID == id {
			return t, true
		}
	}
	return MCPTool{}, false
}

// Create registers a new tool with a fresh id and zeroed usage statistics.
// A tool that has never run reports a success rate of 1.
func (s *ToolStore) Create(t MCPTool) (MCPTool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tools := readCollection[MCPTool](s.path)
	t.ID = uuid.NewString()
	t.UsageStats = ToolUsageStats{SuccessRate: 1}
	if t.Parameters == nil {
		t.Parameters = []ToolParameter{}
	}
	if t.Permissions == nil {
		t.Permissions = []string{}
	}
	tools = append(tools, t)
	if err := writeCollection(s.path, tools); err != nil {
		return MCPTool{}, err
	}
	return t, nil
}

// Update merges the provided fields over the stored tool. Returns false when
// the id is unknown.
func (s *ToolStore) Update(id string, upd ToolUpdate) (MCPTool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tools := readCollection[MCPTool](s.path)
	for i := range tools {
		if tools[i].ID != id {
			continue
		}
		if upd.Description != nil {
			tools[i].Description = *upd.Description
		}
		if upd.IsActive != nil {
			tools[i].IsActive = *upd.IsActive
		}
		if upd.Permissions != nil {
			tools[i].Permissions = *upd.Permissions
		}
		if err := writeCollection(s.path, tools); err != nil {
			return MCPTool{}, false, err
		}
		return tools[i], true, nil
	}
	return MCPTool{}, false, nil
}

// Delete removes a tool by id. Returns false when the id is unknown.
func (s *ToolStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tools := readCollection[MCPTool](s.path)
	kept := tools[:0]
	for _, t := range tools {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tools) {
		return false, nil
	}
	if err := writeCollection(s.path, kept); err != nil {
		return false, err
	}
	return true, nil
}

// RecordExecution folds one execution into the tool's running statistics:
// the new average is the count-weighted mean, and the success rate is
// recovered as a success count (rounded) before adding this run's outcome.
// Unknown ids are ignored.
func (s *ToolStore) RecordExecution(id string, durationMs float64, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tools := readCollection[MCPTool](s.path)
	for i := range tools {
		if tools[i].ID != id {
			continue
		}
		stats := tools[i].UsageStats
		oldCount := float64(stats.TotalExecutions)
		newCount := stats.TotalExecutions + 1
		successes := math.Round(stats.SuccessRate * oldCount)
		if success {
			successes++
		}
		tools[i].UsageStats = ToolUsageStats{
			TotalExecutions:      newCount,
			AverageExecutionTime: (stats.AverageExecutionTime*oldCount + durationMs) / float64(newCount),
			SuccessRate:          successes / float64(newCount),
		}
		t := now().UTC()
		tools[i].LastUsed = &t
		return writeCollection(s.path, tools)
	}
	return nil
}
