// Package store provides the flat-file record stores backing the dashboard:
// one JSON array document per collection, plus one document per chat session
// for its messages and one document per UTC day for access logs.
package store

import "time"

// AgentStatus is the lifecycle state of a registered agent.
type AgentStatus string

const (
	AgentOnline      AgentStatus = "online"
	AgentOffline     AgentStatus = "offline"
	AgentError       AgentStatus = "error"
	AgentMaintenance AgentStatus = "maintenance"
)

// ValidAgentStatus reports whether s is a known agent status.
func ValidAgentStatus(s AgentStatus) bool {
	switch s {
	case AgentOnline, AgentOffline, AgentError, AgentMaintenance:
		return true
	}
	return false
}

// PermissionLevel controls an agent's access to the memory store.
type PermissionLevel string

const (
	PermissionNone  PermissionLevel = "none"
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionAdmin PermissionLevel = "admin"
)

// ValidPermissionLevel reports whether p is a known permission level.
func ValidPermissionLevel(p PermissionLevel) bool {
	switch p {
	case PermissionNone, PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

// AgentPermissions is the per-agent access control block.
type AgentPermissions struct {
	MemoryAccess  PermissionLevel `json:"memoryAccess"`
	ToolAccess    []string        `json:"toolAccess"`
	RateLimitRPM  int             `json:"rateLimitRpm"`
	MaxMemorySize int             `json:"maxMemorySize"`
}

// AgentConfig is the model configuration an agent runs with.
type AgentConfig struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
}

// AgentMetrics tracks request-level statistics for an agent.
type AgentMetrics struct {
	TotalRequests       int     `json:"totalRequests"`
	AverageResponseTime float64 `json:"averageResponseTime"`
	ErrorRate           float64 `json:"errorRate"`
	Uptime              float64 `json:"uptime"`
}

// Agent is a registered AI agent.
type Agent struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Status        AgentStatus      `json:"status"`
	Permissions   AgentPermissions `json:"permissions"`
	Configuration AgentConfig      `json:"configuration"`
	Metrics       AgentMetrics     `json:"metrics"`
	LastSeen      *time.Time       `json:"lastSeen,omitempty"`
}

// ChatSession is a named conversation owned by one agent. MessageCount and
// LastMessage are maintained as a side effect of appending messages.
type ChatSession struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agentId"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	IsActive     bool      `json:"isActive"`
	MessageCount int       `json:"messageCount"`
	LastMessage  string    `json:"lastMessage,omitempty"`
}

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ValidMessageRole reports whether r is a known message role.
func ValidMessageRole(r MessageRole) bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// FileAttachment describes a file attached to a chat message.
type FileAttachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Path     string `json:"path"`
}

// MessageMetadata carries optional generation details for a message.
type MessageMetadata struct {
	ProcessingTime float64 `json:"processingTime,omitempty"`
	TokenCount     int     `json:"tokenCount,omitempty"`
	ModelUsed      string  `json:"modelUsed,omitempty"`
}

// ChatMessage is one message in a session. Messages are immutable after
// creation; there is no update operation.
type ChatMessage struct {
	ID          string           `json:"id"`
	SessionID   string           `json:"sessionId"`
	Role        MessageRole      `json:"role"`
	Content     string           `json:"content"`
	Timestamp   time.Time        `json:"timestamp"`
	Attachments []FileAttachment `json:"attachments,omitempty"`
	Metadata    *MessageMetadata `json:"metadata,omitempty"`
}

// MemoryType classifies a memory entry.
type MemoryType string

const (
	MemoryFact         MemoryType = "fact"
	MemoryPreference   MemoryType = "preference"
	MemoryContext      MemoryType = "context"
	MemoryInstruction  MemoryType = "instruction"
	MemoryConversation MemoryType = "conversation"
)

// ValidMemoryType reports whether t is a known memory type.
func ValidMemoryType(t MemoryType) bool {
	switch t {
	case MemoryFact, MemoryPreference, MemoryContext, MemoryInstruction, MemoryConversation:
		return true
	}
	return false
}

// MemoryEntry is a single record in the knowledge store. AccessCount and
// LastAccessed are bumped through RecordAccess, not plain reads.
type MemoryEntry struct {
	ID           string     `json:"id"`
	Type         MemoryType `json:"type"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
	Category     string     `json:"category"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	AccessCount  int        `json:"accessCount"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	Source       string     `json:"source,omitempty"`
	Priority     int        `json:"priority"`
}

// ParameterType is the declared type of a tool parameter.
type ParameterType string

const (
	ParamString  ParameterType = "string"
	ParamNumber  ParameterType = "number"
	ParamBoolean ParameterType = "boolean"
	ParamArray   ParameterType = "array"
	ParamObject  ParameterType = "object"
)

// ValidParameterType reports whether t is a known parameter type.
func ValidParameterType(t ParameterType) bool {
	switch t {
	case ParamString, ParamNumber, ParamBoolean, ParamArray, ParamObject:
		return true
	}
	return false
}

// ParameterValidation holds optional constraints on a tool parameter value.
type ParameterValidation struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// ToolParameter is one typed parameter in a tool definition.
type ToolParameter struct {
	Name         string               `json:"name"`
	Type         ParameterType        `json:"type"`
	Required     bool                 `json:"required"`
	Description  string               `json:"description"`
	DefaultValue any                  `json:"defaultValue,omitempty"`
	Validation   *ParameterValidation `json:"validation,omitempty"`
}

// ToolUsageStats is the running execution statistics for a tool.
type ToolUsageStats struct {
	TotalExecutions      int     `json:"totalExecutions"`
	SuccessRate          float64 `json:"successRate"`
	AverageExecutionTime float64 `json:"averageExecutionTime"`
}

// MCPTool is a registered tool definition in the invocation registry.
type MCPTool struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Parameters  []ToolParameter `json:"parameters"`
	Permissions []string        `json:"permissions"`
	IsActive    bool            `json:"isActive"`
	UsageStats  ToolUsageStats  `json:"usageStats"`
	LastUsed    *time.Time      `json:"lastUsed,omitempty"`
}

// LogOperation is the action recorded by an access log entry.
type LogOperation string

const (
	OpRead    LogOperation = "read"
	OpWrite   LogOperation = "write"
	OpDelete  LogOperation = "delete"
	OpSearch  LogOperation = "search"
	OpExecute LogOperation = "execute"
)

// LogStatus is the outcome recorded by an access log entry.
type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
	LogTimeout LogStatus = "timeout"
	LogDenied  LogStatus = "denied"
)

// LogDetails carries optional structured context for an access log entry.
type LogDetails struct {
	Query        string         `json:"query,omitempty"`
	ResultCount  int            `json:"resultCount,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// AccessLog is one append-only audit record.
type AccessLog struct {
	ID           string       `json:"id"`
	Timestamp    time.Time    `json:"timestamp"`
	AgentID      string       `json:"agentId"`
	Operation    LogOperation `json:"operation"`
	Resource     string       `json:"resource"`
	ResourceID   string       `json:"resourceId"`
	ResponseTime float64      `json:"responseTime"`
	Status       LogStatus    `json:"status"`
	Details      *LogDetails  `json:"details,omitempty"`
}

// Page is the result of a paginated listing.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
}
