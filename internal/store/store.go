package store

import (
	"path/filepath"
	"time"
)

// Store bundles the per-collection stores over one data directory. Every
// collection is a single JSON array document; chat messages get one document
// per owning session and access logs one document per UTC day.
type Store struct {
	Agents   *AgentStore
	Sessions *SessionStore
	Messages *MessageStore
	Memory   *MemoryStore
	Tools    *ToolStore
	Logs     *AccessLogStore
}

// Open wires the stores for the given data root. The directory tree is
// created lazily on first read or write, so Open never touches the disk.
func Open(dataDir string) *Store {
	sessions := &SessionStore{
		path:        filepath.Join(dataDir, "chat", "sessions.json"),
		messagesDir: filepath.Join(dataDir, "chat", "messages"),
	}
	return &Store{
		Agents:   &AgentStore{path: filepath.Join(dataDir, "agents", "agents.json")},
		Sessions: sessions,
		Messages: &MessageStore{dir: filepath.Join(dataDir, "chat", "messages"), sessions: sessions},
		Memory:   &MemoryStore{path: filepath.Join(dataDir, "memory", "entries.json")},
		Tools:    &ToolStore{path: filepath.Join(dataDir, "mcp", "tools.json")},
		Logs:     &AccessLogStore{dir: filepath.Join(dataDir, "logs")},
	}
}

// now is stubbed in tests that pin timestamps.
var now = time.Now
