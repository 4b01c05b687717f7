package store

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AccessLogStore persists append-only audit records, rotated into one
// document per UTC calendar day. Documents are created lazily on first
// append.
type AccessLogStore struct {
	dir string
	mu  sync.Mutex
}

// Create appends a log record to the current day's document.
func (s *AccessLogStore) Create(l AccessLog) (AccessLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := now().UTC()
	path := s.dayPath(t)
	logs := readCollection[AccessLog](path)
	l.ID = uuid.NewString()
	l.Timestamp = t
	logs = append(logs, l)
	if err := writeCollection(path, logs); err != nil {
		return AccessLog{}, err
	}
	return l, nil
}

// GetByAgent returns up to limit records for one agent, newest first,
// optionally only those at or after since. Only the current day's document is
// consulted; prior days are not merged.
func (s *AccessLogStore) GetByAgent(agentID string, limit int, since *time.Time) []AccessLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := readCollection[AccessLog](s.dayPath(now().UTC()))
	filtered := logs[:0]
	for _, l := range logs {
		if l.AgentID != agentID {
			continue
		}
		if since != nil && l.Timestamp.Before(*since) {
			continue
		}
		filtered = append(filtered, l)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func (s *AccessLogStore) dayPath(t time.Time) string {
	return filepath.Join(s.dir, "access-"+t.Format("2006-01-02")+".json")
}
