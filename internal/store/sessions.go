package store

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// SessionStore persists chat sessions. Each session also owns a separate
// message document under messagesDir; deleting a session unlinks it.
type SessionStore struct {
	path        string
	messagesDir string
	mu          sync.Mutex
}

// SessionUpdate holds the fields a session update may change.
type SessionUpdate struct {
	Name         *string
	IsActive     *bool
	MessageCount *int
	LastMessage  *string
}

// GetAll returns every session in document order.
func (s *SessionStore) GetAll() []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[ChatSession](s.path)
}

// GetByID returns the session with the given id.
func (s *SessionStore) GetByID(id string) (ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range readCollection[ChatSession](s.path) {
		if sess.ID == id {
			return sess, true
		}
	}
	return ChatSession{}, false
}

// Create appends a new session with a fresh id, current timestamps and a
// zero message count.
func (s *SessionStore) Create(sess ChatSession) (ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := readCollection[ChatSession](s.path)
	t := now().UTC()
	sess.ID = uuid.NewString()
	sess.CreatedAt = t
	sess.UpdatedAt = t
	sess.MessageCount = 0
	sessions = append(sessions, sess)
	if err := writeCollection(s.path, sessions); err != nil {
		return ChatSession{}, err
	}
	return sess, nil
}

// Update merges the provided fields over the stored session and stamps
// UpdatedAt. Returns false when the id is unknown.
func (s *SessionStore) Update(id string, upd SessionUpdate) (ChatSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := readCollection[ChatSession](s.path)
	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		if upd.Name != nil {
			sessions[i].Name = *upd.Name
		}
		if upd.IsActive != nil {
			sessions[i].IsActive = *upd.IsActive
		}
		if upd.MessageCount != nil {
			sessions[i].MessageCount = *upd.MessageCount
		}
		if upd.LastMessage != nil {
			sessions[i].LastMessage = *upd.LastMessage
		}
		sessions[i].UpdatedAt = now().UTC()
		if err := writeCollection(s.path, sessions); err != nil {
			return ChatSession{}, false, err
		}
		return sessions[i], true, nil
	}
	return ChatSession{}, false, nil
}

// Delete removes a session and best-effort unlinks its message document.
// Returns false when the id is unknown.
func (s *SessionStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := readCollection[ChatSession](s.path)
	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	if len(kept) == len(sessions) {
		return false, nil
	}
	if err := writeCollection(s.path, kept); err != nil {
		return false, err
	}
	// The message document may never have been written.
	os.Remove(s.messagePath(id))
	return true, nil
}

// DeleteAll clears the session collection and unlinks every message document.
// Returns the number of sessions removed.
func (s *SessionStore) DeleteAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := readCollection[ChatSession](s.path)
	if len(sessions) == 0 {
		return 0, nil
	}
	if err := writeCollection(s.path, []ChatSession{}); err != nil {
		return 0, err
	}
	for _, sess := range sessions {
		os.Remove(s.messagePath(sess.ID))
	}
	return len(sessions), nil
}

// GetPaginated lists sessions sorted by UpdatedAt descending, optionally
// filtered to one agent.
func (s *SessionStore) GetPaginated(limit, offset int, agentID string) Page[ChatSession] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := readCollection[ChatSession](s.path)
	if agentID != "" {
		filtered := sessions[:0]
		for _, sess := range sessions {
			if sess.AgentID == agentID {
				filtered = append(filtered, sess)
			}
		}
		sessions = filtered
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return paginate(sessions, limit, offset)
}

func (s *SessionStore) messagePath(id string) string {
	return filepath.Join(s.messagesDir, id+".json")
}

// paginate slices a pre-sorted collection into a page.
func paginate[T any](items []T, limit, offset int) Page[T] {
	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]T, end-offset)
	copy(page, items[offset:end])
	return Page[T]{
		Items:   page,
		Total:   total,
		HasMore: offset+limit < total,
		Offset:  offset,
		Limit:   limit,
	}
}
