package store

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// previewLength is how much of a message's content is cached on the owning
// session as its last-message preview.
const previewLength = 100

// MessageStore persists chat messages, one document per owning session.
// Appends also bump the session's message count and preview; the two writes
// are sequential and independently failable, so the cached count can drift if
// the second write fails (surfaced to the caller as an error either way).
type MessageStore struct {
	dir      string
	sessions *SessionStore
	mu       sync.Mutex
}

// GetBySession returns up to limit messages for one session, newest first,
// optionally only those strictly before the given time.
func (s *MessageStore) GetBySession(sessionID string, limit int, before *time.Time) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := readCollection[ChatMessage](s.messagePath(sessionID))
	if before != nil {
		filtered := messages[:0]
		for _, m := range messages {
			if m.Timestamp.Before(*before) {
				filtered = append(filtered, m)
			}
		}
		messages = filtered
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages
}

// Create appends a message to its session's document, then updates the owning
// session's message count and last-message preview.
func (s *MessageStore) Create(msg ChatMessage) (ChatMessage, error) {
	s.mu.Lock()
	path := s.messagePath(msg.SessionID)
	messages := readCollection[ChatMessage](path)
	msg.ID = uuid.NewString()
	msg.Timestamp = now().UTC()
	messages = append(messages, msg)
	if err := writeCollection(path, messages); err != nil {
		s.mu.Unlock()
		return ChatMessage{}, err
	}
	s.mu.Unlock()

	if sess, ok := s.sessions.GetByID(msg.SessionID); ok {
		count := sess.MessageCount + 1
		preview := msg.Content
		if runes := []rune(preview); len(runes) > previewLength {
			preview = string(runes[:previewLength])
		}
		if _, _, err := s.sessions.Update(msg.SessionID, SessionUpdate{
			MessageCount: &count,
			LastMessage:  &preview,
		}); err != nil {
			return ChatMessage{}, err
		}
	}
	return msg, nil
}

func (s *MessageStore) messagePath(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}
