package store

import (
	"sync"

	"github.com/google/uuid"
)

// AgentStore persists registered agents in a single collection document.
type AgentStore struct {
	path string
	mu   sync.Mutex
}

// AgentUpdate holds the fields an agent update may change. Nil fields are
// left untouched.
type AgentUpdate struct {
	Name          *string
	Description   *string
	Status        *AgentStatus
	Configuration *AgentConfig
	Permissions   *AgentPermissions
	Metrics       *AgentMetrics
}

// GetAll returns every registered agent in document order.
func (s *AgentStore) GetAll() []Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[Agent](s.path)
}

// GetByID returns the agent with the given id. This is a pure read; the
// last-seen stamp is bumped separately through TouchLastSeen.
func (s *AgentStore) GetByID(id string) (Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range readCollection[Agent](s.path) {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// TouchLastSeen stamps the agent's last-seen time to now and persists it.
// Unknown ids are ignored.
func (s *AgentStore) TouchLastSeen(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	agents := readCollection[Agent](s.path)
	for i := range agents {
		if agents[i].ID == id {
			t := now().UTC()
			agents[i].LastSeen = &t
			return writeCollection(s.path, agents)
		}
	}
	return nil
}

// Create registers a new agent with a fresh id, zeroed metrics and a
// last-seen stamp of now.
func (s *AgentStore) Create(a Agent) (Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agents := readCollection[Agent](s.path)
	t := now().UTC()
	a.ID = uuid.NewString()
	a.Metrics = AgentMetrics{Uptime: 100}
	a.LastSeen = &t
	agents = append(agents, a)
	if err := writeCollection(s.path, agents); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// Update merges the provided fields over the stored agent. Returns false when
// the id is unknown.
func (s *AgentStore) Update(id string, upd AgentUpdate) (Agent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agents := readCollection[Agent](s.path)
	for i := range agents {
		if agents[i].ID != id {
			continue
		}
		if upd.Name != nil {
			agents[i].Name = *upd.Name
		}
		if upd.Description != nil {
			agents[i].Description = *upd.Description
		}
		if upd.Status != nil {
			agents[i].Status = *upd.Status
		}
		if upd.Configuration != nil {
			agents[i].Configuration = *upd.Configuration
		}
		if upd.Permissions != nil {
			agents[i].Permissions = *upd.Permissions
		}
		if upd.Metrics != nil {
			agents[i].Metrics = *upd.Metrics
		}
		if err := writeCollection(s.path, agents); err != nil {
			return Agent{}, false, err
		}
		return agents[i], true, nil
	}
	return Agent{}, false, nil
}

// Delete removes an agent by id. Returns false when the id is unknown; there
// is no cascade to sessions or logs.
func (s *AgentStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agents := readCollection[Agent](s.path)
	kept := agents[:0]
	for _, a := range agents {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(agents) {
		return false, nil
	}
	if err := writeCollection(s.path, kept); err != nil {
		return false, err
	}
	return true, nil
}
