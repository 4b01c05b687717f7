package store

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MemoryStore persists knowledge-store entries in a single collection
// document.
type MemoryStore struct {
	path string
	mu   sync.Mutex
}

// MemoryUpdate holds the fields a memory-entry update may change.
type MemoryUpdate struct {
	Content  *string
	Tags     *[]string
	Category *string
	Priority *int
}

// SearchOptions narrows a memory search.
type SearchOptions struct {
	Category    string
	Type        MemoryType
	MinPriority int
	Limit       int
}

// MemoryStats is the single-pass aggregation over the whole collection.
type MemoryStats struct {
	TotalEntries       int             `json:"totalEntries"`
	TotalSize          int             `json:"totalSize"`
	CategoryBreakdown  []CategoryCount `json:"categoryBreakdown"`
	TypeBreakdown      []TypeCount     `json:"typeBreakdown"`
	AverageAccessCount float64         `json:"averageAccessCount"`
}

// CategoryCount is one bucket of the per-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TypeCount is one bucket of the per-type breakdown.
type TypeCount struct {
	Type  MemoryType `json:"type"`
	Count int        `json:"count"`
}

// GetAll returns every memory entry in document order.
func (s *MemoryStore) GetAll() []MemoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[MemoryEntry](s.path)
}

// GetByID returns the entry with the given id. This is a pure read; access
// counting is done separately through RecordAccess.
func (s *MemoryStore) GetByID(id string) (MemoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range readCollection[MemoryEntry](s.path) {
		if e.ID == id {
			return e, true
		}
	}
	return MemoryEntry{}, false
}

// RecordAccess bumps the entry's access count and last-accessed stamp and
// returns the updated entry. Returns false when the id is unknown.
func (s *MemoryStore) RecordAccess(id string) (MemoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := readCollection[MemoryEntry](s.path)
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		t := now().UTC()
		entries[i].AccessCount++
		entries[i].LastAccessed = &t
		if err := writeCollection(s.path, entries); err != nil {
			return MemoryEntry{}, false, err
		}
		return entries[i], true, nil
	}
	return MemoryEntry{}, false, nil
}

// Create appends a new entry with a fresh id, current timestamps and a zero
// access count.
func (s *MemoryStore) Create(e MemoryEntry) (MemoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := readCollection[MemoryEntry](s.path)
	t := now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = t
	e.UpdatedAt = t
	e.AccessCount = 0
	if e.Tags == nil {
		e.Tags = []string{}
	}
	entries = append(entries, e)
	if err := writeCollection(s.path, entries); err != nil {
		return MemoryEntry{}, err
	}
	return e, nil
}

// Update merges the provided fields over the stored entry and stamps
// UpdatedAt. Returns false when the id is unknown.
func (s *MemoryStore) Update(id string, upd MemoryUpdate) (MemoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := readCollection[MemoryEntry](s.path)
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if upd.Content != nil {
			entries[i].Content = *upd.Content
		}
		if upd.Tags != nil {
			entries[i].Tags = *upd.Tags
		}
		if upd.Category != nil {
			entries[i].Category = *upd.Category
		}
		if upd.Priority != nil {
			entries[i].Priority = *upd.Priority
		}
		entries[i].UpdatedAt = now().UTC()
		if err := writeCollection(s.path, entries); err != nil {
			return MemoryEntry{}, false, err
		}
		return entries[i], true, nil
	}
	return MemoryEntry{}, false, nil
}

// Delete removes an entry by id. Returns false when the id is unknown.
func (s *MemoryStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := readCollection[MemoryEntry](s.path)
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	if err := writeCollection(s.path, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Search tokenizes the query on whitespace and keeps entries whose combined
// content, tags and category contain any token, ranked by the number of
// distinct tokens matched.
func (s *MemoryStore) Search(query string, opts SearchOptions) []MemoryEntry {
	s.mu.Lock()
	entries := readCollection[MemoryEntry](s.path)
	s.mu.Unlock()

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	filtered := entries[:0]
	for _, e := range entries {
		if opts.Category != "" && !strings.Contains(e.Category, opts.Category) {
			continue
		}
		if opts.Type != "" && e.Type != opts.Type {
			continue
		}
		if opts.MinPriority > 0 && e.Priority < opts.MinPriority {
			continue
		}
		filtered = append(filtered, e)
	}

	terms := strings.Fields(strings.ToLower(query))
	type scored struct {
		entry   MemoryEntry
		matches int
	}
	var results []scored
	for _, e := range filtered {
		text := searchText(e)
		matches := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				matches++
			}
		}
		if matches > 0 {
			results = append(results, scored{entry: e, matches: matches})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].matches > results[j].matches
	})
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]MemoryEntry, len(results))
	for i, r := range results {
		out[i] = r.entry
	}
	return out
}

// Stats aggregates the whole collection in one pass. TotalSize is the sum of
// content lengths in characters, not bytes.
func (s *MemoryStore) Stats() MemoryStats {
	s.mu.Lock()
	entries := readCollection[MemoryEntry](s.path)
	s.mu.Unlock()

	stats := MemoryStats{TotalEntries: len(entries)}
	categories := map[string]int{}
	types := map[MemoryType]int{}
	totalAccess := 0
	for _, e := range entries {
		stats.TotalSize += utf8.RuneCountInString(e.Content)
		categories[e.Category]++
		types[e.Type]++
		totalAccess += e.AccessCount
	}
	for category, count := range categories {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(stats.CategoryBreakdown, func(i, j int) bool {
		a, b := stats.CategoryBreakdown[i], stats.CategoryBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	for typ, count := range types {
		stats.TypeBreakdown = append(stats.TypeBreakdown, TypeCount{Type: typ, Count: count})
	}
	sort.Slice(stats.TypeBreakdown, func(i, j int) bool {
		a, b := stats.TypeBreakdown[i], stats.TypeBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})
	if len(entries) > 0 {
		stats.AverageAccessCount = float64(totalAccess) / float64(len(entries))
	}
	return stats
}

func searchText(e MemoryEntry) string {
	return strings.ToLower(e.Content + " " + strings.Join(e.Tags, " ") + " " + e.Category)
}
