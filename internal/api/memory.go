package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agentdeck/agentdeck/internal/store"
)

const snippetLength = 200

type createEntryRequest struct {
	Type     store.MemoryType `json:"type"`
	Content  string           `json:"content"`
	Tags     []string         `json:"tags"`
	Category string           `json:"category"`
	Source   string           `json:"source"`
	Priority *int             `json:"priority"`
}

func (req *createEntryRequest) validate() error {
	if !store.ValidMemoryType(req.Type) {
		return fieldErr("type", "must be one of fact, preference, context, instruction, conversation")
	}
	if err := checkRequired("content", req.Content); err != nil {
		return err
	}
	if err := checkLen("content", req.Content, maxMemoryContentLen); err != nil {
		return err
	}
	if err := checkRequired("category", req.Category); err != nil {
		return err
	}
	if err := checkLen("category", req.Category, maxNameLength); err != nil {
		return err
	}
	if err := validateTags(req.Tags); err != nil {
		return err
	}
	if req.Priority != nil && (*req.Priority < minPriority || *req.Priority > maxPriority) {
		return fieldErr("priority", "must be between %d and %d", minPriority, maxPriority)
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return fieldErr("tags", "must have at most %d entries", maxTags)
	}
	for _, tag := range tags {
		if tag == "" {
			return fieldErr("tags", "must not contain empty tags")
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return fieldErr("tags", "entries must be at most %d characters", maxTagLength)
		}
	}
	return nil
}

type updateEntryRequest struct {
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Category *string   `json:"category"`
	Priority *int      `json:"priority"`
}

func (req *updateEntryRequest) validate() error {
	if req.Content != nil {
		if err := checkRequired("content", *req.Content); err != nil {
			return err
		}
		if err := checkLen("content", *req.Content, maxMemoryContentLen); err != nil {
			return err
		}
	}
	if req.Tags != nil {
		if err := validateTags(*req.Tags); err != nil {
			return err
		}
	}
	if req.Category != nil {
		if err := checkRequired("category", *req.Category); err != nil {
			return err
		}
		if err := checkLen("category", *req.Category, maxNameLength); err != nil {
			return err
		}
	}
	if req.Priority != nil && (*req.Priority < minPriority || *req.Priority > maxPriority) {
		return fieldErr("priority", "must be between %d and %d", minPriority, maxPriority)
	}
	return nil
}

// GET /api/memory/entries
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r, s.cfg.Limits.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := parseOffset(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	category := q.Get("category")
	entryType := store.MemoryType(q.Get("type"))
	var tags []string
	if raw := q.Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, strings.ToLower(t))
			}
		}
	}

	all := s.store.Memory.GetAll()
	categories := map[string]struct{}{}
	entries := all[:0]
	for _, e := range all {
		categories[e.Category] = struct{}{}
		if category != "" && !strings.Contains(e.Category, category) {
			continue
		}
		if entryType != "" && e.Type != entryType {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(e.Tags, tags) {
			continue
		}
		entries = append(entries, e)
	}

	sortEntries(entries, q.Get("sortBy"), q.Get("sortOrder"))

	total := len(entries)
	if offset >= len(entries) {
		entries = entries[:0]
	} else {
		entries = entries[offset:]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	catList := make([]string, 0, len(categories))
	for c := range categories {
		catList = append(catList, c)
	}
	sort.Strings(catList)

	respond(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"total":      total,
		"hasMore":    offset+limit < total,
		"categories": catList,
	})
}

// hasAnyTag matches requested tags as case-insensitive substrings of the
// entry's tags.
func hasAnyTag(entryTags, want []string) bool {
	for _, t := range entryTags {
		lower := strings.ToLower(t)
		for _, w := range want {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

func sortEntries(entries []store.MemoryEntry, sortBy, sortOrder string) {
	asc := sortOrder == "asc"
	less := func(a, b store.MemoryEntry) bool {
		switch sortBy {
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		case "priority":
			return a.Priority < b.Priority
		case "accessCount":
			return a.AccessCount < b.AccessCount
		default:
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return less(entries[i], entries[j])
		}
		return less(entries[j], entries[i])
	})
}

// POST /api/memory/entries
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	priority := 3
	if req.Priority != nil {
		priority = *req.Priority
	}
	entry, err := s.store.Memory.Create(store.MemoryEntry{
		Type:     req.Type,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
		Source:   req.Source,
		Priority: priority,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

// GET /api/memory/entries/{entryId}
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	entry, found, err := s.store.Memory.RecordAccess(id)
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "memory entry not found")
		return
	}
	respond(w, http.StatusOK, entry)
}

// PUT /api/memory/entries/{entryId}
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	var req updateEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, found, err := s.store.Memory.Update(id, store.MemoryUpdate{
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "memory entry not found")
		return
	}
	respond(w, http.StatusOK, entry)
}

// DELETE /api/memory/entries/{entryId}
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	deleted, err := s.store.Memory.Delete(id)
	if err != nil {
		respondStorageFault(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "memory entry not found")
		return
	}
	respondMessage(w, http.StatusOK, "memory entry deleted")
}

// GET /api/memory/search
func (s *Server) handleSearchMemory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if err := checkLen("query", query, maxSearchQueryLength); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := s.cfg.Limits.DefaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > s.cfg.Limits.MaxSearchLimit {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", s.cfg.Limits.MaxSearchLimit))
			return
		}
		limit = parsed
	}
	minPri := 0
	if raw := q.Get("minPriority"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minPriority || parsed > maxPriority {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("minPriority must be between %d and %d", minPriority, maxPriority))
			return
		}
		minPri = parsed
	}

	start := time.Now()
	entries := s.store.Memory.Search(query, store.SearchOptions{
		Category:    q.Get("category"),
		Type:        store.MemoryType(q.Get("type")),
		MinPriority: minPri,
		Limit:       limit,
	})
	elapsed := time.Since(start)

	results := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		results = append(results, map[string]any{
			"entry": e,
			"score": 1,
			"matches": []map[string]any{
				{"field": "content", "snippet": snippet(e.Content)},
			},
		})
	}
	respond(w, http.StatusOK, map[string]any{
		"results":    results,
		"total":      len(results),
		"query":      query,
		"searchTime": elapsed.Milliseconds(),
	})
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}

// GET /api/memory/stats
func (s *Server) handleMemoryStats(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Memory.Stats()

	tagCounts := map[string]int{}
	for _, e := range s.store.Memory.GetAll() {
		for _, t := range e.Tags {
			tagCounts[strings.ToLower(t)]++
		}
	}
	type tagCount struct {
		Tag   string `json:"tag"`
		Count int    `json:"count"`
	}
	topTags := make([]tagCount, 0, len(tagCounts))
	for t, c := range tagCounts {
		topTags = append(topTags, tagCount{Tag: t, Count: c})
	}
	sort.Slice(topTags, func(i, j int) bool {
		if topTags[i].Count != topTags[j].Count {
			return topTags[i].Count > topTags[j].Count
		}
		return topTags[i].Tag < topTags[j].Tag
	})
	if len(topTags) > 10 {
		topTags = topTags[:10]
	}

	respond(w, http.StatusOK, map[string]any{
		"totalEntries":       stats.TotalEntries,
		"totalSize":          stats.TotalSize,
		"categoryBreakdown":  stats.CategoryBreakdown,
		"typeBreakdown":      stats.TypeBreakdown,
		"averageAccessCount": stats.AverageAccessCount,
		"topTags":            topTags,
	})
}
