package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field bounds carried over from the dashboard's public contract.
const (
	maxNameLength         = 100
	maxDescriptionLength  = 500
	maxMessageLength      = 50000
	maxMemoryContentLen   = 10000
	maxSystemPromptLength = 10000
	maxTags               = 20
	maxTagLength          = 50
	maxSearchQueryLength  = 500
	minPriority           = 1
	maxPriority           = 5
	maxModelTokens        = 100000
	maxRateLimitRPM       = 10000
	maxMemorySize         = 10000
	maxExecuteTimeout     = 300
	defaultExecuteTimeout = 30
)

// fieldErr produces the field-qualified validation message surfaced in 400
// responses.
func fieldErr(field, format string, args ...any) error {
	return fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...))
}

func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fieldErr(field, "must be at most %d characters", max)
	}
	return nil
}

func checkRequired(field, value string) error {
	if value == "" {
		return fieldErr(field, "is required")
	}
	return nil
}

// pathID extracts and validates a uuid path segment. Malformed ids short-
// circuit with a 400 before any store access.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s format", name))
		return "", false
	}
	return id, true
}

// validUUID reports whether v parses as a uuid.
func validUUID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

// queryUUID validates a uuid query parameter when present.
func queryUUID(w http.ResponseWriter, r *http.Request, name string, required bool) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		if required {
			respondError(w, http.StatusBadRequest, name+" is required")
			return "", false
		}
		return "", true
	}
	if _, err := uuid.Parse(v); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s format", name))
		return "", false
	}
	return v, true
}

// decodeBody parses a JSON request body into dst, rejecting bodies that are
// not valid JSON with a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "request body unreadable")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// parseLimit reads and bounds the limit query parameter.
func (s *Server) parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > s.cfg.Limits.MaxPageSize {
		return 0, fmt.Errorf("limit must be between 1 and %d", s.cfg.Limits.MaxPageSize)
	}
	return limit, nil
}

// parseOffset reads the offset query parameter.
func parseOffset(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("offset must be a non-negative integer")
	}
	return offset, nil
}

// parseTime reads an RFC3339 query parameter when present.
func parseTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC3339 timestamp", name)
	}
	return &t, nil
}
