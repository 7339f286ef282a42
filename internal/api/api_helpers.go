package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/loggate/loggate/internal/store"
)

// DecodeBody decodes the JSON request body into v. Unknown fields are
// tolerated; senders routinely attach extra metadata.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseLimitQuery reads the limit parameter. Absent or non-numeric
// values fall back to the default; the repo applies the upper cap.
func parseLimitQuery(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	return n
}

// parseIntQuery reads an optional integer parameter. Returns nil when
// absent or non-numeric (lenient: an unparsable filter is ignored).
func parseIntQuery(r *http.Request, key string) *int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parseTimeQuery reads an optional timestamp parameter. RFC3339 and the
// store's own layout are accepted; anything else is ignored.
func parseTimeQuery(r *http.Request, key string) time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse(store.TimeLayout, v); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
