package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized matches any APIError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the reporting API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reporting api: status %d: %s", e.StatusCode, e.Detail)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: extractDetail(status, body)}
}

// extractDetail picks the human-readable message out of an error body:
// "detail", then "message", then every field error as "field: a, b | other: c".
func extractDetail(status int, body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		if s := strings.TrimSpace(string(body)); s != "" && len(s) <= 200 {
			return s
		}
		return http.StatusText(status)
	}

	for _, key := range []string{"detail", "message"} {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+flatten(fields[k]))
	}
	if len(parts) == 0 {
		return http.StatusText(status)
	}
	return strings.Join(parts, " | ")
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		items := make([]string, len(t))
		for i, item := range t {
			items[i] = flatten(item)
		}
		return strings.Join(items, ", ")
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
