package httputil

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	dErrors "warehouse/pkg/domain-errors"
)

// ParseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseTime(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}

// ParseOptionalTime parses raw when non-empty.
func ParseOptionalTime(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTime(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// QueryString returns a trimmed query parameter.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, key string) (*bool, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "%s must be true or false", key)
	}
	return &v, nil
}

// QueryTime parses an optional date query parameter.
func QueryTime(r *http.Request, key string) (*time.Time, error) {
	return ParseOptionalTime(key, QueryString(r, key))
}

// QueryEnum validates an optional query parameter against allowed values.
func QueryEnum(r *http.Request, key string, allowed ...string) (string, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return "", nil
	}
	for _, a := range allowed {
		if raw == a {
			return raw, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "%s must be one of: %s", key, strings.Join(allowed, ", "))
}
