package dto

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// ErrMalformed is returned for request bodies that do not have the expected
// shape.
var ErrMalformed = errors.New("malformed request")

// DateLayout is the layout of calendar dates such as temp_end_date.
const DateLayout = "2006-01-02"

// Fields is a decoded JSON object that keeps the difference between an absent
// key, an explicit null and a value.
type Fields map[string]json.RawMessage

func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Fields) IsNull(key string) bool {
	raw, ok := f[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Keys returns the keys of f that end with suffix.
func (f Fields) Keys(suffix string) []string {
	var out []string
	for k := range f {
		if strings.HasSuffix(k, suffix) {
			out = append(out, k)
		}
	}
	return out
}

// String returns nil when key is absent or null.
func (f Fields) String(key string) (*string, error) {
	if !f.Has(key) || f.IsNull(key) {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(f[key], &s); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", ErrMalformed, key)
	}
	return &s, nil
}

// Ref reads a nullable id. set is false when the key is absent; an explicit
// null or an empty string yields set with an empty id.
func (f Fields) Ref(key string) (set bool, id string, err error) {
	if !f.Has(key) {
		return false, "", nil
	}
	if f.IsNull(key) {
		return true, "", nil
	}

	s, err := f.String(key)
	if err != nil {
		return false, "", err
	}
	return true, strings.TrimSpace(*s), nil
}

// Time accepts a calendar date or an RFC 3339 timestamp.
func (f Fields) Time(key string) (*time.Time, error) {
	s, err := f.String(key)
	if err != nil || s == nil || strings.TrimSpace(*s) == "" {
		return nil, err
	}

	v := strings.TrimSpace(*s)
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", ErrMalformed, key)
}
