// Package models defines the backend's complaint, profile and message
// entities and the request bodies the client sends.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// the backend emits naive ISO timestamps (no zone) as well as RFC 3339 ones
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a time.Time that decodes the backend's timestamp formats.
// A zone-less timestamp is taken as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Local formats the timestamp for display in the local zone, "-" when unset.
func (t Timestamp) Local() string {
	if t.IsZero() {
		return "-"
	}
	return t.Time.Local().Format("2006-01-02 15:04")
}
