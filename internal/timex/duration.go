// Package timex holds time helpers shared by config loaders.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

var errInvalidDuration = errors.New("invalid duration")

// Duration wraps time.Duration so JSON may carry either a Go duration string
// ("15s", "1m30s") or a number of seconds, like the interval flags.
type Duration struct {
	time.Duration
}

// MarshalJSON encodes the duration as its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errInvalidDuration
	}
}
