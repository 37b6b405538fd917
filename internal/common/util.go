package common

import (
	"fmt"
	"strconv"
	"strings"
)

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ParseComplaintID parses a user-supplied complaint id.
func ParseComplaintID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingComplaintID
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidComplaintID, s)
	}
	return id, nil
}

// NormalizeFilter maps the "all" choice and blank input to the empty string.
func NormalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, FilterAll) {
		return ""
	}
	return v
}
