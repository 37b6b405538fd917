package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadResponse  = errors.New("malformed response")
)

// APIError is a non-2xx response. Body holds a JSON object body; any other
// JSON value is kept in Payload.
type APIError struct {
	StatusCode int
	Body       map[string]any
	Payload    any
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// newAPIError parses a failed response body. A body that is not JSON is
// kept as {"detail": <raw text>}. A JSON value other than an object has no
// detail, so the status text is used.
func newAPIError(status int, raw []byte) *APIError {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		body := map[string]any{"detail": string(raw)}
		return &APIError{StatusCode: status, Body: body, Detail: detailOf(status, body)}
	}
	if body, ok := v.(map[string]any); ok {
		return &APIError{StatusCode: status, Body: body, Detail: detailOf(status, body)}
	}
	return &APIError{StatusCode: status, Payload: v, Detail: http.StatusText(status)}
}

func detailOf(status int, body map[string]any) string {
	switch d := body["detail"].(type) {
	case nil:
	case string:
		if d != "" {
			return d
		}
	default:
		// FastAPI validation errors carry a list here
		if b, err := json.Marshal(d); err == nil {
			return string(b)
		}
	}
	return http.StatusText(status)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Detail returns the user-facing message for err: the API detail when err
// carries an *APIError, the error text otherwise.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	if errors.Is(err, ErrUnavailable) {
		return ErrUnavailable.Error()
	}
	return err.Error()
}
