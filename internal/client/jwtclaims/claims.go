// Package jwtclaims reads the claims of a bearer token without verifying it.
//
// The client never holds the signing key: claims are only used to decide what
// to display (role-dependent controls, token expiry). The backend remains the
// authority and re-checks every request.
package jwtclaims

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

var errNotObject = errors.New("payload is not a JSON object")

// Claims is the decoded token payload.
type Claims map[string]any

// Decoder decodes token payloads, logging failures instead of returning them.
type Decoder struct {
	logger logging.Logger
	parser *jwt.Parser
}

func NewDecoder(logger logging.Logger) *Decoder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Decoder{
		logger: logger,
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
	}
}

var defaultDecoder = NewDecoder(nil)

// Decode decodes token with a silent decoder.
func Decode(token string) Claims {
	return defaultDecoder.Decode(token)
}

// standard base64 characters are accepted too, as browsers' atob does
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// Decode returns the claims held in the middle segment of a three-part
// dot-separated token, or nil when the token is empty, has a different number
// of segments, or its payload is not base64url-encoded JSON object.
// Neither the header nor the signature is inspected.
func (d *Decoder) Decode(token string) Claims {
	if token == "" {
		return nil
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		d.logger.Debug(context.Background(), "token is not a JWT", "segments", len(parts))
		return nil
	}

	payload, err := d.parser.DecodeSegment(toURLAlphabet.Replace(parts[1]))
	if err != nil {
		d.logger.Warn(context.Background(), "token payload decode failed", "error", err)
		return nil
	}

	claims, err := parsePayload(payload)
	if err != nil {
		d.logger.Warn(context.Background(), "token payload parse failed", "error", err)
		return nil
	}
	return claims
}

func parsePayload(payload []byte) (Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errNotObject
	}
	return claims, nil
}

// Role returns the "role" claim, "" when absent or not a string.
func (c Claims) Role() string {
	s, _ := c["role"].(string)
	return s
}

// Subject returns the "sub" claim (the user's email for this backend).
func (c Claims) Subject() string {
	sub, err := jwt.MapClaims(c).GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// UserID returns the numeric "user_id" claim.
func (c Claims) UserID() (int64, bool) {
	switch v := c["user_id"].(type) {
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// ExpiresAt returns the "exp" claim.
func (c Claims) ExpiresAt() (time.Time, bool) {
	exp, err := jwt.MapClaims(c).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an "exp" claim before now.
// A token without expiry never expires client-side.
func (c Claims) Expired(now time.Time) bool {
	exp, ok := c.ExpiresAt()
	return ok && !now.Before(exp)
}
