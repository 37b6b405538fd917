// Package services contains application services for the civicwatch client.
// This file defines the authentication service: login flows, registration,
// the current profile and housekeeping of the stored bearer token.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/jwtclaims"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/tokenstore"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// AuthService defines authentication operations for the front ends.
//
// Contract:
//   - Profile: the current user, or common.ErrNotAuthenticated without a
//     network call when no token is stored.
//   - Login/AdminLogin: authenticate and persist the returned token.
//   - Register: create an account; the confirmation must match.
//   - Logout: forget the token.
//   - Claims: the stored token's decoded payload, nil when absent or malformed.
//   - HandleUnauthorized: drop the token when err is a 401.
//
// All methods honor context cancellation.
type AuthService interface {
	Profile(ctx context.Context) (*models.Profile, error)
	Login(ctx context.Context, email string, password []byte) (*models.Profile, error)
	AdminLogin(ctx context.Context, email string, password []byte) (*models.Profile, error)
	Register(ctx context.Context, r models.Registration, confirm string) (*models.Profile, error)
	Logout(ctx context.Context) error
	Token(ctx context.Context) (string, error)
	Claims(ctx context.Context) (jwtclaims.Claims, error)
	HandleUnauthorized(ctx context.Context, err error) bool
}

type authService struct {
	client  client.Client
	tokens  tokenstore.Store
	decoder *jwtclaims.Decoder
}

// NewAuthService constructs an AuthService bound to the given API client and
// token store.
func NewAuthService(c client.Client, tokens tokenstore.Store, decoder *jwtclaims.Decoder) AuthService {
	if decoder == nil {
		decoder = jwtclaims.NewDecoder(nil)
	}
	return &authService{client: c, tokens: tokens, decoder: decoder}
}

func (a *authService) Profile(ctx context.Context) (*models.Profile, error) {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}
	return a.client.GetProfile(ctx)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Profile, error) {
	return a.login(ctx, a.client.Login, email, password)
}

func (a *authService) AdminLogin(ctx context.Context, email string, password []byte) (*models.Profile, error) {
	return a.login(ctx, a.client.AdminLogin, email, password)
}

type loginFunc func(ctx context.Context, email, password string) (*models.Token, error)

// login exchanges credentials for a token, stores it and returns the fresh
// profile. The password slice is wiped afterwards.
func (a *authService) login(ctx context.Context, fn loginFunc, email string, password []byte) (*models.Profile, error) {
	defer common.WipeByteArray(password)

	tok, err := fn(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := a.tokens.Save(ctx, tok.AccessToken); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return a.client.GetProfile(ctx)
}

func (a *authService) Register(ctx context.Context, r models.Registration, confirm string) (*models.Profile, error) {
	if r.Password != confirm {
		return nil, common.ErrPasswordMismatch
	}
	return a.client.Register(ctx, r)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.tokens.Remove(ctx)
}

func (a *authService) Token(ctx context.Context) (string, error) {
	return a.tokens.Get(ctx)
}

func (a *authService) Claims(ctx context.Context) (jwtclaims.Claims, error) {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	return a.decoder.Decode(token), nil
}

func (a *authService) HandleUnauthorized(ctx context.Context, err error) bool {
	if !errors.Is(err, client.ErrUnauthorized) {
		return false
	}
	// a failed removal still means the session is unusable
	_ = a.tokens.Remove(ctx)
	return true
}
