// Package fakeapi is an in-memory stand-in for the complaints backend, used
// by tests. It serves the same routes under /api, issues HS256 tokens and
// records every request it receives.
package fakeapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// Request is a recorded incoming request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type account struct {
	profile  models.Profile
	password string
}

type override struct {
	status int
	body   string
}

type Server struct {
	mu          sync.Mutex
	secret      []byte
	accounts    map[string]*account
	complaints  map[int64]*models.Complaint
	messages    map[int64][]models.Message
	departments []models.Department
	requests    []Request
	overrides   map[string]override
	nextID      int64
	now         func() time.Time

	router chi.Router
}

func New() *Server {
	s := &Server{
		secret:     []byte("fakeapi-secret"),
		accounts:   map[string]*account{},
		complaints: map[int64]*models.Complaint{},
		messages:   map[int64][]models.Message{},
		overrides:  map[string]override{},
		nextID:     100,
		now:        func() time.Time { return time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC) },
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login(false))
		r.Post("/auth/admin-login", s.login(true))
		r.Post("/auth/register", s.register)

		r.Get("/complaints", s.listComplaints)
		r.Get("/complaints/{id}", s.getComplaint)
		r.Get("/departments/", s.listDepartments)
		r.Post("/departments/seed", s.seedDepartments)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/me", s.me)
			r.Get("/users/me", s.me)
			r.Put("/users/me", s.updateMe)

			r.Post("/complaints/", s.createComplaint)
			r.Get("/complaints/me", s.myComplaints)
			r.Get("/complaints/stats", s.stats)
			r.With(s.requireRole(common.RoleCMAdmin, common.RoleCAdmin)).
				Put("/complaints/{id}/status", s.updateStatus)

			r.With(s.requireRole(common.RoleCMAdmin)).Route("/admin/cm-admin/complaints/{id}", func(r chi.Router) {
				r.Put("/in-progress", s.markInProgress)
				r.Post("/messages", s.addMessage)
			})
			r.With(s.requireRole(common.RoleCAdmin)).
				Get("/admin/c-admin/complaints/{id}/messages", s.listMessages)
			r.With(s.requireRole(common.RoleCAdmin)).
				Put("/admin/complaints/{id}/solve", s.solve)
		})
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// record keeps a copy of the request and serves a forced failure when one
// was registered with Fail.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		o, forced := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if forced {
			if o.status == http.StatusNoContent {
				w.WriteHeader(o.status)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.status)
			_, _ = io.WriteString(w, o.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fail makes every later request to method and path answer with status and
// the raw body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request to path, if any.
func (s *Server) LastRequest(path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

// Count returns how many requests hit path.
func (s *Server) Count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// AddUser registers an account and returns its profile.
func (s *Server) AddUser(name, email, password, role string) models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, "", password, role)
}

func (s *Server) addUserLocked(name, email, phone, password, role string) models.Profile {
	s.nextID++
	p := models.Profile{
		ID:        s.nextID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		RoleName:  role,
		CreatedAt: models.Timestamp{Time: s.now()},
		UpdatedAt: models.Timestamp{Time: s.now()},
	}
	s.accounts[email] = &account{profile: p, password: password}
	return p
}

// AddComplaint stores c, assigning an id when it has none.
func (s *Server) AddComplaint(c models.Complaint) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
	}
	if c.Status == "" {
		c.Status = common.StatusPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = models.Timestamp{Time: s.now()}
	}
	s.complaints[c.ID] = &c
	return c.ID
}

// Complaint returns a copy of the stored complaint.
func (s *Server) Complaint(id int64) (models.Complaint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return models.Complaint{}, false
	}
	return *c, true
}

// Token signs a token for a registered email, "" when it is unknown.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return ""
	}
	tok, _ := s.sign(acc.profile)
	return tok
}

func (s *Server) sign(p models.Profile) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     p.Email,
		"user_id": p.ID,
		"role":    p.RoleName,
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	return token.SignedString(s.secret)
}

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		sub, _ := claims.GetSubject()

		s.mu.Lock()
		acc, found := s.accounts[sub]
		s.mu.Unlock()
		if !found {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acc)))
	})
}

func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc := current(r)
			for _, role := range roles {
				if acc.profile.RoleName == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeDetail(w, http.StatusForbidden, "Not enough permissions")
		})
	}
}

func current(r *http.Request) *account {
	acc, _ := r.Context().Value(ctxKey{}).(*account)
	return acc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func sortedComplaints(m map[int64]*models.Complaint, keep func(*models.Complaint) bool) []models.Complaint {
	out := make([]models.Complaint, 0, len(m))
	for _, c := range m {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
