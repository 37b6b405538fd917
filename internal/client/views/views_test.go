package views

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/fakeapi"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/services"
	"github.com/dmitrijs2005/civicwatch/internal/client/tokenstore"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// syncBuffer is a bytes.Buffer safe for the poller and the test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type env struct {
	api        *fakeapi.Server
	tokens     *tokenstore.Memory
	complaints services.ComplaintService
	auth       services.AuthService
	buf        *syncBuffer
	out        *Output
}

func newEnv(t *testing.T) *env {
	t.Helper()
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	tokens := tokenstore.NewMemory()
	c := client.New(srv.URL+"/api", tokens)
	buf := &syncBuffer{}
	return &env{
		api:        api,
		tokens:     tokens,
		complaints: services.NewComplaintService(c),
		auth:       services.NewAuthService(c, tokens, nil),
		buf:        buf,
		out:        NewOutput(buf),
	}
}

func (e *env) loginAs(t *testing.T, name, role string) {
	t.Helper()
	email := strings.ToLower(name) + "@example.com"
	e.api.AddUser(name, email, "pw", role)
	require.NoError(t, e.tokens.Save(context.Background(), e.api.Token(email)))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short"))

	exact := strings.Repeat("a", 150)
	assert.Equal(t, exact, Snippet(exact))

	long := strings.Repeat("b", 151)
	got := Snippet(long)
	assert.Equal(t, strings.Repeat("b", 147)+"...", got)
	assert.Len(t, got, 150)

	// runes, not bytes
	assert.Equal(t, strings.Repeat("é", 147)+"...", Snippet(strings.Repeat("é", 200)))
}

func TestControlsFor(t *testing.T) {
	assert.Nil(t, ControlsFor(nil))
	assert.Nil(t, ControlsFor(&models.Profile{RoleName: common.RoleUser}))
	assert.Equal(t, []string{"progress", "message"}, ControlsFor(&models.Profile{RoleName: common.RoleCMAdmin}))
	assert.Equal(t, []string{"solve"}, ControlsFor(&models.Profile{RoleName: common.RoleCAdmin}))
}

func TestListView_LoadRendersCards(t *testing.T) {
	e := newEnv(t)
	e.api.AddComplaint(models.Complaint{ID: 1, Title: "Bin", Department: "Sanitation", Description: strings.Repeat("x", 200)})
	e.api.AddComplaint(models.Complaint{ID: 2, Title: "Leak", Department: "Water Supply", Status: common.StatusInProgress})
	e.api.AddComplaint(models.Complaint{ID: 3, Title: "Smell", Department: "Sanitation"})

	v := NewListView(e.complaints, e.out, nil)
	require.NoError(t, v.Load(context.Background()))

	out := e.buf.String()
	assert.Contains(t, out, "#1  Bin")
	assert.Contains(t, out, "Water Supply | in progress |")
	assert.Contains(t, out, strings.Repeat("x", 147)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 148))
	assert.Contains(t, out, "view: show 2")
	assert.Contains(t, out, "departments: all, Sanitation, Water Supply")
	assert.Equal(t, []string{"Sanitation", "Water Supply"}, v.Departments())
	assert.Len(t, v.Items(), 3)
}

func TestListView_FilterIsSentAndKept(t *testing.T) {
	e := newEnv(t)
	e.api.AddComplaint(models.Complaint{Title: "Bin", Department: "Sanitation"})
	e.api.AddComplaint(models.Complaint{Title: "Leak", Department: "Water Supply"})
	v := NewListView(e.complaints, e.out, nil)
	ctx := context.Background()

	v.SetFilter("Sanitation", "all")
	require.NoError(t, v.Load(ctx))
	req, _ := e.api.LastRequest("/api/complaints")
	assert.Equal(t, "Sanitation", req.Query.Get("department"))
	_, hasStatus := req.Query["status_filter"]
	assert.False(t, hasStatus)
	assert.Equal(t, models.ComplaintFilter{Department: "Sanitation"}, v.Filter())

	// no complaint offers the chosen department any more: back to all
	v.SetFilter("Roads", "")
	require.NoError(t, v.Load(ctx))
	assert.Contains(t, e.buf.String(), "no complaints")
	assert.Equal(t, models.ComplaintFilter{}, v.Filter())
}

func TestListView_ErrorKeepsState(t *testing.T) {
	e := newEnv(t)
	e.api.AddComplaint(models.Complaint{Title: "Bin", Department: "Sanitation"})
	v := NewListView(e.complaints, e.out, nil)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	e.api.Fail(http.MethodGet, "/api/complaints", http.StatusServiceUnavailable, "maintenance")
	err := v.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, e.buf.String(), "error: maintenance")
	assert.Len(t, v.Items(), 1)
}

func TestDetailView_MissingID(t *testing.T) {
	e := newEnv(t)
	v := NewDetailView(0, e.complaints, e.auth, e.out, nil)

	require.ErrorIs(t, v.Load(context.Background()), common.ErrMissingComplaintID)
	require.ErrorIs(t, v.MarkSolved(context.Background(), ""), common.ErrMissingComplaintID)
	assert.Contains(t, e.buf.String(), "Missing complaint id")
	assert.Empty(t, e.api.Requests())
}

func TestDetailView_AnonymousHasNoAdminSection(t *testing.T) {
	e := newEnv(t)
	id := e.api.AddComplaint(models.Complaint{Title: "Bin", Department: "Sanitation", Description: "Full", VoiceURL: "/uploads/v.ogg"})
	v := NewDetailView(id, e.complaints, e.auth, e.out, nil)

	require.NoError(t, v.Load(context.Background()))
	out := e.buf.String()
	assert.Contains(t, out, "== Bin")
	assert.Contains(t, out, "voice: /uploads/v.ogg")
	assert.Contains(t, out, "Status: pending")
	assert.Contains(t, out, "No response yet")
	assert.NotContains(t, out, "Messages")
	assert.NotContains(t, out, "Admin actions")
	assert.Equal(t, 0, e.api.Count("/api/auth/me"))
	assert.Nil(t, v.Controls())
}

func TestDetailView_CitizenFetchesProfileButNoControls(t *testing.T) {
	e := newEnv(t)
	id := e.api.AddComplaint(models.Complaint{Title: "Bin"})
	e.loginAs(t, "Asha", common.RoleUser)
	v := NewDetailView(id, e.complaints, e.auth, e.out, nil)

	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, 1, e.api.Count("/api/auth/me"))
	assert.Nil(t, v.Messages())
	assert.NotContains(t, e.buf.String(), "Admin actions")
}

func TestDetailView_CMAdminFlow(t *testing.T) {
	e := newEnv(t)
	id := e.api.AddComplaint(models.Complaint{Title: "Bin"})
	e.loginAs(t, "Ravi", common.RoleCMAdmin)
	v := NewDetailView(id, e.complaints, e.auth, e.out, nil)
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	out := e.buf.String()
	assert.Contains(t, out, "Admin actions: progress, message")
	// the thread endpoint belongs to c_admin
	assert.Contains(t, out, "messages not available for your role")
	assert.Equal(t, services.MessagesForbidden, v.Messages().Status)

	e.buf.Reset()
	require.NoError(t, v.MarkInProgress(ctx))
	assert.Contains(t, e.buf.String(), "Complaint marked as in progress")
	assert.Contains(t, e.buf.String(), "Status: in progress")
	assert.Equal(t, models.Status(common.StatusInProgress), v.Complaint().Status)

	require.NoError(t, v.SendMessage(ctx, "Crew dispatched"))
	assert.Contains(t, e.buf.String(), "Message sent")

	require.Error(t, v.SendMessage(ctx, "   "))

	// profile is fetched on every load
	assert.Equal(t, 2, e.api.Count("/api/auth/me"))
}

func TestDetailView_CAdminFlow(t *testing.T) {
	e := newEnv(t)
	id := e.api.AddComplaint(models.Complaint{Title: "Bin"})
	e.loginAs(t, "Ravi", common.RoleCMAdmin)
	require.NoError(t, NewDetailView(id, e.complaints, e.auth, NewOutput(&bytes.Buffer{}), nil).SendMessage(context.Background(), "Crew dispatched"))

	e.loginAs(t, "Meena", common.RoleCAdmin)
	v := NewDetailView(id, e.complaints, e.auth, e.out, nil)
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	out := e.buf.String()
	assert.Contains(t, out, "Ravi: Crew dispatched")
	assert.Contains(t, out, "Admin actions: solve")
	assert.Equal(t, []string{ControlSolve}, v.Controls())

	// c_admin cannot mark in progress; the backend says so
	err := v.MarkInProgress(ctx)
	require.ErrorIs(t, err, client.ErrForbidden)
	assert.Contains(t, e.buf.String(), "error: Not enough permissions")

	require.NoError(t, v.MarkSolved(ctx, " Cleared "))
	stored, _ := e.api.Complaint(id)
	assert.Equal(t, "Cleared", stored.AdminResponse)
	assert.Contains(t, e.buf.String(), "Admin Response:\n  Cleared")
}

func TestDetailView_EmptyThreadIsNotForbidden(t *testing.T) {
	e := newEnv(t)
	id := e.api.AddComplaint(models.Complaint{Title: "Bin"})
	e.loginAs(t, "Meena", common.RoleCAdmin)
	v := NewDetailView(id, e.complaints, e.auth, e.out, nil)

	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, services.MessagesOK, v.Messages().Status)
	assert.Contains(t, e.buf.String(), "Messages:\n  (none)")
}

func TestDetailView_NotFound(t *testing.T) {
	e := newEnv(t)
	v := NewDetailView(42, e.complaints, e.auth, e.out, nil)

	err := v.Load(context.Background())
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, e.buf.String(), "error: Complaint not found")
}

func TestAccountView_Flows(t *testing.T) {
	e := newEnv(t)
	v := NewAccountView(e.complaints, e.auth, e.out, nil)
	ctx := context.Background()

	reg := models.Registration{Name: "Asha", Email: "asha@example.com", Phone: "98400", Password: "pw"}
	require.ErrorIs(t, v.Register(ctx, reg, "nope"), common.ErrPasswordMismatch)
	assert.Contains(t, e.buf.String(), "error: passwords do not match")

	require.NoError(t, v.Register(ctx, reg, "pw"))
	require.NoError(t, v.Login(ctx, "asha@example.com", []byte("pw"), false))
	assert.Contains(t, e.buf.String(), "Logged in as Asha (user)")

	e.buf.Reset()
	require.NoError(t, v.Profile(ctx))
	assert.Contains(t, e.buf.String(), "Address: -")
	assert.Contains(t, e.buf.String(), "Age:     -")

	age := 30
	require.NoError(t, v.UpdateProfile(ctx, models.ProfileUpdate{Address: "5th Cross", Age: &age}))
	assert.Contains(t, e.buf.String(), "Address: 5th Cross")
	assert.Contains(t, e.buf.String(), "Age:     30")

	require.NoError(t, v.Departments(ctx))
	assert.Contains(t, e.buf.String(), "Sanitation: Garbage collection")

	require.Error(t, v.Submit(ctx, models.NewComplaint{}))
	require.NoError(t, v.Submit(ctx, models.NewComplaint{Title: "Pothole", Description: "Deep", Department: "Roads"}))
	assert.Contains(t, e.buf.String(), "submitted")

	e.buf.Reset()
	require.NoError(t, v.MyComplaints(ctx))
	assert.Contains(t, e.buf.String(), "Pothole [pending]")
	assert.Contains(t, e.buf.String(), "Dept: Roads")

	require.ErrorIs(t, v.Login(ctx, "asha@example.com", []byte("pw"), true), client.ErrForbidden)

	require.NoError(t, v.Logout(ctx))
	tok, _ := e.tokens.Get(ctx)
	assert.Empty(t, tok)
}

func TestAccountView_UpdateStatus(t *testing.T) {
	e := newEnv(t)
	id := e.api.AddComplaint(models.Complaint{Title: "Bin"})
	e.loginAs(t, "Meena", common.RoleCAdmin)
	v := NewAccountView(e.complaints, e.auth, e.out, nil)
	ctx := context.Background()

	require.ErrorIs(t, v.UpdateStatus(ctx, 0, "solved", ""), common.ErrMissingComplaintID)

	require.NoError(t, v.UpdateStatus(ctx, id, common.StatusSolved, "done"))
	out := e.buf.String()
	assert.Contains(t, out, "is solved")
	assert.Contains(t, out, "Total: 1  Pending: 0  In progress: 0  Solved: 1")
}

func TestOutput_BlocksDoNotInterleave(t *testing.T) {
	buf := &syncBuffer{}
	out := NewOutput(buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.Block(func(w io.Writer) {
				for j := 0; j < 5; j++ {
					_, _ = w.Write([]byte("ab"))
				}
				_, _ = w.Write([]byte("\n"))
			})
		}()
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, "ababababab", line)
	}
}
