package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/civicwatch/internal/client/fakeapi"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/tokenstore"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

type fixture struct {
	api    *fakeapi.Server
	client *HTTPClient
	tokens *tokenstore.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	tokens := tokenstore.NewMemory()
	return &fixture{api: api, client: New(srv.URL+"/api", tokens), tokens: tokens}
}

func (f *fixture) loginAs(t *testing.T, role string) models.Profile {
	t.Helper()
	email := role + "@example.com"
	p := f.api.AddUser(strings.ToUpper(role), email, "pw", role)
	require.NoError(t, f.tokens.Save(context.Background(), f.api.Token(email)))
	return p
}

func TestListComplaints_Query(t *testing.T) {
	f := newFixture(t)
	f.api.AddComplaint(models.Complaint{Title: "Bin", Department: "Sanitation"})
	f.api.AddComplaint(models.Complaint{Title: "Leak", Department: "Water Supply"})
	ctx := context.Background()

	got, err := f.client.ListComplaints(ctx, models.ComplaintFilter{Department: "Sanitation"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bin", got[0].Title)

	req, ok := f.api.LastRequest("/api/complaints")
	require.True(t, ok)
	assert.Equal(t, "Sanitation", req.Query.Get("department"))
	_, hasStatus := req.Query["status_filter"]
	assert.False(t, hasStatus)
	_, hasAuth := req.Header["Authorization"]
	assert.False(t, hasAuth)

	_, err = f.client.ListComplaints(ctx, models.ComplaintFilter{Status: common.StatusSolved})
	require.NoError(t, err)
	req, _ = f.api.LastRequest("/api/complaints")
	assert.Equal(t, "solved", req.Query.Get("status_filter"))
	_, hasDept := req.Query["department"]
	assert.False(t, hasDept)

	all, err := f.client.ListComplaints(ctx, models.ComplaintFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	req, _ = f.api.LastRequest("/api/complaints")
	assert.Empty(t, req.Query)
}

func TestGetComplaint(t *testing.T) {
	f := newFixture(t)
	id := f.api.AddComplaint(models.Complaint{Title: "Bin", Description: "Full"})
	ctx := context.Background()

	c, err := f.client.GetComplaint(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, models.Status("pending"), c.Status)

	_, err = f.client.GetComplaint(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Complaint not found", Detail(err))
}

func TestMarkInProgress(t *testing.T) {
	f := newFixture(t)
	id := f.api.AddComplaint(models.Complaint{Title: "Bin"})
	ctx := context.Background()

	_, err := f.client.MarkInProgress(ctx, id)
	require.ErrorIs(t, err, ErrUnauthorized)

	f.loginAs(t, common.RoleCAdmin)
	_, err = f.client.MarkInProgress(ctx, id)
	require.ErrorIs(t, err, ErrForbidden)

	f.loginAs(t, common.RoleCMAdmin)
	res, err := f.client.MarkInProgress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Status(common.StatusInProgress), res.Status)

	req, _ := f.api.LastRequest("/api/admin/cm-admin/complaints/" + itoa(id) + "/in-progress")
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Body)
}

func TestMarkSolved_NoteOnlyWhenGiven(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, common.RoleCAdmin)
	id := f.api.AddComplaint(models.Complaint{Title: "Bin"})
	path := "/api/admin/complaints/" + itoa(id) + "/solve"
	ctx := context.Background()

	_, err := f.client.MarkSolved(ctx, id, "")
	require.NoError(t, err)
	req, _ := f.api.LastRequest(path)
	assert.Empty(t, req.Body)

	res, err := f.client.MarkSolved(ctx, id, "Cleared on Monday")
	require.NoError(t, err)
	assert.True(t, res.Status.IsSolved())
	req, _ = f.api.LastRequest(path)
	assert.JSONEq(t, `{"admin_response":"Cleared on Monday"}`, string(req.Body))

	stored, _ := f.api.Complaint(id)
	assert.Equal(t, "Cleared on Monday", stored.AdminResponse)
}

func TestMessages(t *testing.T) {
	f := newFixture(t)
	id := f.api.AddComplaint(models.Complaint{Title: "Bin"})
	ctx := context.Background()

	f.loginAs(t, common.RoleCMAdmin)
	m, err := f.client.AddMessage(ctx, id, "Crew dispatched")
	require.NoError(t, err)
	assert.Equal(t, "Crew dispatched", m.Message)
	req, _ := f.api.LastRequest("/api/admin/cm-admin/complaints/" + itoa(id) + "/messages")
	assert.JSONEq(t, `{"message":"Crew dispatched"}`, string(req.Body))

	_, err = f.client.ListMessages(ctx, id, "")
	require.ErrorIs(t, err, ErrForbidden)

	f.loginAs(t, common.RoleCAdmin)
	msgs, err := f.client.ListMessages(ctx, id, common.RoleCMAdmin)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "CM_ADMIN", msgs[0].Sender())

	req, _ = f.api.LastRequest("/api/admin/c-admin/complaints/" + itoa(id) + "/messages")
	assert.Equal(t, "cm_admin", req.Query.Get("sender_role"))

	msgs, err = f.client.ListMessages(ctx, id, common.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.client.GetProfile(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)

	want := f.loginAs(t, common.RoleUser)
	p, err := f.client.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.ID, p.ID)
	assert.Equal(t, "user", p.RoleName)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
