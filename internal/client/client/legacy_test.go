package client

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/civicwatch/internal/client/jwtclaims"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.api.AddUser("Asha", "asha@example.com", "secret", common.RoleUser)
	ctx := context.Background()

	tok, err := f.client.Login(ctx, "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, "user", jwtclaims.Decode(tok.AccessToken).Role())

	req, _ := f.api.LastRequest("/api/auth/login")
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Equal(t, "password=secret&username=asha%40example.com", string(req.Body))

	_, err = f.client.Login(ctx, "asha@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", Detail(err))
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	f.api.AddUser("Asha", "asha@example.com", "pw", common.RoleUser)
	f.api.AddUser("Ravi", "ravi@example.com", "pw", common.RoleCMAdmin)
	ctx := context.Background()

	_, err := f.client.AdminLogin(ctx, "asha@example.com", "pw")
	require.ErrorIs(t, err, ErrForbidden)

	tok, err := f.client.AdminLogin(ctx, "ravi@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "cm_admin", jwtclaims.Decode(tok.AccessToken).Role())
}

func TestLogin_EmptyTokenIsBadResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	})
	_, err := c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := models.Registration{Name: "Asha", Email: "asha@example.com", Phone: "98400", Password: "pw"}

	p, err := f.client.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "user", p.RoleName)

	req, _ := f.api.LastRequest("/api/auth/register")
	assert.JSONEq(t, `{"name":"Asha","email":"asha@example.com","phone":"98400","password":"pw"}`, string(req.Body))

	_, err = f.client.Register(ctx, reg)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, "Email already registered", Detail(err))

	_, err = f.client.Register(ctx, models.Registration{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
	assert.Contains(t, Detail(err), "field required")
}

func TestUserProfile(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, common.RoleUser)
	ctx := context.Background()

	age := 34
	p, err := f.client.UpdateUser(ctx, models.ProfileUpdate{Address: "12 Anna Salai", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "12 Anna Salai", p.Address)

	got, err := f.client.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.Age)
	assert.Equal(t, 34, *got.Age)
	assert.Equal(t, "USER", got.Name)

	req, _ := f.api.LastRequest("/api/users/me")
	assert.Equal(t, http.MethodGet, req.Method)
}

func TestDepartments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deps, err := f.client.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Empty(t, deps)

	require.NoError(t, f.client.SeedDepartments(ctx))
	deps, err = f.client.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	assert.Equal(t, "Sanitation", deps[0].Name)
}

func TestCreateAndMyComplaints(t *testing.T) {
	f := newFixture(t)
	me := f.loginAs(t, common.RoleUser)
	f.api.AddComplaint(models.Complaint{Title: "someone else's", UserID: 1})
	ctx := context.Background()

	c, err := f.client.CreateComplaint(ctx, models.NewComplaint{
		Title:       "Streetlight out",
		Description: "Dark since Friday",
		Address:     "5th Cross",
		Department:  "Roads",
		File:        &models.Attachment{Name: "light.png", Content: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, me.ID, c.UserID)
	assert.Equal(t, "5th Cross", c.Location)
	assert.Contains(t, c.ImageURL, "light.png")

	req, _ := f.api.LastRequest("/api/complaints/")
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))

	mine, err := f.client.MyComplaints(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Streetlight out", mine[0].Title)
}

func TestStatsAndStatusUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.api.AddComplaint(models.Complaint{Title: "Bin"})
	f.api.AddComplaint(models.Complaint{Title: "Leak", Status: common.StatusSolved})
	ctx := context.Background()

	f.loginAs(t, common.RoleUser)
	_, err := f.client.UpdateComplaintStatus(ctx, id, models.StatusUpdate{Status: common.StatusSolved})
	require.ErrorIs(t, err, ErrForbidden)

	f.loginAs(t, common.RoleCMAdmin)
	c, err := f.client.UpdateComplaintStatus(ctx, id, models.StatusUpdate{Status: common.StatusInProgress, AdminResponse: "on it"})
	require.NoError(t, err)
	assert.Equal(t, models.Status("in_progress"), c.Status)
	assert.Equal(t, "on it", c.AdminResponse)

	_, err = f.client.UpdateComplaintStatus(ctx, id, models.StatusUpdate{Status: "closed"})
	assert.Equal(t, "Invalid status", Detail(err))

	st, err := f.client.ComplaintStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 2, InProgress: 1, Solved: 1}, *st)
}
