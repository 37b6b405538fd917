package services

import (
	"context"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

// fakeClient implements client.Client for service unit tests. Methods that a
// test does not configure panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	LoginRet      *models.Token
	LoginErr      error
	AdminLoginRet *models.Token
	LoginCalls    []string

	ProfileRet   *models.Profile
	ProfileErr   error
	ProfileCalls int

	RegisterRet *models.Profile
	RegisterErr error
	RegisterArg models.Registration

	MessagesRet []models.Message
	MessagesErr error

	SeedErr     error
	SeedCalls   int
	DeptsRet    []models.Department
	ListFilters []models.ComplaintFilter
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.Token, error) {
	f.LoginCalls = append(f.LoginCalls, "user:"+email+":"+password)
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) AdminLogin(_ context.Context, email, password string) (*models.Token, error) {
	f.LoginCalls = append(f.LoginCalls, "admin:"+email+":"+password)
	return f.AdminLoginRet, f.LoginErr
}

func (f *fakeClient) GetProfile(context.Context) (*models.Profile, error) {
	f.ProfileCalls++
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) Register(_ context.Context, r models.Registration) (*models.Profile, error) {
	f.RegisterArg = r
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) ListMessages(context.Context, int64, string) ([]models.Message, error) {
	return f.MessagesRet, f.MessagesErr
}

func (f *fakeClient) SeedDepartments(context.Context) error {
	f.SeedCalls++
	return f.SeedErr
}

func (f *fakeClient) ListDepartments(context.Context) ([]models.Department, error) {
	return f.DeptsRet, nil
}

func (f *fakeClient) ListComplaints(_ context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	f.ListFilters = append(f.ListFilters, filter)
	return nil, nil
}
