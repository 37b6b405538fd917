package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

// TokenSource yields the current bearer token, "" when logged out.
// tokenstore.Store implementations satisfy it.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

type Client interface {
	// Do issues a raw call; 204 yields a nil message.
	Do(ctx context.Context, method, path string, query url.Values, body *Body) (json.RawMessage, error)

	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	GetComplaint(ctx context.Context, id int64) (*models.Complaint, error)
	MarkInProgress(ctx context.Context, id int64) (*models.StatusChange, error)
	MarkSolved(ctx context.Context, id int64, note string) (*models.StatusChange, error)
	AddMessage(ctx context.Context, id int64, text string) (*models.Message, error)
	ListMessages(ctx context.Context, id int64, senderRole string) ([]models.Message, error)
	GetProfile(ctx context.Context) (*models.Profile, error)

	Login(ctx context.Context, email, password string) (*models.Token, error)
	AdminLogin(ctx context.Context, email, password string) (*models.Token, error)
	Register(ctx context.Context, r models.Registration) (*models.Profile, error)
	GetUser(ctx context.Context) (*models.Profile, error)
	UpdateUser(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	SeedDepartments(ctx context.Context) error
	CreateComplaint(ctx context.Context, c models.NewComplaint) (*models.Complaint, error)
	MyComplaints(ctx context.Context) ([]models.Complaint, error)
	ComplaintStats(ctx context.Context) (*models.Stats, error)
	UpdateComplaintStatus(ctx context.Context, id int64, u models.StatusUpdate) (*models.Complaint, error)
}
