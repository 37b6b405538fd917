package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Token, error) {
	return c.login(ctx, "/auth/login", email, password)
}

func (c *HTTPClient) AdminLogin(ctx context.Context, email, password string) (*models.Token, error) {
	return c.login(ctx, "/auth/admin-login", email, password)
}

// login posts the OAuth2 password form the backend expects.
func (c *HTTPClient) login(ctx context.Context, path, email, password string) (*models.Token, error) {
	form := url.Values{"username": {email}, "password": {password}}
	var out *models.Token
	if err := c.call(ctx, http.MethodPost, path, nil, FormBody(form), &out); err != nil {
		return nil, err
	}
	if out == nil || out.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response without access_token", ErrBadResponse)
	}
	return out, nil
}

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) (*models.Profile, error) {
	var out *models.Profile
	if err := c.callJSON(ctx, http.MethodPost, "/auth/register", r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetUser(ctx context.Context) (*models.Profile, error) {
	var out *models.Profile
	if err := c.call(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error) {
	var out *models.Profile
	if err := c.callJSON(ctx, http.MethodPut, "/users/me", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	if err := c.call(ctx, http.MethodGet, "/departments/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SeedDepartments(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/departments/seed", nil, nil, nil)
}

func (c *HTTPClient) CreateComplaint(ctx context.Context, nc models.NewComplaint) (*models.Complaint, error) {
	body, err := complaintForm(nc)
	if err != nil {
		return nil, err
	}
	var out *models.Complaint
	if err := c.call(ctx, http.MethodPost, "/complaints/", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MyComplaints(ctx context.Context) ([]models.Complaint, error) {
	var out []models.Complaint
	if err := c.call(ctx, http.MethodGet, "/complaints/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ComplaintStats(ctx context.Context) (*models.Stats, error) {
	var out *models.Stats
	if err := c.call(ctx, http.MethodGet, "/complaints/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateComplaintStatus(ctx context.Context, id int64, u models.StatusUpdate) (*models.Complaint, error) {
	var out *models.Complaint
	if err := c.callJSON(ctx, http.MethodPut, complaintPath(id, "/status"), u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// complaintForm builds the multipart body of a complaint submission.
// The file part is omitted when there is no attachment.
func complaintForm(nc models.NewComplaint) (*Body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", nc.Title},
		{"description", nc.Description},
		{"subcategory", nc.Subcategory},
		{"incident_address", nc.Address},
		{"incident_age", nc.Age},
		{"incident_gender", nc.Gender},
		{"department_name", nc.Department},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if nc.File != nil && nc.File.Content != nil {
		part, err := w.CreateFormFile("file", filepath.Base(nc.File.Name))
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, nc.File.Content); err != nil {
			return nil, fmt.Errorf("copy file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return &Body{Reader: &buf, ContentType: w.FormDataContentType()}, nil
}
