package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

func (c *HTTPClient) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	q := url.Values{}
	if filter.Department != "" {
		q.Set("department", filter.Department)
	}
	if filter.Status != "" {
		q.Set("status_filter", filter.Status)
	}
	var out []models.Complaint
	if err := c.call(ctx, http.MethodGet, "/complaints", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetComplaint(ctx context.Context, id int64) (*models.Complaint, error) {
	var out *models.Complaint
	if err := c.call(ctx, http.MethodGet, complaintPath(id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MarkInProgress(ctx context.Context, id int64) (*models.StatusChange, error) {
	var out *models.StatusChange
	path := fmt.Sprintf("/admin/cm-admin/complaints/%d/in-progress", id)
	if err := c.call(ctx, http.MethodPut, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSolved sends the resolution note only when it is non-empty.
func (c *HTTPClient) MarkSolved(ctx context.Context, id int64, note string) (*models.StatusChange, error) {
	var body *Body
	if note != "" {
		var err error
		if body, err = JSONBody(models.SolveRequest{AdminResponse: note}); err != nil {
			return nil, err
		}
	}
	var out *models.StatusChange
	path := fmt.Sprintf("/admin/complaints/%d/solve", id)
	if err := c.call(ctx, http.MethodPut, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddMessage(ctx context.Context, id int64, text string) (*models.Message, error) {
	var out *models.Message
	path := fmt.Sprintf("/admin/cm-admin/complaints/%d/messages", id)
	if err := c.callJSON(ctx, http.MethodPost, path, models.MessageRequest{Message: text}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListMessages(ctx context.Context, id int64, senderRole string) ([]models.Message, error) {
	q := url.Values{}
	if senderRole != "" {
		q.Set("sender_role", senderRole)
	}
	var out []models.Message
	path := fmt.Sprintf("/admin/c-admin/complaints/%d/messages", id)
	if err := c.call(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var out *models.Profile
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
