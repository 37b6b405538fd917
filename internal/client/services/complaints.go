package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

// MessagesStatus discriminates the outcome of a message fetch.
type MessagesStatus int

const (
	MessagesOK MessagesStatus = iota
	MessagesForbidden
	MessagesError
)

func (s MessagesStatus) String() string {
	switch s {
	case MessagesOK:
		return "ok"
	case MessagesForbidden:
		return "forbidden"
	default:
		return "error"
	}
}

// MessagesResult tells an empty thread apart from one the caller may not read.
type MessagesResult struct {
	Status   MessagesStatus
	Messages []models.Message
	Err      error
}

// ComplaintService is the complaint-facing facade used by the views.
type ComplaintService interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	Get(ctx context.Context, id int64) (*models.Complaint, error)
	MarkInProgress(ctx context.Context, id int64) (*models.StatusChange, error)
	MarkSolved(ctx context.Context, id int64, note string) (*models.StatusChange, error)
	SendMessage(ctx context.Context, id int64, text string) (*models.Message, error)
	Messages(ctx context.Context, id int64, senderRole string) MessagesResult

	Mine(ctx context.Context) ([]models.Complaint, error)
	Submit(ctx context.Context, c models.NewComplaint) (*models.Complaint, error)
	Stats(ctx context.Context) (*models.Stats, error)
	UpdateStatus(ctx context.Context, id int64, u models.StatusUpdate) (*models.Complaint, error)
	Departments(ctx context.Context, seed bool) ([]models.Department, error)

	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error)
}

type complaintService struct {
	client client.Client
}

func NewComplaintService(c client.Client) ComplaintService {
	return &complaintService{client: c}
}

func (s *complaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	return s.client.ListComplaints(ctx, filter)
}

func (s *complaintService) Get(ctx context.Context, id int64) (*models.Complaint, error) {
	return s.client.GetComplaint(ctx, id)
}

func (s *complaintService) MarkInProgress(ctx context.Context, id int64) (*models.StatusChange, error) {
	return s.client.MarkInProgress(ctx, id)
}

func (s *complaintService) MarkSolved(ctx context.Context, id int64, note string) (*models.StatusChange, error) {
	return s.client.MarkSolved(ctx, id, note)
}

func (s *complaintService) SendMessage(ctx context.Context, id int64, text string) (*models.Message, error) {
	return s.client.AddMessage(ctx, id, text)
}

// Messages maps 401 and 403 to MessagesForbidden; an empty list is MessagesOK.
func (s *complaintService) Messages(ctx context.Context, id int64, senderRole string) MessagesResult {
	msgs, err := s.client.ListMessages(ctx, id, senderRole)
	switch {
	case err == nil:
		if msgs == nil {
			msgs = []models.Message{}
		}
		return MessagesResult{Status: MessagesOK, Messages: msgs}
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		return MessagesResult{Status: MessagesForbidden, Err: err}
	default:
		return MessagesResult{Status: MessagesError, Err: err}
	}
}

func (s *complaintService) Mine(ctx context.Context) ([]models.Complaint, error) {
	return s.client.MyComplaints(ctx)
}

func (s *complaintService) Submit(ctx context.Context, c models.NewComplaint) (*models.Complaint, error) {
	return s.client.CreateComplaint(ctx, c)
}

func (s *complaintService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.client.ComplaintStats(ctx)
}

func (s *complaintService) UpdateStatus(ctx context.Context, id int64, u models.StatusUpdate) (*models.Complaint, error) {
	return s.client.UpdateComplaintStatus(ctx, id, u)
}

// Departments lists departments, seeding the defaults first when asked.
func (s *complaintService) Departments(ctx context.Context, seed bool) ([]models.Department, error) {
	if seed {
		if err := s.client.SeedDepartments(ctx); err != nil {
			return nil, err
		}
	}
	return s.client.ListDepartments(ctx)
}

func (s *complaintService) Profile(ctx context.Context) (*models.Profile, error) {
	return s.client.GetUser(ctx)
}

func (s *complaintService) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error) {
	return s.client.UpdateUser(ctx, u)
}
