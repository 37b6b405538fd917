package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/services"
	"github.com/dmitrijs2005/civicwatch/internal/common"
	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

// Admin controls offered on the detail page.
const (
	ControlProgress = "progress"
	ControlMessage  = "message"
	ControlSolve    = "solve"
)

// ControlsFor lists the admin controls a role is shown. The backend still
// decides whether an action is allowed.
func ControlsFor(p *models.Profile) []string {
	switch {
	case p.IsCMAdmin():
		return []string{ControlProgress, ControlMessage}
	case p.IsCAdmin():
		return []string{ControlSolve}
	}
	return nil
}

// DetailView is the page of one complaint. The complaint id is fixed when
// the view is created.
type DetailView struct {
	id         int64
	complaints services.ComplaintService
	auth       services.AuthService
	out        *Output
	logger     logging.Logger

	mu        sync.Mutex
	complaint *models.Complaint
	profile   *models.Profile
	messages  *services.MessagesResult
}

func NewDetailView(id int64, complaints services.ComplaintService, auth services.AuthService, out *Output, logger logging.Logger) *DetailView {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DetailView{
		id:         id,
		complaints: complaints,
		auth:       auth,
		out:        out,
		logger:     logger.With("view", "detail", "complaint_id", id),
	}
}

func (v *DetailView) ID() int64 {
	return v.id
}

// Complaint returns the complaint of the last successful load.
func (v *DetailView) Complaint() *models.Complaint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.complaint
}

// Controls returns the admin controls shown on the last load.
func (v *DetailView) Controls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ControlsFor(v.profile)
}

// Load fetches and renders the complaint. With a stored token the profile is
// fetched fresh, and administrators also get the message thread and their
// controls.
func (v *DetailView) Load(ctx context.Context) error {
	if v.id <= 0 {
		v.out.Println("Missing complaint id")
		return common.ErrMissingComplaintID
	}

	c, err := v.complaints.Get(ctx, v.id)
	if err != nil {
		v.logger.Warn(ctx, "failed to load complaint", "error", err)
		v.out.Error(err)
		return err
	}

	profile := v.currentProfile(ctx)

	var msgs *services.MessagesResult
	if profile.IsAdmin() {
		res := v.complaints.Messages(ctx, v.id, "")
		msgs = &res
	}

	v.mu.Lock()
	v.complaint, v.profile, v.messages = c, profile, msgs
	v.mu.Unlock()

	v.out.Block(func(w io.Writer) {
		renderComplaint(w, c)
		if msgs != nil {
			v.renderMessagesResult(w, msgs)
		}
		if controls := ControlsFor(profile); len(controls) > 0 {
			fmt.Fprintf(w, "Admin actions: %s\n", strings.Join(controls, ", "))
		}
	})
	return nil
}

// currentProfile is nil for anonymous visitors and when the profile cannot
// be fetched; both hide the admin section.
func (v *DetailView) currentProfile(ctx context.Context) *models.Profile {
	token, err := v.auth.Token(ctx)
	if err != nil {
		v.logger.Warn(ctx, "failed to read token", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}
	p, err := v.auth.Profile(ctx)
	if err != nil {
		v.logger.Warn(ctx, "could not fetch profile", "error", err)
		return nil
	}
	return p
}

func (v *DetailView) renderMessagesResult(w io.Writer, res *services.MessagesResult) {
	switch res.Status {
	case services.MessagesOK:
		renderMessages(w, res.Messages)
	case services.MessagesForbidden:
		fmt.Fprintln(w, "Messages: messages not available for your role")
	default:
		fmt.Fprintf(w, "Messages: error: %s\n", client.Detail(res.Err))
	}
}

// MarkInProgress moves the complaint to in_progress and reloads the page.
func (v *DetailView) MarkInProgress(ctx context.Context) error {
	if err := v.requireID(); err != nil {
		return err
	}
	res, err := v.complaints.MarkInProgress(ctx, v.id)
	if err != nil {
		v.out.Error(err)
		return err
	}
	v.out.Println(statusChangeLine(res, "Complaint marked as in progress"))
	return v.Load(ctx)
}

// SendMessage posts text to the thread and reloads the messages.
func (v *DetailView) SendMessage(ctx context.Context, text string) error {
	if err := v.requireID(); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		err := errors.New("message is empty")
		v.out.Error(err)
		return err
	}
	if _, err := v.complaints.SendMessage(ctx, v.id, text); err != nil {
		v.out.Error(err)
		return err
	}
	v.out.Println("Message sent")
	return v.LoadMessages(ctx, "")
}

// LoadMessages refreshes and renders only the message thread, optionally
// narrowed to senders of one role.
func (v *DetailView) LoadMessages(ctx context.Context, senderRole string) error {
	if err := v.requireID(); err != nil {
		return err
	}
	res := v.complaints.Messages(ctx, v.id, senderRole)

	v.mu.Lock()
	v.messages = &res
	v.mu.Unlock()

	v.out.Block(func(w io.Writer) { v.renderMessagesResult(w, &res) })
	if res.Status == services.MessagesError {
		return res.Err
	}
	return nil
}

// Messages returns the message result of the last load, nil when the
// thread was not fetched.
func (v *DetailView) Messages() *services.MessagesResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.messages
}

// MarkSolved closes the complaint with an optional note and reloads.
func (v *DetailView) MarkSolved(ctx context.Context, note string) error {
	if err := v.requireID(); err != nil {
		return err
	}
	res, err := v.complaints.MarkSolved(ctx, v.id, strings.TrimSpace(note))
	if err != nil {
		v.out.Error(err)
		return err
	}
	v.out.Println(statusChangeLine(res, "Complaint marked as solved"))
	return v.Load(ctx)
}

func (v *DetailView) requireID() error {
	if v.id <= 0 {
		v.out.Println("Missing complaint id")
		return common.ErrMissingComplaintID
	}
	return nil
}

func statusChangeLine(res *models.StatusChange, fallback string) string {
	if res == nil || res.Message == "" {
		return fallback
	}
	return res.Message
}
