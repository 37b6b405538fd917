package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/services"
	"github.com/dmitrijs2005/civicwatch/internal/common"
	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

// AccountView covers the account pages: profile, own complaints,
// departments, stats and the forms that change them.
type AccountView struct {
	complaints services.ComplaintService
	auth       services.AuthService
	out        *Output
	logger     logging.Logger
}

func NewAccountView(complaints services.ComplaintService, auth services.AuthService, out *Output, logger logging.Logger) *AccountView {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AccountView{complaints: complaints, auth: auth, out: out, logger: logger.With("view", "account")}
}

// fail renders err and hands it back.
func (v *AccountView) fail(ctx context.Context, op string, err error) error {
	v.logger.Warn(ctx, op+" failed", "error", err)
	v.out.Error(err)
	return err
}

func (v *AccountView) Register(ctx context.Context, r models.Registration, confirm string) error {
	p, err := v.auth.Register(ctx, r, confirm)
	if err != nil {
		return v.fail(ctx, "register", err)
	}
	v.out.Printf("Registered %s. You can now login.\n", p.Email)
	return nil
}

// Login signs in as a citizen or, with admin set, as an administrator.
func (v *AccountView) Login(ctx context.Context, email string, password []byte, admin bool) error {
	login := v.auth.Login
	if admin {
		login = v.auth.AdminLogin
	}
	p, err := login(ctx, email, password)
	if err != nil {
		return v.fail(ctx, "login", err)
	}
	v.out.Printf("Logged in as %s (%s)\n", p.Name, p.RoleName)
	return nil
}

func (v *AccountView) Logout(ctx context.Context) error {
	if err := v.auth.Logout(ctx); err != nil {
		return v.fail(ctx, "logout", err)
	}
	v.out.Println("Logged out")
	return nil
}

func (v *AccountView) Profile(ctx context.Context) error {
	p, err := v.complaints.Profile(ctx)
	if err != nil {
		return v.fail(ctx, "profile", err)
	}
	v.out.Block(func(w io.Writer) { renderProfile(w, p) })
	return nil
}

func (v *AccountView) UpdateProfile(ctx context.Context, u models.ProfileUpdate) error {
	if _, err := v.complaints.UpdateProfile(ctx, u); err != nil {
		return v.fail(ctx, "update profile", err)
	}
	v.out.Println("Profile updated")
	return v.Profile(ctx)
}

func (v *AccountView) MyComplaints(ctx context.Context) error {
	list, err := v.complaints.Mine(ctx)
	if err != nil {
		return v.fail(ctx, "my complaints", err)
	}
	v.out.Block(func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "You have not filed any complaints")
			return
		}
		for i := range list {
			c := &list[i]
			fmt.Fprintf(w, "#%d  %s [%s]\n", c.ID, c.Title, c.Status.Label())
			fmt.Fprintf(w, "    %s\n", c.Description)
			fmt.Fprintf(w, "    Dept: %s\n", orDash(c.DepartmentLabel()))
		}
	})
	return nil
}

// Departments seeds the default departments and lists them.
func (v *AccountView) Departments(ctx context.Context) error {
	depts, err := v.complaints.Departments(ctx, true)
	if err != nil {
		return v.fail(ctx, "departments", err)
	}
	v.out.Block(func(w io.Writer) {
		for _, d := range depts {
			fmt.Fprintf(w, "%s: %s\n", d.Name, orDash(d.Description))
		}
	})
	return nil
}

func (v *AccountView) Stats(ctx context.Context) error {
	s, err := v.complaints.Stats(ctx)
	if err != nil {
		return v.fail(ctx, "stats", err)
	}
	v.out.Block(func(w io.Writer) { renderStats(w, s) })
	return nil
}

func (v *AccountView) Submit(ctx context.Context, nc models.NewComplaint) error {
	if strings.TrimSpace(nc.Title) == "" {
		return v.fail(ctx, "submit", fmt.Errorf("title is required"))
	}
	c, err := v.complaints.Submit(ctx, nc)
	if err != nil {
		return v.fail(ctx, "submit", err)
	}
	v.out.Printf("Complaint #%d submitted\n", c.ID)
	return nil
}

// UpdateStatus sets the status of complaint id, the legacy admin modal.
func (v *AccountView) UpdateStatus(ctx context.Context, id int64, status, note string) error {
	if id <= 0 {
		return v.fail(ctx, "update status", common.ErrMissingComplaintID)
	}
	c, err := v.complaints.UpdateStatus(ctx, id, models.StatusUpdate{Status: status, AdminResponse: note})
	if err != nil {
		return v.fail(ctx, "update status", err)
	}
	v.out.Printf("Status updated: #%d is %s\n", c.ID, c.Status.Label())
	return v.Stats(ctx)
}
