package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

const (
	snippetMax = 150
	snippetCut = 147
)

// Snippet shortens long descriptions to 147 characters plus "...".
func Snippet(s string) string {
	r := []rune(s)
	if len(r) > snippetMax {
		return string(r[:snippetCut]) + "..."
	}
	return s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderCard(w io.Writer, c *models.Complaint) {
	fmt.Fprintf(w, "#%d  %s\n", c.ID, c.Title)
	fmt.Fprintf(w, "    %s | %s | %s\n", orDash(c.DepartmentLabel()), c.Status.Label(), c.CreatedAt.Local())
	if c.ImageURL != "" {
		fmt.Fprintf(w, "    image: %s\n", c.ImageURL)
	}
	fmt.Fprintf(w, "    %s\n", Snippet(c.Description))
	fmt.Fprintf(w, "    view: show %d\n", c.ID)
}

func renderComplaint(w io.Writer, c *models.Complaint) {
	fmt.Fprintf(w, "== %s (#%d)\n", c.Title, c.ID)
	fmt.Fprintf(w, "%s | %s\n", orDash(c.DepartmentLabel()), c.CreatedAt.Local())
	fmt.Fprintln(w, c.Description)
	if c.ImageURL != "" {
		fmt.Fprintf(w, "image: %s\n", c.ImageURL)
	}
	if c.VoiceURL != "" {
		fmt.Fprintf(w, "voice: %s\n", c.VoiceURL)
	}
	fmt.Fprintf(w, "Status: %s\n", c.Status.Label())
	fmt.Fprintln(w, "Admin Response:")
	if c.AdminResponse == "" {
		fmt.Fprintln(w, "  No response yet")
	} else {
		fmt.Fprintf(w, "  %s\n", c.AdminResponse)
	}
}

func renderMessages(w io.Writer, msgs []models.Message) {
	fmt.Fprintln(w, "Messages:")
	if len(msgs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i := range msgs {
		m := &msgs[i]
		fmt.Fprintf(w, "  [%s] %s: %s\n", m.CreatedAt.Local(), m.Sender(), m.Message)
	}
}

func renderProfile(w io.Writer, p *models.Profile) {
	age := ""
	if p.Age != nil && *p.Age > 0 {
		age = fmt.Sprint(*p.Age)
	}
	fmt.Fprintf(w, "Name:    %s\n", orDash(p.Name))
	fmt.Fprintf(w, "Email:   %s\n", orDash(p.Email))
	fmt.Fprintf(w, "Phone:   %s\n", orDash(p.Phone))
	fmt.Fprintf(w, "Address: %s\n", orDash(p.Address))
	fmt.Fprintf(w, "Age:     %s\n", orDash(age))
	fmt.Fprintf(w, "Gender:  %s\n", orDash(p.Gender))
	fmt.Fprintf(w, "Role:    %s\n", orDash(p.RoleName))
}

func renderStats(w io.Writer, s *models.Stats) {
	fmt.Fprintf(w, "Total: %d  Pending: %d  In progress: %d  Solved: %d", s.Total, s.Pending, s.InProgress, s.Solved)
	if s.UpdatedByMe != nil {
		fmt.Fprintf(w, "  Updated by me: %d", *s.UpdatedByMe)
	}
	fmt.Fprintln(w)
}
