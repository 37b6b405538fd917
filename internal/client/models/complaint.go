package models

import (
	"strings"

	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// Status is a complaint's lifecycle state. Values the client does not know
// are kept verbatim.
type Status string

// Label renders the status for people: "in_progress" becomes "in progress".
func (s Status) Label() string {
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

func (s Status) IsSolved() bool {
	return s == common.StatusSolved
}

type Complaint struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id,omitempty"`
	UserName       string    `json:"user_name,omitempty"`
	Department     string    `json:"department,omitempty"`
	DepartmentName string    `json:"department_name,omitempty"`
	District       string    `json:"district,omitempty"`
	Subcategory    string    `json:"subcategory,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location,omitempty"`
	Status         Status    `json:"status"`
	AdminResponse  string    `json:"admin_response,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	VoiceURL       string    `json:"voice_url,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// DepartmentLabel returns the department, whichever field the endpoint used.
func (c *Complaint) DepartmentLabel() string {
	if c.Department != "" {
		return c.Department
	}
	return c.DepartmentName
}

// ComplaintFilter narrows ListComplaints. Empty fields are not sent.
type ComplaintFilter struct {
	Department string
	Status     string
}

// Stats are the complaint counters shown on the admin dashboard.
type Stats struct {
	Total       int  `json:"total"`
	Pending     int  `json:"pending"`
	InProgress  int  `json:"in_progress"`
	Solved      int  `json:"solved"`
	UpdatedByMe *int `json:"updated_by_me,omitempty"`
}

type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StatusChange is returned by the admin status transitions.
type StatusChange struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
}
