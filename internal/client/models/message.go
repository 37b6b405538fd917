package models

import (
	"fmt"
	"io"
)

type Message struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaint_id"`
	SenderID    int64     `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Sender names the author, falling back to the sender id.
func (m *Message) Sender() string {
	if m.SenderName != "" {
		return m.SenderName
	}
	return fmt.Sprintf("User %d", m.SenderID)
}

// MessageRequest is the body of a new admin message.
type MessageRequest struct {
	Message string `json:"message"`
}

// SolveRequest carries the optional resolution note.
type SolveRequest struct {
	AdminResponse string `json:"admin_response"`
}

// StatusUpdate is the body of the legacy PUT /complaints/{id}/status.
type StatusUpdate struct {
	Status        string `json:"status"`
	AdminResponse string `json:"admin_response,omitempty"`
}

// NewComplaint is submitted as a multipart form.
type NewComplaint struct {
	Title       string
	Description string
	Subcategory string
	Address     string
	Age         string
	Gender      string
	Department  string
	File        *Attachment
}

// Attachment is evidence uploaded with a complaint.
type Attachment struct {
	Name    string
	Content io.Reader
}
