package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplaint_DecodesBackendPayload(t *testing.T) {
	raw := `{
		"id": 12, "user_id": 3, "department": "Sanitation", "district": "Chennai",
		"subcategory": "Garbage", "title": "Overflowing bin", "description": "Bin not cleared",
		"location": null, "status": "in_progress", "admin_response": null,
		"image_url": "/uploads/12.jpg", "voice_url": null,
		"created_at": "2025-11-02T10:15:30.123456", "updated_at": "2025-11-03T08:00:00Z",
		"user_name": "Anonymous"
	}`

	var c Complaint
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	want := Complaint{
		ID: 12, UserID: 3, UserName: "Anonymous", Department: "Sanitation", District: "Chennai",
		Subcategory: "Garbage", Title: "Overflowing bin", Description: "Bin not cleared",
		Status: "in_progress", ImageURL: "/uploads/12.jpg",
		CreatedAt: Timestamp{time.Date(2025, 11, 2, 10, 15, 30, 123456000, time.UTC)},
		UpdatedAt: Timestamp{time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)},
	}
	assert.Empty(t, cmp.Diff(want, c))
	assert.Equal(t, "in progress", c.Status.Label())
	assert.Equal(t, "Sanitation", c.DepartmentLabel())
}

func TestComplaint_DepartmentLabelFallback(t *testing.T) {
	c := Complaint{DepartmentName: "Water"}
	assert.Equal(t, "Water", c.DepartmentLabel())
}

func TestTimestamp_Formats(t *testing.T) {
	for _, in := range []string{
		`"2025-01-02T03:04:05"`,
		`"2025-01-02T03:04:05.5"`,
		`"2025-01-02 03:04:05"`,
		`"2025-01-02T03:04:05+00:00"`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.Equal(t, 2025, ts.Year())
		assert.Equal(t, time.Month(1), ts.Month())
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
	assert.Equal(t, "-", ts.Local())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	require.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestProfile_Roles(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.IsAdmin())

	cm := &Profile{RoleName: "cm_admin"}
	assert.True(t, cm.IsAdmin())
	assert.True(t, cm.IsCMAdmin())
	assert.False(t, cm.IsCAdmin())

	c := &Profile{RoleName: "c_admin"}
	assert.True(t, c.IsCAdmin())

	u := &Profile{RoleName: "user"}
	assert.False(t, u.IsAdmin())
}

func TestMessage_Sender(t *testing.T) {
	assert.Equal(t, "Officer Ravi", (&Message{SenderName: "Officer Ravi"}).Sender())
	assert.Equal(t, "User 9", (&Message{SenderID: 9}).Sender())
}

func TestSolveAndStatusBodies(t *testing.T) {
	b, err := json.Marshal(StatusUpdate{Status: "solved"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"solved"}`, string(b))

	b, err = json.Marshal(SolveRequest{AdminResponse: "fixed"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"admin_response":"fixed"}`, string(b))
}
