package models

import "github.com/dmitrijs2005/civicwatch/internal/common"

// Profile is the authenticated user as returned by /auth/me and /users/me.
type Profile struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	RoleName       string    `json:"role_name"`
	DepartmentID   *int64    `json:"department_id,omitempty"`
	Address        string    `json:"address,omitempty"`
	Age            *int      `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && common.IsAdminRole(p.RoleName)
}

func (p *Profile) IsCMAdmin() bool {
	return p != nil && p.RoleName == common.RoleCMAdmin
}

func (p *Profile) IsCAdmin() bool {
	return p != nil && p.RoleName == common.RoleCAdmin
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the body of /auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of PUT /users/me; empty fields are left unchanged.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Age     *int   `json:"age,omitempty"`
	Gender  string `json:"gender,omitempty"`
}
