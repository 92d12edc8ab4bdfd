package session

import (
	"encoding/json"
	"fmt"

	"shutterbook/models"
)

// Session is the identity every client component acts as.
type Session struct {
	UserID      string
	DisplayName string
	Email       string
	Role        models.Role
	Token       string
	Avatar      string
}

// Anonymous is the session before login and after logout.
func Anonymous() Session {
	return Session{Role: models.RoleGuest}
}

// Authenticated reports whether the session carries an identity and a token.
func (s Session) Authenticated() bool {
	return s.UserID != "" && s.Token != ""
}

// IsAdmin reports whether role-gated operations are allowed.
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == models.RoleAdmin
}

func fromAuth(resp *models.AuthResponse) Session {
	role := resp.User.Role
	if role == "" {
		role = models.RoleCustomer
	}
	return Session{
		UserID:      resp.User.ID,
		DisplayName: resp.User.Name,
		Email:       resp.User.Email,
		Role:        role,
		Token:       resp.Token,
		Avatar:      resp.User.Avatar,
	}
}

// storedUser is the "user" storage entry: the session without its token.
type storedUser struct {
	ID     string      `json:"_id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Avatar string      `json:"avatar,omitempty"`
}

func encode(s Session) (Entries, error) {
	b, err := json.Marshal(storedUser{ID: s.UserID, Name: s.DisplayName, Email: s.Email, Role: s.Role, Avatar: s.Avatar})
	if err != nil {
		return Entries{}, err
	}
	return Entries{User: string(b), Token: s.Token}, nil
}

func decode(e Entries) (Session, error) {
	var u storedUser
	if err := json.Unmarshal([]byte(e.User), &u); err != nil {
		return Session{}, fmt.Errorf("corrupt user entry: %w", err)
	}
	if u.ID == "" {
		return Session{}, fmt.Errorf("corrupt user entry: missing id")
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	return Session{UserID: u.ID, DisplayName: u.Name, Email: u.Email, Role: u.Role, Token: e.Token, Avatar: u.Avatar}, nil
}
