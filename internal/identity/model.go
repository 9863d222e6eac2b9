package identity

import (
	"strings"
	"time"
)

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"passwordHash"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Phone             string     `json:"phone"`
	Role              Role       `json:"role"`
	Department        string     `json:"department,omitempty"`
	Specialization    string     `json:"specialization,omitempty"`
	Avatar            string     `json:"avatar,omitempty"`
	IsActive          bool       `json:"isActive"`
	IsEmailVerified   bool       `json:"isEmailVerified"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	PasswordChangedAt time.Time  `json:"passwordChangedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (u User) EntityID() string { return u.ID }

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) EntityID() string { return s.ID }

// SessionState is the document persisted under the auth key.
type SessionState struct {
	Sessions []Session `json:"sessions"`
}

// NormalizeEmail is applied on every path that compares or stores an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type CreateUserInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	Role           Role
	Department     string
	Specialization string
	IsActive       bool
}

// ProfilePatch holds the fields a user may change on their own account.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
}

// UserPatch is the admin edit; nil fields are left unchanged.
type UserPatch struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Phone          *string
	Role           *Role
	Department     *string
	Specialization *string
	IsActive       *bool
	Password       *string
}

// LoginResult is returned by Login and Register.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
	Session   Session
}
