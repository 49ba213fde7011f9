package models

import (
	"strings"
	"time"
)

// Role is the authorization role carried in session tokens.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicUser is what registration returns.
type PublicUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Profile is a PublicUser plus its role.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
