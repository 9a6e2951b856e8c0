package domain

import (
	"context"
	"time"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleUser      Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleUser:
		return true
	}
	return false
}

// CanWriteEvents reports whether the role may create or modify events.
func (r Role) CanWriteEvents() bool {
	return r == RoleAdmin || r == RoleOrganizer
}

// User represents a registered account.
// swagger:model User
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Organizer is the publishing profile owned by a user.
// swagger:model Organizer
type Organizer struct {
	ID           int64   `json:"id" db:"id"`
	UserID       int64   `json:"user_id" db:"user_id"`
	DisplayName  string  `json:"display_name" db:"display_name"`
	Website      *string `json:"website" db:"website"`
	IsPartner    bool    `json:"is_partner" db:"is_partner"`
	TokenBalance int     `json:"token_balance" db:"token_balance"`
	UserEmail    *string `json:"user_email,omitempty" db:"user_email"`
	UserName     *string `json:"user_name,omitempty" db:"user_name"`
}

// Principal is the authenticated caller.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

// RegisterInput is the registration payload.
// swagger:model RegisterInput
type RegisterInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
}

// AuthResult is returned after a successful login.
// swagger:model AuthResult
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// AdminStats are the counters shown on the admin dashboard.
// swagger:model AdminStats
type AdminStats struct {
	TotalUsers      int `json:"total_users" db:"total_users"`
	TotalAdmins     int `json:"total_admins" db:"total_admins"`
	TotalOrganizers int `json:"total_organizers" db:"total_organizers"`
	TotalEvents     int `json:"total_events" db:"total_events"`
	OrganizerUsers  int `json:"organizer_users" db:"organizer_users"`
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed access tokens.
type TokenIssuer interface {
	Issue(p Principal, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the caller it was issued for.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// UserRepository stores users.
type UserRepository interface {
	// Create inserts u in one transaction. The first user ever becomes admin;
	// org is stored when the resulting role may write events.
	Create(ctx context.Context, u *User, org *Organizer) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Stats(ctx context.Context) (*AdminStats, error)
}

// OrganizerRepository stores organizer profiles.
type OrganizerRepository interface {
	GetByID(ctx context.Context, id int64) (*Organizer, error)
	GetByUserID(ctx context.Context, userID int64) (*Organizer, error)
	List(ctx context.Context) ([]Organizer, error)
}

// AuthService registers users and issues tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID int64) (*User, error)
}

// AdminService exposes the admin dashboard reads.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListOrganizers(ctx context.Context) ([]Organizer, error)
}
