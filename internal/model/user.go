package model

import "time"

// Account roles stored in profiles.role.
const (
	RoleGuest = "GUEST"
	RoleHost  = "HOST"
)

// User represents an account row in the `profiles` table.  Every
// account can book stays; HOST accounts can additionally list
// properties and read the host dashboard.
//
// Fields:
//  ID           – primary key identifier of the profile.
//  Email        – unique email address, also used as the guest name.
//  PasswordHash – bcrypt hashed password.
//  Role         – GUEST or HOST.
//  IsActive     – whether the account may sign in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored, only its SHA-256 hex digest.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
