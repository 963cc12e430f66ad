package model

import "time"

// Staff roles stored in staff_users.role.
const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// StaffUser is a front-of-house or admin account allowed to manage
// reservations and the store calendar.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login e-mail.
//  PasswordHash – bcrypt hash.
//  Role         – RoleStaff or RoleAdmin.
//  IsActive     – inactive accounts cannot log in.
type StaffUser struct {
	ID           uint64    `db:"id"`            // staff_users.id
	Email        string    `db:"email"`         // staff_users.email
	PasswordHash string    `db:"password_hash"` // staff_users.password_hash
	Role         string    `db:"role"`          // staff_users.role
	IsActive     bool      `db:"is_active"`     // staff_users.is_active
	CreatedAt    time.Time `db:"created_at"`    // staff_users.created_at
	UpdatedAt    time.Time `db:"updated_at"`    // staff_users.updated_at
}

// StaffSession models a refresh token row in staff_sessions.  Only the
// SHA-256 hash of the token is stored.
type StaffSession struct {
	ID        uint64     `db:"id"`         // staff_sessions.id
	UserID    uint64     `db:"user_id"`    // staff_sessions.user_id
	TokenHash string     `db:"token_hash"` // staff_sessions.token_hash
	ExpiresAt time.Time  `db:"expires_at"` // staff_sessions.expires_at
	RevokedAt *time.Time `db:"revoked_at"` // staff_sessions.revoked_at (nullable)
	CreatedAt time.Time  `db:"created_at"` // staff_sessions.created_at
}
