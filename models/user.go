package models

// Role names form a fixed set. A user holds exactly one role; self-registered
// users default to Member.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleMember     = "Member"
)

// User represents an account in the system.
// It maps to the `users` table in SQLite. PasswordHash is never serialized.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}
