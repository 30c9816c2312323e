package model

import "time"

// AccountStatus describes the lifecycle state of a user account.  Only
// ACTIVE accounts may authenticate; the other states are kept for admin
// tooling.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusInactive  AccountStatus = "INACTIVE"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// Role labels used to gate access to operations.  Roles are coarse grained
// by design; a user carries a set of them and an operation declares which
// ones it accepts.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an identity record owned by the user directory.  The JSON tags
// define the wire representation used by the resource layer; the bcrypt
// password hash is never serialized.
//
// Fields:
//
//	ID           – numeric identifier, assigned by the directory on create.
//	Username     – unique login name; lookups are exact-match.
//	Email        – contact address embedded in issued tokens.
//	FirstName    – display name part.
//	LastName     – display name part.
//	PasswordHash – bcrypt hash of the password; json "-" keeps it private.
//	Roles        – set of role labels (e.g. USER, ADMIN).
//	Status       – account lifecycle state.
//	CreatedAt    – when the record was created.
//	LastLogin    – last successful credential verification, nil if never.
type User struct {
	ID           uint64        `json:"user_id"`
	Username     string        `json:"user_name"`
	Email        string        `json:"email_address"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	PasswordHash string        `json:"-"`
	Roles        []string      `json:"roles"`
	Status       AccountStatus `json:"account_status"`
	CreatedAt    time.Time     `json:"created_at"`
	LastLogin    *time.Time    `json:"last_login,omitempty"`
}

// HasRole reports whether the user carries the given role label.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns a copy of the user with its own roles slice so callers
// cannot mutate directory state through a returned record.
func (u *User) Clone() User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return c
}
