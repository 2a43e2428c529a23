package domain

import "time"

// Role is the closed set of roles an account can hold. The hierarchy is a
// strict total order: user < manager < admin.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleRanks assigns each role its ordinal in the hierarchy. Unknown roles
// rank 0 and satisfy nothing.
var roleRanks = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Rank returns the role's ordinal, or 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Known reports whether r is one of the declared roles.
func (r Role) Known() bool {
	return roleRanks[r] > 0
}

// Satisfies reports whether an actor holding r may perform an action that
// requires at least the given role.
func (r Role) Satisfies(required Role) bool {
	return required.Known() && r.Rank() >= required.Rank()
}

// Identity models a registered account.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleRecord is the catalog entry backing a role name. The catalog is
// metadata owned by the repository; authorization never consults it.
type RoleRecord struct {
	ID          string `json:"id"`
	Name        Role   `json:"name"`
	Description string `json:"description,omitempty"`
}

// Claims is the verified payload extracted from a bearer token.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
