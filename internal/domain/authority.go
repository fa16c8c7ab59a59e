package domain

import "fmt"

// Authority is the membership record binding one user to one account book.
// At most one Authority exists per (user, book) pair; a row whose role is
// RoleLeft persists as an audit marker but counts as no active membership.
type Authority struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`
	Role   Role   `json:"role"`
}

// Active reports whether this row grants any access at all.
func (a *Authority) Active() bool {
	return a.Role.Active()
}

// Role is the privilege level a user holds on an account book.
// Lower numeric value means higher privilege; RoleLeft is a terminal
// soft-deleted state, not absence of a row. All permission checks compare
// roles through the ordering, never by name.
type Role int

const (
	// RoleCreator owns the book: may delete it and remove any member.
	RoleCreator Role = iota
	// RoleWriter may share the book and remove equal or lower members.
	RoleWriter
	// RoleReader holds plain membership.
	RoleReader
	// RoleLeft marks a membership the user has left. Terminal.
	RoleLeft
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleWriter:
		return "writer"
	case RoleReader:
		return "reader"
	case RoleLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "creator":
		return RoleCreator, true
	case "writer":
		return RoleWriter, true
	case "reader":
		return RoleReader, true
	case "left":
		return RoleLeft, true
	default:
		return RoleLeft, false
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RoleCreator && r <= RoleLeft
}

// Active reports whether the role grants membership at all.
func (r Role) Active() bool {
	return r.Valid() && r != RoleLeft
}

// AtLeast reports whether r is equal or more privileged than other.
// Privilege decreases as the numeric value increases.
func (r Role) AtLeast(other Role) bool {
	return r <= other
}

// CanShare reports whether a member with this role may grant membership
// to other users. Only creators and writers may share.
func (r Role) CanShare() bool {
	return r.Active() && r.AtLeast(RoleWriter)
}

// MarshalText implements encoding.TextMarshaler so roles render as their
// names in JSON.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, ok := ParseRole(string(text))
	if !ok {
		return fmt.Errorf("unknown role %q", string(text))
	}
	*r = parsed
	return nil
}
