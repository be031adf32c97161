package domain

import "strings"

// Role is one of the closed set of portal user categories.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleHospitalAdmin Role = "HOSPITAL_ADMIN"
	RoleDoctor        Role = "DOCTOR"
	RolePatient       Role = "PATIENT"
	RoleReceptionist  Role = "RECEPTIONIST"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleHospitalAdmin, RoleDoctor, RolePatient, RoleReceptionist}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Valid reports whether r is exactly one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is the authenticated identity returned by the backend.
type User struct {
	ID       string `json:"id" validate:"required"`
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"required,oneof=ADMIN HOSPITAL_ADMIN DOCTOR PATIENT RECEPTIONIST"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Session is the client-held record of the current identity and its bearer credential.
// User and Token are either both set or both empty.
type Session struct {
	User  *User  `json:"user" validate:"required"`
	Token string `json:"token" validate:"required"`
}

// Clone returns a deep copy so callers cannot mutate store state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := &Session{Token: s.Token}
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return c
}

// Role returns the session's role, or "" when there is no user.
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Role
}
