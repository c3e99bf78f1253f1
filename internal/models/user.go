package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleTeacher  UserRole = "GURU"
	RoleClassRep UserRole = "KETUA_KELAS"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleClassRep:
		return true
	default:
		return false
	}
}

// User is the session identity returned at login.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"nama"`
	Role  UserRole `json:"role"`
	Class string   `json:"kelas,omitempty"`
	Email string   `json:"email"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"nama"`
	Role   UserRole `json:"role"`
	Class  string   `json:"kelas,omitempty"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}

// User converts the claims back into the session identity.
func (c *JWTClaims) User() User {
	return User{ID: c.UserID, Name: c.Name, Role: c.Role, Class: c.Class, Email: c.Email}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
