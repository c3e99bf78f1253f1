package dto

import (
	"time"

	"github.com/noah-isme/siap-guru-api/internal/models"
)

// LoginRequest authenticates one of the three roles. Identifier is the teacher id for GURU
// and the class id for KETUA_KELAS; it is ignored for ADMIN.
type LoginRequest struct {
	Role       models.UserRole `json:"role" validate:"required,oneof=ADMIN GURU KETUA_KELAS"`
	Identifier string          `json:"identifier"`
	Password   string          `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and session identity.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	User        models.User `json:"user"`
}
