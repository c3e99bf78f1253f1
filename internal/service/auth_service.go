package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/masterdata"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

const (
	adminUserID   = "admin"
	adminUserName = "Administrator"
)

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	EmailDomain       string
	AdminPassword     string
	TeacherPassword   string
	ClassRepPassword  string
}

type rosterReader interface {
	Snapshot() *AppState
}

// AuthService signs in the three roles with their shared passwords and issues access tokens.
type AuthService struct {
	roster    rosterReader
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	hashes    map[models.UserRole][]byte
	now       func() time.Time
}

// NewAuthService hashes the configured role passwords so plain text never stays in memory.
func NewAuthService(roster rosterReader, validate *validator.Validate, logger *zap.Logger, config AuthConfig) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	passwords := map[models.UserRole]string{
		models.RoleAdmin:    config.AdminPassword,
		models.RoleTeacher:  config.TeacherPassword,
		models.RoleClassRep: config.ClassRepPassword,
	}
	hashes := make(map[models.UserRole][]byte, len(passwords))
	for role, password := range passwords {
		if password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash %s password: %w", role, err)
		}
		hashes[role] = hash
	}
	config.AdminPassword, config.TeacherPassword, config.ClassRepPassword = "", "", ""
	return &AuthService{roster: roster, validator: validate, logger: logger, config: config, hashes: hashes, now: time.Now}, nil
}

// Login authenticates a role and returns an access token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.resolveUser(req.Role, strings.TrimSpace(req.Identifier))
	if err != nil {
		return nil, err
	}

	hash, ok := s.hashes[req.Role]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		s.logger.Info("login rejected", zap.String("role", string(req.Role)), zap.String("identifier", req.Identifier))
		return nil, appErrors.ErrInvalidCredentials
	}

	token, issuedAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.logger.Info("login succeeded", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        user,
	}, nil
}

func (s *AuthService) resolveUser(role models.UserRole, identifier string) (models.User, error) {
	switch role {
	case models.RoleAdmin:
		return models.User{ID: adminUserID, Name: adminUserName, Role: role, Email: s.email(adminUserID)}, nil
	case models.RoleTeacher:
		teacher, ok := s.roster.Snapshot().TeacherByID(strings.ToUpper(identifier))
		if !ok {
			return models.User{}, appErrors.ErrInvalidCredentials
		}
		return models.User{ID: teacher.ID, Name: teacher.Name, Role: role, Email: s.email(teacher.ID)}, nil
	case models.RoleClassRep:
		class, ok := masterdata.ClassByID(strings.ToUpper(identifier))
		if !ok {
			return models.User{}, appErrors.ErrInvalidCredentials
		}
		return models.User{ID: "ketua-" + strings.ToLower(class.ID), Name: "Ketua Kelas " + class.Name, Role: role, Class: class.ID, Email: s.email("ketua." + class.ID)}, nil
	default:
		return models.User{}, appErrors.ErrInvalidCredentials
	}
}

func (s *AuthService) email(local string) string {
	if s.config.EmailDomain == "" {
		return strings.ToLower(local)
	}
	return strings.ToLower(local) + "@" + s.config.EmailDomain
}

func (s *AuthService) generateAccessToken(user models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		Class:  user.Class,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

// ValidateToken parses and validates an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}
