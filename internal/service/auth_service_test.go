package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc, err := NewAuthService(NewStateStore(fixtureState()), nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "siap-guru-test",
		EmailDomain:       "smpn1.sch.id",
		AdminPassword:     "admin-pass",
		TeacherPassword:   "guru-pass",
	})
	require.NoError(t, err)
	return svc
}

func TestAuthLoginPerRole(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	admin, err := svc.Login(ctx, dto.LoginRequest{Role: models.RoleAdmin, Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.User.ID)
	assert.Equal(t, "admin@smpn1.sch.id", admin.User.Email)
	assert.Equal(t, int64(3600), admin.ExpiresIn)

	teacher, err := svc.Login(ctx, dto.LoginRequest{Role: models.RoleTeacher, Identifier: " em ", Password: "guru-pass"})
	require.NoError(t, err)
	assert.Equal(t, "EM", teacher.User.ID)
	assert.Equal(t, "Emilia Kartika Sari, S.Pd", teacher.User.Name)

	claims, err := svc.ValidateToken(teacher.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "EM", claims.Subject)
	assert.Equal(t, "siap-guru-test", claims.Issuer)
	assert.Equal(t, teacher.User, claims.User())
}

func TestAuthClassRepIdentity(t *testing.T) {
	svc, err := NewAuthService(NewStateStore(fixtureState()), nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		EmailDomain:       "smpn1.sch.id",
		ClassRepPassword:  "ketua-pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Role: models.RoleClassRep, Identifier: "7a", Password: "ketua-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.User{
		ID:    "ketua-7a",
		Name:  "Ketua Kelas VII A",
		Role:  models.RoleClassRep,
		Class: "7A",
		Email: "ketua.7a@smpn1.sch.id",
	}, resp.User)
	assert.Equal(t, int64((12 * time.Hour).Seconds()), resp.ExpiresIn)
}

func TestAuthLoginRejections(t *testing.T) {
	svc := newTestAuthService(t)

	cases := []struct {
		name string
		req  dto.LoginRequest
		want error
	}{
		{"wrong password", dto.LoginRequest{Role: models.RoleAdmin, Password: "nope"}, appErrors.ErrInvalidCredentials},
		{"unknown teacher", dto.LoginRequest{Role: models.RoleTeacher, Identifier: "ZZ", Password: "guru-pass"}, appErrors.ErrInvalidCredentials},
		{"unknown class", dto.LoginRequest{Role: models.RoleClassRep, Identifier: "10A", Password: "x"}, appErrors.ErrInvalidCredentials},
		{"role without password", dto.LoginRequest{Role: models.RoleClassRep, Identifier: "7A", Password: "x"}, appErrors.ErrInvalidCredentials},
		{"unknown role", dto.LoginRequest{Role: "KEPALA", Password: "x"}, appErrors.ErrValidation},
		{"missing password", dto.LoginRequest{Role: models.RoleAdmin}, appErrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthValidateTokenRejectsForeignAndExpired(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	other, err := NewAuthService(NewStateStore(fixtureState()), nil, nil, AuthConfig{AccessTokenSecret: "other", AdminPassword: "admin-pass"})
	require.NoError(t, err)
	foreign, err := other.Login(ctx, dto.LoginRequest{Role: models.RoleAdmin, Password: "admin-pass"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.Login(ctx, dto.LoginRequest{Role: models.RoleAdmin, Password: "admin-pass"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
