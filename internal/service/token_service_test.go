package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
	"github.com/noah-isme/tutor-pairing-api/pkg/config"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "identity", Audience: []string{"tutor-pairing"}}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	user := &models.User{ID: "admin-1", Email: "admin@example.com", FullName: "Admin", Role: models.RoleAdmin}

	token, err := svc.IssueToken(user, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	token, err := svc.IssueToken(&models.User{ID: "u", Role: models.RoleTutor}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceRejectsWrongIssuerOrAudience(t *testing.T) {
	issuer := NewTokenService(config.JWTConfig{Secret: "test-secret", Issuer: "someone-else", Audience: []string{"tutor-pairing"}})
	token, err := issuer.IssueToken(&models.User{ID: "u", Role: models.RoleTutor}, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenService(testJWTConfig()).ValidateToken(token)
	assert.Error(t, err)

	other := NewTokenService(config.JWTConfig{Secret: "test-secret", Issuer: "identity", Audience: []string{"billing"}})
	token, err = other.IssueToken(&models.User{ID: "u", Role: models.RoleTutor}, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenService(testJWTConfig()).ValidateToken(token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceRejectsOtherAlgorithms(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{Issuer: "identity", Audience: jwt.ClaimStrings{"tutor-pairing"}}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig()).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenServiceRejectsBadSignature(t *testing.T) {
	forged := NewTokenService(config.JWTConfig{Secret: "other", Issuer: "identity", Audience: []string{"tutor-pairing"}})
	token, err := forged.IssueToken(&models.User{ID: "u", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig()).ValidateToken(token)
	assert.Error(t, err)
}
