package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-planner/internal/models"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
)

func newAuthServiceForTest(secret string) *AuthService {
	return NewAuthService(nil, zap.NewNop(), AuthConfig{AccessTokenSecret: secret, AccessTokenExpiry: time.Hour, Issuer: "horario-planner"})
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newAuthServiceForTest("secret")

	token, err := svc.IssueToken(IssueTokenRequest{Subject: "ops", Role: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthServiceIssueTokenValidation(t *testing.T) {
	svc := newAuthServiceForTest("secret")

	_, err := svc.IssueToken(IssueTokenRequest{Subject: "ops", Role: "ROOT"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.IssueToken(IssueTokenRequest{Role: models.RoleViewer})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	issuer := newAuthServiceForTest("secret")
	token, err := issuer.IssueToken(IssueTokenRequest{Subject: "ops", Role: models.RoleViewer})
	require.NoError(t, err)

	other := newAuthServiceForTest("another-secret")
	_, err = other.ValidateToken(token.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	otherIssuer := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "someone-else"})
	_, err = otherIssuer.ValidateToken(token.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = issuer.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceExpiredToken(t *testing.T) {
	svc := newAuthServiceForTest("secret")
	token, err := svc.IssueToken(IssueTokenRequest{Subject: "ops", Role: models.RoleAdmin, TTL: time.Nanosecond})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = svc.ValidateToken(token.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
