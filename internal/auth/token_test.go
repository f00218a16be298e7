package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)
	actor := domain.Actor{ID: "user-1", Role: domain.RoleTechnician, CompanyID: "company-1"}

	token, expiresAt, err := manager.GenerateToken(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, domain.RoleTechnician, claims.Role)
	require.Equal(t, "company-1", claims.CompanyID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(domain.Actor{ID: "user-1", Role: domain.RoleClientUser, CompanyID: "company-1"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)
	_, err := manager.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw", 4)
	require.NoError(t, err)
	require.NotEqual(t, "pw", hash)

	require.NoError(t, ComparePassword(hash, "pw"))
	require.Error(t, ComparePassword(hash, "wrong"))
}
