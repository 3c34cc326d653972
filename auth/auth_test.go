package auth

import (
	"testing"
	"time"

	"github.com/salesanalytics/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, IsHashed(hash))

	assert.NoError(t, VerifyPassword(hash, "s3cret"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestVerifyPasswordRejectsPlaintext(t *testing.T) {
	assert.False(t, IsHashed("s3cret"))
	assert.ErrorIs(t, VerifyPassword("s3cret", "s3cret"), ErrInvalidCredentials)
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	user := models.User{UserID: 7, Username: "director1", Role: models.RoleDirector}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDirector, claims.Role)
	assert.Equal(t, "director1", claims.Username)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}

func TestParseRejects(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	user := models.User{UserID: 3, Username: "ae1", Role: models.RoleAccountExecutive}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other-secret", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer("test-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
