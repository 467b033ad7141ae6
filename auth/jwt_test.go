package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateToken("owner", "me@example.com")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.Subject)
	assert.Equal(t, "me@example.com", claims.Email)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).GenerateToken("owner", "")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	issued := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateToken("owner", "")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", 0).GenerateToken("owner", "")
	assert.Error(t, err)
}
