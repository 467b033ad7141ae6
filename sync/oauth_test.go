package sync

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/harperreed/voss/config"
)

func TestOAuthConfigRequiresCredentials(t *testing.T) {
	_, err := NewOAuthConfig(config.GoogleConfig{ClientID: "id"})
	assert.Error(t, err)

	cfg, err := NewOAuthConfig(config.GoogleConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	require.NoError(t, err)
	assert.Equal(t, []string{gmailReadonlyScope}, cfg.Scopes)
	assert.Equal(t, "http://localhost/cb", cfg.RedirectURL)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, SaveToken(path, token))
	got, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)
	assert.True(t, token.Expiry.Equal(got.Expiry))

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTokenPathIsUnderVoss(t *testing.T) {
	assert.Equal(t, "google-credentials.json", filepath.Base(TokenPath()))
	assert.Equal(t, "voss", filepath.Base(filepath.Dir(TokenPath())))
}
