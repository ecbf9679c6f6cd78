package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "session-signing-secret"

func TestSessionTokenLifetime(t *testing.T) {
	// Issued just under 24h ago: still valid.
	tok, err := newSessionTokenAt(testSecret, time.Now().UTC().Add(-23*time.Hour-59*time.Minute))
	require.NoError(t, err)
	assert.True(t, ValidateSessionToken(testSecret, tok))

	// Issued just over 24h ago: expired.
	tok, err = newSessionTokenAt(testSecret, time.Now().UTC().Add(-24*time.Hour-time.Minute))
	require.NoError(t, err)
	assert.False(t, ValidateSessionToken(testSecret, tok))
}

func TestSessionTokenRejectsForgery(t *testing.T) {
	tok, err := NewSessionToken(testSecret)
	require.NoError(t, err)

	assert.True(t, ValidateSessionToken(testSecret, tok))
	assert.False(t, ValidateSessionToken("other-secret", tok), "token signed with a different key")
	assert.False(t, ValidateSessionToken(testSecret, tok+"x"))
	assert.False(t, ValidateSessionToken(testSecret, ""))
	assert.False(t, ValidateSessionToken(testSecret, "eyJhbGciOiJub25lIn0.e30."), "unsigned token")
}

func TestSessionTokensAreUnique(t *testing.T) {
	a, err := NewSessionToken(testSecret)
	require.NoError(t, err)
	b, err := NewSessionToken(testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ per session")
}

func TestVerifyAdminPassword(t *testing.T) {
	hash, err := HashAdminPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, VerifyAdminPassword(hash, "hunter2"))
	assert.False(t, VerifyAdminPassword(hash, "hunter3"))
	assert.False(t, VerifyAdminPassword("not-a-hash", "hunter2"))
}
