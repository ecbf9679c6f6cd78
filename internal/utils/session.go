package utils // package utils provides helpers for admin session tokens and password checks

import (
	"crypto/rand"  // secure random nonce generation
	"encoding/hex" // hex encoding for the nonce claim
	"time"         // expiry arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for signed session tokens
)

// SessionTTL is how long an admin session stays valid after login.
const SessionTTL = 24 * time.Hour

// NewSessionToken issues a signed HS256 session token for the admin
// panel.  The token carries an issued-at, an expiry 24 hours out and a
// random nonce, and is signed with the server's session secret, so it
// cannot be forged by anyone who merely knows the encoding scheme.
func NewSessionToken(secret string) (string, error) {
	return newSessionTokenAt(secret, time.Now().UTC())
}

func newSessionTokenAt(secret string, now time.Time) (string, error) {
	nonce, err := randomHex(16)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"iat":   now.Unix(),
		"exp":   now.Add(SessionTTL).Unix(),
		"nonce": nonce,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ValidateSessionToken reports whether the token was signed with the
// given secret and has not expired.  Expiry is enforced by the JWT
// library during parsing.
func ValidateSessionToken(secret, token string) bool {
	if token == "" {
		return false
	}
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	return err == nil && tok.Valid
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
