package utils

import "golang.org/x/crypto/bcrypt"

// HashAdminPassword returns a bcrypt hash suitable for the
// ADMIN_PASSWORD_HASH configuration value.
func HashAdminPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyAdminPassword safely compares the configured bcrypt hash with
// a login attempt.
func VerifyAdminPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
