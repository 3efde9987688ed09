package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword produces a one-way bcrypt hash with a per-call random salt
// embedded in the output.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash. The
// comparison is constant time. A malformed stored hash is treated as a
// mismatch rather than an error so a corrupted record cannot take down
// the login path.
func CheckPassword(plaintext string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
