package crypto

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the adaptive hashing work factor. bcrypt.DefaultCost (10)
// matches the cost the service has always used; changing it only affects
// newly hashed passwords.
const BcryptCost = bcrypt.DefaultCost

// CheckPassword compares a bcrypt hashed password with its possible plaintext
// equivalent. An empty hash (passwordless user) never matches.
func CheckPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateHash creates a bcrypt hash from a password.
func GenerateHash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(hashedBytes), err
}
