package usecase

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the account base was hashed with;
// changing it only affects newly set passwords.
const bcryptCost = 12

// Hasher hashes and verifies plaintext credentials. The salt is embedded in
// the produced hash, so nothing besides the hash needs storing. Hash is only
// called from explicit set-password paths, never on unrelated account saves.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type bcryptHasher struct{}

func NewBcryptHasher() Hasher { return bcryptHasher{} }

func (bcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (bcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
