package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of plain at the given cost.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHashes caches one throwaway hash per cost.
var dummyHashes sync.Map

// BurnPasswordCheck spends the time of one comparison at cost, so a missing
// account answers no faster than a wrong password.
func BurnPasswordCheck(plain string, cost int) {
	v, ok := dummyHashes.Load(cost)
	if !ok {
		hash, err := bcrypt.GenerateFromPassword([]byte("snippet-vault"), cost)
		if err != nil {
			return
		}
		v, _ = dummyHashes.LoadOrStore(cost, hash)
	}
	_ = bcrypt.CompareHashAndPassword(v.([]byte), []byte(plain))
}

// IsPasswordTooLong reports the bcrypt input limit error.
func IsPasswordTooLong(err error) bool {
	return errors.Is(err, bcrypt.ErrPasswordTooLong)
}
