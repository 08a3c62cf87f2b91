package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash suitable for the password column.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when no user matches, so unknown accounts
// take as long to reject as wrong passwords.
var dummyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("sessionguard-no-such-user")
	if err != nil {
		panic(err)
	}
	return hash
})
