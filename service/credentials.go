package application

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"math/big"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength  = 16
	tokenLength = 64
	alphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var ErrEmptyPassword = errors.New("password cannot be empty")

// HashPassword derives the stored hash of password with the account salt.
// The same inputs always produce the same hash.
func HashPassword(password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash := argon2.IDKey([]byte(password), []byte(salt), 1, 64*1024, 4, 32)
	return base64.StdEncoding.EncodeToString(hash), nil
}

func VerifyPassword(password, salt, hash string) bool {
	computed, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func NewSalt() string {
	return randomString(saltLength)
}

func NewToken() string {
	return randomString(tokenLength)
}

func randomString(n int) string {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
