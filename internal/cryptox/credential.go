// Package cryptox verifies the admin credential without keeping the
// plaintext password around: the password is stretched with argon2id and
// only the salt and derived key are held.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	scheme   = "argon2id"
	saltSize = 16
)

// ErrMalformedCredential is returned by ParseCredential for input that is
// not "argon2id$<salt hex>$<key hex>".
var ErrMalformedCredential = errors.New("malformed credential")

// CredentialVerifier checks a user/password pair.
type CredentialVerifier interface {
	Verify(user string, password []byte) bool
}

// DeriveKey stretches password with argon2id (1 pass, 64 MiB, 4 lanes) into
// a 32-byte key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Credential is a user name plus an argon2id verifier for its password.
type Credential struct {
	User string
	Salt []byte
	Key  []byte
}

// NewCredential hashes password under a fresh random salt.
func NewCredential(user string, password []byte) (*Credential, error) {
	salt := common.GenerateRandByteArray(saltSize)
	if salt == nil {
		return nil, fmt.Errorf("generate salt: %w", common.ErrorInternal)
	}
	return &Credential{User: user, Salt: salt, Key: DeriveKey(password, salt)}, nil
}

// ParseCredential decodes the form produced by Encode.
func ParseCredential(user, encoded string) (*Credential, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return nil, ErrMalformedCredential
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return nil, ErrMalformedCredential
	}
	key, err := hex.DecodeString(parts[2])
	if err != nil || len(key) == 0 {
		return nil, ErrMalformedCredential
	}
	return &Credential{User: user, Salt: salt, Key: key}, nil
}

// Encode returns "argon2id$<salt hex>$<key hex>".
func (c *Credential) Encode() string {
	return scheme + "$" + hex.EncodeToString(c.Salt) + "$" + hex.EncodeToString(c.Key)
}

// Verify compares both the user name and the derived key in constant time.
func (c *Credential) Verify(user string, password []byte) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.User))
	keyOK := subtle.ConstantTimeCompare(DeriveKey(password, c.Salt), c.Key)
	return userOK&keyOK == 1
}
