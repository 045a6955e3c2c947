// Package credential implements salted password hashing and verification for
// person records. A credential is two base64 strings: a random 16-byte salt
// and the SHA-256 digest of salt||plaintext. Plaintext is never stored.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// SaltSize is the number of random bytes mixed into every new credential.
const SaltSize = 16

// Credential is an immutable salt+hash pair. Construct via Generate or
// FromPersisted; the zero value verifies nothing.
type Credential struct {
	salt string
	hash string
}

// Salt returns the base64-encoded salt for persistence.
func (c Credential) Salt() string { return c.salt }

// Hash returns the base64-encoded password digest for persistence.
func (c Credential) Hash() string { return c.hash }

// IsZero reports whether the credential carries no material.
func (c Credential) IsZero() bool { return c.salt == "" && c.hash == "" }

// Generate derives a credential from plaintext with a fresh random salt.
// Entropy failure is a fatal configuration problem, not a per-call condition;
// callers should treat a non-nil error as unrecoverable.
func Generate(plaintext string) (Credential, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, fmt.Errorf("credential salt generation: %w", err)
	}
	return Credential{
		salt: base64.StdEncoding.EncodeToString(salt),
		hash: digest(salt, plaintext),
	}, nil
}

// FromPersisted reconstructs a credential from stored salt and hash without
// any computation. Used on reload, when the plaintext is long gone.
func FromPersisted(salt, hash string) Credential {
	return Credential{salt: salt, hash: hash}
}

// Verify reports whether attempt is the plaintext this credential was derived
// from. The comparison is constant-time; a corrupt salt simply never matches.
func Verify(c Credential, attempt string) bool {
	salt, err := base64.StdEncoding.DecodeString(c.salt)
	if err != nil {
		return false
	}
	computed := digest(salt, attempt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(c.hash)) == 1
}

func digest(salt []byte, plaintext string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(plaintext))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
