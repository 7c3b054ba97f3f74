package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for new password hashes
var BcryptCost = 12

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// IsBcryptHash reports whether stored is a well-formed bcrypt hash ($2a$, $2b$ or $2y$).
func IsBcryptHash(stored string) bool {
	if len(stored) != 60 || stored[0] != '$' {
		return false
	}
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// CredentialKind distinguishes how a stored password is represented
type CredentialKind int

const (
	// CredentialPlaintext is a legacy row that still stores the raw password
	CredentialPlaintext CredentialKind = iota
	// CredentialBcrypt is a bcrypt hash
	CredentialBcrypt
)

func (k CredentialKind) String() string {
	if k == CredentialBcrypt {
		return "bcrypt"
	}
	return "plaintext"
}

// Credential is the stored form of a user's password.
// Plaintext credentials only exist until the legacy rows are migrated.
type Credential struct {
	Kind   CredentialKind
	stored string
}

// ParseCredential classifies a stored password column value
func ParseCredential(stored string) Credential {
	if IsBcryptHash(stored) {
		return Credential{Kind: CredentialBcrypt, stored: stored}
	}
	return Credential{Kind: CredentialPlaintext, stored: stored}
}

// Verify checks password against the credential, dispatching on its kind
func (c Credential) Verify(password string) bool {
	switch c.Kind {
	case CredentialBcrypt:
		return CheckPassword(c.stored, password)
	case CredentialPlaintext:
		if c.stored == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(c.stored), []byte(password)) == 1
	default:
		return false
	}
}

// NeedsRehash reports whether the credential should be replaced by a hash
func (c Credential) NeedsRehash() bool {
	return c.Kind != CredentialBcrypt
}

// Stored returns the raw column value
func (c Credential) Stored() string {
	return c.stored
}
