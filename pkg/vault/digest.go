package vault

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/passguard/passguard/pkg/crypto"
	"github.com/passguard/passguard/pkg/passhash"
)

// DigestMode selects how the master password digest is computed and stored.
type DigestMode string

const (
	// DigestLegacy stores the bucketed 32-bit digest as a decimal string.
	// Kept for compatibility with stores created by earlier releases.
	DigestLegacy DigestMode = "legacy"

	// DigestArgon2id stores a self-describing salted Argon2id digest.
	DigestArgon2id DigestMode = "argon2id"
)

const argon2idPrefix = "argon2id$"

// ParseDigestMode converts a mode name into a DigestMode.
func ParseDigestMode(s string) (DigestMode, error) {
	switch DigestMode(s) {
	case DigestLegacy, DigestArgon2id:
		return DigestMode(s), nil
	default:
		return "", fmt.Errorf("vault: unknown digest mode %q (want legacy or argon2id)", s)
	}
}

// computeDigest produces the stored representation of a master password.
func computeDigest(mode DigestMode, password string) (string, error) {
	switch mode {
	case DigestArgon2id:
		salt, err := crypto.NewSalt()
		if err != nil {
			return "", err
		}
		key := crypto.DeriveKey([]byte(password), salt)
		return argon2idPrefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
	case DigestLegacy:
		return strconv.FormatUint(uint64(passhash.Sum(password)), 10), nil
	default:
		return "", fmt.Errorf("vault: unknown digest mode %q", mode)
	}
}

// verifyDigest checks a candidate password against a stored digest. The
// stored format is self-describing, so a store onboarded in one mode stays
// verifiable regardless of the configured mode.
func verifyDigest(stored, password string) bool {
	if strings.HasPrefix(stored, argon2idPrefix) {
		return verifyArgon2id(stored, password)
	}
	candidate := strconv.FormatUint(uint64(passhash.Sum(password)), 10)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

func verifyArgon2id(stored, password string) bool {
	parts := strings.Split(strings.TrimPrefix(stored, argon2idPrefix), "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) != crypto.SaltLength {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil || len(want) != crypto.KeyLength {
		return false
	}
	got := crypto.DeriveKey([]byte(password), salt)
	defer crypto.SecureWipe(got)
	return subtle.ConstantTimeCompare(want, got) == 1
}
