// Package crypto provides the key derivation and authenticated encryption
// primitives used by passguard for the modern master-password digest and
// for encrypted backups.
//
// Keys are derived with Argon2id using OWASP-recommended parameters and
// payloads are sealed with AES-256-GCM. Seal prepends the random nonce to
// the ciphertext so a sealed payload is a single self-contained blob.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters following OWASP recommendations.
const (
	// Argon2Memory is the memory cost in KiB (64MB).
	Argon2Memory = 64 * 1024

	// Argon2Time is the number of iterations.
	Argon2Time = 3

	// Argon2Threads is the degree of parallelism.
	Argon2Threads = 4

	// KeyLength is the length of derived keys in bytes (256 bits).
	KeyLength = 32

	// SaltLength is the length of derivation salts in bytes.
	SaltLength = 16

	// nonceLength is the length of GCM nonces in bytes (96 bits).
	nonceLength = 12
)

// Sentinel errors returned by crypto functions.
var (
	// ErrInvalidKeyLength indicates the key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("crypto: invalid key length, must be 32 bytes")

	// ErrSealedTooShort indicates the sealed payload is shorter than nonce plus tag.
	ErrSealedTooShort = errors.New("crypto: sealed payload too short")

	// ErrDecryptionFailed indicates authentication tag verification failed.
	ErrDecryptionFailed = errors.New("crypto: decryption failed, authentication tag verification failed")
)

// NewSalt returns SaltLength bytes of cryptographically secure random data.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a 256-bit key from a password using Argon2id.
// The salt should come from NewSalt or be at least 16 random bytes.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, Argon2Time, Argon2Memory, Argon2Threads, KeyLength)
}

// Seal encrypts plaintext with AES-256-GCM under key. The returned payload
// is nonce || ciphertext || tag and must be opened with the same key.
func Seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a payload produced by Seal, verifying the authentication
// tag. A wrong key or a tampered payload yields ErrDecryptionFailed.
func Open(key, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < nonceLength+gcm.Overhead() {
		return nil, ErrSealedTooShort
	}

	nonce, ciphertext := sealed[:nonceLength], sealed[nonceLength:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create GCM: %w", err)
	}
	return gcm, nil
}

// SecureWipe overwrites a byte slice with zeros in a way that prevents
// compiler optimization from removing the operation.
func SecureWipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// runtime.KeepAlive ensures the writes are not optimized away
	// since b is still "in use" after the loop.
	runtime.KeepAlive(b)
}
