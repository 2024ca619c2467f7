// Package generate produces random passwords and passphrases.
package generate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Mode selects the generation strategy.
type Mode string

const (
	// ModePhrase joins random words from a fixed list with a separator.
	ModePhrase Mode = "phrase"
	// ModeCharsetFull draws from letters, digits, and symbols.
	ModeCharsetFull Mode = "charset-full"
	// ModeCharsetAlnum draws from letters and digits only.
	ModeCharsetAlnum Mode = "charset-alnum"
)

// Character set constants
const (
	charsetLowercase = "abcdefghijklmnopqrstuvwxyz"
	charsetUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetDigits    = "0123456789"
	charsetSymbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	charsetAlnum = charsetLowercase + charsetUppercase + charsetDigits
	charsetFull  = charsetAlnum + charsetSymbols

	// phraseSeparator joins words in phrase mode.
	phraseSeparator = "-"
)

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePhrase, ModeCharsetFull, ModeCharsetAlnum:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("generate: unknown mode %q (want phrase, charset-full, or charset-alnum)", s)
	}
}

// Generate produces a random secret. For charset modes length is the number
// of characters; for phrase mode it is the number of words. A length of 0
// returns the empty string in every mode.
func Generate(mode Mode, length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("generate: length must not be negative, got %d", length)
	}
	if length == 0 {
		return "", nil
	}

	switch mode {
	case ModePhrase:
		return generatePhrase(length)
	case ModeCharsetFull:
		return generateCharset(charsetFull, length)
	case ModeCharsetAlnum:
		return generateCharset(charsetAlnum, length)
	default:
		return "", fmt.Errorf("generate: unknown mode %q", mode)
	}
}

// generateCharset generates a cryptographically secure random password.
func generateCharset(charset string, length int) (string, error) {
	charsetLen := big.NewInt(int64(len(charset)))
	password := make([]byte, length)

	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("generate: failed to read random source: %w", err)
		}
		password[i] = charset[idx.Int64()]
	}

	return string(password), nil
}

// generatePhrase joins random words from the embedded word list.
// Words are drawn with replacement.
func generatePhrase(words int) (string, error) {
	listLen := big.NewInt(int64(len(wordList)))
	parts := make([]string, words)

	for i := 0; i < words; i++ {
		idx, err := rand.Int(rand.Reader, listLen)
		if err != nil {
			return "", fmt.Errorf("generate: failed to read random source: %w", err)
		}
		parts[i] = wordList[idx.Int64()]
	}

	return strings.Join(parts, phraseSeparator), nil
}
