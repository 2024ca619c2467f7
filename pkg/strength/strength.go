// Package strength scores password complexity on an additive 0-5 scale.
package strength

// Tier represents the qualitative strength level derived from a score.
type Tier int

const (
	// TierVeryWeak covers scores 0-1.
	TierVeryWeak Tier = iota
	// TierWeak covers score 2.
	TierWeak
	// TierFair covers score 3.
	TierFair
	// TierStrong covers score 4.
	TierStrong
	// TierVeryStrong covers score 5.
	TierVeryStrong
)

// String returns a human-readable representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierVeryWeak:
		return "Very Weak"
	case TierWeak:
		return "Weak"
	case TierFair:
		return "Fair"
	case TierStrong:
		return "Strong"
	case TierVeryStrong:
		return "Very Strong"
	default:
		return "Unknown"
	}
}

// MaxScore is the highest score Score can return.
const MaxScore = 5

// Score rates a password from 0 to 5. Points are additive:
// length of at least 14 runes earns 2, length of at least 8 earns 1,
// mixed upper and lower case earns 1, a digit earns 1, and any rune
// outside [A-Za-z0-9] earns 1. The empty string scores 0.
//
// Character classes are ASCII: an accented letter counts as a special
// character, not as its case, and only '0'..'9' count as digits.
func Score(password string) int {
	if password == "" {
		return 0
	}

	var (
		length   int
		hasUpper bool
		hasLower bool
		hasDigit bool
		hasOther bool
	)
	for _, r := range password {
		length++
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasOther = true
		}
	}

	score := 0
	switch {
	case length >= 14:
		score += 2
	case length >= 8:
		score++
	}
	if hasUpper && hasLower {
		score++
	}
	if hasDigit {
		score++
	}
	if hasOther {
		score++
	}
	return score
}

// Classify maps a score from Score onto its qualitative tier.
func Classify(score int) Tier {
	switch {
	case score <= 1:
		return TierVeryWeak
	case score == 2:
		return TierWeak
	case score == 3:
		return TierFair
	case score == 4:
		return TierStrong
	default:
		return TierVeryStrong
	}
}
