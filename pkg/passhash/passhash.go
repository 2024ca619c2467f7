// Package passhash implements the PassGuard legacy one-way digest.
//
// The digest is a 32-bit accumulator mixed per input byte: five shift
// amounts are sliced from the low bits of the accumulator, one of ten
// value-range buckets selects a mixing sequence, and a common finishing
// sequence folds in prime constants and the byte itself. It is preserved
// bit-for-bit so that digests written by earlier releases keep verifying.
//
// This is NOT a vetted cryptographic hash. New installations should use
// the argon2id digest mode instead (see pkg/vault); this package exists
// for compatibility with stores created in legacy mode.
package passhash

// Seed is the initial accumulator value, applied before any input byte.
const Seed uint32 = 5381

// Mixing primes. Only divisible by one and themselves, which is why the
// original picked them; the exact values are load-bearing for digest
// compatibility and must not change.
const (
	prime1 uint32 = 15485863
	prime2 uint32 = 982451653
	prime3 uint32 = 314159
	prime4 uint32 = 2718281829
	prime5 uint32 = 7154629
)

// bucketWidth is one decile of the 32-bit value space. The accumulator's
// current bucket decides which mixing sequence runs for the next byte.
const bucketWidth uint32 = 0x19999999

// Sum computes the digest of input. It is total and deterministic: the
// same input always produces the same value, no input causes an error,
// and all arithmetic wraps modulo 2^32. Shift amounts can exceed 31, in
// which case the shifted operand contributes zero, matching the original
// semantics.
//
// A full pass over a non-empty input that lands exactly on zero is
// recomputed with the reduced mixing pass, so Sum never returns zero for
// non-empty input. Empty input digests to the seed value alone.
func Sum(input string) uint32 {
	h := mix(input)
	if h == 0 && len(input) > 0 {
		return reducedMix(input)
	}
	return h
}

// mix runs the full bucketed pass.
func mix(input string) uint32 {
	h := Seed
	for i := 0; i < len(input); i++ {
		b := input[i]

		// Data-dependent shift amounts, fixed for this byte's iteration.
		s1 := 2 * (h & 0x0F)
		s2 := 3 * (h & 0x1F)
		s3 := 5 * (h & 0x3F)
		s4 := 7 * (h & 0x7F)
		s5 := 11 * (h & 0xFF)

		// Bucket-specific mixing: four operations chosen by which decile
		// of the 32-bit space the accumulator currently sits in.
		switch bucket(h) {
		case 0:
			h = (h << s1) ^ (h >> s2)
			h = (h << s1) ^ ^(h >> s2)
			h = (h << s1) + ((h << s2) & (h << s3))
			h = (h << s1) ^ ((h >> s2) * (h << s3))
		case 1:
			h = (h << s1) + (h >> s2) - (h << s3)
			h = ((h << s1) * (h >> s2)) + (h << s3)
			h = (h << s1) + ((h << s2) & (h << s3))
			h = (h << s1) ^ ((h >> s2) * (h << s3))
		case 2:
			h = (((h << s1) & (h >> s2)) | (h << s3)) ^ (h >> s4)
			h = (h << s1) ^ ((h >> s2) * (h << s3))
			h = (h << s1) ^ ((h >> s2) * (h << s3))
			h = (h << s1) ^ ^(h >> s2)
		case 3:
			h = (h << s1) ^ ^(h >> s2)
			h = ((h << s1) * (h >> s2)) + (h << s3)
			h = (((h << s1) & (h >> s2)) | (h << s3)) ^ (h >> s4)
			h = (h << s1) ^ ((h >> s2) * (h << s3))
		case 4:
			h = ((h << s1) * (h >> s2)) + (h << s3)
			h = ((h << s1) * (h >> s2)) + (h << s3)
			h = (h << s1) + ((h << s2) & (h << s3))
			h = (h << s1) + ((h << s2) & (h << s3))
		case 5:
			h = ((h << s1) | (h >> s2)) ^ (h << s3)
			h = ((h << s1) | (h >> s2)) + (h << s3)
			h = (h << s1) + ((h << s2) & (h << s3))
			h = ((h << s1) & (h << s2)) + (h >> s3)
		case 6:
			h = (h << s1) + ((h << s2) & (h << s3))
			h = ((h << s1) | (h >> s2)) + (h << s3)
			h = ((h << s1) | (h >> s2)) ^ (h << s3)
			h = (h << s1) ^ ((h >> s2) * (h << s3))
		case 7:
			h = ((h << s1) | (h >> s2)) + (h << s3)
			h = (((h << s1) & (h >> s2)) | (h << s3)) ^ (h >> s4)
			h = (h << s1) ^ ((h >> s2) * (h << s3))
			h = (h << s1) ^ ((h >> s2) * (h << s3))
		case 8:
			h = (h << s1) ^ ((h >> s2) * (h << s3))
			h = ((h << s1) & (h << s2)) + (h >> s3)
			h = ((h << s1) * (h >> s2)) + (h << s3)
			h = (((h << s1) & (h >> s2)) | (h << s3)) ^ (h >> s4)
		default:
			h = ((h << s1) & (h << s2)) + (h >> s3)
			h = ((h << s1) | (h >> s2)) + (h << s3)
			h = (((h << s1) & (h >> s2)) | (h << s3)) ^ (h >> s4)
			h = ((h << s1) | (h >> s2)) + (h << s3)
		}

		h = finish(h, b, s1, s2, s3, s4, s5)
	}
	return h
}

// reducedMix is the fallback pass: the common finishing sequence only,
// still deterministic, used when the full pass degenerates to zero.
//
// Unlike the full pass, the shift amounts here are reduced modulo 32.
// The full pass zeroes the accumulator whenever all three closing shifts
// reach 32, so reusing its raw shifts would make the fallback collapse on
// the same inputs it exists to rescue. With reduced shifts every step
// keeps contributing bits; if the pass still lands on zero, the seed is
// returned, so the fallback can never yield zero.
func reducedMix(input string) uint32 {
	h := Seed
	for i := 0; i < len(input); i++ {
		s1 := (2 * (h & 0x0F)) % 32
		s2 := (3 * (h & 0x1F)) % 32
		s3 := (5 * (h & 0x3F)) % 32
		s4 := (7 * (h & 0x7F)) % 32
		s5 := (11 * (h & 0xFF)) % 32
		h = finish(h, input[i], s1, s2, s3, s4, s5)
	}
	if h == 0 {
		return Seed
	}
	return h
}

// finish applies the bucket-independent mixing shared by every byte.
func finish(h uint32, b byte, s1, s2, s3, s4, s5 uint32) uint32 {
	h = (h << s1) + (h >> s2)
	h = (h ^ prime1) * prime2
	h = (h ^ prime3) - prime4
	h = (h + prime5) + uint32(b)
	h = (h << s3) + (h << s4) - (h << s5)
	return h
}

// bucket maps an accumulator value to its decile index 0..9.
func bucket(h uint32) int {
	i := int(h / bucketWidth)
	if i > 9 {
		// 0xFFFFFFFA..0xFFFFFFFF fall past the tenth boundary.
		i = 9
	}
	return i
}
