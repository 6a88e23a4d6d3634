package otp

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
)

// Generator defines the contract for producing one-time password codes.
type Generator interface {
	// Generate returns a new random numeric code.
	Generate() (string, error)
}

// Numeric generates fixed-length numeric codes using crypto/rand.
type Numeric struct {
	digits int
}

// NewNumeric constructs a Numeric generator.
//
// If digits is outside [4, 9], it falls back to 6, the common length for
// email OTPs.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 9 {
		digits = 6
	}

	return &Numeric{digits: digits}
}

// Generate returns a uniformly distributed code in [10^(d-1), 10^d - 1].
//
// Rejection sampling keeps the distribution unbiased; a plain modulo over the
// raw random value would favor the low end of the range.
func (n *Numeric) Generate() (string, error) {
	low := uint64(1)
	for i := 1; i < n.digits; i++ {
		low *= 10
	}
	span := low * 9

	limit := (^uint64(0) / span) * span
	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", err
		}

		v := binary.BigEndian.Uint64(buf[:])
		if v >= limit {
			continue
		}

		return strconv.FormatUint(low+v%span, 10), nil
	}
}
