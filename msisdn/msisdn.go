// Package msisdn canonicalizes free-form subscriber numbers into identifiers.
//
// Everything that is not an ASCII digit is dropped ("+49 (151) 123-45" becomes
// 4915112345). The surviving digits must number between 1 and MaxDigits.
// Normalize folds every failure into the identifier 0; Parse reports why.
package msisdn

import (
	"errors"
	"strconv"
)

// MaxDigits is the longest accepted digit sequence (ITU-T E.164).
const MaxDigits = 15

// Invalid is the identifier returned by Normalize when the input is rejected.
const Invalid uint64 = 0

var (
	// ErrNoDigits is returned when the input holds no ASCII digit.
	ErrNoDigits = errors.New("msisdn: no digits")
	// ErrTooManyDigits is returned when more than MaxDigits digits remain.
	ErrTooManyDigits = errors.New("msisdn: too many digits")
	// ErrOverflow is returned when the digits do not fit in 64 bits.
	ErrOverflow = errors.New("msisdn: value out of range")
	// ErrZero is returned for all-zero input such as "000", which would collide with Invalid.
	ErrZero = errors.New("msisdn: zero value")
)

// Normalize returns the identifier encoded in text, or Invalid.
// Literal zero input ("0", "000") also yields Invalid.
func Normalize(text string) uint64 {
	id, err := Parse(text)
	if err != nil {
		return Invalid
	}
	return id
}

// Parse is Normalize with the failure reason.
func Parse(text string) (uint64, error) {
	var digits [MaxDigits]byte
	n := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			continue
		}
		if n == MaxDigits {
			return Invalid, ErrTooManyDigits
		}
		digits[n] = c
		n++
	}
	if n == 0 {
		return Invalid, ErrNoDigits
	}

	id, err := strconv.ParseUint(string(digits[:n]), 10, 64)
	if err != nil {
		return Invalid, ErrOverflow
	}
	if id == 0 {
		return Invalid, ErrZero
	}
	return id, nil
}
