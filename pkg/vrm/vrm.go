// Package vrm validates and formats UK vehicle registration marks.
package vrm

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MinLength = 2
	MaxLength = 7
)

// VRM is a canonical registration mark: upper-case, no whitespace, 2-7
// alphanumerics containing at least one letter and one digit.
// Values of this type should only be obtained from Normalize.
type VRM string

func (v VRM) String() string { return string(v) }

// InvalidRegistrationError reports user input that is not a well-formed VRM.
type InvalidRegistrationError struct {
	Input  string
	Reason string
}

func (e *InvalidRegistrationError) Error() string {
	return fmt.Sprintf("invalid registration %q: %s", e.Input, e.Reason)
}

// Normalize strips whitespace, upper-cases and validates input.
func Normalize(input string) (VRM, error) {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	token := b.String()

	if n := len(token); n < MinLength || n > MaxLength {
		return "", &InvalidRegistrationError{
			Input:  input,
			Reason: fmt.Sprintf("must be %d to %d characters, got %d", MinLength, MaxLength, n),
		}
	}

	var letters, digits int
	for _, r := range token {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
		case r >= '0' && r <= '9':
			digits++
		default:
			return "", &InvalidRegistrationError{Input: input, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}

	if letters == 0 || digits == 0 {
		return "", &InvalidRegistrationError{Input: input, Reason: "must contain at least one letter and one digit"}
	}

	return VRM(token), nil
}

// Format returns the spaced display form of v. Removing the spaces always
// yields v again.
func Format(v VRM) string {
	s := string(v)
	switch len(s) {
	case 7:
		return s[:4] + " " + s[4:]
	case 6:
		return s[:3] + " " + s[3:]
	}

	for i := 1; i < len(s); i++ {
		if isDigit(s[i]) != isDigit(s[i-1]) {
			return s[:i] + " " + s[i:]
		}
	}
	return s
}

// Strip removes every space from a formatted mark.
func Strip(formatted string) string {
	return strings.Join(strings.Fields(formatted), "")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
