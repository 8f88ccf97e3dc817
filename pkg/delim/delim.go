package delim

import "errors"

// Default is the field delimiter used when none is specified.
const Default byte = ','

// ErrDelimiter is returned for a delimiter that is not exactly one
// printable ASCII character.
var ErrDelimiter = errors.New("delimiter should be one ascii character")

// Parse validates a user-supplied delimiter string and returns the single
// byte it names. No file I/O happens here, so callers can reject a bad
// delimiter before opening anything.
func Parse(s string) (byte, error) {
	if len(s) != 1 {
		return 0, ErrDelimiter
	}
	c := s[0]
	if err := Validate(c); err != nil {
		return 0, err
	}
	return c, nil
}

// Validate reports whether b is usable as a field delimiter.
func Validate(b byte) error {
	if b < 0x20 || b > 0x7e {
		return ErrDelimiter
	}
	return nil
}
