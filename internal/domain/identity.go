package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const maxIdentityLen = 128

// Identity is the address of a caller as supplied by the transport.
type Identity string

func (i Identity) String() string { return string(i) }

// ValidateIdentity performs the address checks the oracle relies on before an
// identity is persisted as admin.
func ValidateIdentity(s string) (Identity, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if len(s) > maxIdentityLen {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidAddress, maxIdentityLen)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidAddress, s)
	}
	return Identity(s), nil
}
