package vault

import (
	"errors"
	"fmt"
)

// Validation errors: bad caller input, no state change.
var (
	ErrNameRequired     = errors.New("vault: account name must not be blank")
	ErrPasswordRequired = errors.New("vault: password must not be blank")
	ErrPasswordMismatch = errors.New("vault: password confirmation does not match")
	ErrInvalidItemType  = errors.New("vault: item type must be Card, Note, or Password")
)

// Authentication and lockout errors.
var (
	ErrInvalidMasterPassword = errors.New("vault: invalid master password")
	ErrSessionDisabled       = errors.New("vault: session disabled after too many failed login attempts")
	ErrSessionLocked         = errors.New("vault: session is locked")
)

// Storage errors.
var (
	ErrAccountExists   = errors.New("vault: an account already exists")
	ErrAccountNotFound = errors.New("vault: no account has been onboarded")
	ErrItemNotFound    = errors.New("vault: item not found")
	ErrItemNotTrashed  = errors.New("vault: item is not in the trash")
	ErrItemTrashed     = errors.New("vault: item is in the trash")
)

// AuthError reports a failed login attempt along with the number of
// attempts remaining before the session is disabled.
type AuthError struct {
	Remaining int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%v (%d attempts remaining)", ErrInvalidMasterPassword, e.Remaining)
}

// Is makes errors.Is(err, ErrInvalidMasterPassword) match an AuthError.
func (e *AuthError) Is(target error) bool {
	return target == ErrInvalidMasterPassword
}
