package store

import "errors"

// Sentinel errors describing business-rule outcomes. Handlers map these to
// the verb-specific status tokens with errors.Is; none of them is a fault.
var (
	ErrUserLimit       = errors.New("user limit reached")
	ErrReservedUID     = errors.New("user id is reserved")
	ErrDuplicateUser   = errors.New("user already registered")
	ErrUnknownUser     = errors.New("unknown user")
	ErrWrongPassword   = errors.New("wrong password")
	ErrAlreadyLoggedIn = errors.New("user already logged in")
	ErrNotLoggedIn     = errors.New("user not logged in")
	ErrUnknownGroup    = errors.New("unknown group")
	ErrGroupLimit      = errors.New("group limit reached")
	ErrMessageLimit    = errors.New("group message limit reached")
)
