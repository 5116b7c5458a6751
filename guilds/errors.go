package guilds

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotLeader          = fmt.Errorf("%w: not a guild leader", ErrNotAuthorized)
	ErrNotModerator       = fmt.Errorf("%w: not a moderator", ErrNotAuthorized)
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyLeader      = fmt.Errorf("%w: member already leads a guild", ErrAlreadyExists)
	ErrAlreadyMember      = errors.New("already a member")
	ErrNotAMember         = errors.New("not a member")
	ErrInvalidName        = errors.New("invalid guild name")
	ErrPlatformPermission = errors.New("missing platform permission")
	ErrPlatformTransport  = errors.New("platform error")
	ErrStorage            = errors.New("storage error")
)

// An Error is returned by every failed Registry operation. Kind is one of
// the Err* values above and Err, when set, is the underlying cause.
type Error struct {
	Kind  error
	Guild string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Guild != "" {
		msg = fmt.Sprintf("%s (guild %q)", msg, e.Guild)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

// Is reports whether target is the error's kind or a parent of it.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// platformError classifies an error returned by a Platform.
func platformError(guild string, err error) *Error {
	kind := ErrPlatformTransport
	switch {
	case errors.Is(err, ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, ErrPlatformPermission):
		kind = ErrPlatformPermission
	}
	return &Error{Kind: kind, Guild: guild, Err: err}
}
