package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotMember        = errors.New("user is not a registered member")
	ErrSessionNotFound  = errors.New("game session not found")
	ErrSessionExpired   = errors.New("game session expired")
	ErrSignatureMissing = errors.New("session signature missing")
	ErrSignatureInvalid = errors.New("session signature invalid")
	ErrDuplicateClaim   = errors.New("reward already claimed for this session")
	ErrWindowExceeded   = errors.New("reward window limit exceeded")
	ErrLockHeld         = errors.New("another request for this session is in flight")
	ErrGuessTooFast     = errors.New("guesses are rate limited")
	ErrGameEnded        = errors.New("game already ended")
	ErrInvalidGameType  = errors.New("unknown game type")
	ErrInvalidScore     = errors.New("score does not qualify for a reward")
)

// CooldownError reports how long a user must wait before playing again.
type CooldownError struct {
	Remaining int64
	IsWin     bool
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown for %d more seconds", e.Remaining)
}
