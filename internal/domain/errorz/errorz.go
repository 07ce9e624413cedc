package errorz

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyApproved  = errors.New("already approved")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ModerationError carries the reason of the first failing filter rule.
type ModerationError struct {
	Reason string
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("moderation rejected: %s", e.Reason)
}

func IsModerationRejected(err error) bool {
	var me *ModerationError
	return errors.As(err, &me)
}
