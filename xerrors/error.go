package xerrors

import (
	"errors"
	"fmt"
)

// Failure classes shared by every public operation. Callers classify with
// errors.Is; the wrapped text carries the human-readable detail.
var (
	// ErrNoSession means no credentials are stored; login is required before
	// any authenticated call.
	ErrNoSession = errors.New("not authenticated, please login again")

	// ErrAuth means the stored session was rejected (or expired). The session
	// is always cleared before this is returned.
	ErrAuth = errors.New("session expired, please login again")

	// ErrValidation is locally detectable bad input; it never reaches the
	// network.
	ErrValidation = errors.New("invalid input")

	// ErrUpload means the media relay could not obtain a durable URL.
	ErrUpload = errors.New("image upload failed")

	// ErrNetwork is a transport failure or a non-2xx/non-401 response.
	ErrNetwork = errors.New("request failed")

	// ErrPartialFetch marks a soft failure: one of two concurrent list
	// fetches failed while the other succeeded.
	ErrPartialFetch = errors.New("some records could not be loaded")

	// ErrAlreadyCompleted rejects re-submission of a completed travel log.
	ErrAlreadyCompleted = errors.New("travel log is already completed")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
