package editor

import (
	"errors"
	"fmt"
)

// ValidationError is raised before any store call when user input is unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StoreRejection is a store refusing an operation. Message is the store's
// own wording and is shown to the user verbatim.
type StoreRejection struct {
	Op       string
	Message  string
	NotFound bool
}

func (e *StoreRejection) Error() string { return e.Message }

// StoreUnreachable is any failure to get an answer from the store.
type StoreUnreachable struct {
	Op  string
	Err error
}

func (e *StoreUnreachable) Error() string {
	return fmt.Sprintf("%s: board store unreachable: %v", e.Op, e.Err)
}

func (e *StoreUnreachable) Unwrap() error { return e.Err }

// Notifier surfaces failures to the user.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// Notify calls f(err).
func (f NotifierFunc) Notify(err error) { f(err) }

type discardNotifier struct{}

func (discardNotifier) Notify(error) {}

// Notice returns the user-facing text for err.
func Notice(err error) string {
	var (
		ve *ValidationError
		sr *StoreRejection
		su *StoreUnreachable
	)

	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &sr):
		return sr.Message
	case errors.As(err, &su):
		return "Could not reach the board store; showing the last known board."
	default:
		return err.Error()
	}
}

// classify wraps errors from a Store that did not classify them itself.
func classify(op string, err error) error {
	var (
		ve *ValidationError
		sr *StoreRejection
		su *StoreUnreachable
	)

	if errors.As(err, &ve) || errors.As(err, &sr) || errors.As(err, &su) {
		return err
	}

	return &StoreUnreachable{Op: op, Err: err}
}

func isNotFound(err error) bool {
	var sr *StoreRejection
	return errors.As(err, &sr) && sr.NotFound
}
