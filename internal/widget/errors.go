package widget

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned for blank submissions. Nothing is changed.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned when a submission arrives while an exchange is still outstanding.
	ErrBusy = errors.New("an answer is already pending")
	// ErrMissingAnswer is returned by an AnswerClient when the response carried no answer text.
	ErrMissingAnswer = errors.New("response has no answertext")
	// ErrSessionNotFound is returned for unknown or expired widget sessions.
	ErrSessionNotFound = errors.New("widget session not found")
	// ErrClosed is returned by Submit after the controller was closed.
	ErrClosed = errors.New("controller closed")
)

// TransportError covers everything that went wrong talking to the answer
// service: network failures, non-2xx statuses and undecodable bodies.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: answer service returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
