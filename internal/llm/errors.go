package llm

import (
	"errors"
	"fmt"
)

// ErrUpstream reports a failed call to the model API: a non-success
// status or a transport error. StatusCode is 0 for transport errors.
type ErrUpstream struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrUpstream) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ErrUpstream) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates a successful call that carried no text.
type ErrInvalidResponse struct {
	Provider string
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("Invalid response structure from %s API", e.Provider)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

var errNoText = errors.New("no text in response")
