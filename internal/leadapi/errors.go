package leadapi

import (
	"errors"
	"fmt"
	"strings"
)

// NetworkError means the API could not be reached or no response arrived.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the API answered with an error status or an unsuccessful
// envelope. Message holds the server-supplied error text, if any.
type ServerError struct {
	Op      string
	Status  int
	Message string
	Body    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed: status=%d error=%s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: status=%d body=%s", e.Op, e.Status, e.Body)
}

// IsClientError reports a 4xx answer, which repeating the request won't fix.
func (e *ServerError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// UserMessage returns the text to show a user for err: the server's own error
// message when it sent one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var se *ServerError
	if errors.As(err, &se) && strings.TrimSpace(se.Message) != "" {
		return se.Message
	}
	return fallback
}
