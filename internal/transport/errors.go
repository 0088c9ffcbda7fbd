package transport

import "fmt"

const (
	MsgDetectFailed   = "Failed to analyze text"
	MsgUploadFailed   = "Failed to analyze file"
	MsgHumanizeFailed = "Failed to humanize text"
)

// Error is a failed call to the analysis service. Error() is the single
// human-readable message shown to the user; no code is parsed from the body.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Detail() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func statusError(op string, status int, generic string) *Error {
	return &Error{Op: op, Status: status, Message: generic}
}

// networkError keeps the underlying message when there is one.
func networkError(op string, err error, generic string) *Error {
	msg := generic
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Op: op, Message: msg, Err: err}
}
