package hotstore

import "fmt"

// Error wraps a hot-tier failure with the operation and key involved.
// The adapter never retries; the strategy layer decides whether a
// hot-tier failure is fatal for the call.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hotstore %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: err}
}
