package coldstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

// Kind classifies a cold tier failure.
type Kind string

const (
	KindSession       Kind = "session"
	KindTimeout       Kind = "timeout"
	KindSerialization Kind = "serialization"
	KindNotFound      Kind = "not_found"
	KindQuery         Kind = "query"
)

// Error wraps a cold tier failure with its classification and the
// operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("coldstore: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapErr classifies a raw driver error. Not-found and timeout get their
// own kinds so the strategy layer can tell them apart from hard faults.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindQuery
	var jsonSyntax *json.SyntaxError
	var jsonType *json.UnmarshalTypeError
	switch {
	case errors.Is(err, gocql.ErrNotFound):
		kind = KindNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, gocql.ErrTimeoutNoResponse):
		kind = KindTimeout
	case errors.As(err, &jsonSyntax), errors.As(err, &jsonType):
		kind = KindSerialization
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsNotFound reports whether an error is a classified row miss.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}
