package backup

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingField is wrapped by a ParseError for a required key that is
	// absent or null
	ErrMissingField = errors.New("missing required field")

	// ErrWrongType is wrapped by a ParseError for a value of the wrong JSON type
	ErrWrongType = errors.New("wrong value type")

	// ErrUnsupportedVersion rejects documents written by a newer format
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// ParseError locates a malformed value in an import document. Index is the
// position in the entity's array, or -1 for top level values.
type ParseError struct {
	Entity string
	Index  int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	where := e.Entity
	if e.Index >= 0 {
		where = fmt.Sprintf("%s[%d]", e.Entity, e.Index)
	}
	if e.Field != "" {
		where += "." + e.Field
	}
	return fmt.Sprintf("parse %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
