package database

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by single-row lookups that matched nothing
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate reports a unique or primary key violation
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvalidReference reports a foreign key violation, either a missing
	// parent on insert or a parent that is still referenced on delete
	ErrInvalidReference = errors.New("invalid reference")

	// ErrUnexpectedRowCount is returned when an update or delete by id did not
	// touch exactly one row
	ErrUnexpectedRowCount = errors.New("unexpected number of rows affected")
)

// translateError maps driver constraint failures onto the package sentinels.
// gorm translates most of them already; the message checks cover drivers
// whose translator does not recognise the failing constraint.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "duplicate key"):
		return errors.WithMessage(ErrDuplicate, err.Error())
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "foreign key constraint"),
		strings.Contains(msg, "violates foreign key"),
		strings.Contains(msg, "not null constraint"),
		strings.Contains(msg, "violates not-null"):
		return errors.WithMessage(ErrInvalidReference, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}

	return err
}

// IsConstraintError reports whether err is a duplicate or reference failure
func IsConstraintError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidReference)
}
