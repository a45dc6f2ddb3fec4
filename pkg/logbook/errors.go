package logbook

import (
	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/pkg/errors"
)

var (
	// ErrDuplicate means the entity's unique key is already taken; the
	// message names the rule
	ErrDuplicate = database.ErrDuplicate

	// ErrNotFound means no entity has the given id or key
	ErrNotFound = database.ErrNotFound

	// ErrInvalidReference means the entity points at something that does not exist
	ErrInvalidReference = database.ErrInvalidReference

	// ErrMissingCategory is returned for a bait without a category
	ErrMissingCategory = errors.New("bait category is required")

	// ErrInUse is returned when removing an entity other records still refer to
	ErrInUse = errors.New("still in use")
)

func duplicate(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDuplicate, format, args...)
}

// removeError maps the query layer's delete failures onto the logbook's
func removeError(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrUnexpectedRowCount):
		return errors.Wrapf(ErrNotFound, "%s %s", entity, id)
	case errors.Is(err, database.ErrInvalidReference):
		return errors.Wrapf(ErrInUse, "%s %s", entity, id)
	}
	return errors.Wrapf(err, "remove %s %s", entity, id)
}

// editError maps update failures; a zero-row update means the target is gone
func editError(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrUnexpectedRowCount):
		return errors.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return errors.Wrapf(err, "edit %s %s", entity, id)
}
