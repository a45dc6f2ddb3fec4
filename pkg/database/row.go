package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Values maps column names to the values written for them
type Values = map[string]interface{}

// Row is a single result row keyed by column name. Value types depend on the
// driver (sqlite hands back int64/float64/string, postgres may use int32 or
// float32), RowReader smooths that over.
type Row map[string]interface{}

// RowDecoder converts a result row into an entity
type RowDecoder[T any] func(Row) (T, error)

// RowReader reads typed columns out of a Row and remembers the first failure,
// so decoders can read every column and check Err once at the end.
type RowReader struct {
	row Row
	err error
}

// NewRowReader wraps row for typed access
func NewRowReader(row Row) *RowReader {
	return &RowReader{row: row}
}

// Err returns the first decode failure, if any
func (r *RowReader) Err() error {
	return r.err
}

func (r *RowReader) fail(column string, v interface{}, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("column %q: cannot decode %T as %s", column, v, want)
	}
}

func (r *RowReader) value(column string) (interface{}, bool) {
	v, ok := r.row[column]
	if !ok {
		if r.err == nil {
			r.err = fmt.Errorf("column %q missing from result", column)
		}
		return nil, false
	}
	// sqlite reports expression columns (SUM, MAX...) without a declared
	// type and gorm hands those back boxed
	if p, boxed := v.(*interface{}); boxed {
		if p == nil {
			return nil, false
		}
		v = *p
	}
	return v, v != nil
}

// String reads a text column; NULL reads as ""
func (r *RowReader) String(column string) string {
	v, ok := r.value(column)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	r.fail(column, v, "string")
	return ""
}

// Int64 reads an integer column; NULL reads as 0
func (r *RowReader) Int64(column string) int64 {
	n, _ := r.NullInt64(column)
	return n
}

// NullInt64 reads an integer column and reports whether it was set
func (r *RowReader) NullInt64(column string) (int64, bool) {
	v, ok := r.value(column)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		if err == nil {
			return n, true
		}
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err == nil {
			return n, true
		}
	}
	r.fail(column, v, "integer")
	return 0, false
}

// NullInt reads an integer column as *int, nil for NULL
func (r *RowReader) NullInt(column string) *int {
	n, ok := r.NullInt64(column)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// NullFloat reads a real column as *float64, nil for NULL
func (r *RowReader) NullFloat(column string) *float64 {
	v, ok := r.value(column)
	if !ok {
		return nil
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case int:
		f = float64(t)
	case []byte:
		parsed, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			r.fail(column, v, "float")
			return nil
		}
		f = parsed
	default:
		r.fail(column, v, "float")
		return nil
	}
	return &f
}

// Float reads a real column; NULL reads as 0
func (r *RowReader) Float(column string) float64 {
	if f := r.NullFloat(column); f != nil {
		return *f
	}
	return 0
}

// Bool reads an integer flag column
func (r *RowReader) Bool(column string) bool {
	return r.Int64(column) != 0
}

// UUID reads a required identifier column
func (r *RowReader) UUID(column string) uuid.UUID {
	id := r.NullUUID(column)
	if !id.Valid && r.err == nil {
		r.err = fmt.Errorf("column %q: required identifier is NULL", column)
	}
	return id.UUID
}

// NullUUID reads an optional identifier column
func (r *RowReader) NullUUID(column string) uuid.NullUUID {
	s := r.String(column)
	if s == "" {
		return uuid.NullUUID{}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("column %q: %w", column, err)
		}
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}

// Time reads a unix millisecond column as a UTC time
func (r *RowReader) Time(column string) time.Time {
	ms, ok := r.NullInt64(column)
	if !ok {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// NullableID converts an optional identifier to a column value
func NullableID(id uuid.NullUUID) interface{} {
	if !id.Valid {
		return nil
	}
	return id.UUID.String()
}
