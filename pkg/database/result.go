package database

// Status tags the outcome of a single-row lookup
type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusDecodeFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusDecodeFailed:
		return "decode_failed"
	default:
		return "not_found"
	}
}

// Result is the outcome of QueryOne: a value, nothing, or a decode/query error
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Found reports whether a value was decoded
func (r Result[T]) Found() bool {
	return r.Status == StatusFound
}

// Get converts the result to Go's usual (value, error) pair, with
// ErrNotFound standing in for an absent row
func (r Result[T]) Get() (T, error) {
	switch r.Status {
	case StatusFound:
		return r.Value, nil
	case StatusDecodeFailed:
		return r.Value, r.Err
	default:
		return r.Value, ErrNotFound
	}
}

func found[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusFound}
}

func notFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusDecodeFailed, Err: err}
}
