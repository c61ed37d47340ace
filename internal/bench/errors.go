package bench

import "errors"

// Kind classifies a harness failure. Every kind is fatal for the run.
type Kind string

const (
	KindIO              Kind = "IoError"
	KindFormat          Kind = "FormatError"
	KindEmptyCollection Kind = "EmptyCollectionError"
	KindNaN             Kind = "NaNError"
)

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrIO              = errors.New("input could not be read")
	ErrFormat          = errors.New("input is malformed")
	ErrEmptyCollection = errors.New("collection has no records")
	ErrNaN             = errors.New("value is NaN")
)

// Error is a structured harness failure.
type Error struct {
	Kind Kind
	Op   string // stage that failed, e.g. "load" or "float operations"
	Path string // input file, when known
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindIO:
		return target == ErrIO
	case KindFormat:
		return target == ErrFormat
	case KindEmptyCollection:
		return target == ErrEmptyCollection
	case KindNaN:
		return target == ErrNaN
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

func emptyError(op string) error {
	return &Error{Kind: KindEmptyCollection, Op: op, Err: ErrEmptyCollection}
}
