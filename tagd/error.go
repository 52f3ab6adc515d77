package tagd

import (
	"fmt"
	"strings"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/tagd/domain"
	"github.com/musetronstar/tagd/tagd/rank"
)

// Error is an engine error. It is also a tag: its id is the code name, it
// sits under _error, and its relations (_caused_by, _has _message) describe
// what went wrong.
type Error struct {
	Code      Code
	Message   string
	Relations PredicateSet
	cause     error
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error around a lower level cause.
func WrapError(code Code, cause error, format string, args ...interface{}) *Error {
	e := Errorf(code, format, args...)
	e.cause = cause
	return e
}

// CausedBy attaches a _caused_by relation and returns e.
func (e *Error) CausedBy(object string, modifier ...string) *Error {
	p := Predicate{Relator: HardCausedBy, Object: object}
	if len(modifier) > 0 {
		p.Modifier = modifier[0]
	}
	e.Relations.Add(p)
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	kind := e.Code.Kind()
	return kind != nil && target == kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Tag renders the error as a tag.
func (e *Error) Tag() *Tag {
	t := &Tag{
		ID:          e.Code.String(),
		SubRelator:  HardTypeOf,
		SuperObject: HardError,
		POS:         POSError,
		Relations:   e.Relations.Clone(),
	}
	if e.Message != "" {
		t.Relate(HardHas, HardMessage, e.Message)
	}
	return t
}

// CodeOf extracts the code carried by err. Nil is OK; errors from the rank and
// domain packages map onto their codes; anything else is an internal error.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	switch {
	case errors.Is(err, rank.ErrEmpty):
		return RankEmpty
	case errors.Is(err, rank.ErrMaxValue):
		return RankMaxValue
	case errors.Is(err, rank.ErrMaxLen):
		return RankMaxLen
	case errors.Is(err, rank.ErrMalformed):
		return RankErr
	case errors.Is(err, domain.ErrMaxLen):
		return TLDMaxLen
	case errors.Is(err, domain.ErrInvalid):
		return TLDErr
	}
	return TSInternalErr
}

// AsError converts any error into an *Error, keeping the original as cause.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return WrapError(CodeOf(err), err, "")
}
