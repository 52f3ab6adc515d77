package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrDuplicate, "put %s", "dog")

	assert.True(t, Is(err, ErrDuplicate))
	assert.False(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "put dog")
	assert.Contains(t, err.Error(), "duplicate")
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(nil))
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "get dog")))
	assert.True(t, IsNotFoundError(NewNotFoundError("tag %s", "dog")))
	assert.False(t, IsNotFoundError(New("tag dog missing")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, IsDuplicateError(nil))
	assert.True(t, IsDuplicateError(Wrap(ErrDuplicate, "relation")))
	assert.False(t, IsDuplicateError(ErrMisuse))
}

func TestWrapNotFound(t *testing.T) {
	err := WrapNotFound(New("no row"), "lookup")

	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "lookup")
	assert.Contains(t, err.Error(), "no row")
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("empty %s", "id")

	assert.True(t, IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "empty id")
}

func TestNewKindKeepsSentinelsDistinct(t *testing.T) {
	empty := NewKind("empty rank", ErrRank)
	tooLong := NewKind("rank exceeds maximum length", ErrRank)

	err := Wrapf(tooLong, "push level %d", 1)
	assert.True(t, Is(err, tooLong))
	assert.True(t, Is(err, ErrRank))
	assert.False(t, Is(err, empty))
	assert.False(t, Is(empty, tooLong))
	assert.False(t, Is(err, ErrURL))
	assert.Equal(t, "push level 1: rank exceeds maximum length", err.Error())
}

type codedError struct {
	kind error
}

func (e *codedError) Error() string        { return "coded" }
func (e *codedError) Is(target error) bool { return target == e.kind }

func TestCustomIsMatchesSentinel(t *testing.T) {
	err := Wrap(&codedError{kind: ErrAmbiguous}, "decode")

	assert.True(t, Is(err, ErrAmbiguous))
	assert.False(t, Is(err, ErrNotFound))

	var target *codedError
	require.True(t, As(err, &target))
	assert.Equal(t, ErrAmbiguous, target.kind)
}

func TestMarkAddsKind(t *testing.T) {
	base := New("UNIQUE constraint failed")
	err := Mark(base, ErrDuplicate)

	assert.True(t, Is(err, ErrDuplicate))
	assert.True(t, Is(err, base))
}

func TestHintsAndDetails(t *testing.T) {
	err := Wrap(ErrDependency, "delete animal")
	err = WithHint(err, "delete dog first")
	err = WithDetailf(err, "blocked by %s", "super_object")

	assert.True(t, Is(err, ErrDependency))
	assert.Equal(t, []string{"delete dog first"}, GetAllHints(err))
	assert.Equal(t, []string{"blocked by super_object"}, GetAllDetails(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func ExampleWrap() {
	err := Wrap(ErrNotFound, "get dog")
	fmt.Println(err)
	// Output: get dog: not found
}
