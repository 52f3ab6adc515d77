package referent

import (
	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/tagd"
)

// DefaultMaxDepth bounds a context stack when no limit is configured.
const DefaultMaxDepth = 64

var (
	// ErrStackEmpty is returned when popping an empty stack.
	ErrStackEmpty = errors.New("context stack is empty")
	// ErrStackFull is returned when a push would exceed the stack's depth.
	ErrStackFull = errors.New("context stack is full")
)

// Stack is an ordered list of context tag ids. The last pushed entry is the
// innermost context. A Stack belongs to one session and is not safe for
// concurrent use.
type Stack struct {
	ids []string
	max int
}

// NewStack returns an empty stack holding at most max entries.
// A non-positive max selects DefaultMaxDepth.
func NewStack(max int) *Stack {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	return &Stack{max: max}
}

// Push makes id the innermost context. An id may appear more than once, so
// every Push is undone by exactly one Pop. The root _entity is not a context.
func (s *Stack) Push(id string) error {
	if id == "" {
		return errors.Wrap(errors.ErrInvalidRequest, "empty context")
	}
	if id == tagd.HardEntity {
		return errors.Wrapf(errors.ErrMisuse, "%s cannot be pushed as a context", id)
	}
	if len(s.ids) >= s.max {
		return errors.Wrapf(ErrStackFull, "push %s (max %d)", id, s.max)
	}
	s.ids = append(s.ids, id)
	return nil
}

// Pop removes and returns the innermost context.
func (s *Stack) Pop() (string, error) {
	if len(s.ids) == 0 {
		return "", ErrStackEmpty
	}
	id := s.ids[len(s.ids)-1]
	s.ids = s.ids[:len(s.ids)-1]
	return id, nil
}

// Top returns the innermost context, or "" when empty.
func (s *Stack) Top() string {
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[len(s.ids)-1]
}

func (s *Stack) Clear() {
	s.ids = nil
}

func (s *Stack) Len() int {
	return len(s.ids)
}

// IDs returns the stack from outermost to innermost.
func (s *Stack) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether id is on the stack.
func (s *Stack) Contains(id string) bool {
	for _, have := range s.ids {
		if have == id {
			return true
		}
	}
	return false
}
