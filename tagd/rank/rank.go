// Package rank implements the sortable tree-position key of a tag.
//
// A Rank is a byte string of encoded levels, one per depth in the tag tree.
// Byte-wise order of ranks is depth-first order of the tree, and a rank is an
// ancestor of another exactly when its bytes are a prefix of the other's.
// The root tag has the empty rank.
package rank

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/tagd/utf8"
)

// MaxLen is the maximum number of bytes in a rank.
const MaxLen = 255

var (
	// ErrMalformed is returned for bytes that do not decode into valid levels,
	// or sibling sets that do not share one parent.
	ErrMalformed = errors.NewKind("malformed rank", errors.ErrRank)
	// ErrEmpty is returned when an operation requires at least one level or sibling.
	ErrEmpty = errors.NewKind("empty rank", errors.ErrRank)
	// ErrMaxValue is returned when a level cannot be incremented any further.
	ErrMaxValue = errors.NewKind("rank level exceeds maximum value", errors.ErrRank)
	// ErrMaxLen is returned when a rank would grow past MaxLen bytes.
	ErrMaxLen = errors.NewKind("rank exceeds maximum length", errors.ErrRank)
)

// Rank is an immutable, totally ordered tree position.
// The zero value is the empty (root) rank.
type Rank string

// New builds a rank from its levels.
func New(levels ...uint32) (Rank, error) {
	var r Rank
	var err error
	for _, l := range levels {
		if r, err = r.PushBack(l); err != nil {
			return "", err
		}
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for constants and tests.
func MustNew(levels ...uint32) Rank {
	r, err := New(levels...)
	if err != nil {
		panic(err)
	}
	return r
}

// FromBytes validates raw rank bytes, as read back from storage.
func FromBytes(b []byte) (Rank, error) {
	if len(b) > MaxLen {
		return "", errors.Wrapf(ErrMaxLen, "%d bytes", len(b))
	}
	for i := 0; i < len(b); {
		cp, n := utf8.Decode(b[i:])
		if cp == utf8.Invalid || cp == 0 {
			return "", errors.Wrapf(ErrMalformed, "invalid level at byte %d", i)
		}
		i += n
	}
	return Rank(b), nil
}

// Parse reads the dotted decimal form produced by String.
func Parse(dotted string) (Rank, error) {
	if dotted == "" {
		return "", nil
	}
	var r Rank
	for _, part := range strings.Split(dotted, ".") {
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return "", errors.Wrapf(ErrMalformed, "level %q", part)
		}
		if r, err = r.PushBack(uint32(v)); err != nil {
			return "", err
		}
	}
	return r, nil
}

// Bytes returns the encoded form. The result must not be modified.
func (r Rank) Bytes() []byte {
	if r == "" {
		return nil
	}
	return []byte(r)
}

// IsEmpty reports whether r is the root rank.
func (r Rank) IsEmpty() bool {
	return r == ""
}

// Levels decodes every level of r.
func (r Rank) Levels() []uint32 {
	var levels []uint32
	b := []byte(r)
	for i := 0; i < len(b); {
		cp, n := utf8.Decode(b[i:])
		levels = append(levels, cp)
		i += n
	}
	return levels
}

// Depth is the number of levels in r.
func (r Rank) Depth() int {
	return utf8.Count([]byte(r))
}

// String renders r in dotted decimal form, e.g. "1.2.3".
func (r Rank) String() string {
	levels := r.Levels()
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.FormatUint(uint64(l), 10)
	}
	return strings.Join(parts, ".")
}

// Back returns the value of the last level, or 0 if r is empty.
func (r Rank) Back() uint32 {
	i := utf8.LastStart([]byte(r))
	if i < 0 {
		return 0
	}
	cp, _ := utf8.Decode([]byte(r[i:]))
	return cp
}

// Parent returns r without its last level.
func (r Rank) Parent() Rank {
	p, _ := r.PopBack()
	return p
}

// PushBack appends a level.
func (r Rank) PushBack(cp uint32) (Rank, error) {
	if cp == 0 {
		return r, errors.Wrap(ErrEmpty, "push level 0")
	}
	if cp > utf8.MaxCodePoint {
		return r, errors.Wrapf(ErrMaxValue, "push level %d", cp)
	}
	if !utf8.IsValid(cp) {
		return r, errors.Wrapf(ErrMalformed, "push level %d", cp)
	}
	if len(r)+utf8.Len(cp) > MaxLen {
		return r, errors.Wrapf(ErrMaxLen, "push level %d onto %d bytes", cp, len(r))
	}
	b, _ := utf8.Append([]byte(r), cp)
	return Rank(b), nil
}

// PopBack removes the last level, returning the shortened rank and the
// removed value. An empty rank returns itself and 0.
func (r Rank) PopBack() (Rank, uint32) {
	i := utf8.LastStart([]byte(r))
	if i < 0 {
		return r, 0
	}
	cp, _ := utf8.Decode([]byte(r[i:]))
	return r[:i], cp
}

// Increment bumps the last level to the next valid value, widening its
// encoding when it crosses a byte-width boundary. The empty rank increments to 1.
func (r Rank) Increment() (Rank, error) {
	if r == "" {
		return r.PushBack(1)
	}
	parent, last := r.PopBack()
	next, err := utf8.Next(last)
	if err != nil {
		return r, errors.Wrapf(ErrMaxValue, "increment %s", r)
	}
	return parent.PushBack(next)
}

// Contains reports whether r is an ancestor of, or equal to, other.
// The empty rank contains nothing.
func (r Rank) Contains(other Rank) bool {
	if r == "" || other == "" {
		return false
	}
	return strings.HasPrefix(string(other), string(r))
}

// Rebase replaces the from prefix of r with to.
// Used to carry descendants along when their ancestor moves.
func (r Rank) Rebase(from, to Rank) (Rank, error) {
	if !from.Contains(r) {
		return r, errors.Wrapf(ErrMalformed, "%s is not under %s", r, from)
	}
	if len(to)+len(r)-len(from) > MaxLen {
		return r, errors.Wrapf(ErrMaxLen, "rebase %s onto %s", r, to)
	}
	return to + r[len(from):], nil
}

// Compare orders ranks byte-wise, which is depth-first tree order.
func Compare(a, b Rank) int {
	return bytes.Compare([]byte(a), []byte(b))
}

// Sort orders ranks in place and drops duplicates.
func Sort(set []Rank) []Rank {
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	out := set[:0]
	for i, r := range set {
		if i > 0 && r == set[i-1] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Next returns the lowest unused rank among a set of siblings.
//
// If the first sibling does not occupy level 1, level 1 is returned.
// Otherwise siblings are walked in order from level 1 and the first hole is
// filled; with no hole the last sibling is incremented.
func Next(siblings []Rank) (Rank, error) {
	if len(siblings) == 0 {
		return "", ErrEmpty
	}
	set := Sort(append([]Rank(nil), siblings...))

	first := set[0]
	if first == "" {
		return "", errors.Wrap(ErrMalformed, "empty rank in sibling set")
	}
	if first.Back() != 1 {
		return first.Parent().PushBack(1)
	}

	parent := first.Parent()
	prev := first
	for _, r := range set[1:] {
		if r.Parent() != parent || r == "" {
			return "", errors.Wrapf(ErrMalformed, "%s is not a sibling of %s", r, first)
		}
		want, err := utf8.Next(prev.Back())
		if err != nil {
			return "", errors.Wrapf(ErrMaxValue, "after %s", prev)
		}
		if r.Back() != want {
			break
		}
		prev = r
	}
	return prev.Increment()
}
