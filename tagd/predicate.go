package tagd

import (
	"sort"
	"strconv"
)

// Operator compares a stored modifier against a query modifier.
type Operator int

const (
	OpEq Operator = iota
	OpGt
	OpGte
	OpLt
	OpLte
)

var opSymbols = [...]string{"=", ">", ">=", "<", "<="}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[o]
}

// ParseOperator reads one of = > >= < <=.
func ParseOperator(s string) (Operator, bool) {
	for i, sym := range opSymbols {
		if sym == s {
			return Operator(i), true
		}
	}
	return OpEq, false
}

// Numeric reports whether the operator compares modifiers as numbers.
func (o Operator) Numeric() bool {
	return o != OpEq
}

// Predicate is a (relator, object, modifier) edge of a tag.
// Identity is (Relator, Object); Modifier and Op are auxiliary.
type Predicate struct {
	Relator  string
	Object   string
	Modifier string
	Op       Operator
}

// Less orders predicates by (relator, object).
func (p Predicate) Less(q Predicate) bool {
	if p.Relator != q.Relator {
		return p.Relator < q.Relator
	}
	return p.Object < q.Object
}

// SameAs reports whether p and q share an identity.
func (p Predicate) SameAs(q Predicate) bool {
	return p.Relator == q.Relator && p.Object == q.Object
}

// ModifierFloat parses the modifier for numeric comparison.
func (p Predicate) ModifierFloat() (float64, bool) {
	f, err := strconv.ParseFloat(p.Modifier, 64)
	return f, err == nil
}

func (p Predicate) String() string {
	s := p.Relator + " " + p.Object
	if p.Modifier != "" {
		s += " " + p.Op.String() + " " + p.Modifier
	}
	return s
}

// PredicateSet holds predicates ordered by (relator, object) without duplicates.
type PredicateSet []Predicate

func (s PredicateSet) search(relator, object string) int {
	key := Predicate{Relator: relator, Object: object}
	return sort.Search(len(s), func(i int) bool { return !s[i].Less(key) })
}

// Add inserts p, returning false if a predicate with the same identity exists.
func (s *PredicateSet) Add(p Predicate) bool {
	i := s.search(p.Relator, p.Object)
	if i < len(*s) && (*s)[i].SameAs(p) {
		return false
	}
	*s = append(*s, Predicate{})
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = p
	return true
}

// Get returns the predicate with the given identity.
func (s PredicateSet) Get(relator, object string) (Predicate, bool) {
	i := s.search(relator, object)
	if i < len(s) && s[i].Relator == relator && s[i].Object == object {
		return s[i], true
	}
	return Predicate{}, false
}

// Contains reports whether a predicate with the given identity exists.
func (s PredicateSet) Contains(relator, object string) bool {
	_, ok := s.Get(relator, object)
	return ok
}

// Remove deletes the predicate with the given identity.
func (s *PredicateSet) Remove(relator, object string) bool {
	i := s.search(relator, object)
	if i < len(*s) && (*s)[i].Relator == relator && (*s)[i].Object == object {
		*s = append((*s)[:i], (*s)[i+1:]...)
		return true
	}
	return false
}

// Objects returns the objects related by relator, in order.
func (s PredicateSet) Objects(relator string) []string {
	var out []string
	for _, p := range s {
		if p.Relator == relator {
			out = append(out, p.Object)
		}
	}
	return out
}

// Merge adds every predicate of other not already present, returning how many were added.
func (s *PredicateSet) Merge(other PredicateSet) int {
	n := 0
	for _, p := range other {
		if s.Add(p) {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (s PredicateSet) Clone() PredicateSet {
	if s == nil {
		return nil
	}
	out := make(PredicateSet, len(s))
	copy(out, s)
	return out
}
