// Package referent resolves context-scoped aliases.
//
// A binding maps a surface word (refers) to a canonical tag id (refers_to),
// optionally scoped to a context tag. A contextual binding applies when its
// context is an ancestor-or-self of some tag on the active context stack.
// Bindings found through a deeper stack level win; among bindings found
// through the same level, the one with the deepest context wins. A universal
// binding (no context) applies only when no contextual binding does.
package referent

import (
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/rank"
)

// Binding is one row of the referent relation.
type Binding struct {
	Refers   string
	RefersTo string
	Context  string
	// ContextRank is the rank of Context, empty for universal bindings.
	ContextRank rank.Rank
}

// Universal reports whether the binding applies in every context.
func (b Binding) Universal() bool {
	return b.Context == ""
}

// Tag renders the binding as a referent tag.
func (b Binding) Tag() *tagd.Tag {
	return tagd.NewReferent(b.Refers, b.RefersTo, b.Context)
}

// Scope is a context stack entry with its current rank.
type Scope struct {
	ID   string
	Rank rank.Rank
}

// score orders applicable bindings: higher level wins, then deeper context.
type score struct {
	level int
	depth int
}

func (a score) better(b score) bool {
	if a.level != b.level {
		return a.level > b.level
	}
	return a.depth > b.depth
}

// applies returns the best stack level through which b is in scope.
func applies(b Binding, scopes []Scope) (score, bool) {
	if b.Universal() {
		return score{}, false
	}
	for level := len(scopes) - 1; level >= 0; level-- {
		sc := scopes[level]
		if b.Context == sc.ID || b.Context == tagd.HardEntity || b.ContextRank.Contains(sc.Rank) {
			return score{level: level + 1, depth: b.ContextRank.Depth()}, true
		}
	}
	return score{}, false
}

// choose returns the most specific binding in scope, falling back to a
// universal binding.
func choose(bindings []Binding, scopes []Scope) (Binding, bool) {
	var (
		best      Binding
		bestScore score
		found     bool
		universal *Binding
	)
	for i, b := range bindings {
		if b.Universal() {
			if universal == nil {
				universal = &bindings[i]
			}
			continue
		}
		s, ok := applies(b, scopes)
		if !ok {
			continue
		}
		if !found || s.better(bestScore) {
			best, bestScore, found = b, s, true
		}
	}
	if found {
		return best, true
	}
	if universal != nil {
		return *universal, true
	}
	return Binding{}, false
}

// Decode maps a surface word to its canonical id. bindings are the rows
// whose Refers is word; isTag reports whether word is itself a stored tag.
//
// With no applicable binding the word is returned verbatim, unless word is
// bound elsewhere, is not a tag, and a context is active: then the caller
// asked for a word that only has meaning in some other context, and the
// result is TS_AMBIGUOUS.
func Decode(word string, bindings []Binding, scopes []Scope, isTag bool) (string, error) {
	if word == "" || tagd.IsReserved(word) {
		return word, nil
	}
	if b, ok := choose(bindings, scopes); ok {
		return b.RefersTo, nil
	}
	if len(bindings) > 0 && !isTag && len(scopes) > 0 {
		return word, tagd.Errorf(tagd.TSAmbiguous, "%s refers to a tag with no matching context", word).
			CausedBy(tagd.HardRefers, word)
	}
	return word, nil
}

// Encode maps a canonical id to the surface word bound to it in scope.
// bindings are the rows whose RefersTo is id. The id passes through
// unchanged when nothing applies.
func Encode(id string, bindings []Binding, scopes []Scope) string {
	if id == "" || tagd.IsReserved(id) {
		return id
	}
	if b, ok := choose(bindings, scopes); ok {
		return b.Refers
	}
	return id
}
