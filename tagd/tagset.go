package tagd

import (
	"sort"

	"github.com/musetronstar/tagd/tagd/rank"
)

// TagSet is a list of tags kept in rank order.
type TagSet []*Tag

// Sort orders the set by rank, ties broken by id.
func (s TagSet) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if c := rank.Compare(s[i].Rank, s[j].Rank); c != 0 {
			return c < 0
		}
		return s[i].ID < s[j].ID
	})
}

// Find returns the tag with the given id.
func (s TagSet) Find(id string) (*Tag, bool) {
	for _, t := range s {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// IDs lists tag ids in set order.
func (s TagSet) IDs() []string {
	ids := make([]string, len(s))
	for i, t := range s {
		ids[i] = t.ID
	}
	return ids
}

// MergeContaining combines two candidate sets by tree containment.
//
// A tag of a is kept when some tag of b is the same tag or one of its
// ancestors. A tag of b is added when a tag of a is its strict ancestor; the
// more specific tag absorbs the predicates already matched by the ancestor.
// Tags of a with no relative in b are dropped. An empty a yields b.
func MergeContaining(a, b TagSet) TagSet {
	if len(a) == 0 {
		return b
	}

	var out TagSet
	seen := make(map[string]*Tag)
	add := func(t *Tag) *Tag {
		if prev, ok := seen[t.ID]; ok {
			return prev
		}
		seen[t.ID] = t
		out = append(out, t)
		return t
	}

	for _, ta := range a {
		for _, tb := range b {
			switch {
			case tb.Rank.Contains(ta.Rank):
				kept := add(ta)
				kept.Relations.Merge(tb.Relations)
			case ta.Rank.Contains(tb.Rank):
				added := add(tb)
				added.Relations.Merge(ta.Relations)
			}
		}
	}

	out.Sort()
	return out
}
