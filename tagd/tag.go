package tagd

import (
	"github.com/musetronstar/tagd/tagd/rank"
)

// Tag is a node in the type hierarchy, or one of its variants
// (relator, interrogator, url, referent) distinguished by POS.
type Tag struct {
	ID          string
	SubRelator  string
	SuperObject string
	POS         POS
	Rank        rank.Rank
	Relations   PredicateSet
}

// NewTag returns a plain tag placed under super by sub.
func NewTag(id, sub, super string) *Tag {
	return &Tag{ID: id, SubRelator: sub, SuperObject: super, POS: POSTag}
}

// NewRelator returns a tag usable as the relator of a predicate.
func NewRelator(id, super string) *Tag {
	return &Tag{ID: id, SubRelator: HardTypeOf, SuperObject: super, POS: POSRelator}
}

// NewInterrogator returns a query template. super scopes the query to a
// subtree and may be empty; relations are the constraints.
func NewInterrogator(id, super string) *Tag {
	t := &Tag{ID: id, SuperObject: super, POS: POSInterrogator}
	if super != "" {
		t.SubRelator = HardTypeOf
	}
	return t
}

// NewURL returns a url tag. The id is the raw url; the store replaces it
// with the canonical form on put.
func NewURL(raw string) *Tag {
	return &Tag{ID: raw, SubRelator: HardIsA, SuperObject: HardURL, POS: POSURL}
}

// NewReferent binds refers to refersTo, scoped to context when non-empty.
func NewReferent(refers, refersTo, context string) *Tag {
	t := &Tag{ID: refers, SubRelator: HardRefersTo, SuperObject: refersTo, POS: POSReferent}
	if context != "" {
		t.Relate(HardContext, context)
	}
	return t
}

// Refers is the surface id of a referent.
func (t *Tag) Refers() string { return t.ID }

// RefersTo is the canonical id of a referent.
func (t *Tag) RefersTo() string { return t.SuperObject }

// Context is the scope of a referent, or "" when universal.
func (t *Tag) Context() string {
	for _, p := range t.Relations {
		if p.Relator == HardContext {
			return p.Object
		}
	}
	return ""
}

// Relate adds a predicate with an optional modifier.
// It returns false when the (relator, object) pair is already present.
func (t *Tag) Relate(relator, object string, modifier ...string) bool {
	p := Predicate{Relator: relator, Object: object}
	if len(modifier) > 0 {
		p.Modifier = modifier[0]
	}
	return t.Relations.Add(p)
}

// RelateOp adds a predicate whose modifier is compared with op.
func (t *Tag) RelateOp(relator, object string, op Operator, modifier string) bool {
	return t.Relations.Add(Predicate{Relator: relator, Object: object, Modifier: modifier, Op: op})
}

// Related reports whether the tag carries (relator, object).
func (t *Tag) Related(relator, object string) bool {
	return t.Relations.Contains(relator, object)
}

// IsRoot reports whether t is the root entity.
func (t *Tag) IsRoot() bool {
	return t.ID == HardEntity
}

// Clone returns a deep copy.
func (t *Tag) Clone() *Tag {
	c := *t
	c.Relations = t.Relations.Clone()
	return &c
}

// Equal compares identity, placement and relations. Rank is not compared.
func (t *Tag) Equal(o *Tag) bool {
	if t.ID != o.ID || t.SubRelator != o.SubRelator || t.SuperObject != o.SuperObject || t.POS != o.POS {
		return false
	}
	if len(t.Relations) != len(o.Relations) {
		return false
	}
	for i := range t.Relations {
		if t.Relations[i] != o.Relations[i] {
			return false
		}
	}
	return true
}

// Validate checks the invariants of the tag's variant.
func (t *Tag) Validate() error {
	switch t.POS {
	case POSReferent:
		if t.Refers() == "" {
			return Errorf(TSMisuse, "referent refers must not be empty")
		}
		if t.RefersTo() == "" {
			return Errorf(TSMisuse, "referent refers_to must not be empty")
		}
		if t.Refers() == t.RefersTo() {
			return Errorf(TSMisuse, "referent cannot refer to itself: %s", t.ID)
		}
		return nil
	case POSInterrogator:
		return nil
	}

	if t.ID == "" {
		return Errorf(TSErr, "empty tag id")
	}
	if len(t.ID) > MaxTagLen {
		return Errorf(TSErrMaxTagLen, "tag id exceeds %d bytes", MaxTagLen)
	}
	if t.ID == t.SuperObject && !t.IsRoot() {
		return Errorf(TSMisuse, "_id cannot be the same as super_object: %s", t.ID)
	}
	return nil
}
