package tagd

import (
	"strings"
	"testing"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/tagd/domain"
	"github.com/musetronstar/tagd/tagd/rank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateSetOrdering(t *testing.T) {
	var ps PredicateSet
	assert.True(t, ps.Add(Predicate{Relator: "_has", Object: "tail"}))
	assert.True(t, ps.Add(Predicate{Relator: "_can", Object: "bark"}))
	assert.True(t, ps.Add(Predicate{Relator: "_has", Object: "legs", Modifier: "4"}))
	assert.False(t, ps.Add(Predicate{Relator: "_has", Object: "legs", Modifier: "3"}), "modifier is not identity")

	require.Len(t, ps, 3)
	assert.Equal(t, "_can bark", ps[0].String())
	assert.Equal(t, "_has legs = 4", ps[1].String())
	assert.Equal(t, "_has tail", ps[2].String())

	p, ok := ps.Get("_has", "legs")
	require.True(t, ok)
	assert.Equal(t, "4", p.Modifier)

	assert.Equal(t, []string{"legs", "tail"}, ps.Objects("_has"))
	assert.True(t, ps.Remove("_has", "legs"))
	assert.False(t, ps.Remove("_has", "legs"))
	assert.False(t, ps.Contains("_has", "legs"))
}

func TestPredicateSetMerge(t *testing.T) {
	a := PredicateSet{{Relator: "_has", Object: "legs"}}
	b := PredicateSet{{Relator: "_has", Object: "legs"}, {Relator: "_has", Object: "tail"}}

	assert.Equal(t, 1, a.Merge(b))
	assert.Len(t, a, 2)
	assert.Len(t, b, 2)

	c := a.Clone()
	c.Add(Predicate{Relator: "_can", Object: "bark"})
	assert.Len(t, a, 2, "clone is independent")
}

func TestOperator(t *testing.T) {
	for _, s := range []string{"=", ">", ">=", "<", "<="} {
		op, ok := ParseOperator(s)
		require.True(t, ok)
		assert.Equal(t, s, op.String())
	}
	_, ok := ParseOperator("!=")
	assert.False(t, ok)
	assert.False(t, OpEq.Numeric())
	assert.True(t, OpGte.Numeric())

	p := Predicate{Modifier: "4.5"}
	f, ok := p.ModifierFloat()
	assert.True(t, ok)
	assert.Equal(t, 4.5, f)
}

func TestVariants(t *testing.T) {
	dog := NewTag("dog", HardIsA, "animal")
	assert.Equal(t, POSTag, dog.POS)

	has := NewRelator("has_part", HardHas)
	assert.Equal(t, HardTypeOf, has.SubRelator)
	assert.Equal(t, POSRelator, has.POS)

	q := NewInterrogator(HardInterrogator, "animal")
	assert.Equal(t, POSInterrogator, q.POS)
	assert.Equal(t, HardTypeOf, q.SubRelator)
	assert.Empty(t, NewInterrogator(HardInterrogator, "").SubRelator)

	u := NewURL("http://example.com")
	assert.Equal(t, POSURL, u.POS)
	assert.Equal(t, HardURL, u.SuperObject)

	r := NewReferent("perro", "dog", "spanish")
	assert.Equal(t, "perro", r.Refers())
	assert.Equal(t, "dog", r.RefersTo())
	assert.Equal(t, "spanish", r.Context())
	assert.Equal(t, HardRefersTo, r.SubRelator)
	assert.Empty(t, NewReferent("perro", "dog", "").Context())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tag  *Tag
		code Code
	}{
		{"ok", NewTag("dog", HardIsA, "animal"), OK},
		{"root", NewTag(HardEntity, HardIsA, HardEntity), OK},
		{"empty id", NewTag("", HardIsA, "animal"), TSErr},
		{"self parent", NewTag("dog", HardIsA, "dog"), TSMisuse},
		{"too long", NewTag(strings.Repeat("a", MaxTagLen+1), HardIsA, "animal"), TSErrMaxTagLen},
		{"referent ok", NewReferent("perro", "dog", ""), OK},
		{"referent to self", NewReferent("dog", "dog", ""), TSMisuse},
		{"referent empty", NewReferent("", "dog", ""), TSMisuse},
		{"referent no target", NewReferent("perro", "", ""), TSMisuse},
		{"interrogator", NewInterrogator("", ""), OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.tag.Validate()))
		})
	}
}

func TestTagString(t *testing.T) {
	dog := NewTag("dog", HardIsA, "animal")
	dog.Relate(HardHas, "legs", "4")
	dog.Relate(HardHas, "tail")
	dog.Relate(HardCan, "bark")
	dog.Relate(HardHas, "name", "rex the dog")

	assert.Equal(t, "dog _is_a animal\n_can bark\n_has legs = 4, name = \"rex the dog\", tail", dog.String())

	q := NewInterrogator(HardInterrogator, "")
	q.RelateOp(HardHas, "legs", OpGt, "2")
	assert.Equal(t, "_interrogator\n_has legs > 2", q.String())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "dog", Quote("dog"))
	assert.Equal(t, `""`, Quote(""))
	assert.Equal(t, `"a b"`, Quote("a b"))
	assert.Equal(t, `"say \"hi\""`, Quote(`say "hi"`))
	assert.Equal(t, "com:example::/:http", Quote("com:example::/:http"))
}

func TestCloneAndEqual(t *testing.T) {
	dog := NewTag("dog", HardIsA, "animal")
	dog.Relate(HardHas, "tail")
	c := dog.Clone()
	assert.True(t, dog.Equal(c))

	c.Relate(HardCan, "bark")
	assert.False(t, dog.Equal(c))
	assert.Len(t, dog.Relations, 1)
}

func TestMergeContaining(t *testing.T) {
	animal := &Tag{ID: "animal", Rank: rank.MustNew(11)}
	dog := &Tag{ID: "dog", Rank: rank.MustNew(11, 1)}
	cat := &Tag{ID: "cat", Rank: rank.MustNew(11, 2)}
	rock := &Tag{ID: "rock", Rank: rank.MustNew(12)}

	withRel := func(t *Tag, rel, obj string) *Tag {
		c := t.Clone()
		c.Relate(rel, obj)
		return c
	}

	t.Run("empty a takes b", func(t *testing.T) {
		b := TagSet{dog}
		assert.Equal(t, b, MergeContaining(nil, b))
	})

	t.Run("recurring tags kept with both predicates", func(t *testing.T) {
		a := TagSet{withRel(dog, HardHas, "legs"), withRel(cat, HardHas, "legs")}
		b := TagSet{withRel(cat, HardHas, "tail"), withRel(dog, HardHas, "tail")}
		got := MergeContaining(a, b)
		assert.Equal(t, []string{"dog", "cat"}, got.IDs())
		for _, tag := range got {
			assert.True(t, tag.Related(HardHas, "legs"))
			assert.True(t, tag.Related(HardHas, "tail"))
		}
	})

	t.Run("descendant absorbs ancestor", func(t *testing.T) {
		a := TagSet{withRel(animal, HardHas, "legs")}
		b := TagSet{withRel(dog, HardCan, "bark"), withRel(rock, HardIsA, "mineral")}
		got := MergeContaining(a, b)
		require.Equal(t, []string{"dog"}, got.IDs())
		assert.True(t, got[0].Related(HardHas, "legs"))
		assert.True(t, got[0].Related(HardCan, "bark"))
	})

	t.Run("descendant in a kept", func(t *testing.T) {
		a := TagSet{withRel(dog, HardCan, "bark")}
		b := TagSet{withRel(animal, HardHas, "legs")}
		got := MergeContaining(a, b)
		require.Equal(t, []string{"dog"}, got.IDs())
		assert.True(t, got[0].Related(HardHas, "legs"))
	})

	t.Run("unrelated dropped", func(t *testing.T) {
		a := TagSet{dog}
		b := TagSet{rock}
		assert.Empty(t, MergeContaining(a, b))
	})
}

func TestTagSetSort(t *testing.T) {
	s := TagSet{
		{ID: "cat", Rank: rank.MustNew(1, 2)},
		{ID: "animal", Rank: rank.MustNew(1)},
		{ID: "dog", Rank: rank.MustNew(1, 1)},
	}
	s.Sort()
	assert.Equal(t, []string{"animal", "dog", "cat"}, s.IDs())

	found, ok := s.Find("dog")
	require.True(t, ok)
	assert.Equal(t, "dog", found.ID)
	_, ok = s.Find("rock")
	assert.False(t, ok)
}

func TestHardTags(t *testing.T) {
	tags := HardTags()
	require.NotEmpty(t, tags)
	assert.Equal(t, HardEntity, tags[0].ID)
	assert.True(t, tags[0].Rank.IsEmpty())

	for _, h := range tags[1:] {
		assert.True(t, IsHardTag(h.ID))
		assert.True(t, IsReserved(h.ID))
		parent, ok := LookupHardTag(h.SuperObject)
		require.True(t, ok, "%s parent %s", h.ID, h.SuperObject)
		if parent.ID == HardEntity {
			assert.Equal(t, 1, h.Rank.Depth(), h.ID)
		} else {
			assert.True(t, parent.Rank.Contains(h.Rank), "%s under %s", h.ID, parent.ID)
		}
	}

	has, ok := LookupHardTag(HardHas)
	require.True(t, ok)
	assert.Equal(t, POSRelator, has.Tag().POS)
	assert.False(t, IsHardTag("dog"))
}

func TestPOSString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", POSUnknown.String())
	assert.Equal(t, "TAG|SUBJECT", (POSTag | POSSubject).String())
	assert.True(t, (POSTag | POSRefers).Has(POSRefers))
	assert.False(t, POSTag.Has(POSUnknown))
}

func TestFlags(t *testing.T) {
	f := NoPosCast | IgnoreDuplicates
	assert.True(t, f.Has(IgnoreDuplicates))
	assert.False(t, f.Has(NoNotFoundError))
}

func TestErrorIsKind(t *testing.T) {
	err := Errorf(TSNotFound, "unknown tag: %s", "dog").CausedBy(HardUnknownTag, "dog")

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.False(t, errors.Is(err, errors.ErrDuplicate))
	assert.Equal(t, "TS_NOT_FOUND: unknown tag: dog", err.Error())

	wrapped := errors.Wrap(err, "get")
	assert.Equal(t, TSNotFound, CodeOf(wrapped))

	tag := err.Tag()
	assert.Equal(t, "TS_NOT_FOUND", tag.ID)
	assert.Equal(t, HardError, tag.SuperObject)
	p, ok := tag.Relations.Get(HardCausedBy, HardUnknownTag)
	require.True(t, ok)
	assert.Equal(t, "dog", p.Modifier)
	assert.True(t, tag.Related(HardHas, HardMessage))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, RankMaxLen, CodeOf(rank.ErrMaxLen))
	assert.Equal(t, RankEmpty, CodeOf(errors.Wrap(rank.ErrEmpty, "next")))
	assert.Equal(t, RankMaxValue, CodeOf(rank.ErrMaxValue))
	assert.Equal(t, RankErr, CodeOf(rank.ErrMalformed))
	assert.Equal(t, TLDErr, CodeOf(domain.ErrInvalid))
	assert.Equal(t, TLDMaxLen, CodeOf(errors.Wrap(domain.ErrMaxLen, "parse")))
	assert.Equal(t, TSInternalErr, CodeOf(errors.New("disk I/O error")))

	code, ok := ParseCode("TS_AMBIGUOUS")
	require.True(t, ok)
	assert.Equal(t, TSAmbiguous, code)
	assert.Equal(t, "TAGD_CODE_UNKNOWN", Code(999).String())
}

func TestErrorable(t *testing.T) {
	var e Errorable
	assert.True(t, e.OK())
	assert.Nil(t, e.Last())
	assert.Nil(t, e.Add(nil))

	e.Errorf(TSDuplicate, "dog")
	assert.Equal(t, TSDuplicate, e.Code())

	e.Errorf(TSMisuse, "cannot delete hard tag")
	e.Errorf(TSNotFound, "cat")
	assert.Equal(t, TSMisuse, e.Code(), "most severe wins")
	assert.Equal(t, TSNotFound, e.Last().Code)
	assert.True(t, e.Has(TSDuplicate))
	assert.Len(t, e.Errors(), 3)

	e.Add(errors.New("database is locked"))
	assert.Equal(t, TSInternalErr, e.Code())

	e.Clear()
	assert.True(t, e.OK())
	assert.Empty(t, e.Errors())
}
