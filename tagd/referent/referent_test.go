package referent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/rank"
)

var (
	language = Scope{ID: "language", Rank: rank.MustNew(11)}
	spanish  = Scope{ID: "spanish", Rank: rank.MustNew(11, 1)}
	mexican  = Scope{ID: "mexican_spanish", Rank: rank.MustNew(11, 1, 1)}
	french   = Scope{ID: "french", Rank: rank.MustNew(11, 2)}
	slang    = Scope{ID: "slang", Rank: rank.MustNew(12)}
)

func bind(refers, refersTo string, ctx *Scope) Binding {
	b := Binding{Refers: refers, RefersTo: refersTo}
	if ctx != nil {
		b.Context = ctx.ID
		b.ContextRank = ctx.Rank
	}
	return b
}

func TestStack(t *testing.T) {
	s := NewStack(3)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Top())

	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrStackEmpty)

	require.NoError(t, s.Push("spanish"))
	require.NoError(t, s.Push("slang"))
	assert.Equal(t, []string{"spanish", "slang"}, s.IDs())
	assert.True(t, s.Contains("spanish"))

	require.NoError(t, s.Push("spanish"), "a context may be pushed again")
	assert.Equal(t, "spanish", s.Top())
	assert.Equal(t, []string{"spanish", "slang", "spanish"}, s.IDs())

	err = s.Push("french")
	assert.True(t, errors.Is(err, ErrStackFull))

	for _, want := range []string{"spanish", "slang", "spanish"} {
		top, err := s.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, top)
	}
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Push("slang"))
	s.Clear()
	assert.Equal(t, 0, s.Len())

	assert.True(t, errors.Is(s.Push(""), errors.ErrInvalidRequest))
	assert.True(t, errors.Is(s.Push(tagd.HardEntity), errors.ErrMisuse))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, DefaultMaxDepth, NewStack(0).max)
}

func TestDecode(t *testing.T) {
	perroES := bind("perro", "dog", &spanish)
	chienFR := bind("chien", "dog", &french)
	thing := bind("thing", "_entity", nil)

	tests := []struct {
		name     string
		word     string
		bindings []Binding
		scopes   []Scope
		isTag    bool
		want     string
		code     tagd.Code
	}{
		{"no bindings is verbatim", "dog", nil, []Scope{spanish}, true, "dog", tagd.OK},
		{"context match", "perro", []Binding{perroES}, []Scope{spanish}, false, "dog", tagd.OK},
		{"ancestor context applies", "perro", []Binding{perroES}, []Scope{mexican}, false, "dog", tagd.OK},
		{"descendant context does not apply", "perro", []Binding{bind("perro", "dog", &mexican)}, []Scope{spanish}, false, "perro", tagd.TSAmbiguous},
		{"no context active", "perro", []Binding{perroES}, nil, false, "perro", tagd.OK},
		{"other context active", "perro", []Binding{perroES}, []Scope{french}, false, "perro", tagd.TSAmbiguous},
		{"word is a tag itself", "perro", []Binding{perroES}, []Scope{french}, true, "perro", tagd.OK},
		{"universal fallback", "thing", []Binding{thing}, []Scope{french}, false, "_entity", tagd.OK},
		{"contextual beats universal", "chien", []Binding{bind("chien", "wolf", nil), chienFR}, []Scope{french}, false, "dog", tagd.OK},
		{"hard tags never decode", "_is_a", []Binding{bind("_is_a", "dog", nil)}, nil, true, "_is_a", tagd.OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.word, tt.bindings, tt.scopes, tt.isTag)
			assert.Equal(t, tt.code, tagd.CodeOf(err))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInnermostWins(t *testing.T) {
	bindings := []Binding{
		bind("bank", "river_bank", &language),
		bind("bank", "money_bank", &slang),
	}

	got, err := Decode("bank", bindings, []Scope{spanish, slang}, false)
	require.NoError(t, err)
	assert.Equal(t, "money_bank", got, "slang was pushed last")

	got, err = Decode("bank", bindings, []Scope{slang, spanish}, false)
	require.NoError(t, err)
	assert.Equal(t, "river_bank", got)
}

func TestDecodeDeepestContextWins(t *testing.T) {
	bindings := []Binding{
		bind("coche", "car", &language),
		bind("coche", "carriage", &spanish),
	}
	got, err := Decode("coche", bindings, []Scope{mexican}, false)
	require.NoError(t, err)
	assert.Equal(t, "carriage", got)
}

func TestEncode(t *testing.T) {
	toDog := []Binding{bind("perro", "dog", &spanish), bind("chien", "dog", &french)}

	assert.Equal(t, "perro", Encode("dog", toDog, []Scope{spanish}))
	assert.Equal(t, "chien", Encode("dog", toDog, []Scope{spanish, french}))
	assert.Equal(t, "dog", Encode("dog", toDog, []Scope{slang}))
	assert.Equal(t, "dog", Encode("dog", nil, []Scope{spanish}))
	assert.Equal(t, "_has", Encode("_has", []Binding{bind("tiene", "_has", nil)}, nil))
}

func TestRoundTrip(t *testing.T) {
	bindings := []Binding{
		bind("perro", "dog", &spanish),
		bind("chien", "dog", &french),
		bind("gato", "cat", &spanish),
	}
	byRefers := func(w string) []Binding {
		var out []Binding
		for _, b := range bindings {
			if b.Refers == w {
				out = append(out, b)
			}
		}
		return out
	}
	byRefersTo := func(id string) []Binding {
		var out []Binding
		for _, b := range bindings {
			if b.RefersTo == id {
				out = append(out, b)
			}
		}
		return out
	}

	for _, scopes := range [][]Scope{{spanish}, {french}, {mexican}, {spanish, french}, nil} {
		for _, id := range []string{"dog", "cat", "bird"} {
			word := Encode(id, byRefersTo(id), scopes)
			got, err := Decode(word, byRefers(word), scopes, word == id)
			require.NoError(t, err)
			assert.Equal(t, id, got, "%s via %s", id, word)
		}
	}
}

func TestBindingTag(t *testing.T) {
	tag := bind("perro", "dog", &spanish).Tag()
	assert.Equal(t, tagd.POSReferent, tag.POS)
	assert.Equal(t, "spanish", tag.Context())
	assert.True(t, bind("x", "y", nil).Universal())
}
