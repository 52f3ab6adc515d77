package tagl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tagdtest "github.com/musetronstar/tagd/internal/testing"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/storage"
)

func parseOne(t *testing.T, src string) *Statement {
	t.Helper()
	stmts, err := NewParser(nil).ParseString("test", src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func TestParsePut(t *testing.T) {
	st := parseOne(t, `>> dog _is_a animal _has legs = 4, tail _can bark;`)
	assert.Equal(t, sym.StatementPut, st.Kind)
	assert.Equal(t, "dog", st.Tag.ID)
	assert.Equal(t, tagd.HardIsA, st.Tag.SubRelator)
	assert.Equal(t, "animal", st.Tag.SuperObject)
	assert.Equal(t, tagd.POSTag, st.Tag.POS)
	assert.Equal(t, "dog _is_a animal\n_can bark\n_has legs = 4, tail", st.Tag.String())
}

func TestParseRelationsOnly(t *testing.T) {
	st := parseOne(t, `>> dog _has fur;`)
	assert.Empty(t, st.Tag.SuperObject)
	assert.True(t, st.Tag.Related(tagd.HardHas, "fur"))
}

func TestParseClassifier(t *testing.T) {
	classify := func(id string) tagd.POS {
		if id == "kind_of" {
			return tagd.POSSubRelator
		}
		return tagd.POSUnknown
	}
	stmts, err := NewParser(classify).ParseString("test", `>> poodle kind_of dog;`)
	require.NoError(t, err)
	assert.Equal(t, "kind_of", stmts[0].Tag.SubRelator)
	assert.Equal(t, "dog", stmts[0].Tag.SuperObject)

	stmts, err = NewParser(nil).ParseString("test", `>> poodle kind_of dog;`)
	require.NoError(t, err)
	assert.True(t, stmts[0].Tag.Related("kind_of", "dog"))
}

func TestParseQuery(t *testing.T) {
	st := parseOne(t, `?? what _is_a animal _has legs >= 4, tail;`)
	assert.Equal(t, sym.StatementQuery, st.Kind)
	assert.Equal(t, tagd.POSInterrogator, st.Tag.POS)
	assert.Equal(t, "animal", st.Tag.SuperObject)
	legs, ok := st.Tag.Relations.Get(tagd.HardHas, "legs")
	require.True(t, ok)
	assert.Equal(t, tagd.OpGte, legs.Op)
	assert.Equal(t, "4", legs.Modifier)
}

func TestParseReferent(t *testing.T) {
	st := parseOne(t, `>> perro _refers_to dog _context spanish;`)
	assert.Equal(t, tagd.POSReferent, st.Tag.POS)
	assert.Equal(t, "perro", st.Tag.Refers())
	assert.Equal(t, "dog", st.Tag.RefersTo())
	assert.Equal(t, "spanish", st.Tag.Context())
}

func TestParseMisc(t *testing.T) {
	stmts, err := NewParser(nil).ParseString("test", `
-- a comment
<< dog;
!! dog _can bark;
%% _context spanish, mexican;
>> "hot dog" _is_a food _has "name" = "frank; with mustard";
>> http://www.example.com/a?b=c _has tag;
`)
	require.NoError(t, err)
	require.Len(t, stmts, 5)

	assert.Equal(t, sym.StatementGet, stmts[0].Kind)
	assert.Equal(t, 3, stmts[0].Line)

	assert.Equal(t, sym.StatementDel, stmts[1].Kind)
	assert.True(t, stmts[1].Tag.Related(tagd.HardCan, "bark"))

	assert.Equal(t, sym.StatementPragma, stmts[2].Kind)
	assert.Equal(t, []string{"spanish", "mexican"}, stmts[2].Args)

	assert.Equal(t, "hot dog", stmts[3].Tag.ID)
	name, ok := stmts[3].Tag.Relations.Get(tagd.HardHas, "name")
	require.True(t, ok)
	assert.Equal(t, "frank; with mustard", name.Modifier)

	assert.Equal(t, "http://www.example.com/a?b=c", stmts[4].Tag.ID)
	assert.Equal(t, tagd.POSURL, stmts[4].Tag.POS)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing terminator", `>> dog _is_a animal`},
		{"no subject", `>> ;`},
		{"get with relations", `<< dog _has legs;`},
		{"two supers", `>> dog _is_a animal, pet;`},
		{"comparison in put", `>> dog _has legs > 4;`},
		{"unknown pragma", `%% _flags none;`},
		{"duplicate predicate", `>> dog _has legs, legs;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).ParseString("test", tt.src)
			require.Error(t, err)
			assert.Equal(t, tagd.TagIllegal, tagd.CodeOf(err), "%v", err)
		})
	}
}

func TestDriver(t *testing.T) {
	ctx := context.Background()
	s := storage.New(tagdtest.CreateTestDB(t), storage.Config{}, nil).NewSession(nil)
	var out bytes.Buffer
	d := NewDriver(s, &out, nil)

	n, err := d.Exec(ctx, "animals", strings.NewReader(`
>> animal _is_a _entity;
>> legs _is_a _entity;
>> tail _is_a _entity;
>> bark _is_a _entity;
>> meow _is_a _entity;
>> dog _is_a animal _has legs = 4, tail _can bark;
>> cat _is_a animal _has legs = 4, tail _can meow;
>> language _is_a _entity;
>> spanish _is_a language;
`))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Empty(t, out.String())

	_, err = d.Exec(ctx, "query", strings.NewReader(`?? what _is_a animal _has legs, tail;`))
	require.NoError(t, err)
	assert.Equal(t, "dog _is_a animal\n_has legs = 4, tail;\ncat _is_a animal\n_has legs = 4, tail;\n", out.String())

	out.Reset()
	_, err = d.Exec(ctx, "referent", strings.NewReader(`
%% _context spanish;
>> perro _refers_to dog _context spanish;
<< perro;
%% _context;
<< perro;
`))
	require.Error(t, err)
	assert.Equal(t, tagd.TSNotFound, tagd.CodeOf(err))
	lines := out.String()
	assert.Contains(t, lines, "perro _is_a animal\n")
	assert.Contains(t, lines, "_refers_to dog")
	assert.Contains(t, lines, "TS_NOT_FOUND _type_of _error\n")

	out.Reset()
	_, err = d.Exec(ctx, "bad", strings.NewReader(`>> dog`))
	require.Error(t, err)
	assert.Contains(t, out.String(), "TAG_ILLEGAL _type_of _error")
}
