package domain

import (
	"strings"
	"testing"

	"github.com/musetronstar/tagd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		host      string
		kind      Kind
		pub       string
		reg       string
		priv      string
		privLabel string
		sub       string
		str       string
	}{
		{"www.example.com", ICANNReg, "com", "example.com", "www.example", "example", "www", "www.example.com"},
		{"COM", ICANN, "com", "", "", "", "", "com"},
		{".COM", ICANN, "com", "", "", "", "", "com"},
		{"..WWW.eXample.cOm", ICANNReg, "com", "example.com", "www.example", "example", "www", "www.example.com"},
		{"example.com.", Unknown, "", "", "example.com.", "", "example.com", "example.com."},
		{"uk.com", Private, "uk.com", "", "", "", "", "uk.com"},
		{"example.uk.com", PrivateReg, "uk.com", "example.uk.com", "example", "example", "", "example.uk.com"},
		{"www.example.uk.com", PrivateReg, "uk.com", "example.uk.com", "www.example", "example", "www", "www.example.uk.com"},
		{"ck", ICANN, "ck", "", "", "", "", "ck"},
		{"com.ck", Wildcard, "com.ck", "", "", "", "", "com.ck"},
		{"www.example.com.ck", WildcardReg, "com.ck", "example.com.ck", "www.example", "example", "www", "www.example.com.ck"},
		{"www.ck", ExceptionReg, "ck", "www.ck", "www", "www", "", "www.ck"},
		{"example.www.ck", ExceptionReg, "ck", "www.ck", "example.www", "www", "example", "example.www.ck"},
		{"www.example.www.ck", ExceptionReg, "ck", "www.ck", "www.example.www", "www", "www.example", "www.example.www.ck"},
		{"local", Unknown, "", "", "local", "local", "", "local"},
		{"example.local", Unknown, "", "", "example.local", "local", "example", "example.local"},
		{"news.bbc.co.uk", ICANNReg, "co.uk", "bbc.co.uk", "news.bbc", "bbc", "news", "news.bbc.co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			d, err := Parse(tt.host)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, d.Kind(), "kind %s", d.Kind())
			assert.Equal(t, tt.pub, d.Pub(), "pub")
			assert.Equal(t, tt.reg, d.Reg(), "reg")
			assert.Equal(t, tt.priv, d.Priv(), "priv")
			assert.Equal(t, tt.privLabel, d.PrivLabel(), "priv_label")
			assert.Equal(t, tt.sub, d.Sub(), "sub")
			assert.Equal(t, tt.str, d.String(), "str")
			assert.Equal(t, tt.kind.Registrable(), d.IsRegistrable())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, host := range []string{"", "..."} {
		d, err := Parse(host)
		require.NoError(t, err)
		assert.Equal(t, Unknown, d.Kind())
		assert.Empty(t, d.Priv())
	}
}

func TestParseMaxLen(t *testing.T) {
	host := strings.Repeat("abcdefghij", 90) + ".com"
	_, err := Parse(host)
	assert.True(t, errors.Is(err, ErrMaxLen))
	assert.True(t, errors.Is(err, errors.ErrURL))
	assert.False(t, errors.Is(err, ErrInvalid))

	_, err = Parse(strings.Repeat("a", MaxLen-4) + ".com")
	assert.NoError(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "TLD_ICANN_REG", ICANNReg.String())
	assert.Equal(t, "TLD_EXCEPTION_REG", ExceptionReg.String())
	assert.Equal(t, "TLD_ERR", Kind(42).String())
}

func TestLoadRules(t *testing.T) {
	rs, err := LoadRules(strings.NewReader(`
// ===BEGIN ICANN DOMAINS===
test
*.wild.test
!ok.wild.test
// ===BEGIN PRIVATE DOMAINS===
hosted.test  trailing text is ignored
`))
	require.NoError(t, err)
	assert.Equal(t, 4, rs.Len())

	d, err := rs.Parse("a.hosted.test")
	require.NoError(t, err)
	assert.Equal(t, PrivateReg, d.Kind())

	d, err = rs.Parse("b.x.wild.test")
	require.NoError(t, err)
	assert.Equal(t, WildcardReg, d.Kind())
	assert.Equal(t, "x.wild.test", d.Pub())

	d, err = rs.Parse("ok.wild.test")
	require.NoError(t, err)
	assert.Equal(t, ExceptionReg, d.Kind())
	assert.Equal(t, "wild.test", d.Pub())

	_, err = LoadRules(strings.NewReader("a.*.test\n"))
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestDefaultRulesLoaded(t *testing.T) {
	assert.Greater(t, DefaultRules().Len(), 50)
}

func TestReverseLabels(t *testing.T) {
	assert.Equal(t, "com.example", ReverseLabels("example.com"))
	assert.Equal(t, "example.com", ReverseLabels("com.example"))
	assert.Equal(t, "com.example.www", ReverseLabels("www.example.com"))
	assert.Equal(t, "local", ReverseLabels("local"))
	assert.Equal(t, "", ReverseLabels(""))
}
