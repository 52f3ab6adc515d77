package sym

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolToCommandAndCommandToSymbolAreBidirectional(t *testing.T) {
	for symbol, cmd := range SymbolToCommand {
		assert.Equal(t, symbol, CommandToSymbol[cmd], "command %q", cmd)
	}
	assert.Len(t, CommandToSymbol, len(SymbolToCommand))
}

func TestCommandDescriptionsCoversAllCommands(t *testing.T) {
	for cmd := range CommandToSymbol {
		assert.NotEmpty(t, CommandDescriptions[cmd], "command %q", cmd)
	}
}

func TestGlyphRoundTrip(t *testing.T) {
	for _, s := range []Statement{StatementPut, StatementGet, StatementDel, StatementQuery, StatementPragma} {
		assert.Equal(t, s, FromGlyph(Glyph(s)))
	}
	assert.Equal(t, StatementUnspecified, FromGlyph("<>"))
	assert.Equal(t, "put", StatementPut.String())
	assert.Equal(t, "unspecified", StatementUnspecified.String())
}

func TestGlyphsAreTwoBytes(t *testing.T) {
	for _, g := range []string{Put, Get, Del, Query, Pragma} {
		assert.Len(t, g, 2, g)
	}
}
