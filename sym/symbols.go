// Package sym defines the canonical glyphs of TAGL statements.
// These glyphs are stable across the parser, the CLI and log output.
package sym

// Statement glyphs. Each one opens a TAGL statement.
const (
	Put    = ">>" // put a tag or add relations
	Get    = "<<" // get a tag by id
	Del    = "!!" // delete a tag or some of its relations
	Query  = "??" // query an interrogator
	Pragma = "%%" // session pragma (context push/pop/clear)
)

// Punctuation inside statements.
const (
	Terminator = ";" // ends a statement
	Separator  = "," // separates objects of one relator
	Modifier   = "=" // binds a modifier to an object
)

// Statement enumerates the statement kinds by glyph order.
type Statement int

const (
	StatementUnspecified Statement = iota
	StatementPut
	StatementGet
	StatementDel
	StatementQuery
	StatementPragma
)

// entry binds a statement kind to its glyph, command, and description.
type entry struct {
	statement   Statement
	glyph       string
	command     string
	description string
}

// registry is the canonical mapping between statement kinds and glyph metadata.
var registry = []entry{
	{StatementPut, Put, "put", "Put a tag or add relations to it"},
	{StatementGet, Get, "get", "Get a tag and its relations"},
	{StatementDel, Del, "del", "Delete a tag or some of its relations"},
	{StatementQuery, Query, "query", "Query tags matching an interrogator"},
	{StatementPragma, Pragma, "pragma", "Change session state"},
}

// Lookup tables built from the registry at init time.
var (
	glyphToStatement map[string]Statement
	statementToGlyph map[Statement]string

	// SymbolToCommand maps glyph strings to their text command equivalents.
	SymbolToCommand map[string]string
	// CommandToSymbol maps text commands to their canonical glyph strings.
	CommandToSymbol map[string]string
	// CommandDescriptions provides human-readable explanations for help output.
	CommandDescriptions map[string]string
)

func init() {
	glyphToStatement = make(map[string]Statement, len(registry))
	statementToGlyph = make(map[Statement]string, len(registry))
	SymbolToCommand = make(map[string]string, len(registry))
	CommandToSymbol = make(map[string]string, len(registry))
	CommandDescriptions = make(map[string]string, len(registry))
	for _, e := range registry {
		glyphToStatement[e.glyph] = e.statement
		statementToGlyph[e.statement] = e.glyph
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.description
	}
}

// Glyph returns the glyph string for a statement kind.
func Glyph(s Statement) string {
	return statementToGlyph[s]
}

// FromGlyph returns the statement kind for a glyph string.
func FromGlyph(glyph string) Statement {
	if s, ok := glyphToStatement[glyph]; ok {
		return s
	}
	return StatementUnspecified
}

func (s Statement) String() string {
	if g, ok := statementToGlyph[s]; ok {
		return SymbolToCommand[g]
	}
	return "unspecified"
}
