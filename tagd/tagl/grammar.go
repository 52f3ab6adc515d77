package tagl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// taglLexer tokenizes TAGL. Words are any run of characters that are not
// whitespace, punctuation or an operator; an = inside a word is kept, so
// urls with query strings lex as one word.
var taglLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Glyph", Pattern: `>>|<<|!!|\?\?|%%`},
	{Name: "Op", Pattern: `>=|<=|=|>|<`},
	{Name: "Punct", Pattern: `[;,]`},
	{Name: "Word", Pattern: `[^\s;,=<>"][^\s;,<>"]*`},
})

// script is a sequence of statements.
type script struct {
	Statements []*statement `@@*`
}

type statement struct {
	Pos lexer.Position

	Pragma  *pragma  `  @@`
	Command *command `| @@`
}

// pragma changes session state: %% _context a, b;
type pragma struct {
	Name string   `"%%" @(Word | String)`
	Args []string `(@(Word | String) ("," @(Word | String))*)? ";"`
}

// command is a get, put, del or query statement.
type command struct {
	Glyph   string   `@(">>" | "<<" | "!!" | "??")`
	Subject string   `@(Word | String)`
	Groups  []*group `@@* ";"`
}

// group is a relator with its objects: _has legs = 4, tail
type group struct {
	Pos lexer.Position

	Relator string    `@(Word | String)`
	Objects []*object `@@ ("," @@)*`
}

type object struct {
	Name     string    `@(Word | String)`
	Modifier *modifier `@@?`
}

type modifier struct {
	Op    string `@Op`
	Value string `@(Word | String)`
}

var parser = participle.MustBuild[script](
	participle.Lexer(taglLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)
