// Package tagl parses TAGL, the statement language of tagd, and runs
// statements against an engine session.
//
//	>> dog _is_a animal _has legs = 4, tail _can bark;
//	<< dog;
//	?? what _is_a animal _has legs > 2;
//	!! dog _can bark;
//	%% _context spanish;
package tagl

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/url"
)

// PragmaContext replaces the context stack with its arguments.
const PragmaContext = tagd.HardContext

// Statement is one parsed TAGL statement.
type Statement struct {
	Kind sym.Statement
	Tag  *tagd.Tag

	// Pragma and Args are set for StatementPragma.
	Pragma string
	Args   []string

	Line int
}

// Subject is the statement's tag id, or the pragma name.
func (s *Statement) Subject() string {
	if s.Tag == nil {
		return s.Pragma
	}
	return s.Tag.ID
}

// Classifier reports the roles an id occupies in the store. The parser
// uses it to tell a sub_relator (dog _is_a animal) from a relator
// (dog _has legs) in the first position after the subject.
type Classifier func(id string) tagd.POS

// Parser turns TAGL text into statements.
type Parser struct {
	classify Classifier
}

// NewParser returns a parser. A nil classify recognizes only the hard
// sub_relators.
func NewParser(classify Classifier) *Parser {
	return &Parser{classify: classify}
}

// ParseString parses TAGL held in a string.
func (p *Parser) ParseString(name, src string) ([]*Statement, error) {
	return p.Parse(name, strings.NewReader(src))
}

// Parse reads every statement from r.
func (p *Parser) Parse(name string, r io.Reader) ([]*Statement, error) {
	s, err := parser.Parse(name, r)
	if err != nil {
		return nil, parseError(name, err)
	}
	out := make([]*Statement, 0, len(s.Statements))
	for _, st := range s.Statements {
		stmt, err := p.build(st)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func parseError(name string, err error) error {
	e := tagd.WrapError(tagd.TagIllegal, err, "parse %s", name)
	var ute *participle.UnexpectedTokenError
	if errors.As(err, &ute) {
		e.CausedBy(tagd.HardBadToken, ute.Unexpected.Value)
	}
	return e
}

func illegal(line int, format string, args ...interface{}) *tagd.Error {
	return tagd.Errorf(tagd.TagIllegal, "line %d: "+format, append([]interface{}{line}, args...)...)
}

func (p *Parser) isSubRelator(id string) bool {
	switch id {
	case tagd.HardIsA, tagd.HardTypeOf, tagd.HardRefersTo:
		return true
	}
	return p.classify != nil && p.classify(id).Has(tagd.POSSubRelator)
}

func (p *Parser) build(st *statement) (*Statement, error) {
	line := st.Pos.Line
	if st.Pragma != nil {
		if st.Pragma.Name != PragmaContext {
			return nil, illegal(line, "unknown pragma: %s", st.Pragma.Name)
		}
		return &Statement{Kind: sym.StatementPragma, Pragma: st.Pragma.Name, Args: st.Pragma.Args, Line: line}, nil
	}

	cmd := st.Command
	kind := sym.FromGlyph(cmd.Glyph)
	groups := cmd.Groups

	var t *tagd.Tag
	switch kind {
	case sym.StatementGet:
		if len(groups) > 0 {
			return nil, illegal(line, "get takes only an id: %s", cmd.Subject)
		}
		return &Statement{Kind: kind, Tag: &tagd.Tag{ID: cmd.Subject}, Line: line}, nil
	case sym.StatementQuery:
		t = tagd.NewInterrogator(cmd.Subject, "")
	default:
		t = &tagd.Tag{ID: cmd.Subject, POS: tagd.POSTag}
		if url.IsURL(cmd.Subject) {
			t.POS = tagd.POSURL
		}
	}

	if len(groups) > 0 && p.isSubRelator(groups[0].Relator) {
		g := groups[0]
		if len(g.Objects) != 1 || g.Objects[0].Modifier != nil {
			return nil, illegal(g.Pos.Line, "%s takes exactly one super_object", g.Relator)
		}
		super := g.Objects[0].Name
		if g.Relator == tagd.HardRefersTo && kind != sym.StatementQuery {
			t = tagd.NewReferent(cmd.Subject, super, "")
		} else {
			t.SubRelator, t.SuperObject = g.Relator, super
		}
		groups = groups[1:]
	}

	for _, g := range groups {
		for _, o := range g.Objects {
			if t.POS == tagd.POSReferent {
				if g.Relator != tagd.HardContext || o.Modifier != nil || t.Context() != "" {
					return nil, illegal(g.Pos.Line, "a referent takes one %s: %s %s", tagd.HardContext, g.Relator, o.Name)
				}
				t.Relate(tagd.HardContext, o.Name)
				continue
			}

			pred := tagd.Predicate{Relator: g.Relator, Object: o.Name}
			if o.Modifier != nil {
				op, ok := tagd.ParseOperator(o.Modifier.Op)
				if !ok {
					return nil, illegal(g.Pos.Line, "bad operator: %s", o.Modifier.Op)
				}
				if op.Numeric() && kind != sym.StatementQuery {
					return nil, illegal(g.Pos.Line, "operator %s is only allowed in queries", op)
				}
				pred.Op, pred.Modifier = op, o.Modifier.Value
			}
			if !t.Relations.Add(pred) {
				return nil, illegal(g.Pos.Line, "duplicate predicate: %s", pred)
			}
		}
	}

	return &Statement{Kind: kind, Tag: t, Line: line}, nil
}
