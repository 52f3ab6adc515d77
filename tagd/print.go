package tagd

import (
	"strconv"
	"strings"
)

// Quote returns s as a TAGL token, quoting it when it would not lex as one word.
func Quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\r\n\";,=<>") || strings.HasPrefix(s, "--") {
		return strconv.Quote(s)
	}
	return s
}

// String renders the tag in TAGL form without a statement glyph or terminator:
//
//	dog _is_a animal
//	_can bark
//	_has legs = 4, tail
func (t *Tag) String() string {
	var b strings.Builder
	b.WriteString(Quote(t.ID))
	if t.SubRelator != "" && t.SuperObject != "" {
		b.WriteString(" ")
		b.WriteString(Quote(t.SubRelator))
		b.WriteString(" ")
		b.WriteString(Quote(t.SuperObject))
	}

	var relator string
	for i, p := range t.Relations {
		if i == 0 || p.Relator != relator {
			relator = p.Relator
			b.WriteString("\n")
			b.WriteString(Quote(p.Relator))
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(Quote(p.Object))
		if p.Modifier != "" {
			b.WriteString(" ")
			b.WriteString(p.Op.String())
			b.WriteString(" ")
			b.WriteString(Quote(p.Modifier))
		}
	}
	return b.String()
}
