package domain

import (
	"bufio"
	_ "embed"
	"io"
	"strings"

	"github.com/musetronstar/tagd/errors"
)

//go:embed public_suffix.dat
var defaultRules string

type ruleType int

const (
	ruleNormal ruleType = iota + 1
	ruleWildcard
	ruleException
)

type rule struct {
	typ     ruleType
	private bool
}

// Rules is a parsed public suffix table. Keys are the rule text without its
// '*.' or '!' prefix, qualified by type.
type Rules struct {
	normal    map[string]rule
	wildcard  map[string]rule
	exception map[string]rule
}

// LoadRules reads rules in public suffix list format: one rule per line,
// "//" comments, and ICANN/PRIVATE section markers.
func LoadRules(r io.Reader) (*Rules, error) {
	rs := &Rules{
		normal:    make(map[string]rule),
		wildcard:  make(map[string]rule),
		exception: make(map[string]rule),
	}

	private := false
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "//") {
			switch {
			case strings.Contains(line, "===BEGIN PRIVATE DOMAINS==="):
				private = true
			case strings.Contains(line, "===BEGIN ICANN DOMAINS==="):
				private = false
			}
			continue
		}
		if line == "" {
			continue
		}
		// rules end at the first whitespace
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			line = line[:i]
		}
		line = strings.ToLower(line)

		switch {
		case strings.HasPrefix(line, "!"):
			rs.exception[line[1:]] = rule{typ: ruleException, private: private}
		case strings.HasPrefix(line, "*."):
			rs.wildcard[line[2:]] = rule{typ: ruleWildcard, private: private}
		case strings.Contains(line, "*"):
			return nil, errors.Wrapf(ErrInvalid, "line %d: unsupported wildcard %q", lineNo, line)
		default:
			rs.normal[line] = rule{typ: ruleNormal, private: private}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read public suffix rules")
	}
	return rs, nil
}

// Len is the number of rules loaded.
func (rs *Rules) Len() int {
	return len(rs.normal) + len(rs.wildcard) + len(rs.exception)
}

var builtin *Rules

func init() {
	var err error
	builtin, err = LoadRules(strings.NewReader(defaultRules))
	if err != nil {
		panic(err)
	}
}

// DefaultRules returns the embedded rule table.
func DefaultRules() *Rules {
	return builtin
}
