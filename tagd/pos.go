package tagd

import "strings"

// POS is a part-of-speech bitmask. A tag has exactly one POS describing what
// it is; a term accumulates the POS bits of every role its id occupies.
type POS uint32

const (
	POSUnknown      POS = 0
	POSTag          POS = 1 << 0
	POSSubRelator   POS = 1 << 1
	POSSuperObject  POS = 1 << 2
	POSRelator      POS = 1 << 3
	POSInterrogator POS = 1 << 4
	POSURL          POS = 1 << 5
	POSError        POS = 1 << 6
	POSSubject      POS = 1 << 7
	POSRelated      POS = 1 << 8
	POSObject       POS = 1 << 9
	POSModifier     POS = 1 << 10
	POSReferent     POS = 1 << 11
	POSRefers       POS = 1 << 12
	POSRefersTo     POS = 1 << 13
	POSContext      POS = 1 << 14
	POSFlag         POS = 1 << 15
	POSInclude      POS = 1 << 16
)

var posNames = []struct {
	pos  POS
	name string
}{
	{POSTag, "TAG"},
	{POSSubRelator, "SUB_RELATOR"},
	{POSSuperObject, "SUPER_OBJECT"},
	{POSRelator, "RELATOR"},
	{POSInterrogator, "INTERROGATOR"},
	{POSURL, "URL"},
	{POSError, "ERROR"},
	{POSSubject, "SUBJECT"},
	{POSRelated, "RELATED"},
	{POSObject, "OBJECT"},
	{POSModifier, "MODIFIER"},
	{POSReferent, "REFERENT"},
	{POSRefers, "REFERS"},
	{POSRefersTo, "REFERS_TO"},
	{POSContext, "CONTEXT"},
	{POSFlag, "FLAG"},
	{POSInclude, "INCLUDE"},
}

// Has reports whether every bit of q is set in p.
func (p POS) Has(q POS) bool {
	return q != 0 && p&q == q
}

// String lists set bits joined by '|', e.g. "TAG|SUBJECT".
func (p POS) String() string {
	if p == POSUnknown {
		return "UNKNOWN"
	}
	var names []string
	for _, n := range posNames {
		if p&n.pos != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParsePOS reads the form produced by String.
func ParsePOS(s string) (POS, bool) {
	if s == "" || s == "UNKNOWN" {
		return POSUnknown, true
	}
	var p POS
next:
	for _, name := range strings.Split(s, "|") {
		for _, n := range posNames {
			if n.name == name {
				p |= n.pos
				continue next
			}
		}
		return POSUnknown, false
	}
	return p, true
}
