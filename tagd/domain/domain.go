// Package domain classifies host names against public suffix rules.
//
// A host splits into a public suffix (pub), the private part in front of it
// (priv), the last private label (priv_label) and any subdomains (sub):
//
//	www.example.com  ->  pub com, priv www.example, priv_label example, sub www
package domain

import (
	"strings"

	"github.com/musetronstar/tagd/errors"
)

// MaxLen is the longest host accepted.
const MaxLen = 900

var (
	// ErrMaxLen is returned for hosts longer than MaxLen.
	ErrMaxLen = errors.NewKind("domain exceeds maximum length", errors.ErrURL)
	// ErrInvalid is returned for malformed rule tables.
	ErrInvalid = errors.NewKind("invalid domain rule", errors.ErrURL)
)

// Kind is the public suffix classification of a host.
type Kind int

const (
	Unknown Kind = iota
	ICANN
	ICANNReg
	Private
	PrivateReg
	Wildcard
	WildcardReg
	ExceptionReg
)

var kindNames = [...]string{
	Unknown:      "TLD_UNKNOWN",
	ICANN:        "TLD_ICANN",
	ICANNReg:     "TLD_ICANN_REG",
	Private:      "TLD_PRIVATE",
	PrivateReg:   "TLD_PRIVATE_REG",
	Wildcard:     "TLD_WILDCARD",
	WildcardReg:  "TLD_WILDCARD_REG",
	ExceptionReg: "TLD_EXCEPTION_REG",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "TLD_ERR"
	}
	return kindNames[k]
}

// Registrable reports whether the kind names a host below a public suffix.
func (k Kind) Registrable() bool {
	switch k {
	case ICANNReg, PrivateReg, WildcardReg, ExceptionReg:
		return true
	}
	return false
}

// Domain is a classified host.
type Domain struct {
	host string
	kind Kind
	pub  string
	reg  string
}

// Parse classifies host with the embedded rules.
func Parse(host string) (*Domain, error) {
	return DefaultRules().Parse(host)
}

// Parse classifies host. Leading dots are dropped and the host is lowercased;
// a trailing dot leaves the host unclassified.
func (rs *Rules) Parse(host string) (*Domain, error) {
	if len(host) > MaxLen {
		return nil, errors.Wrapf(ErrMaxLen, "%d bytes", len(host))
	}
	host = strings.ToLower(strings.TrimLeft(host, "."))
	d := &Domain{host: host}
	if host == "" {
		return d, nil
	}

	labels := strings.Split(host, ".")
	n := len(labels)
	for i := 0; i < n; i++ {
		suffix := strings.Join(labels[i:], ".")

		if _, ok := rs.exception[suffix]; ok {
			// the exception itself is registrable under its parent
			d.pub = strings.Join(labels[i+1:], ".")
			d.reg = suffix
			d.kind = ExceptionReg
			return d, nil
		}

		if r, ok := rs.normal[suffix]; ok {
			d.classify(labels, i, r.private, ICANN, ICANNReg, Private, PrivateReg)
			return d, nil
		}

		if i+1 < n {
			if r, ok := rs.wildcard[strings.Join(labels[i+1:], ".")]; ok {
				d.classify(labels, i, r.private, Wildcard, WildcardReg, Wildcard, WildcardReg)
				return d, nil
			}
		}

		// a wildcard base with no label to match is itself a suffix
		if i == 0 {
			if r, ok := rs.wildcard[suffix]; ok {
				d.classify(labels, i, r.private, ICANN, ICANNReg, Private, PrivateReg)
				return d, nil
			}
		}
	}

	d.kind = Unknown
	return d, nil
}

func (d *Domain) classify(labels []string, start int, private bool, icann, icannReg, priv, privReg Kind) {
	d.pub = strings.Join(labels[start:], ".")
	suffixKind, regKind := icann, icannReg
	if private {
		suffixKind, regKind = priv, privReg
	}
	if start == 0 {
		d.kind = suffixKind
		return
	}
	d.kind = regKind
	d.reg = strings.Join(labels[start-1:], ".")
}

// Kind is the classification.
func (d *Domain) Kind() Kind { return d.kind }

// String is the normalized host.
func (d *Domain) String() string { return d.host }

// IsRegistrable reports whether the host lies below a public suffix.
func (d *Domain) IsRegistrable() bool { return d.kind.Registrable() }

// Pub is the public suffix, e.g. "co.uk".
func (d *Domain) Pub() string { return d.pub }

// Reg is the registrable domain, e.g. "example.co.uk".
func (d *Domain) Reg() string { return d.reg }

// Priv is the host without its public suffix. Unclassified hosts are all private.
func (d *Domain) Priv() string {
	switch {
	case d.kind == Unknown:
		return d.host
	case !d.IsRegistrable():
		return ""
	}
	return strings.TrimSuffix(d.host, "."+d.pub)
}

// PrivLabel is the last label of Priv.
func (d *Domain) PrivLabel() string {
	priv := d.Priv()
	if i := strings.LastIndexByte(priv, '.'); i >= 0 {
		return priv[i+1:]
	}
	return priv
}

// Sub is Priv without its last label.
func (d *Domain) Sub() string {
	priv := d.Priv()
	if i := strings.LastIndexByte(priv, '.'); i >= 0 {
		return priv[:i]
	}
	return ""
}

// ReverseLabels reverses the dot separated labels of s.
func ReverseLabels(s string) string {
	if s == "" {
		return ""
	}
	labels := strings.Split(s, ".")
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, ".")
}
