package url

import (
	"strings"

	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/domain"
)

// field order after rpub and priv_label
const (
	fieldRSub = iota
	fieldPath
	fieldQuery
	fieldFragment
	fieldPort
	fieldUser
	fieldPass
	numFields
)

// ':' delimits fields, so it is escaped inside them. '%' is escaped too so
// that an already encoded %3A survives the trip back.
var (
	fieldEscaper   = strings.NewReplacer("%", "%25", ":", "%3A")
	fieldUnescaper = strings.NewReplacer("%25", "%", "%3A", ":", "%3a", ":")
)

// HDURI renders the hierarchical key.
func (u *URL) HDURI() string {
	var rpub, privLabel, rsub string
	if u.domain != nil {
		rpub = domain.ReverseLabels(u.domain.Pub())
		privLabel = u.domain.PrivLabel()
		rsub = domain.ReverseLabels(u.domain.Sub())
	}

	var b strings.Builder
	b.WriteString(rpub)
	b.WriteString(":")
	b.WriteString(privLabel)

	fields := [numFields]string{
		fieldRSub:     rsub,
		fieldPath:     fieldEscaper.Replace(u.Path),
		fieldQuery:    fieldEscaper.Replace(u.Query),
		fieldFragment: fieldEscaper.Replace(u.Fragment),
		fieldPort:     u.Port,
		fieldUser:     fieldEscaper.Replace(u.User),
		fieldPass:     fieldEscaper.Replace(u.Pass),
	}

	pending := 0
	for i, f := range fields {
		present := f != "" || (i == fieldPass && u.HasPass)
		if !present {
			pending++
			continue
		}
		b.WriteString(strings.Repeat(":", pending))
		pending = 0
		b.WriteString(":")
		b.WriteString(f)
	}

	b.WriteString(":")
	b.WriteString(u.Scheme)
	return b.String()
}

// ParseHDURI is the inverse of HDURI.
func ParseHDURI(h string) (*URL, error) {
	if h == "" {
		return nil, tagd.Errorf(tagd.URLEmpty, "empty hduri")
	}
	if len(h) > MaxLen {
		return nil, tagd.Errorf(tagd.URLMaxLen, "hduri exceeds %d bytes", MaxLen)
	}

	last := strings.LastIndexByte(h, ':')
	if last < 0 || last == len(h)-1 {
		return nil, tagd.Errorf(tagd.URLErrScheme, "no scheme in hduri: %s", h)
	}
	u := &URL{Scheme: h[last+1:]}

	segs := strings.Split(h[:last], ":")
	if len(segs) < 2 {
		return nil, tagd.Errorf(tagd.URLErrHost, "no host in hduri: %s", h)
	}
	if len(segs) > 2+numFields {
		return nil, tagd.Errorf(tagd.URLErrPath, "too many hduri fields: %s", h)
	}
	rpub, privLabel := segs[0], segs[1]
	fields := segs[2:]
	get := func(i int) string {
		if i < len(fields) {
			return fieldUnescaper.Replace(fields[i])
		}
		return ""
	}

	var labels []string
	if rsub := get(fieldRSub); rsub != "" {
		labels = append(labels, domain.ReverseLabels(rsub))
	}
	if privLabel != "" {
		labels = append(labels, privLabel)
	}
	if rpub != "" {
		labels = append(labels, domain.ReverseLabels(rpub))
	}
	u.Host = strings.Join(labels, ".")
	if u.Host == "" {
		return nil, tagd.Errorf(tagd.URLErrHost, "no host in hduri: %s", h)
	}

	u.Path = get(fieldPath)
	u.Query = get(fieldQuery)
	u.Fragment = get(fieldFragment)
	u.Port = get(fieldPort)
	u.User = get(fieldUser)
	u.Pass = get(fieldPass)
	u.HasPass = len(fields) > fieldPass

	if u.Port != "" && !isDigits(u.Port) {
		return nil, tagd.Errorf(tagd.URLErrPort, "invalid port in hduri: %s", h)
	}
	if u.HasPass && u.User == "" {
		return nil, tagd.Errorf(tagd.URLErrUser, "pass without user in hduri: %s", h)
	}

	if err := u.classify(); err != nil {
		return nil, err
	}
	return u, nil
}
