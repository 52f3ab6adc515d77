package storage

import (
	"context"
	"time"

	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/url"
)

// Get returns the tag stored under id with its relations.
//
// A url id is looked up by its HDURI and returned in url form. Any other id
// is decoded through the context stack first; when the tag comes back under
// a different surface id it carries a _refers_to predicate naming the
// canonical tag.
func (s *Session) Get(ctx context.Context, id string) (t *tagd.Tag, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	s.store.trace("Get", logger.FieldSymbol, sym.Get, logger.FieldTag, id)

	if url.IsURL(id) {
		return s.getURL(ctx, id)
	}

	q := s.store.db
	r, err := s.resolver(ctx, q)
	if err != nil {
		return nil, s.fail("get", err)
	}
	canonical, err := r.decode(id)
	if err != nil {
		return nil, s.fail("get", err)
	}

	t, ok, err := loadTag(ctx, q, canonical)
	if err != nil {
		return nil, s.fail("get", err)
	}
	if !ok {
		return nil, s.fail("get", notFound(id))
	}
	if t.POS == tagd.POSURL {
		return t, s.fail("get", presentURL(t))
	}
	if err := r.encodeTag(t); err != nil {
		return nil, s.fail("get", err)
	}
	if t.ID == canonical && canonical != id {
		t.Relate(tagd.HardRefersTo, canonical)
	}
	return t, nil
}

func (s *Session) getURL(ctx context.Context, raw string) (*tagd.Tag, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, s.fail("get", err)
	}
	t, ok, err := loadTag(ctx, s.store.db, u.HDURI())
	if err != nil {
		return nil, s.fail("get", err)
	}
	if !ok {
		return nil, s.fail("get", notFound(raw))
	}
	return t, s.fail("get", presentURL(t))
}

// Exists reports whether id is a stored tag. Referents are not decoded.
func (s *Session) Exists(ctx context.Context, id string) (bool, error) {
	if url.IsURL(id) {
		u, err := url.Parse(id)
		if err != nil {
			return false, s.fail("exists", err)
		}
		id = u.HDURI()
	}
	ok, err := exists(ctx, s.store.db, id)
	if err != nil {
		return false, s.fail("exists", err)
	}
	return ok, nil
}

// Pos returns every structural role id occupies, POSUnknown for an unused id.
func (s *Session) Pos(ctx context.Context, id string) (tagd.POS, error) {
	pos, err := termPos(ctx, s.store.db, id)
	if err != nil {
		return tagd.POSUnknown, s.fail("pos", err)
	}
	return pos, nil
}

// presentURL replaces a url tag's HDURI id with the url it encodes.
func presentURL(t *tagd.Tag) error {
	u, err := url.ParseHDURI(t.ID)
	if err != nil {
		return err
	}
	t.ID = u.String()
	return nil
}

func notFound(id string) *tagd.Error {
	return tagd.Errorf(tagd.TSNotFound, "unknown tag: %s", id).CausedBy(tagd.HardUnknownTag, id)
}
