package storage

import (
	"context"
	"time"

	"github.com/musetronstar/tagd/db"
)

// Stats summarizes the contents of a store.
type Stats struct {
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	Tags          int    `json:"tags" yaml:"tags"`
	Relations     int    `json:"relations" yaml:"relations"`
	Referents     int    `json:"referents" yaml:"referents"`
	Terms         int    `json:"terms" yaml:"terms"`
	HardTags      int    `json:"hard_tags" yaml:"hard_tags"`
}

// Stats counts the rows of each table.
func (s *Session) Stats(ctx context.Context) (st Stats, err error) {
	defer func(start time.Time) { s.observe("stats", start, err) }(time.Now())
	conn := s.store.db

	if st.SchemaVersion, err = db.SchemaVersion(conn); err != nil {
		return st, s.fail("stats", internal(err, "schema version"))
	}
	counts := []struct {
		dst   *int
		query string
	}{
		{&st.Tags, "SELECT COUNT(*) FROM tags"},
		{&st.HardTags, "SELECT COUNT(*) FROM tags WHERE substr(tag, 1, 1) = '_'"},
		{&st.Relations, "SELECT COUNT(*) FROM relations"},
		{&st.Referents, "SELECT COUNT(*) FROM referents"},
		{&st.Terms, "SELECT COUNT(*) FROM terms"},
	}
	for _, c := range counts {
		if err := conn.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return st, s.fail("stats", internal(err, "count"))
		}
	}
	return st, nil
}

// Terms lists every interned id with its role mask, ordered by id.
func (s *Session) Terms(ctx context.Context) (ts []Term, err error) {
	defer func(start time.Time) { s.observe("terms", start, err) }(time.Now())
	ts, err = listTerms(ctx, s.store.db)
	if err != nil {
		return nil, s.fail("terms", err)
	}
	return ts, nil
}
