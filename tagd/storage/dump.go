package storage

import (
	"context"
	"io"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/tagd"
)

// DumpFormat is the version written into dump headers.
const DumpFormat = "1.0.0"

// dumpConstraint is the range of dump formats Load accepts.
const dumpConstraint = "^1"

// Dump is the portable form of a store's user data. Hard tags are omitted;
// every database seeds its own.
type Dump struct {
	Format    string         `yaml:"format"`
	Tags      []DumpTag      `yaml:"tags"`
	Referents []DumpReferent `yaml:"referents,omitempty"`
}

// DumpTag is one tag with its relations, ids in canonical form.
type DumpTag struct {
	ID          string          `yaml:"id"`
	SubRelator  string          `yaml:"sub_relator"`
	SuperObject string          `yaml:"super_object"`
	POS         string          `yaml:"pos"`
	Relations   []DumpPredicate `yaml:"relations,omitempty"`
}

// DumpPredicate is one stored relation.
type DumpPredicate struct {
	Relator  string `yaml:"relator"`
	Object   string `yaml:"object"`
	Modifier string `yaml:"modifier,omitempty"`
}

// DumpReferent is one referent binding.
type DumpReferent struct {
	Refers   string `yaml:"refers"`
	RefersTo string `yaml:"refers_to"`
	Context  string `yaml:"context,omitempty"`
}

const (
	dumpTagsQuery = `
		SELECT tag, sub_relator, super_object, pos, rank
		FROM tags WHERE substr(tag, 1, 1) <> '_'
		ORDER BY rank`

	dumpReferentsQuery = `
		SELECT refers, refers_to, COALESCE(context, '')
		FROM referents ORDER BY refers, refers_to`
)

// Dump writes every user tag, in rank order, and every referent as YAML.
func (s *Session) Dump(ctx context.Context, w io.Writer) (err error) {
	defer func(start time.Time) { s.observe("dump", start, err) }(time.Now())
	d, err := s.snapshot(ctx)
	if err != nil {
		return s.fail("dump", err)
	}
	cw := &countingWriter{w: w}
	enc := yaml.NewEncoder(cw)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return s.fail("dump", tagd.WrapError(tagd.TSErr, err, "encode dump"))
	}
	if err := enc.Close(); err != nil {
		return s.fail("dump", tagd.WrapError(tagd.TSErr, err, "encode dump"))
	}
	s.store.trace("Dumped", logger.FieldCount, len(d.Tags)+len(d.Referents), logger.FieldSize, cw.n)
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func (s *Session) snapshot(ctx context.Context) (*Dump, error) {
	conn := s.store.db
	d := &Dump{Format: DumpFormat}

	rows, err := conn.QueryContext(ctx, dumpTagsQuery)
	if err != nil {
		return nil, internal(err, "dump tags")
	}
	var tags tagd.TagSet
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			rows.Close()
			return nil, internal(err, "scan dumped tag")
		}
		tags = append(tags, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, internal(err, "dump tags")
	}

	for _, t := range tags {
		ps, err := relations(ctx, conn, t.ID)
		if err != nil {
			return nil, err
		}
		dt := DumpTag{ID: t.ID, SubRelator: t.SubRelator, SuperObject: t.SuperObject, POS: t.POS.String()}
		for _, p := range ps {
			dt.Relations = append(dt.Relations, DumpPredicate{Relator: p.Relator, Object: p.Object, Modifier: p.Modifier})
		}
		d.Tags = append(d.Tags, dt)
	}

	refs, err := conn.QueryContext(ctx, dumpReferentsQuery)
	if err != nil {
		return nil, internal(err, "dump referents")
	}
	defer refs.Close()
	for refs.Next() {
		var r DumpReferent
		if err := refs.Scan(&r.Refers, &r.RefersTo, &r.Context); err != nil {
			return nil, internal(err, "scan dumped referent")
		}
		d.Referents = append(d.Referents, r)
	}
	return d, internal(refs.Err(), "dump referents")
}

// Load reads a dump and puts its contents. Tags are placed first and related
// afterwards so relations may point forward in rank order. Entries already
// present are skipped. Load returns the number of statements applied.
func (s *Session) Load(ctx context.Context, r io.Reader) (n int, err error) {
	defer func(start time.Time) { s.observe("load", start, err) }(time.Now())

	var d Dump
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return 0, s.fail("load", tagd.WrapError(tagd.TSErr, err, "decode dump"))
	}
	if err := checkDumpFormat(d.Format); err != nil {
		return 0, s.fail("load", err)
	}

	saved := s.Flags
	s.Flags |= tagd.NoPosCast | tagd.NoTransformReferents | tagd.IgnoreDuplicates
	defer func() { s.Flags = saved }()

	for _, dt := range d.Tags {
		pos, ok := tagd.ParsePOS(dt.POS)
		if !ok {
			return n, s.fail("load", tagd.Errorf(tagd.TSErr, "bad pos %q on %s", dt.POS, dt.ID))
		}
		t := &tagd.Tag{ID: dt.ID, SubRelator: dt.SubRelator, SuperObject: dt.SuperObject, POS: pos}
		if err := s.put(ctx, t, true); err != nil {
			return n, err
		}
		n++
	}

	for _, dt := range d.Tags {
		if len(dt.Relations) == 0 {
			continue
		}
		t := &tagd.Tag{ID: dt.ID}
		for _, p := range dt.Relations {
			t.Relations.Add(tagd.Predicate{Relator: p.Relator, Object: p.Object, Modifier: p.Modifier})
		}
		if err := s.Put(ctx, t); err != nil {
			return n, err
		}
		n++
	}

	for _, dr := range d.Referents {
		if err := s.Put(ctx, tagd.NewReferent(dr.Refers, dr.RefersTo, dr.Context)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func checkDumpFormat(format string) error {
	v, err := semver.NewVersion(format)
	if err != nil {
		return tagd.WrapError(tagd.TSErr, err, "invalid dump format %q", format)
	}
	c, err := semver.NewConstraint(dumpConstraint)
	if err != nil {
		return errors.Wrap(err, "dump format constraint")
	}
	if !c.Check(v) {
		return tagd.Errorf(tagd.TSErr, "dump format %s not supported, want %s", format, dumpConstraint)
	}
	return nil
}
