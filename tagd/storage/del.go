package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/url"
)

// dependentsQuery lists the other tags still pointing at a tag.
const dependentsQuery = `
	SELECT tag FROM tags WHERE (super_object = ?1 OR sub_relator = ?1) AND tag <> ?1
	UNION
	SELECT subject FROM relations WHERE (relator = ?1 OR object = ?1) AND subject <> ?1
	UNION
	SELECT refers FROM referents WHERE context = ?1
	LIMIT 16`

// Del removes a tag, some of its relations, or a referent.
//
// Without predicates the whole tag goes, along with its relations and the
// referents naming it; it must not be the super_object, sub_relator, relator
// or object of anything else. With predicates only those relations go, and
// each must exist.
func (s *Session) Del(ctx context.Context, t *tagd.Tag) (err error) {
	defer func(start time.Time) { s.observe("del", start, err) }(time.Now())
	if t == nil {
		return s.fail("del", tagd.Errorf(tagd.TSMisuse, "delete of nil tag"))
	}
	s.store.trace("Del", logger.FieldSymbol, sym.Del, logger.FieldTag, t.ID)

	if t.POS == tagd.POSReferent {
		return s.fail("del", s.store.inTx(ctx, func(tx *sql.Tx) error {
			return s.delReferent(ctx, tx, t)
		}))
	}
	if t.SuperObject != "" {
		return s.fail("del", tagd.Errorf(tagd.TSMisuse,
			"super_object not allowed in a delete: %s %s %s", t.ID, t.SubRelator, t.SuperObject))
	}

	in := t.Clone()
	if url.IsURL(in.ID) {
		u, err := url.Parse(in.ID)
		if err != nil {
			return s.fail("del", err)
		}
		in.ID = u.HDURI()
		in.POS = tagd.POSURL
	}
	if tagd.IsReserved(in.ID) {
		return s.fail("del", tagd.Errorf(tagd.TSMisuse, "deleting hard tags not allowed: %s", in.ID))
	}

	return s.fail("del", s.store.inTx(ctx, func(tx *sql.Tx) error {
		return s.delTag(ctx, tx, in)
	}))
}

func (s *Session) delTag(ctx context.Context, tx *sql.Tx, in *tagd.Tag) error {
	t := in
	if in.POS != tagd.POSURL {
		r, err := s.resolver(ctx, tx)
		if err != nil {
			return err
		}
		if t, err = r.decodeTag(in); err != nil {
			return err
		}
	}

	if len(t.Relations) == 0 && t.ID != in.ID {
		return tagd.Errorf(tagd.TSMisuse, "will not delete %s, refers_to %s", in.ID, t.ID).
			CausedBy(tagd.HardRefers, in.ID)
	}

	stored, ok, err := loadTag(ctx, tx, t.ID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(in.ID)
	}

	if len(t.Relations) > 0 {
		return s.unrelate(ctx, tx, stored, t.Relations)
	}

	deps, err := dependents(ctx, tx, t.ID)
	if err != nil {
		return err
	}
	if len(deps) > 0 {
		e := tagd.Errorf(tagd.TSForeignKey, "cannot delete %s: referenced by %s", t.ID, strings.Join(deps, ", "))
		for _, d := range deps {
			e.CausedBy(d)
		}
		return e
	}

	affected := termSet{}
	affected.addTag(stored)

	bound, err := scanBindings(ctx, tx, bindingsByRefersToQuery, t.ID)
	if err != nil {
		return err
	}
	for _, b := range bound {
		affected.add(b.Refers, b.Context)
	}

	for _, stmt := range []string{
		"DELETE FROM referents WHERE refers_to = ?",
		"DELETE FROM relations WHERE subject = ?",
		"DELETE FROM tags WHERE tag = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, t.ID); err != nil {
			return internal(err, "delete %s", t.ID)
		}
	}
	if err := unindexTag(ctx, tx, t.ID); err != nil {
		return err
	}
	s.store.trace("Deleted tag", logger.FieldTag, t.ID, logger.FieldCount, len(stored.Relations))
	return refreshTerms(ctx, tx, affected)
}

// unrelate deletes the given relations of stored, all or none.
func (s *Session) unrelate(ctx context.Context, tx *sql.Tx, stored *tagd.Tag, ps tagd.PredicateSet) error {
	var missing []string
	for _, p := range ps {
		got, ok := stored.Relations.Get(p.Relator, p.Object)
		if !ok || (p.Modifier != "" && got.Modifier != p.Modifier) {
			missing = append(missing, stored.ID+" "+p.String())
		}
	}
	if len(missing) > 0 {
		return tagd.Errorf(tagd.TSNotFound, "cannot delete non-existent relation: %s", strings.Join(missing, ", "))
	}

	affected := termSet{}
	affected.add(stored.ID)
	for _, p := range ps {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM relations WHERE subject = ? AND relator = ? AND object = ?",
			stored.ID, p.Relator, p.Object); err != nil {
			return internal(err, "delete relation %s %s", stored.ID, p)
		}
		got, _ := stored.Relations.Get(p.Relator, p.Object)
		affected.add(got.Relator, got.Object, got.Modifier)
		s.store.trace("Deleted relation", logger.FieldTag, stored.ID,
			logger.FieldRelator, got.Relator, logger.FieldObject, got.Object)
	}
	if err := refreshTerms(ctx, tx, affected); err != nil {
		return err
	}
	return indexTag(ctx, tx, stored.ID)
}

// delReferent deletes every binding matching the non-empty fields of t:
// refers, refers_to and context in any combination but none at all.
func (s *Session) delReferent(ctx context.Context, tx *sql.Tx, t *tagd.Tag) error {
	r, err := s.resolver(ctx, tx)
	if err != nil {
		return err
	}
	refersTo, err := r.decode(t.RefersTo())
	if err != nil {
		return err
	}
	scope, err := r.decode(t.Context())
	if err != nil {
		return err
	}
	match := tagd.NewReferent(t.Refers(), refersTo, scope)

	var (
		conds []string
		args  []interface{}
	)
	for _, f := range []struct{ column, value string }{
		{"refers", t.Refers()},
		{"refers_to", refersTo},
		{"context", scope},
	} {
		if f.value != "" {
			conds = append(conds, f.column+" = ?")
			args = append(args, f.value)
		}
	}
	if len(conds) == 0 {
		return tagd.Errorf(tagd.TSMisuse, "deleting all referents not allowed")
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	rows, err := tx.QueryContext(ctx, "SELECT refers, refers_to, COALESCE(context, '') FROM referents"+where, args...)
	if err != nil {
		return internal(err, "select referents %s", match)
	}
	affected := termSet{}
	n := 0
	for rows.Next() {
		var refers, to, c string
		if err := rows.Scan(&refers, &to, &c); err != nil {
			rows.Close()
			return internal(err, "scan referent %s", match)
		}
		affected.add(refers, to, c)
		n++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return internal(err, "select referents %s", match)
	}
	if n == 0 {
		e := tagd.Errorf(tagd.TSNotFound, "unknown referent: %s", match)
		if t.Refers() != "" {
			e.CausedBy(tagd.HardUnknownTag, t.Refers())
		}
		return e
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM referents"+where, args...); err != nil {
		return internal(err, "delete referents %s", match)
	}
	s.store.trace("Deleted referents", logger.FieldTag, match.ID, logger.FieldCount, n)
	return refreshTerms(ctx, tx, affected)
}

func dependents(ctx context.Context, q querier, id string) ([]string, error) {
	rows, err := q.QueryContext(ctx, dependentsQuery, id)
	if err != nil {
		return nil, internal(err, "dependents of %s", id)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, internal(err, "scan dependent of %s", id)
		}
		out = append(out, dep)
	}
	return out, internal(rows.Err(), "dependents of %s", id)
}
