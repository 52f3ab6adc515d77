package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/musetronstar/tagd/db"
	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/url"
)

const insertRelationQuery = `
	INSERT INTO relations (subject, relator, object, modifier)
	VALUES (?, ?, ?, ?)`

// Put stores t. Referents go to the referent relation, urls are stored
// under their HDURI, everything else is placed in the tag tree. A url tag
// whose id is already an HDURI is placed as is. Interrogators are queried,
// never put. Each call is one transaction.
func (s *Session) Put(ctx context.Context, t *tagd.Tag) error {
	return s.put(ctx, t, false)
}

// put is Put; restoring admits tags whose stored POS is interrogator, as
// written by Dump for subtypes of _interrogator.
func (s *Session) put(ctx context.Context, t *tagd.Tag, restoring bool) (err error) {
	defer func(start time.Time) { s.observe("put", start, err) }(time.Now())
	if t == nil {
		return s.fail("put", tagd.Errorf(tagd.TSMisuse, "put of nil tag"))
	}
	s.store.trace("Put", logger.FieldSymbol, sym.Put, logger.FieldTag, t.ID,
		logger.FieldSubRelator, t.SubRelator, logger.FieldSuperObject, t.SuperObject)

	if t.POS == tagd.POSInterrogator && !restoring {
		return s.fail("put", tagd.Errorf(tagd.TSMisuse, "interrogators cannot be put: %s", t.ID))
	}
	if err := t.Validate(); err != nil {
		return s.fail("put", err)
	}

	err = s.store.inTx(ctx, func(tx *sql.Tx) error {
		switch {
		case t.POS == tagd.POSReferent:
			return s.putReferent(ctx, tx, t)
		case url.IsURL(t.ID):
			return s.putURL(ctx, tx, t)
		default:
			return s.putTag(ctx, tx, t)
		}
	})
	if err != nil {
		if s.has(tagd.IgnoreDuplicates) && tagd.CodeOf(err) == tagd.TSDuplicate {
			return nil
		}
		return s.fail("put", err)
	}
	return nil
}

func (s *Session) putTag(ctx context.Context, tx *sql.Tx, in *tagd.Tag) error {
	if tagd.IsReserved(in.ID) {
		return tagd.Errorf(tagd.TSMisuse, "inserting hard tags not allowed: %s", in.ID)
	}

	r, err := s.resolver(ctx, tx)
	if err != nil {
		return err
	}
	t, err := r.decodeTag(in)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	existing, found, err := tagRow(ctx, tx, t.ID)
	if err != nil {
		return err
	}

	switch {
	case t.SuperObject == "" && !found:
		return tagd.Errorf(tagd.TSSuperUnk, "no known type for an unknown tag: %s", t.ID).
			CausedBy(tagd.HardUnknownTag, t.ID)

	case t.SuperObject == "":
		if len(t.Relations) == 0 {
			return tagd.Errorf(tagd.TSDuplicate, "tag exists: %s", t.ID)
		}
		return s.relate(ctx, tx, t.ID, t.Relations, true)

	case found && t.SuperObject == existing.SuperObject &&
		(t.SubRelator == "" || t.SubRelator == existing.SubRelator):
		if len(t.Relations) == 0 {
			return tagd.Errorf(tagd.TSDuplicate, "tag exists: %s", t.ID)
		}
		return s.relate(ctx, tx, t.ID, t.Relations, true)

	case found:
		if err := s.move(ctx, tx, existing, t); err != nil {
			return err
		}
		return s.relate(ctx, tx, t.ID, t.Relations, false)
	}

	return s.insert(ctx, tx, t)
}

// insert places a new tag under its super_object at the next free rank.
func (s *Session) insert(ctx context.Context, tx *sql.Tx, t *tagd.Tag) error {
	if t.SubRelator == "" {
		t.SubRelator = tagd.HardIsA
	}

	parent, ok, err := tagRow(ctx, tx, t.SuperObject)
	if err != nil {
		return err
	}
	if !ok {
		return tagd.Errorf(tagd.TSSuperUnk, "unknown super_object: %s", t.SuperObject).
			CausedBy(tagd.HardUnknownTag, t.SuperObject)
	}
	if ok, err := exists(ctx, tx, t.SubRelator); err != nil {
		return err
	} else if !ok {
		return tagd.Errorf(tagd.TSRelatorUnk, "unknown sub_relator: %s", t.SubRelator).
			CausedBy(tagd.HardUnknownTag, t.SubRelator)
	}

	pos := t.POS
	if !s.has(tagd.NoPosCast) && (pos == tagd.POSUnknown || pos == tagd.POSTag) && parent.POS != tagd.POSUnknown {
		pos = parent.POS
	}

	next, err := nextRank(ctx, tx, parent.ID, parent.Rank)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, insertTagQuery, t.ID, t.SubRelator, t.SuperObject, next.Bytes(), int64(pos)); err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return tagd.WrapError(tagd.TSDuplicate, err, "tag exists: %s", t.ID)
		case db.IsForeignKeyViolation(err):
			return tagd.WrapError(tagd.TSSuperUnk, err, "insert %s", t.ID)
		}
		return internal(err, "insert tag %s", t.ID)
	}
	s.store.trace("Inserted tag", logger.FieldTag, t.ID, logger.FieldRank, next.String(), logger.FieldPOS, pos.String())

	if err := putTerm(ctx, tx, t.ID, pos); err != nil {
		return err
	}
	if err := putTerm(ctx, tx, t.SubRelator, tagd.POSSubRelator); err != nil {
		return err
	}
	if err := putTerm(ctx, tx, t.SuperObject, tagd.POSSuperObject); err != nil {
		return err
	}

	if len(t.Relations) > 0 {
		return s.relate(ctx, tx, t.ID, t.Relations, false)
	}
	return indexTag(ctx, tx, t.ID)
}

// move re-parents existing under t.SuperObject, carrying its subtree along.
func (s *Session) move(ctx context.Context, tx *sql.Tx, existing, t *tagd.Tag) error {
	sub := t.SubRelator
	if sub == "" {
		sub = existing.SubRelator
	}

	if t.SuperObject != existing.SuperObject {
		parent, ok, err := tagRow(ctx, tx, t.SuperObject)
		if err != nil {
			return err
		}
		if !ok {
			return tagd.Errorf(tagd.TSSuperUnk, "unknown super_object: %s", t.SuperObject).
				CausedBy(tagd.HardUnknownTag, t.SuperObject)
		}
		if existing.Rank.Contains(parent.Rank) {
			return tagd.Errorf(tagd.TSMisuse, "cannot move %s under its own descendant %s", t.ID, parent.ID)
		}

		next, err := nextRank(ctx, tx, parent.ID, parent.Rank)
		if err != nil {
			return err
		}
		moved, err := subtree(ctx, tx, existing.Rank)
		if err != nil {
			return err
		}
		for _, m := range moved {
			nr, err := m.rank.Rebase(existing.Rank, next)
			if err != nil {
				return tagd.WrapError(tagd.CodeOf(err), err, "move %s", m.id)
			}
			if _, err := tx.ExecContext(ctx, "UPDATE tags SET rank = ? WHERE tag = ?", nr.Bytes(), m.id); err != nil {
				return internal(err, "rerank %s", m.id)
			}
		}
		s.store.trace("Moved subtree", logger.FieldTag, t.ID,
			logger.FieldRank, next.String(), logger.FieldCount, len(moved))
	}

	if ok, err := exists(ctx, tx, sub); err != nil {
		return err
	} else if !ok {
		return tagd.Errorf(tagd.TSRelatorUnk, "unknown sub_relator: %s", sub).
			CausedBy(tagd.HardUnknownTag, sub)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE tags SET sub_relator = ?, super_object = ? WHERE tag = ?",
		sub, t.SuperObject, t.ID); err != nil {
		return internal(err, "relink %s", t.ID)
	}

	if err := putTerm(ctx, tx, sub, tagd.POSSubRelator); err != nil {
		return err
	}
	if err := putTerm(ctx, tx, t.SuperObject, tagd.POSSuperObject); err != nil {
		return err
	}
	affected := termSet{}
	affected.add(existing.SubRelator, existing.SuperObject)
	if err := refreshTerms(ctx, tx, affected); err != nil {
		return err
	}
	return indexTag(ctx, tx, t.ID)
}

// relate inserts predicates on subject. With strict set, a call that adds
// nothing new fails with TS_DUPLICATE.
func (s *Session) relate(ctx context.Context, tx *sql.Tx, subject string, ps tagd.PredicateSet, strict bool) error {
	added := 0
	for _, p := range ps {
		if p.Relator == "" || p.Object == "" {
			return tagd.Errorf(tagd.TSMisuse, "incomplete predicate on %s: %s", subject, p)
		}
		if ok, err := exists(ctx, tx, p.Relator); err != nil {
			return err
		} else if !ok {
			return tagd.Errorf(tagd.TSRelatorUnk, "unknown relator: %s", p.Relator).
				CausedBy(tagd.HardUnknownTag, p.Relator)
		}
		if ok, err := exists(ctx, tx, p.Object); err != nil {
			return err
		} else if !ok {
			return tagd.Errorf(tagd.TSObjectUnk, "unknown object: %s", p.Object).
				CausedBy(tagd.HardUnknownTag, p.Object)
		}

		var mod interface{}
		if p.Modifier != "" {
			mod = p.Modifier
		}
		if _, err := tx.ExecContext(ctx, insertRelationQuery, subject, p.Relator, p.Object, mod); err != nil {
			if db.IsUniqueViolation(err) {
				continue
			}
			if db.IsForeignKeyViolation(err) {
				return tagd.WrapError(tagd.TSForeignKey, err, "relate %s %s", subject, p)
			}
			return internal(err, "insert relation %s %s", subject, p)
		}
		added++

		if err := putTerm(ctx, tx, subject, tagd.POSSubject); err != nil {
			return err
		}
		if err := putTerm(ctx, tx, p.Relator, tagd.POSRelated); err != nil {
			return err
		}
		if err := putTerm(ctx, tx, p.Object, tagd.POSObject); err != nil {
			return err
		}
		if err := putTerm(ctx, tx, p.Modifier, tagd.POSModifier); err != nil {
			return err
		}
	}

	if strict && added == 0 && len(ps) > 0 {
		return tagd.Errorf(tagd.TSDuplicate, "duplicate relations: %s", subject)
	}
	return indexTag(ctx, tx, subject)
}

// putURL stores a url tag under its HDURI with its part predicates.
func (s *Session) putURL(ctx context.Context, tx *sql.Tx, in *tagd.Tag) error {
	u, err := url.Parse(in.ID)
	if err != nil {
		return err
	}
	t := u.Tag()
	// Caller ids decode through the context stack; url parts are literal.
	r, err := s.resolver(ctx, tx)
	if err != nil {
		return err
	}
	if in.SuperObject != "" {
		if t.SuperObject, err = r.decode(in.SuperObject); err != nil {
			return err
		}
		if in.SubRelator != "" {
			if t.SubRelator, err = r.decode(in.SubRelator); err != nil {
				return err
			}
		}
	}
	extra, err := r.decodePredicates(in.Relations)
	if err != nil {
		return err
	}
	t.Relations.Merge(extra)

	existing, found, err := tagRow(ctx, tx, t.ID)
	if err != nil {
		return err
	}
	if !found {
		return s.insert(ctx, tx, t)
	}
	// Without a super_object the put only adds predicates; the url keeps its place.
	if in.SuperObject == "" {
		return s.relate(ctx, tx, t.ID, t.Relations, true)
	}
	if existing.SuperObject != t.SuperObject ||
		(in.SubRelator != "" && existing.SubRelator != t.SubRelator) {
		if err := s.move(ctx, tx, existing, t); err != nil {
			return err
		}
		return s.relate(ctx, tx, t.ID, t.Relations, false)
	}
	return s.relate(ctx, tx, t.ID, t.Relations, true)
}

// putReferent binds refers to refers_to, optionally within a context.
func (s *Session) putReferent(ctx context.Context, tx *sql.Tx, in *tagd.Tag) error {
	if tagd.IsReserved(in.Refers()) {
		return tagd.Errorf(tagd.TSMisuse, "hard tags cannot be referents: %s", in.Refers())
	}
	r, err := s.resolver(ctx, tx)
	if err != nil {
		return err
	}
	refersTo, err := r.decode(in.RefersTo())
	if err != nil {
		return err
	}
	scope, err := r.decode(in.Context())
	if err != nil {
		return err
	}
	t := tagd.NewReferent(in.Refers(), refersTo, scope)
	if err := t.Validate(); err != nil {
		return err
	}

	if ok, err := exists(ctx, tx, refersTo); err != nil {
		return err
	} else if !ok {
		return tagd.Errorf(tagd.TSRefersToUnk, "unknown refers_to: %s", refersTo).
			CausedBy(tagd.HardUnknownTag, refersTo)
	}
	var scopeArg interface{}
	if scope != "" {
		if ok, err := exists(ctx, tx, scope); err != nil {
			return err
		} else if !ok {
			return tagd.Errorf(tagd.TSContextUnk, "unknown context: %s", scope).
				CausedBy(tagd.HardUnknownTag, scope)
		}
		scopeArg = scope
	}

	if _, err := tx.ExecContext(ctx, insertReferentQuery, t.Refers(), refersTo, scopeArg); err != nil {
		if db.IsConstraintViolation(err) && !db.IsForeignKeyViolation(err) {
			return tagd.WrapError(tagd.TSDuplicate, err, "duplicate referent: %s", t.Refers())
		}
		return internal(err, "insert referent %s", t.Refers())
	}
	s.store.trace("Inserted referent", logger.FieldTag, t.Refers(), logger.FieldObject, refersTo, logger.FieldContext, scope)

	if err := putTerm(ctx, tx, t.Refers(), tagd.POSRefers); err != nil {
		return err
	}
	if err := putTerm(ctx, tx, refersTo, tagd.POSRefersTo); err != nil {
		return err
	}
	return putTerm(ctx, tx, scope, tagd.POSContext)
}
