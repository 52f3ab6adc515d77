package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/rank"
)

const selectRelatedQuery = `
	SELECT t.tag, t.sub_relator, t.super_object, t.pos, t.rank,
		r.relator, r.object, r.modifier
	FROM relations r
	JOIN tags t ON t.tag = r.subject
	JOIN tags rt ON rt.tag = r.relator
	JOIN tags ot ON ot.tag = r.object
	WHERE %s
	ORDER BY t.rank, r.relator, r.object`

const selectReferentsQuery = `
	SELECT r.refers, r.refers_to, COALESCE(r.context, '')
	FROM referents r LEFT JOIN tags c ON c.tag = r.context
	WHERE %s
	ORDER BY r.refers, r.refers_to, r.context`

// queryBuilder accumulates SQL WHERE clauses and parameters for tag queries
type queryBuilder struct {
	whereClauses []string
	args         []interface{}
}

// addClause appends a WHERE clause with its arguments
func (qb *queryBuilder) addClause(clause string, args ...interface{}) {
	qb.whereClauses = append(qb.whereClauses, clause)
	qb.args = append(qb.args, args...)
}

// build returns the WHERE clauses joined with AND
func (qb *queryBuilder) build() string {
	if len(qb.whereClauses) == 0 {
		return "1"
	}
	return strings.Join(qb.whereClauses, " AND ")
}

// buildSubtreeFilter keeps rows whose column rank lies under r. An empty
// rank is the root and constrains nothing.
func (qb *queryBuilder) buildSubtreeFilter(column string, r rank.Rank) {
	if r.IsEmpty() {
		return
	}
	qb.addClause("instr("+column+", ?) = 1", r.Bytes())
}

// buildModifierFilter compares the stored modifier. Ordering operators
// compare numerically when the operand is a number.
func (qb *queryBuilder) buildModifierFilter(p tagd.Predicate) {
	if p.Modifier == "" {
		return
	}
	op := p.Op.String()
	if !p.Op.Numeric() {
		qb.addClause("r.modifier = ?", p.Modifier)
		return
	}
	if f, ok := p.ModifierFloat(); ok {
		qb.addClause("CAST(r.modifier AS REAL) "+op+" ?", f)
		return
	}
	qb.addClause("r.modifier "+op+" ?", p.Modifier)
}

// Query answers an interrogator.
//
// With a _referent super_object it lists referent bindings. Without
// predicates it lists the direct children of the super_object. Otherwise
// each predicate selects the tags under super_object carrying a matching
// relation, where relators and objects match anywhere in their subtree, and
// the per predicate sets are merged by containment: a tag survives when every
// predicate matched it or one of its ancestors.
func (s *Session) Query(ctx context.Context, q *tagd.Tag) (ts tagd.TagSet, err error) {
	defer func(start time.Time) { s.observe("query", start, err) }(time.Now())
	if q == nil {
		return nil, s.fail("query", tagd.Errorf(tagd.TSMisuse, "query of nil interrogator"))
	}
	s.store.trace("Query", logger.FieldSymbol, sym.Query, logger.FieldTag, q.ID,
		logger.FieldSuperObject, q.SuperObject, logger.FieldCount, len(q.Relations))

	db := s.store.db
	r, err := s.resolver(ctx, db)
	if err != nil {
		return nil, s.fail("query", err)
	}

	if q.SuperObject == tagd.HardReferent {
		ts, err = s.queryReferents(ctx, r, q)
	} else {
		ts, err = s.queryTags(ctx, r, q)
	}
	if err != nil {
		return nil, s.fail("query", err)
	}

	if len(ts) == 0 {
		if s.has(tagd.NoNotFoundError) {
			return ts, nil
		}
		return nil, s.fail("query", tagd.Errorf(tagd.TSNotFound, "no results: %s", q))
	}
	return ts, nil
}

func (s *Session) queryTags(ctx context.Context, r *resolver, q *tagd.Tag) (tagd.TagSet, error) {
	db := s.store.db
	super, err := r.decode(q.SuperObject)
	if err != nil {
		return nil, err
	}
	preds, err := r.decodePredicates(q.Relations)
	if err != nil {
		return nil, err
	}

	var scope rank.Rank
	if super != "" && super != tagd.HardEntity {
		var ok bool
		scope, ok, err = rankOf(ctx, db, super)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFound(q.SuperObject)
		}
	}

	var out tagd.TagSet
	if len(preds) == 0 {
		if super == "" {
			return nil, tagd.Errorf(tagd.TSNotFound, "nothing to query")
		}
		if out, err = children(ctx, db, super); err != nil {
			return nil, err
		}
	} else {
		for i, p := range preds {
			var set tagd.TagSet
			if p.Object == tagd.HardTerms {
				set, err = searchTags(ctx, db, p.Modifier, scope, super)
			} else {
				set, err = related(ctx, db, p, scope, super)
			}
			if err != nil {
				return nil, err
			}
			if len(set) == 0 {
				out = nil
				break
			}
			if i == 0 {
				out = set
				continue
			}
			if out = tagd.MergeContaining(out, set); len(out) == 0 {
				break
			}
		}
	}

	for _, t := range out {
		if t.POS == tagd.POSURL {
			if err := presentURL(t); err != nil {
				return nil, err
			}
		}
	}
	if err := r.encodeSet(out); err != nil {
		return nil, err
	}
	return out, nil
}

// related selects the tags under scope carrying a relation matching p.
// Each tag carries only the relations that matched.
func related(ctx context.Context, q querier, p tagd.Predicate, scope rank.Rank, super string) (tagd.TagSet, error) {
	qb := &queryBuilder{}
	if !scope.IsEmpty() {
		qb.buildSubtreeFilter("t.rank", scope)
		qb.addClause("t.tag <> ?", super)
	}

	if p.Relator != "" {
		rr, ok, err := rankOf(ctx, q, p.Relator)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, tagd.Errorf(tagd.TSNotFound, "unknown relator: %s", p.Relator).
				CausedBy(tagd.HardUnknownTag, p.Relator)
		}
		qb.buildSubtreeFilter("rt.rank", rr)
	}

	if p.Object != "" && p.Object != tagd.HardEntity {
		objRank, ok, err := rankOf(ctx, q, p.Object)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, tagd.Errorf(tagd.TSNotFound, "unknown object: %s", p.Object).
				CausedBy(tagd.HardUnknownTag, p.Object)
		}
		qb.buildSubtreeFilter("ot.rank", objRank)
	}
	qb.buildModifierFilter(p)

	rows, err := q.QueryContext(ctx, fmt.Sprintf(selectRelatedQuery, qb.build()), qb.args...)
	if err != nil {
		return nil, internal(err, "query %s", p)
	}
	defer rows.Close()

	var out tagd.TagSet
	var last *tagd.Tag
	for rows.Next() {
		var (
			t   tagd.Tag
			pos int64
			rnk []byte
			m   tagd.Predicate
			mod sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.SubRelator, &t.SuperObject, &pos, &rnk, &m.Relator, &m.Object, &mod); err != nil {
			return nil, internal(err, "scan %s", p)
		}
		m.Modifier = mod.String
		if last == nil || last.ID != t.ID {
			if t.Rank, err = rank.FromBytes(rnk); err != nil {
				return nil, tagd.WrapError(tagd.RankErr, err, "stored rank of %s", t.ID)
			}
			t.POS = tagd.POS(pos)
			last = &t
			out = append(out, last)
		}
		last.Relations.Add(m)
	}
	return out, internal(rows.Err(), "query %s", p)
}

// searchTags runs a full text search restricted to scope.
func searchTags(ctx context.Context, q querier, terms string, scope rank.Rank, super string) (tagd.TagSet, error) {
	if strings.TrimSpace(terms) == "" {
		return nil, tagd.Errorf(tagd.TSMisuse, "empty search terms")
	}
	ids, err := searchIDs(ctx, q, terms)
	if err != nil {
		return nil, err
	}
	var out tagd.TagSet
	for _, id := range ids {
		t, ok, err := tagRow(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if !ok || id == super {
			continue
		}
		if !scope.IsEmpty() && !scope.Contains(t.Rank) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// queryReferents lists bindings filtered by the interrogator's _refers,
// _refers_to and _context predicates. A context filter matches bindings
// anywhere in its subtree.
func (s *Session) queryReferents(ctx context.Context, r *resolver, q *tagd.Tag) (tagd.TagSet, error) {
	db := s.store.db
	qb := &queryBuilder{}
	for _, p := range q.Relations {
		switch p.Relator {
		case tagd.HardRefers:
			qb.addClause("r.refers = ?", p.Object)
		case tagd.HardRefersTo:
			id, err := r.decode(p.Object)
			if err != nil {
				return nil, err
			}
			qb.addClause("r.refers_to = ?", id)
		case tagd.HardContext:
			id, err := r.decode(p.Object)
			if err != nil {
				return nil, err
			}
			cr, ok, err := rankOf(ctx, db, id)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, tagd.Errorf(tagd.TSContextUnk, "unknown context: %s", id).
					CausedBy(tagd.HardUnknownTag, id)
			}
			qb.buildSubtreeFilter("c.rank", cr)
			if cr.IsEmpty() {
				qb.addClause("r.context IS NOT NULL")
			}
		default:
			return nil, tagd.Errorf(tagd.TSMisuse, "referent queries take _refers, _refers_to or _context: %s", p.Relator)
		}
	}

	stmt := fmt.Sprintf(selectReferentsQuery, qb.build())
	s.store.trace("Referent query", logger.FieldSQL, stmt, logger.FieldCount, len(qb.args))
	rows, err := db.QueryContext(ctx, stmt, qb.args...)
	if err != nil {
		return nil, internal(err, "query referents")
	}
	defer rows.Close()

	var out tagd.TagSet
	for rows.Next() {
		var refers, refersTo, scope string
		if err := rows.Scan(&refers, &refersTo, &scope); err != nil {
			return nil, internal(err, "scan referent")
		}
		out = append(out, tagd.NewReferent(refers, refersTo, scope))
	}
	return out, internal(rows.Err(), "query referents")
}

// Search returns the tags whose content matches an FTS4 expression, in rank
// order, with their relations.
func (s *Session) Search(ctx context.Context, terms string) (ts tagd.TagSet, err error) {
	defer func(start time.Time) { s.observe("search", start, err) }(time.Now())
	db := s.store.db
	ids, err := searchIDs(ctx, db, terms)
	if err != nil {
		return nil, s.fail("search", err)
	}
	for _, id := range ids {
		t, ok, err := loadTag(ctx, db, id)
		if err != nil {
			return nil, s.fail("search", err)
		}
		if !ok {
			continue
		}
		if t.POS == tagd.POSURL {
			if err := presentURL(t); err != nil {
				return nil, s.fail("search", err)
			}
		}
		ts = append(ts, t)
	}
	if len(ts) == 0 && !s.has(tagd.NoNotFoundError) {
		return nil, s.fail("search", tagd.Errorf(tagd.TSNotFound, "no matches: %s", terms))
	}
	return ts, nil
}
