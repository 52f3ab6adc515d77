package storage

import (
	"context"

	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/referent"
	"github.com/musetronstar/tagd/tagd/rank"
)

const (
	bindingsByRefersQuery = `
		SELECT r.refers, r.refers_to, COALESCE(r.context, ''), c.rank
		FROM referents r LEFT JOIN tags c ON c.tag = r.context
		WHERE r.refers = ?`

	bindingsByRefersToQuery = `
		SELECT r.refers, r.refers_to, COALESCE(r.context, ''), c.rank
		FROM referents r LEFT JOIN tags c ON c.tag = r.context
		WHERE r.refers_to = ?`

	insertReferentQuery = `
		INSERT INTO referents (refers, refers_to, context) VALUES (?, ?, ?)`
)

func scanBindings(ctx context.Context, q querier, query, arg string) ([]referent.Binding, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, internal(err, "select referents of %s", arg)
	}
	defer rows.Close()

	var out []referent.Binding
	for rows.Next() {
		var b referent.Binding
		var rnk []byte
		if err := rows.Scan(&b.Refers, &b.RefersTo, &b.Context, &rnk); err != nil {
			return nil, internal(err, "scan referent of %s", arg)
		}
		r, err := rank.FromBytes(rnk)
		if err != nil {
			return nil, tagd.WrapError(tagd.RankErr, err, "stored rank of context %s", b.Context)
		}
		b.ContextRank = r
		out = append(out, b)
	}
	return out, internal(rows.Err(), "referents of %s", arg)
}

// resolver translates ids between surface and canonical form under the
// session's context stack, as it stood when the resolver was built.
type resolver struct {
	ctx    context.Context
	q      querier
	scopes []referent.Scope
	off    bool
}

func (s *Session) resolver(ctx context.Context, q querier) (*resolver, error) {
	r := &resolver{ctx: ctx, q: q, off: s.has(tagd.NoTransformReferents)}
	for _, id := range s.stack.IDs() {
		rnk, ok, err := rankOf(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if ok {
			r.scopes = append(r.scopes, referent.Scope{ID: id, Rank: rnk})
		}
	}
	return r, nil
}

// decode maps a surface word to its canonical id.
func (r *resolver) decode(word string) (string, error) {
	if r.off || word == "" || tagd.IsReserved(word) {
		return word, nil
	}
	pos, err := termPos(r.ctx, r.q, word)
	if err != nil {
		return word, err
	}
	if !pos.Has(tagd.POSRefers) {
		return word, nil
	}
	bindings, err := scanBindings(r.ctx, r.q, bindingsByRefersQuery, word)
	if err != nil {
		return word, err
	}
	isTag, err := exists(r.ctx, r.q, word)
	if err != nil {
		return word, err
	}
	return referent.Decode(word, bindings, r.scopes, isTag)
}

// encode maps a canonical id to the surface word bound to it in scope.
func (r *resolver) encode(id string) (string, error) {
	if r.off || id == "" || tagd.IsReserved(id) {
		return id, nil
	}
	pos, err := termPos(r.ctx, r.q, id)
	if err != nil {
		return id, err
	}
	if !pos.Has(tagd.POSRefersTo) {
		return id, nil
	}
	bindings, err := scanBindings(r.ctx, r.q, bindingsByRefersToQuery, id)
	if err != nil {
		return id, err
	}
	return referent.Encode(id, bindings, r.scopes), nil
}

// decodeTag returns a copy of t with every id decoded.
// Free text search modifiers are left as written.
func (r *resolver) decodeTag(t *tagd.Tag) (*tagd.Tag, error) {
	out := t.Clone()
	var err error
	if out.ID, err = r.decode(t.ID); err != nil {
		return nil, err
	}
	if out.SubRelator, err = r.decode(t.SubRelator); err != nil {
		return nil, err
	}
	if out.SuperObject, err = r.decode(t.SuperObject); err != nil {
		return nil, err
	}
	if out.Relations, err = r.decodePredicates(t.Relations); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resolver) decodePredicates(ps tagd.PredicateSet) (tagd.PredicateSet, error) {
	var out tagd.PredicateSet
	for _, p := range ps {
		var err error
		if p.Relator, err = r.decode(p.Relator); err != nil {
			return nil, err
		}
		if p.Object, err = r.decode(p.Object); err != nil {
			return nil, err
		}
		if p.Object != tagd.HardTerms {
			if p.Modifier, err = r.decode(p.Modifier); err != nil {
				return nil, err
			}
		}
		out.Add(p)
	}
	return out, nil
}

// encodeTag rewrites t's ids in place to their surface forms. When the id
// itself changes, a _refers_to predicate records the canonical id.
func (r *resolver) encodeTag(t *tagd.Tag) error {
	canonical := t.ID
	var err error
	if t.ID, err = r.encode(t.ID); err != nil {
		return err
	}
	if t.SubRelator, err = r.encode(t.SubRelator); err != nil {
		return err
	}
	if t.SuperObject, err = r.encode(t.SuperObject); err != nil {
		return err
	}
	var ps tagd.PredicateSet
	for _, p := range t.Relations {
		if p.Relator, err = r.encode(p.Relator); err != nil {
			return err
		}
		if p.Object, err = r.encode(p.Object); err != nil {
			return err
		}
		if p.Modifier, err = r.encode(p.Modifier); err != nil {
			return err
		}
		ps.Add(p)
	}
	t.Relations = ps
	if t.ID != canonical {
		t.Relate(tagd.HardRefersTo, canonical)
	}
	return nil
}

func (r *resolver) encodeSet(ts tagd.TagSet) error {
	for _, t := range ts {
		if t.POS == tagd.POSURL {
			continue
		}
		if err := r.encodeTag(t); err != nil {
			return err
		}
	}
	return nil
}
