package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/musetronstar/tagd/tagd"
)

const (
	upsertTermQuery = `
		INSERT INTO terms (term, term_pos) VALUES (?, ?)
		ON CONFLICT(term) DO UPDATE SET term_pos = term_pos | excluded.term_pos`

	listTermsQuery = `SELECT term, term_pos FROM terms ORDER BY term`
)

// occurrenceQuery ORs together every role an id currently occupies.
var occurrenceQuery = fmt.Sprintf(`
	SELECT COALESCE((SELECT pos FROM tags WHERE tag = ?1), 0)
		| (CASE WHEN EXISTS (SELECT 1 FROM tags WHERE sub_relator = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM tags WHERE super_object = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM relations WHERE subject = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM relations WHERE relator = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM relations WHERE object = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM relations WHERE modifier = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM referents WHERE refers = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM referents WHERE refers_to = ?1) THEN %d ELSE 0 END)
		| (CASE WHEN EXISTS (SELECT 1 FROM referents WHERE context = ?1) THEN %d ELSE 0 END)`,
	tagd.POSSubRelator, tagd.POSSuperObject,
	tagd.POSSubject, tagd.POSRelated, tagd.POSObject, tagd.POSModifier,
	tagd.POSRefers, tagd.POSRefersTo, tagd.POSContext,
)

// Term is one interned id with the roles it occupies.
type Term struct {
	ID  string
	POS tagd.POS
}

func putTerm(ctx context.Context, q querier, id string, pos tagd.POS) error {
	if id == "" {
		return nil
	}
	if _, err := q.ExecContext(ctx, upsertTermQuery, id, int64(pos)); err != nil {
		return internal(err, "put term %s", id)
	}
	return nil
}

func termPos(ctx context.Context, q querier, id string) (tagd.POS, error) {
	var pos int64
	err := q.QueryRowContext(ctx, "SELECT term_pos FROM terms WHERE term = ?", id).Scan(&pos)
	if err == sql.ErrNoRows {
		return tagd.POSUnknown, nil
	}
	if err != nil {
		return tagd.POSUnknown, internal(err, "term pos of %s", id)
	}
	return tagd.POS(pos), nil
}

func occurrencePos(ctx context.Context, q querier, id string) (tagd.POS, error) {
	var pos int64
	if err := q.QueryRowContext(ctx, occurrenceQuery, id).Scan(&pos); err != nil {
		return tagd.POSUnknown, internal(err, "occurrences of %s", id)
	}
	return tagd.POS(pos), nil
}

// termSet collects ids whose roles may have changed.
type termSet map[string]struct{}

func (ts termSet) add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			ts[id] = struct{}{}
		}
	}
}

func (ts termSet) addTag(t *tagd.Tag) {
	ts.add(t.ID, t.SubRelator, t.SuperObject)
	ts.addPredicates(t.Relations)
}

func (ts termSet) addPredicates(ps tagd.PredicateSet) {
	for _, p := range ps {
		ts.add(p.Relator, p.Object, p.Modifier)
	}
}

func (ts termSet) sorted() []string {
	out := make([]string, 0, len(ts))
	for id := range ts {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// refreshTerms recomputes the role mask of each id, dropping ids left with none.
func refreshTerms(ctx context.Context, q querier, ts termSet) error {
	for _, id := range ts.sorted() {
		pos, err := occurrencePos(ctx, q, id)
		if err != nil {
			return err
		}
		if pos == tagd.POSUnknown {
			if _, err := q.ExecContext(ctx, "DELETE FROM terms WHERE term = ?", id); err != nil {
				return internal(err, "delete term %s", id)
			}
			continue
		}
		if _, err := q.ExecContext(ctx, "UPDATE terms SET term_pos = ? WHERE term = ?", int64(pos), id); err != nil {
			return internal(err, "update term %s", id)
		}
	}
	return nil
}

func listTerms(ctx context.Context, q querier) ([]Term, error) {
	rows, err := q.QueryContext(ctx, listTermsQuery)
	if err != nil {
		return nil, internal(err, "list terms")
	}
	defer rows.Close()

	var out []Term
	for rows.Next() {
		var t Term
		var pos int64
		if err := rows.Scan(&t.ID, &pos); err != nil {
			return nil, internal(err, "scan term")
		}
		t.POS = tagd.POS(pos)
		out = append(out, t)
	}
	return out, internal(rows.Err(), "list terms")
}
