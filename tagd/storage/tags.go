package storage

import (
	"context"
	"database/sql"

	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/rank"
)

const (
	selectTagQuery = `
		SELECT tag, sub_relator, super_object, pos, rank
		FROM tags WHERE tag = ?`

	selectRelationsQuery = `
		SELECT relator, object, modifier
		FROM relations WHERE subject = ?
		ORDER BY relator, object`

	selectChildrenQuery = `
		SELECT tag, sub_relator, super_object, pos, rank
		FROM tags WHERE super_object = ? AND tag <> super_object
		ORDER BY rank`

	selectChildRanksQuery = `
		SELECT rank FROM tags WHERE super_object = ? AND tag <> super_object`

	selectSubtreeQuery = `
		SELECT tag, rank FROM tags WHERE instr(rank, ?) = 1
		ORDER BY rank`

	insertTagQuery = `
		INSERT INTO tags (tag, sub_relator, super_object, rank, pos)
		VALUES (?, ?, ?, ?, ?)`
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTag(row rowScanner) (*tagd.Tag, error) {
	var (
		t   tagd.Tag
		pos int64
		rnk []byte
	)
	if err := row.Scan(&t.ID, &t.SubRelator, &t.SuperObject, &pos, &rnk); err != nil {
		return nil, err
	}
	r, err := rank.FromBytes(rnk)
	if err != nil {
		return nil, tagd.WrapError(tagd.RankErr, err, "stored rank of %s", t.ID)
	}
	t.POS = tagd.POS(pos)
	t.Rank = r
	return &t, nil
}

// tagRow loads a tag without its relations.
func tagRow(ctx context.Context, q querier, id string) (*tagd.Tag, bool, error) {
	t, err := scanTag(q.QueryRowContext(ctx, selectTagQuery, id))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, internal(err, "select tag %s", id)
	}
	return t, true, nil
}

// loadTag loads a tag with its relations.
func loadTag(ctx context.Context, q querier, id string) (*tagd.Tag, bool, error) {
	t, ok, err := tagRow(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	t.Relations, err = relations(ctx, q, id)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func relations(ctx context.Context, q querier, subject string) (tagd.PredicateSet, error) {
	rows, err := q.QueryContext(ctx, selectRelationsQuery, subject)
	if err != nil {
		return nil, internal(err, "select relations of %s", subject)
	}
	defer rows.Close()

	var ps tagd.PredicateSet
	for rows.Next() {
		var p tagd.Predicate
		var mod sql.NullString
		if err := rows.Scan(&p.Relator, &p.Object, &mod); err != nil {
			return nil, internal(err, "scan relation of %s", subject)
		}
		p.Modifier = mod.String
		ps.Add(p)
	}
	return ps, internal(rows.Err(), "relations of %s", subject)
}

func children(ctx context.Context, q querier, super string) (tagd.TagSet, error) {
	rows, err := q.QueryContext(ctx, selectChildrenQuery, super)
	if err != nil {
		return nil, internal(err, "select children of %s", super)
	}
	defer rows.Close()

	var out tagd.TagSet
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, internal(err, "scan child of %s", super)
		}
		out = append(out, t)
	}
	return out, internal(rows.Err(), "children of %s", super)
}

func exists(ctx context.Context, q querier, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM tags WHERE tag = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, internal(err, "exists %s", id)
	}
	return true, nil
}

// rankOf returns the rank of id. The root has an empty rank.
func rankOf(ctx context.Context, q querier, id string) (rank.Rank, bool, error) {
	var rnk []byte
	err := q.QueryRowContext(ctx, "SELECT rank FROM tags WHERE tag = ?", id).Scan(&rnk)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, internal(err, "rank of %s", id)
	}
	r, err := rank.FromBytes(rnk)
	if err != nil {
		return "", false, tagd.WrapError(tagd.RankErr, err, "stored rank of %s", id)
	}
	return r, true, nil
}

// nextRank allocates the lowest free child rank under parent.
func nextRank(ctx context.Context, q querier, parent string, parentRank rank.Rank) (rank.Rank, error) {
	rows, err := q.QueryContext(ctx, selectChildRanksQuery, parent)
	if err != nil {
		return "", internal(err, "select child ranks of %s", parent)
	}
	var siblings []rank.Rank
	for rows.Next() {
		var rnk []byte
		if err := rows.Scan(&rnk); err != nil {
			rows.Close()
			return "", internal(err, "scan child rank of %s", parent)
		}
		r, err := rank.FromBytes(rnk)
		if err != nil {
			rows.Close()
			return "", tagd.WrapError(tagd.RankErr, err, "stored rank under %s", parent)
		}
		siblings = append(siblings, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", internal(err, "child ranks of %s", parent)
	}

	var next rank.Rank
	if len(siblings) == 0 {
		next, err = parentRank.PushBack(1)
	} else {
		next, err = rank.Next(siblings)
	}
	if err != nil {
		return "", tagd.WrapError(tagd.CodeOf(err), err, "next rank under %s", parent)
	}
	return next, nil
}

type rankedID struct {
	id   string
	rank rank.Rank
}

// subtree lists id's descendants and id itself, in rank order.
func subtree(ctx context.Context, q querier, r rank.Rank) ([]rankedID, error) {
	rows, err := q.QueryContext(ctx, selectSubtreeQuery, r.Bytes())
	if err != nil {
		return nil, internal(err, "select subtree of %s", r)
	}
	defer rows.Close()

	var out []rankedID
	for rows.Next() {
		var id string
		var rnk []byte
		if err := rows.Scan(&id, &rnk); err != nil {
			return nil, internal(err, "scan subtree of %s", r)
		}
		dr, err := rank.FromBytes(rnk)
		if err != nil {
			return nil, tagd.WrapError(tagd.RankErr, err, "stored rank of %s", id)
		}
		out = append(out, rankedID{id: id, rank: dr})
	}
	return out, internal(rows.Err(), "subtree of %s", r)
}
