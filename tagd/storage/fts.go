package storage

import (
	"context"
	"strings"

	"github.com/musetronstar/tagd/tagd"
)

const searchQuery = `
	SELECT fts_tags.tag FROM fts_tags JOIN tags ON tags.tag = fts_tags.tag
	WHERE fts_tags MATCH ?
	ORDER BY tags.rank`

// ftsContent is the indexed text of a tag: its ids and modifiers with
// underscores read as word breaks.
func ftsContent(t *tagd.Tag) string {
	words := []string{t.ID, t.SubRelator, t.SuperObject}
	for _, p := range t.Relations {
		words = append(words, p.Relator, p.Object)
		if p.Modifier != "" {
			words = append(words, p.Modifier)
		}
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(strings.Join(words, " "), "_", " ")), " ")
}

// indexTag rewrites the content index entry of id from its stored form.
func indexTag(ctx context.Context, q querier, id string) error {
	t, ok, err := loadTag(ctx, q, id)
	if err != nil {
		return err
	}
	if err := unindexTag(ctx, q, id); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := q.ExecContext(ctx, "INSERT INTO fts_tags (tag, content) VALUES (?, ?)", id, ftsContent(t)); err != nil {
		return internal(err, "index %s", id)
	}
	return nil
}

func unindexTag(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM fts_tags WHERE tag = ?", id); err != nil {
		return internal(err, "unindex %s", id)
	}
	return nil
}

// searchIDs returns ids whose content matches an FTS expression, in rank order.
func searchIDs(ctx context.Context, q querier, terms string) ([]string, error) {
	rows, err := q.QueryContext(ctx, searchQuery, terms)
	if err != nil {
		return nil, tagd.WrapError(tagd.TSErr, err, "search %q", terms)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, internal(err, "scan search result")
		}
		ids = append(ids, id)
	}
	return ids, internal(rows.Err(), "search %q", terms)
}
