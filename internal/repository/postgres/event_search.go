package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"omekan/internal/domain"
)

// eventRowColumns is the projection of list and search queries.
// Translation columns are NULL when the event has no row for the queried language.
const eventRowColumns = eventColumns + `,
		et.language, et.title, et.description, et.location_name,
		first_occ.start_datetime`

// firstOccurrenceJoin attaches the earliest non-cancelled start of each event.
// It yields exactly one row per event, so the outer query never fans out.
const firstOccurrenceJoin = `LEFT JOIN LATERAL (
			SELECT MIN(eo.start_datetime) AS start_datetime
			FROM event_occurrences eo
			WHERE eo.event_id = e.id AND eo.is_cancelled = FALSE
		) first_occ ON TRUE`

var searchOrderBy = map[domain.SortKey]string{
	domain.SortByDate:     `first_occ.start_datetime ASC NULLS LAST, e.id ASC`,
	domain.SortByTitle:    `COALESCE(et.title, e.slug) ASC, e.id ASC`,
	domain.SortByLocation: `et.location_name ASC NULLS LAST, e.id ASC`,
}

// searchQuery holds the generated SQL for one search.
type searchQuery struct {
	Select   string
	Count    string
	Args     []any // shared by Select and Count
	PageArgs []any // appended to Args for Select only
}

// buildSearchQuery turns a filter into a page query and a count query over the same predicate.
// Relation filters are EXISTS sub-selects, so each event appears at most once.
func buildSearchQuery(f domain.EventFilter) searchQuery {
	language := f.Language
	if language == "" {
		language = domain.DefaultLanguage
	}
	page := domain.NewPage(f.Page.Limit, f.Page.Offset)
	args := []any{language}

	var where strings.Builder
	where.WriteString("WHERE 1=1")

	if text := strings.TrimSpace(f.SearchText); text != "" {
		args = append(args, "%"+escapeLike(text)+"%")
		n := len(args)
		fmt.Fprintf(&where, ` AND (et.title ILIKE $%[1]d OR et.description ILIKE $%[1]d OR et.location_name ILIKE $%[1]d OR e.slug ILIKE $%[1]d)`, n)
	}
	if f.CommunityID != nil {
		args = append(args, *f.CommunityID)
		fmt.Fprintf(&where, ` AND EXISTS (SELECT 1 FROM event_communities ec WHERE ec.event_id = e.id AND ec.community_id = $%d)`, len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		fmt.Fprintf(&where, ` AND EXISTS (SELECT 1 FROM event_categories ecat WHERE ecat.event_id = e.id AND ecat.category_id = $%d)`, len(args))
	}
	if f.Date != nil {
		y, m, d := f.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		args = append(args, day, day.AddDate(0, 0, 1))
		fmt.Fprintf(&where, ` AND EXISTS (SELECT 1 FROM event_occurrences eod WHERE eod.event_id = e.id AND eod.start_datetime >= $%d AND eod.start_datetime < $%d)`, len(args)-1, len(args))
	}

	from := `
		FROM events e
		LEFT JOIN event_translations et ON et.event_id = e.id AND et.language = $1
		`

	order := searchOrderBy[domain.ParseSortKey(string(f.Sort))]

	n := len(args)
	selectSQL := `SELECT ` + eventRowColumns + from + firstOccurrenceJoin + `
		` + where.String() + `
		ORDER BY ` + order + fmt.Sprintf(`
		LIMIT $%d OFFSET $%d`, n+1, n+2)

	countSQL := `SELECT COUNT(*)` + from + where.String()

	return searchQuery{
		Select:   selectSQL,
		Count:    countSQL,
		Args:     args,
		PageArgs: []any{page.Limit, page.Offset},
	}
}

func (r *eventRepository) Search(ctx context.Context, f domain.EventFilter) ([]domain.EventRow, int, error) {
	q := buildSearchQuery(f)

	var total int
	if err := r.DB.QueryRowContext(ctx, q.Count, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, q.Select, append(append([]any{}, q.Args...), q.PageArgs...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()
	out, err := scanEventRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanEventRows(rows *sql.Rows) ([]domain.EventRow, error) {
	out := make([]domain.EventRow, 0)
	for rows.Next() {
		var row domain.EventRow
		var lang, title, desc, loc sql.NullString
		var start sql.NullTime
		dest := append(eventScanDest(&row.Event), &lang, &title, &desc, &loc, &start)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if title.Valid {
			row.Translation = &domain.Translation{
				Language:     lang.String,
				Title:        title.String,
				Description:  nullStringPtr(desc),
				LocationName: nullStringPtr(loc),
			}
		}
		row.StartDatetime = nullTimePtr(start)
		out = append(out, row)
	}
	return out, rows.Err()
}
