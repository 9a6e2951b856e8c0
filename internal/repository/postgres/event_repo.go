package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"omekan/internal/domain"

	"github.com/lib/pq"
)

const (
	eventsSlugConstraint        = "events_slug_key"
	eventTranslationsConstraint = "event_translations_pkey"
)

// eventColumns is the base projection shared by every event read.
const eventColumns = `e.id, e.organizer_id, e.slug, e.affiliate_url, e.is_promoted, e.hero_video_path, e.image_path, e.created_at`

// linkTables maps each relation dimension to its join table and foreign key column.
var linkTables = struct {
	artists, communities, categories linkTable
}{
	artists:     linkTable{table: "event_artists", column: "artist_id"},
	communities: linkTable{table: "event_communities", column: "community_id"},
	categories:  linkTable{table: "event_categories", column: "category_id"},
}

type linkTable struct {
	table  string
	column string
}

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, w *domain.EventWrite) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		e := &w.Event
		err := tx.QueryRowContext(ctx, `
			INSERT INTO events (organizer_id, slug, affiliate_url, is_promoted, hero_video_path, image_path)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, e.OrganizerID, e.Slug, e.AffiliateURL, e.IsPromoted, e.HeroVideoPath, e.ImagePath).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			if isUniqueViolation(err, eventsSlugConstraint) {
				return domain.ErrDuplicateSlug
			}
			return fmt.Errorf("insert event: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_translations (event_id, language, title, description, location_name)
			VALUES ($1, $2, $3, $4, $5)
		`, e.ID, w.Translation.Language, w.Translation.Title, w.Translation.Description, w.Translation.LocationName); err != nil {
			return fmt.Errorf("insert translation: %w", err)
		}

		if err := insertOccurrences(ctx, tx, e.ID, w.Occurrences); err != nil {
			return err
		}
		if err := insertLinks(ctx, tx, linkTables.artists, e.ID, w.ArtistIDs); err != nil {
			return err
		}
		if err := insertLinks(ctx, tx, linkTables.communities, e.ID, w.CommunityIDs); err != nil {
			return err
		}
		return insertLinks(ctx, tx, linkTables.categories, e.ID, w.CategoryIDs)
	})
}

func (r *eventRepository) Update(ctx context.Context, w *domain.EventWrite) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		e := &w.Event
		res, err := tx.ExecContext(ctx, `
			UPDATE events
			SET slug = $2, affiliate_url = $3, is_promoted = $4, hero_video_path = $5, image_path = $6
			WHERE id = $1
		`, e.ID, e.Slug, e.AffiliateURL, e.IsPromoted, e.HeroVideoPath, e.ImagePath)
		if err != nil {
			if isUniqueViolation(err, eventsSlugConstraint) {
				return domain.ErrDuplicateSlug
			}
			return fmt.Errorf("update event: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_translations (event_id, language, title, description, location_name)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (event_id, language) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description, location_name = EXCLUDED.location_name
		`, e.ID, w.Translation.Language, w.Translation.Title, w.Translation.Description, w.Translation.LocationName); err != nil {
			return fmt.Errorf("upsert translation: %w", err)
		}

		if w.Occurrences != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM event_occurrences WHERE event_id = $1`, e.ID); err != nil {
				return fmt.Errorf("clear occurrences: %w", err)
			}
			if err := insertOccurrences(ctx, tx, e.ID, w.Occurrences); err != nil {
				return err
			}
		}

		if err := replaceLinks(ctx, tx, linkTables.artists, e.ID, w.ArtistIDs); err != nil {
			return err
		}
		if err := replaceLinks(ctx, tx, linkTables.communities, e.ID, w.CommunityIDs); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, linkTables.categories, e.ID, w.CategoryIDs)
	})
}

// Delete removes child rows before the event row; there are no ON DELETE CASCADE constraints.
func (r *eventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, table := range []string{"event_artists", "event_communities", "event_categories", "event_occurrences", "event_translations"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE event_id = $1`, id); err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.EventWithOrganizer, error) {
	return r.getOne(ctx, `e.id = $1`, id)
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.EventWithOrganizer, error) {
	return r.getOne(ctx, `e.slug = $1`, slug)
}

func (r *eventRepository) getOne(ctx context.Context, predicate string, arg any) (*domain.EventWithOrganizer, error) {
	query := `
		SELECT ` + eventColumns + `, o.display_name
		FROM events e
		LEFT JOIN organizers o ON o.id = e.organizer_id
		WHERE ` + predicate
	out := &domain.EventWithOrganizer{}
	var organizerName sql.NullString
	dest := append(eventScanDest(&out.Event), &organizerName)
	if err := r.DB.QueryRowContext(ctx, query, arg).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	out.OrganizerName = nullStringPtr(organizerName)
	return out, nil
}

func (r *eventRepository) ListSlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT slug FROM events WHERE slug = $1 OR slug LIKE $2`, base, escapeLike(base)+"-%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slugs := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

func (r *eventRepository) GetTranslation(ctx context.Context, eventID int64, language string) (*domain.Translation, error) {
	tr := &domain.Translation{}
	var desc, loc sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT language, title, description, location_name
		FROM event_translations
		WHERE event_id = $1 AND language = $2
	`, eventID, language).Scan(&tr.Language, &tr.Title, &desc, &loc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	tr.Description = nullStringPtr(desc)
	tr.LocationName = nullStringPtr(loc)
	return tr, nil
}

func (r *eventRepository) AddTranslation(ctx context.Context, eventID int64, tr domain.Translation) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO event_translations (event_id, language, title, description, location_name)
		VALUES ($1, $2, $3, $4, $5)
	`, eventID, tr.Language, tr.Title, tr.Description, tr.LocationName)
	if err != nil {
		if isUniqueViolation(err, eventTranslationsConstraint) {
			return domain.ErrDuplicateTranslation
		}
		return err
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, language string) ([]domain.EventRow, error) {
	query := `
		SELECT ` + eventRowColumns + `
		FROM events e
		LEFT JOIN event_translations et ON et.event_id = e.id AND et.language = $1
		` + firstOccurrenceJoin + `
		ORDER BY first_occ.start_datetime ASC NULLS LAST, e.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventRows(rows)
}

func insertOccurrences(ctx context.Context, tx *sql.Tx, eventID int64, occs []domain.Occurrence) error {
	for i := range occs {
		o := &occs[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO event_occurrences (event_id, start_datetime, end_datetime, is_cancelled)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, eventID, o.StartDatetime.Time, o.EndDatetime.Time, o.IsCancelled).Scan(&o.ID)
		if err != nil {
			return fmt.Errorf("insert occurrence: %w", err)
		}
	}
	return nil
}

// insertLinks inserts the links in one statement. Duplicates are skipped.
func insertLinks(ctx context.Context, tx *sql.Tx, lt linkTable, eventID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, %s)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING
	`, lt.table, lt.column)
	if _, err := tx.ExecContext(ctx, query, eventID, pq.Array(ids)); err != nil {
		return fmt.Errorf("link %s: %w", lt.table, err)
	}
	return nil
}

// replaceLinks overwrites one relation dimension. A nil slice leaves it untouched.
func replaceLinks(ctx context.Context, tx *sql.Tx, lt linkTable, eventID int64, ids []int64) error {
	if ids == nil {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+lt.table+` WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear %s: %w", lt.table, err)
	}
	return insertLinks(ctx, tx, lt, eventID, ids)
}

func eventScanDest(e *domain.Event) []any {
	return []any{
		&e.ID, &e.OrganizerID, &e.Slug, nullString{&e.AffiliateURL}, &e.IsPromoted,
		nullString{&e.HeroVideoPath}, nullString{&e.ImagePath}, &e.CreatedAt,
	}
}

// nullString scans a nullable text column straight into a *string field.
type nullString struct {
	dest **string
}

func (n nullString) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*n.dest = nullStringPtr(ns)
	return nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
