package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"omekan/internal/domain"

	"github.com/lib/pq"
)

type relationRepository struct {
	DB *sql.DB
}

// NewRelationRepository returns a domain.RelationRepository implemented with Postgres.
func NewRelationRepository(db *sql.DB) domain.RelationRepository {
	return &relationRepository{DB: db}
}

// LoadRelations runs one query per dimension. Unknown ids yield empty collections.
func (r *relationRepository) LoadRelations(ctx context.Context, eventID int64) (*domain.EventRelations, error) {
	out := domain.NewEventRelations()
	byEvent := map[int64]*domain.EventRelations{eventID: out}
	where := `= $1`

	if err := r.loadCommunities(ctx, where, eventID, byEvent); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, where, eventID, byEvent); err != nil {
		return nil, err
	}
	if err := r.loadArtists(ctx, where, eventID, byEvent); err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, start_datetime, end_datetime, is_cancelled
		FROM event_occurrences
		WHERE event_id = $1
		ORDER BY start_datetime ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o domain.Occurrence
		if err := rows.Scan(&o.ID, &o.StartDatetime.Time, &o.EndDatetime.Time, &o.IsCancelled); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		out.Occurrences = append(out.Occurrences, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	return out, nil
}

func (r *relationRepository) LoadListRelations(ctx context.Context, eventIDs []int64) (map[int64]*domain.EventRelations, error) {
	byEvent := make(map[int64]*domain.EventRelations, len(eventIDs))
	for _, id := range eventIDs {
		byEvent[id] = domain.NewEventRelations()
	}
	if len(eventIDs) == 0 {
		return byEvent, nil
	}
	where := `= ANY($1)`
	ids := pq.Array(eventIDs)

	if err := r.loadCommunities(ctx, where, ids, byEvent); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, where, ids, byEvent); err != nil {
		return nil, err
	}
	if err := r.loadArtists(ctx, where, ids, byEvent); err != nil {
		return nil, err
	}
	return byEvent, nil
}

func (r *relationRepository) loadCommunities(ctx context.Context, where string, arg any, byEvent map[int64]*domain.EventRelations) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ec.event_id, c.id, c.name, c.slug, c.flag_icon, c.preview_image, c.is_active
		FROM communities c
		JOIN event_communities ec ON ec.community_id = c.id
		WHERE ec.event_id `+where+`
		ORDER BY ec.event_id, c.id
	`, arg)
	if err != nil {
		return fmt.Errorf("load communities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		var c domain.Community
		if err := rows.Scan(&eventID, &c.ID, &c.Name, &c.Slug, nullString{&c.FlagIcon}, nullString{&c.PreviewImage}, &c.IsActive); err != nil {
			return fmt.Errorf("scan community: %w", err)
		}
		if rel, ok := byEvent[eventID]; ok {
			rel.Communities = append(rel.Communities, c)
		}
	}
	return rows.Err()
}

func (r *relationRepository) loadCategories(ctx context.Context, where string, arg any, byEvent map[int64]*domain.EventRelations) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ec.event_id, c.id, c.name, c.slug
		FROM categories c
		JOIN event_categories ec ON ec.category_id = c.id
		WHERE ec.event_id `+where+`
		ORDER BY ec.event_id, c.id
	`, arg)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		var c domain.Category
		if err := rows.Scan(&eventID, &c.ID, &c.Name, &c.Slug); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		if rel, ok := byEvent[eventID]; ok {
			rel.Categories = append(rel.Categories, c)
		}
	}
	return rows.Err()
}

func (r *relationRepository) loadArtists(ctx context.Context, where string, arg any, byEvent map[int64]*domain.EventRelations) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ea.event_id, a.id, a.name, a.spotify_id, a.image_path
		FROM artists a
		JOIN event_artists ea ON ea.artist_id = a.id
		WHERE ea.event_id `+where+`
		ORDER BY ea.event_id, a.name, a.id
	`, arg)
	if err != nil {
		return fmt.Errorf("load artists: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		var a domain.Artist
		if err := rows.Scan(&eventID, &a.ID, &a.Name, nullString{&a.SpotifyID}, nullString{&a.ImagePath}); err != nil {
			return fmt.Errorf("scan artist: %w", err)
		}
		if rel, ok := byEvent[eventID]; ok {
			rel.Artists = append(rel.Artists, a)
		}
	}
	return rows.Err()
}
