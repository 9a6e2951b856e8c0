package postgres

import (
	"context"
	"database/sql"
	"errors"

	"omekan/internal/domain"

	"github.com/jmoiron/sqlx"
)

type artistRepository struct {
	db *sqlx.DB
}

// NewArtistRepository returns a domain.ArtistRepository backed by sqlx.
func NewArtistRepository(db *sqlx.DB) domain.ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) List(ctx context.Context) ([]domain.Artist, error) {
	out := make([]domain.Artist, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, spotify_id, image_path, description
		FROM artists
		ORDER BY name, id
	`)
	return out, err
}

func (r *artistRepository) GetByID(ctx context.Context, id int64) (*domain.Artist, error) {
	var a domain.Artist
	err := r.db.GetContext(ctx, &a, `
		SELECT id, name, spotify_id, image_path, description
		FROM artists
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *artistRepository) Create(ctx context.Context, a *domain.Artist) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO artists (name, spotify_id, image_path, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, a.Name, a.SpotifyID, a.ImagePath, a.Description).Scan(&a.ID)
}
