package postgres

import (
	"context"
	"database/sql"
	"errors"

	"omekan/internal/domain"

	"github.com/jmoiron/sqlx"
)

const communitiesSlugConstraint = "communities_slug_key"

type communityRepository struct {
	db *sqlx.DB
}

// NewCommunityRepository returns a domain.CommunityRepository backed by sqlx.
func NewCommunityRepository(db *sqlx.DB) domain.CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) List(ctx context.Context) ([]domain.Community, error) {
	out := make([]domain.Community, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, slug, flag_icon, preview_image, is_active
		FROM communities
		ORDER BY name, id
	`)
	return out, err
}

func (r *communityRepository) GetByID(ctx context.Context, id int64) (*domain.Community, error) {
	var c domain.Community
	err := r.db.GetContext(ctx, &c, `
		SELECT id, name, slug, flag_icon, preview_image, is_active
		FROM communities
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *communityRepository) Create(ctx context.Context, c *domain.Community) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO communities (name, slug, flag_icon, preview_image, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.Name, c.Slug, c.FlagIcon, c.PreviewImage, c.IsActive).Scan(&c.ID)
	if isUniqueViolation(err, communitiesSlugConstraint) {
		return domain.ErrDuplicateSlug
	}
	return err
}

func (r *communityRepository) Update(ctx context.Context, c *domain.Community) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE communities
		SET name = $2, slug = $3, flag_icon = $4, preview_image = $5, is_active = $6
		WHERE id = $1
	`, c.ID, c.Name, c.Slug, c.FlagIcon, c.PreviewImage, c.IsActive)
	if err != nil {
		if isUniqueViolation(err, communitiesSlugConstraint) {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the community and its event links in one transaction.
func (r *communityRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_communities WHERE community_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM communities WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
