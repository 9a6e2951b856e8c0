package postgres

import (
	"context"
	"database/sql"
	"errors"

	"omekan/internal/domain"

	"github.com/jmoiron/sqlx"
)

const categoriesSlugConstraint = "categories_slug_key"

type categoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository returns a domain.CategoryRepository backed by sqlx.
func NewCategoryRepository(db *sqlx.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	err := r.db.SelectContext(ctx, &out, `SELECT id, name, slug FROM categories ORDER BY name, id`)
	return out, err
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.GetContext(ctx, &c, `SELECT id, name, slug FROM categories WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`, c.Name, c.Slug).Scan(&c.ID)
	if isUniqueViolation(err, categoriesSlugConstraint) {
		return domain.ErrDuplicateSlug
	}
	return err
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = $2, slug = $3 WHERE id = $1`, c.ID, c.Name, c.Slug)
	if err != nil {
		if isUniqueViolation(err, categoriesSlugConstraint) {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_categories WHERE category_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
