package postgres

import (
	"context"
	"database/sql"
	"errors"

	"omekan/internal/domain"

	"github.com/jmoiron/sqlx"
)

type organizerRepository struct {
	db *sqlx.DB
}

// NewOrganizerRepository returns a domain.OrganizerRepository backed by sqlx.
func NewOrganizerRepository(db *sqlx.DB) domain.OrganizerRepository {
	return &organizerRepository{db: db}
}

func (r *organizerRepository) GetByID(ctx context.Context, id int64) (*domain.Organizer, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *organizerRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Organizer, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (r *organizerRepository) getOne(ctx context.Context, where string, arg any) (*domain.Organizer, error) {
	var o domain.Organizer
	err := r.db.GetContext(ctx, &o, `
		SELECT id, user_id, display_name, website, is_partner, token_balance
		FROM organizers
		`+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List joins each organizer with the email and name of its user.
func (r *organizerRepository) List(ctx context.Context) ([]domain.Organizer, error) {
	out := make([]domain.Organizer, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT o.id, o.user_id, o.display_name, o.website, o.is_partner, o.token_balance,
		       u.email AS user_email, u.name AS user_name
		FROM organizers o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.display_name, o.id
	`)
	return out, err
}
