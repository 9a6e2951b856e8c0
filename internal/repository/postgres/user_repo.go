package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"omekan/internal/domain"
)

const usersEmailConstraint = "users_email_key"

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User, org *domain.Organizer) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		// A transaction-scoped advisory lock serializes the "first user" check.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('users_first_admin'))`); err != nil {
			return fmt.Errorf("lock users: %w", err)
		}
		query := `
			INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, $2, $3, CASE WHEN EXISTS (SELECT 1 FROM users) THEN $4 ELSE 'admin' END)
			RETURNING id, role, created_at
		`
		err := tx.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, string(u.Role)).Scan(&u.ID, &u.Role, &u.CreatedAt)
		if err != nil {
			if isUniqueViolation(err, usersEmailConstraint) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("insert user: %w", err)
		}
		if org == nil || !u.Role.CanWriteEvents() {
			return nil
		}
		org.UserID = u.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO organizers (user_id, display_name, website, is_partner, token_balance)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, org.UserID, org.DisplayName, org.Website, org.IsPartner, org.TokenBalance).Scan(&org.ID)
		if err != nil {
			return fmt.Errorf("insert organizer: %w", err)
		}
		return nil
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *userRepository) getOne(ctx context.Context, predicate string, arg any) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE ` + predicate
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	s := &domain.AdminStats{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'admin'),
			(SELECT COUNT(*) FROM organizers),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM users WHERE role = 'organizer')
	`).Scan(&s.TotalUsers, &s.TotalAdmins, &s.TotalOrganizers, &s.TotalEvents, &s.OrganizerUsers)
	if err != nil {
		return nil, err
	}
	return s, nil
}
