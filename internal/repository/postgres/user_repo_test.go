package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"omekan/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		withOrg  bool
		role     domain.Role
		mock     func(mock sqlmock.Sqlmock)
		wantRole domain.Role
		wantOrg  int64
		errIs    error
		wantErr  bool
	}{
		{
			name:    "first user becomes admin and gets an organizer profile",
			withOrg: true,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`INSERT INTO users .* CASE WHEN EXISTS \(SELECT 1 FROM users\) THEN \$4 ELSE 'admin' END`).
					WithArgs("Ada", "ada@example.com", "hash", "organizer").
					WillReturnRows(sqlmock.NewRows([]string{"id", "role", "created_at"}).AddRow(int64(1), "admin", created))
				mock.ExpectQuery(`INSERT INTO organizers`).
					WithArgs(int64(1), "Ada", nil, false, 0).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
				mock.ExpectCommit()
			},
			wantRole: domain.RoleAdmin,
			wantOrg:  11,
		},
		{
			name: "plain user skips the organizer insert",
			role: domain.RoleUser,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Ada", "ada@example.com", "hash", "user").
					WillReturnRows(sqlmock.NewRows([]string{"id", "role", "created_at"}).AddRow(int64(2), "user", created))
				mock.ExpectCommit()
			},
			withOrg:  true,
			wantRole: domain.RoleUser,
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
				mock.ExpectRollback()
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name:    "organizer insert failure rolls back",
			withOrg: true,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "role", "created_at"}).AddRow(int64(3), "organizer", created))
				mock.ExpectQuery(`INSERT INTO organizers`).WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			role := tt.role
			if role == "" {
				role = domain.RoleOrganizer
			}
			u := &domain.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Role: role}
			var org *domain.Organizer
			if tt.withOrg {
				org = &domain.Organizer{DisplayName: "Ada"}
			}
			err = NewUserRepository(db).Create(ctx, u, org)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, u.Role)
			assert.Equal(t, created, u.CreatedAt)
			if tt.wantOrg != 0 {
				assert.Equal(t, tt.wantOrg, org.ID)
				assert.Equal(t, u.ID, org.UserID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
					WithArgs("ada@example.com").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
						AddRow(int64(1), "Ada", "ada@example.com", "hash", "admin", created))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).WithArgs("ada@example.com").WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u, err := NewUserRepository(db).GetByEmail(ctx, "ada@example.com")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.RoleAdmin, u.Role)
			assert.Equal(t, "hash", u.PasswordHash)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM users\)`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e"}).AddRow(10, 1, 4, 25, 3))

	s, err := NewUserRepository(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.AdminStats{TotalUsers: 10, TotalAdmins: 1, TotalOrganizers: 4, TotalEvents: 25, OrganizerUsers: 3}, s)
	require.NoError(t, mock.ExpectationsWereMet())
}
