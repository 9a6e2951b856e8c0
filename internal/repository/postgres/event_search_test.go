package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"omekan/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestBuildSearchQuery(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		filter       domain.EventFilter
		wantArgs     []any
		wantPageArgs []any
		contains     []string
		notContains  []string
	}{
		{
			name:         "defaults to german, date order and limit 20",
			filter:       domain.EventFilter{},
			wantArgs:     []any{"de"},
			wantPageArgs: []any{20, 0},
			contains: []string{
				"ORDER BY first_occ.start_datetime ASC NULLS LAST, e.id ASC",
				"LIMIT $2 OFFSET $3",
			},
			notContains: []string{"ILIKE", "EXISTS"},
		},
		{
			name:         "search text binds one pattern to all four fields",
			filter:       domain.EventFilter{SearchText: " Jazz ", Language: "en"},
			wantArgs:     []any{"en", "%Jazz%"},
			wantPageArgs: []any{20, 0},
			contains: []string{
				"et.title ILIKE $2 OR et.description ILIKE $2 OR et.location_name ILIKE $2 OR e.slug ILIKE $2",
				"LIMIT $3 OFFSET $4",
			},
		},
		{
			name:         "like wildcards in user input are escaped",
			filter:       domain.EventFilter{SearchText: `100%_off`},
			wantArgs:     []any{"de", `%100\%\_off%`},
			wantPageArgs: []any{20, 0},
		},
		{
			name: "all filters use exists and limit is capped",
			filter: domain.EventFilter{
				CommunityID: int64Ptr(3),
				CategoryID:  int64Ptr(4),
				Date:        &day,
				Page:        domain.Page{Limit: 500, Offset: -5},
			},
			wantArgs:     []any{"de", int64(3), int64(4), day, day.AddDate(0, 0, 1)},
			wantPageArgs: []any{50, 0},
			contains: []string{
				"ec.community_id = $2",
				"ecat.category_id = $3",
				"eod.start_datetime >= $4 AND eod.start_datetime < $5",
				"LIMIT $6 OFFSET $7",
			},
		},
		{
			name:         "title sort falls back to slug",
			filter:       domain.EventFilter{Sort: domain.SortByTitle, Page: domain.Page{Limit: 10, Offset: 30}},
			wantArgs:     []any{"de"},
			wantPageArgs: []any{10, 30},
			contains:     []string{"ORDER BY COALESCE(et.title, e.slug) ASC, e.id ASC"},
		},
		{
			name:         "location sort",
			filter:       domain.EventFilter{Sort: domain.SortByLocation},
			wantArgs:     []any{"de"},
			wantPageArgs: []any{20, 0},
			contains:     []string{"ORDER BY et.location_name ASC NULLS LAST, e.id ASC"},
		},
		{
			name:         "unknown sort key falls back to date",
			filter:       domain.EventFilter{Sort: "popularity"},
			wantArgs:     []any{"de"},
			wantPageArgs: []any{20, 0},
			contains:     []string{"ORDER BY first_occ.start_datetime ASC NULLS LAST, e.id ASC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := buildSearchQuery(tt.filter)
			assert.Equal(t, tt.wantArgs, q.Args)
			assert.Equal(t, tt.wantPageArgs, q.PageArgs)
			for _, s := range tt.contains {
				assert.Contains(t, q.Select, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, q.Select, s)
			}
			assert.NotContains(t, q.Count, "LIMIT")
			assert.NotContains(t, q.Count, "ORDER BY")
			assert.NotContains(t, q.Count, "first_occ", "count must not depend on the occurrence join")
		})
	}
}

func TestBuildSearchQuery_DateMatchesCancelledOccurrences(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	q := buildSearchQuery(domain.EventFilter{Date: &day})

	idx := strings.Index(q.Count, "event_occurrences eod")
	require.GreaterOrEqual(t, idx, 0)
	assert.NotContains(t, q.Count[idx:], "is_cancelled")
}

func TestBuildSearchQuery_CountSharesPredicate(t *testing.T) {
	q := buildSearchQuery(domain.EventFilter{SearchText: "jazz", CommunityID: int64Ptr(1)})
	idx := strings.Index(q.Count, "WHERE 1=1")
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, q.Select, q.Count[idx:])
}

func TestEventRepository_Search(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mock      func(mock sqlmock.Sqlmock)
		wantTotal int
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns page and total",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\)`).
					WithArgs("de", "%jazz%").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
				mock.ExpectQuery(`SELECT e.id`).
					WithArgs("de", "%jazz%", 2, 0).
					WillReturnRows(sqlmock.NewRows(eventRowTestColumns).
						AddRow(int64(1), int64(3), "jazz-night", nil, false, nil, nil, testCreated, "de", "Jazz Night", nil, "Club", testStart).
						AddRow(int64(2), int64(3), "jazz-brunch", nil, true, "/v.mp4", nil, testCreated, "de", "Jazz Brunch", "with jazz", "Cafe", testStart))
			},
			wantTotal: 3,
			wantLen:   2,
		},
		{
			name: "count failure",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(sql.ErrConnDone)
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
			rows, total, err := NewEventRepository(db).Search(ctx, domain.EventFilter{
				SearchText: "jazz",
				Page:       domain.Page{Limit: 2},
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, rows, tt.wantLen)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
