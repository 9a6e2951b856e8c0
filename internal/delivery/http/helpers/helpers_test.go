package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"omekan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantErrors  []string
	}{
		{name: "validation", err: fmt.Errorf("create event: %w", domain.NewValidationError("title is required")), wantStatus: http.StatusBadRequest, wantMessage: "validation failed", wantErrors: []string{"title is required"}},
		{name: "not found", err: fmt.Errorf("get event: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantMessage: "not found"},
		{name: "duplicate slug", err: domain.ErrDuplicateSlug, wantStatus: http.StatusConflict, wantMessage: "slug already in use"},
		{name: "duplicate translation", err: domain.ErrDuplicateTranslation, wantStatus: http.StatusConflict, wantMessage: "translation already exists for this language"},
		{name: "duplicate email", err: domain.ErrDuplicateEmail, wantStatus: http.StatusConflict, wantMessage: "email already in use"},
		{name: "invalid credentials", err: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantMessage: "invalid email or password"},
		{name: "unauthorized", err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantMessage: "unauthorized"},
		{name: "forbidden", err: fmt.Errorf("update event: %w", domain.ErrForbidden), wantStatus: http.StatusForbidden, wantMessage: "forbidden"},
		{name: "storage failure hides detail", err: errors.New("pq: relation \"events\" does not exist"), wantStatus: http.StatusInternalServerError, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "http://test/api/events", nil)

			WriteServiceError(rr, req, testLogger, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
			var body APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, StatusError, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantErrors, body.Errors)
			assert.Nil(t, body.Data)
		})
	}
}

func TestWriteJSONPage(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONPage(rr, []string{"a"}, domain.NewPagination(45, domain.NewPage(20, 40)))

	assert.JSONEq(t, `{"status":"success","data":["a"],"pagination":{"total":45,"limit":20,"offset":40,"has_more":false}}`, rr.Body.String())
}

type loginDTO struct {
	Email string `json:"email"`
}

func (l loginDTO) Validate() []string {
	if l.Email == "" {
		return []string{"email is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantErrors []string
	}{
		{name: "valid", body: `{"email":"a@b.c"}`, wantOK: true},
		{name: "validator fails", body: `{"email":""}`, wantErrors: []string{"email is required"}},
		{name: "unknown field", body: `{"email":"a@b.c","role":"admin"}`},
		{name: "empty body", body: ``},
		{name: "too large", body: `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "http://test/api/login", strings.NewReader(tt.body))
			var dto loginDTO

			ok := DecodeAndValidate(rr, req, &dto)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "a@b.c", dto.Email)
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var body APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantErrors, body.Errors)
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  domain.Page
	}{
		{query: "", want: domain.Page{Limit: 20, Offset: 0}},
		{query: "?limit=5&offset=10", want: domain.Page{Limit: 5, Offset: 10}},
		{query: "?limit=0", want: domain.Page{Limit: 20, Offset: 0}},
		{query: "?limit=51", want: domain.Page{Limit: 50, Offset: 0}},
		{query: "?limit=abc&offset=-1", want: domain.Page{Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://test/api/events"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePage(req))
		})
	}
}

func TestQueryInt64(t *testing.T) {
	tests := []struct {
		query  string
		want   *int64
		wantOK bool
	}{
		{query: "", want: nil, wantOK: true},
		{query: "?community=0", want: nil, wantOK: true},
		{query: "?community=abc", want: nil, wantOK: false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://test/api/events"+tt.query, nil)
		got, ok := QueryInt64(req, "community")
		assert.Equal(t, tt.want, got, tt.query)
		assert.Equal(t, tt.wantOK, ok, tt.query)
	}

	req := httptest.NewRequest(http.MethodGet, "http://test/api/events?community=7", nil)
	got, ok := QueryInt64(req, "community")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), *got)
}
