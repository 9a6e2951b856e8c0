package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"omekan/internal/delivery/http/helpers"
	"omekan/internal/delivery/http/middleware"
	"omekan/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var (
	adminPrincipal     = domain.Principal{UserID: 1, Email: "admin@omekan.com", Role: domain.RoleAdmin}
	organizerPrincipal = domain.Principal{UserID: 2, Email: "org@omekan.com", Role: domain.RoleOrganizer}
)

// newRequest builds a request with an optional JSON body, path values and caller.
func newRequest(method, target, body string, pathValues map[string]string, p *domain.Principal) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if p != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), *p))
	}
	return req
}

// decodeEnvelope decodes the response envelope and returns data as raw JSON.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) (helpers.APIResponse, json.RawMessage) {
	t.Helper()
	var raw struct {
		helpers.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw), rr.Body.String())
	return raw.APIResponse, raw.Data
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err error

	searchResult *domain.EventPage
	listResult   []domain.EventSummary
	detail       *domain.EventDetail
	relations    *domain.EventRelations
	translation  domain.Translation
	deleted      bool

	lastFilter    domain.EventFilter
	lastLanguage  string
	lastSlug      string
	lastID        int64
	lastPrincipal domain.Principal
	lastInput     domain.EventInput
	lastTrInput   domain.TranslationInput
}

func (f *fakeEventService) ResolveTranslation(_ context.Context, eventID int64, language string) (domain.Translation, error) {
	f.lastID, f.lastLanguage = eventID, language
	return f.translation, f.err
}

func (f *fakeEventService) LoadRelations(_ context.Context, eventID int64) (*domain.EventRelations, error) {
	f.lastID = eventID
	return f.relations, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context, language string) ([]domain.EventSummary, error) {
	f.lastLanguage = language
	return f.listResult, f.err
}

func (f *fakeEventService) SearchEvents(_ context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.searchResult, nil
}

func (f *fakeEventService) GetEventBySlug(_ context.Context, slug, language string) (*domain.EventDetail, error) {
	f.lastSlug, f.lastLanguage = slug, language
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeEventService) GetEventByID(_ context.Context, id int64, language string) (*domain.EventDetail, error) {
	f.lastID, f.lastLanguage = id, language
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeEventService) CreateEvent(_ context.Context, p domain.Principal, in domain.EventInput) (*domain.EventDetail, error) {
	f.lastPrincipal, f.lastInput = p, in
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, p domain.Principal, id int64, in domain.EventInput) (*domain.EventDetail, error) {
	f.lastPrincipal, f.lastID, f.lastInput = p, id, in
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, p domain.Principal, id int64) (bool, error) {
	f.lastPrincipal, f.lastID = p, id
	return f.deleted, f.err
}

func (f *fakeEventService) AddTranslation(_ context.Context, p domain.Principal, id int64, in domain.TranslationInput) (*domain.Translation, error) {
	f.lastPrincipal, f.lastID, f.lastTrInput = p, id, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Translation{Language: in.Language, Title: in.Title}, nil
}

// fakeLookupService implements domain.LookupService.
type fakeLookupService struct {
	err         error
	communities []domain.Community
	lastID      int64
	lastInput   any
}

func (f *fakeLookupService) ListCommunities(context.Context) ([]domain.Community, error) {
	return f.communities, f.err
}

func (f *fakeLookupService) GetCommunity(_ context.Context, id int64) (*domain.Community, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Community{ID: id, Name: "Türkisch", Slug: "tuerkisch", IsActive: true}, nil
}

func (f *fakeLookupService) CreateCommunity(_ context.Context, in domain.CommunityInput) (*domain.Community, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Community{ID: 1, Name: in.Name, Slug: "tuerkisch", IsActive: true}, nil
}

func (f *fakeLookupService) UpdateCommunity(_ context.Context, id int64, in domain.CommunityInput) (*domain.Community, error) {
	f.lastID, f.lastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Community{ID: id, Name: in.Name}, nil
}

func (f *fakeLookupService) DeleteCommunity(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeLookupService) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Konzert", Slug: "konzert"}}, f.err
}

func (f *fakeLookupService) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: id, Name: "Konzert", Slug: "konzert"}, nil
}

func (f *fakeLookupService) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: 1, Name: in.Name}, nil
}

func (f *fakeLookupService) UpdateCategory(_ context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	f.lastID, f.lastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: id, Name: in.Name}, nil
}

func (f *fakeLookupService) DeleteCategory(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeLookupService) ListArtists(context.Context) ([]domain.Artist, error) {
	return []domain.Artist{{ID: 1, Name: "Aynur"}}, f.err
}

func (f *fakeLookupService) GetArtist(_ context.Context, id int64) (*domain.Artist, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Artist{ID: id, Name: "Aynur"}, nil
}

func (f *fakeLookupService) CreateArtist(_ context.Context, in domain.ArtistInput) (*domain.Artist, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Artist{ID: 1, Name: in.Name}, nil
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	err           error
	lastRegister  domain.RegisterInput
	lastEmail     string
	lastPassword  string
	lastMeUserID  int64
	loginResult   *domain.AuthResult
	registeredOut *domain.User
}

func (f *fakeAuthService) Register(_ context.Context, in domain.RegisterInput) (*domain.User, error) {
	f.lastRegister = in
	if f.err != nil {
		return nil, f.err
	}
	return f.registeredOut, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (*domain.AuthResult, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return f.loginResult, nil
}

func (f *fakeAuthService) Me(_ context.Context, userID int64) (*domain.User, error) {
	f.lastMeUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: userID, Name: "Ada", Email: "ada@example.com", Role: domain.RoleOrganizer}, nil
}

// fakeAdminService implements domain.AdminService.
type fakeAdminService struct {
	err error
}

func (f *fakeAdminService) Stats(context.Context) (*domain.AdminStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AdminStats{TotalUsers: 3, TotalAdmins: 1, TotalOrganizers: 2, TotalEvents: 12, OrganizerUsers: 2}, nil
}

func (f *fakeAdminService) ListUsers(context.Context) ([]domain.User, error) {
	return []domain.User{{ID: 1, Email: "admin@omekan.com", Role: domain.RoleAdmin, PasswordHash: "secret-hash"}}, f.err
}

func (f *fakeAdminService) ListOrganizers(context.Context) ([]domain.Organizer, error) {
	return []domain.Organizer{{ID: 1, UserID: 2, DisplayName: "Kulturverein"}}, f.err
}

// fakeUploadService implements domain.UploadService.
type fakeUploadService struct {
	err      error
	lastBody []byte
	lastSize int64
}

func (f *fakeUploadService) UploadEventImage(_ context.Context, body io.Reader, size int64) (*domain.UploadedImage, error) {
	f.lastBody, _ = io.ReadAll(body)
	f.lastSize = size
	if f.err != nil {
		return nil, f.err
	}
	return &domain.UploadedImage{Filename: "event_x.png", Path: "/uploads/events/event_x.png", Size: size, MimeType: "image/png"}, nil
}
