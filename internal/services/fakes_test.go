package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"omekan/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 5 * time.Second

// fakeEventStore is an in-memory EventRepository and RelationRepository.
type fakeEventStore struct {
	events       map[int64]*domain.EventWithOrganizer
	translations map[int64]map[string]domain.Translation
	occurrences  map[int64][]domain.Occurrence
	artistLinks  map[int64][]int64
	commLinks    map[int64][]int64
	catLinks     map[int64][]int64

	communities map[int64]domain.Community
	categories  map[int64]domain.Category
	artists     map[int64]domain.Artist

	nextID    int64
	nextOccID int64
	// createErrs are returned by successive Create calls before any succeeds.
	createErrs []error
	err        error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		events:       make(map[int64]*domain.EventWithOrganizer),
		translations: make(map[int64]map[string]domain.Translation),
		occurrences:  make(map[int64][]domain.Occurrence),
		artistLinks:  make(map[int64][]int64),
		commLinks:    make(map[int64][]int64),
		catLinks:     make(map[int64][]int64),
		communities: map[int64]domain.Community{
			1: {ID: 1, Name: "Türkisch", Slug: "tuerkisch", IsActive: true},
			2: {ID: 2, Name: "Persisch", Slug: "persisch", IsActive: true},
			3: {ID: 3, Name: "Kurdisch", Slug: "kurdisch", IsActive: true},
		},
		categories: map[int64]domain.Category{
			1: {ID: 1, Name: "Konzert", Slug: "konzert"},
			2: {ID: 2, Name: "Party", Slug: "party"},
		},
		artists: map[int64]domain.Artist{
			1: {ID: 1, Name: "Mahsa"},
			2: {ID: 2, Name: "Aynur"},
		},
		nextID:    1,
		nextOccID: 1,
	}
}

func (f *fakeEventStore) Create(_ context.Context, w *domain.EventWrite) error {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	if f.err != nil {
		return f.err
	}
	for _, e := range f.events {
		if e.Slug == w.Event.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	w.Event.ID = f.nextID
	w.Event.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.nextID++
	name := "Organizer"
	f.events[w.Event.ID] = &domain.EventWithOrganizer{Event: w.Event, OrganizerName: &name}
	f.translations[w.Event.ID] = map[string]domain.Translation{w.Translation.Language: w.Translation}
	f.storeOccurrences(w.Event.ID, w.Occurrences)
	f.artistLinks[w.Event.ID] = dedupe(w.ArtistIDs)
	f.commLinks[w.Event.ID] = dedupe(w.CommunityIDs)
	f.catLinks[w.Event.ID] = dedupe(w.CategoryIDs)
	return nil
}

func (f *fakeEventStore) storeOccurrences(eventID int64, occ []domain.Occurrence) {
	stored := make([]domain.Occurrence, len(occ))
	for i, o := range occ {
		o.ID = f.nextOccID
		f.nextOccID++
		stored[i] = o
	}
	f.occurrences[eventID] = stored
}

func (f *fakeEventStore) Update(_ context.Context, w *domain.EventWrite) error {
	if f.err != nil {
		return f.err
	}
	e, ok := f.events[w.Event.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range f.events {
		if id != w.Event.ID && other.Slug == w.Event.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	created := e.CreatedAt
	e.Event = w.Event
	e.CreatedAt = created
	f.translations[w.Event.ID][w.Translation.Language] = w.Translation
	f.storeOccurrences(w.Event.ID, w.Occurrences)
	if w.ArtistIDs != nil {
		f.artistLinks[w.Event.ID] = dedupe(w.ArtistIDs)
	}
	if w.CommunityIDs != nil {
		f.commLinks[w.Event.ID] = dedupe(w.CommunityIDs)
	}
	if w.CategoryIDs != nil {
		f.catLinks[w.Event.ID] = dedupe(w.CategoryIDs)
	}
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.events[id]; !ok {
		return false, nil
	}
	delete(f.events, id)
	delete(f.translations, id)
	delete(f.occurrences, id)
	delete(f.artistLinks, id)
	delete(f.commLinks, id)
	delete(f.catLinks, id)
	return true, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*domain.EventWithOrganizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventStore) GetBySlug(_ context.Context, slug string) (*domain.EventWithOrganizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.events {
		if e.Slug == slug {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventStore) ListSlugsWithPrefix(_ context.Context, base string) ([]string, error) {
	var out []string
	for _, e := range f.events {
		if e.Slug == base || strings.HasPrefix(e.Slug, base+"-") {
			out = append(out, e.Slug)
		}
	}
	return out, nil
}

func (f *fakeEventStore) GetTranslation(_ context.Context, eventID int64, language string) (*domain.Translation, error) {
	if f.err != nil {
		return nil, f.err
	}
	tr, ok := f.translations[eventID][language]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tr, nil
}

func (f *fakeEventStore) AddTranslation(_ context.Context, eventID int64, tr domain.Translation) error {
	if _, ok := f.translations[eventID][tr.Language]; ok {
		return domain.ErrDuplicateTranslation
	}
	f.translations[eventID][tr.Language] = tr
	return nil
}

func (f *fakeEventStore) rows(language string) []domain.EventRow {
	rows := make([]domain.EventRow, 0, len(f.events))
	for id, e := range f.events {
		row := domain.EventRow{Event: e.Event}
		if tr, ok := f.translations[id][language]; ok {
			row.Translation = &tr
		}
		for _, o := range f.occurrences[id] {
			if o.IsCancelled {
				continue
			}
			if row.StartDatetime == nil || o.StartDatetime.Before(*row.StartDatetime) {
				t := o.StartDatetime.Time
				row.StartDatetime = &t
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].StartDatetime, rows[j].StartDatetime
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func (f *fakeEventStore) List(_ context.Context, language string) ([]domain.EventRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows(language), nil
}

// Search supports text, community, category and date filters with date order.
func (f *fakeEventStore) Search(_ context.Context, filter domain.EventFilter) ([]domain.EventRow, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	q := strings.ToLower(filter.SearchText)
	var matched []domain.EventRow
	for _, r := range f.rows(filter.Language) {
		if q != "" && !rowContains(r, q) {
			continue
		}
		if filter.CommunityID != nil && !slices.Contains(f.commLinks[r.ID], *filter.CommunityID) {
			continue
		}
		if filter.CategoryID != nil && !slices.Contains(f.catLinks[r.ID], *filter.CategoryID) {
			continue
		}
		if filter.Date != nil && !f.hasOccurrenceOn(r.ID, *filter.Date) {
			continue
		}
		matched = append(matched, r)
	}
	total := len(matched)
	start := min(filter.Page.Offset, total)
	end := min(start+filter.Page.Limit, total)
	return matched[start:end], total, nil
}

func rowContains(r domain.EventRow, q string) bool {
	fields := []string{r.Slug}
	if r.Translation != nil {
		fields = append(fields, r.Translation.Title)
		if r.Translation.Description != nil {
			fields = append(fields, *r.Translation.Description)
		}
		if r.Translation.LocationName != nil {
			fields = append(fields, *r.Translation.LocationName)
		}
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func (f *fakeEventStore) hasOccurrenceOn(eventID int64, day time.Time) bool {
	next := day.AddDate(0, 0, 1)
	for _, o := range f.occurrences[eventID] {
		if !o.StartDatetime.Before(day) && o.StartDatetime.Before(next) {
			return true
		}
	}
	return false
}

func (f *fakeEventStore) LoadRelations(_ context.Context, eventID int64) (*domain.EventRelations, error) {
	if f.err != nil {
		return nil, f.err
	}
	rel := f.listRelations(eventID)
	rel.Occurrences = append(rel.Occurrences, f.occurrences[eventID]...)
	sort.SliceStable(rel.Occurrences, func(i, j int) bool {
		return rel.Occurrences[i].StartDatetime.Before(rel.Occurrences[j].StartDatetime.Time)
	})
	return rel, nil
}

func (f *fakeEventStore) LoadListRelations(_ context.Context, ids []int64) (map[int64]*domain.EventRelations, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]*domain.EventRelations, len(ids))
	for _, id := range ids {
		out[id] = f.listRelations(id)
	}
	return out, nil
}

func (f *fakeEventStore) listRelations(eventID int64) *domain.EventRelations {
	rel := domain.NewEventRelations()
	for _, id := range sortedIDs(f.commLinks[eventID]) {
		rel.Communities = append(rel.Communities, f.communities[id])
	}
	for _, id := range sortedIDs(f.catLinks[eventID]) {
		rel.Categories = append(rel.Categories, f.categories[id])
	}
	for _, id := range f.artistLinks[eventID] {
		rel.Artists = append(rel.Artists, f.artists[id])
	}
	sort.Slice(rel.Artists, func(i, j int) bool { return rel.Artists[i].Name < rel.Artists[j].Name })
	return rel
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func sortedIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

// fakeOrganizerRepo maps user ids to organizer profiles.
type fakeOrganizerRepo struct {
	byUserID map[int64]*domain.Organizer
	err      error
}

func newFakeOrganizerRepo(orgs ...*domain.Organizer) *fakeOrganizerRepo {
	f := &fakeOrganizerRepo{byUserID: make(map[int64]*domain.Organizer)}
	for _, o := range orgs {
		f.byUserID[o.UserID] = o
	}
	return f
}

func (f *fakeOrganizerRepo) GetByID(_ context.Context, id int64) (*domain.Organizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, o := range f.byUserID {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrganizerRepo) GetByUserID(_ context.Context, userID int64) (*domain.Organizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if o, ok := f.byUserID[userID]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrganizerRepo) List(_ context.Context) ([]domain.Organizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Organizer, 0, len(f.byUserID))
	for _, o := range f.byUserID {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func mustDateTime(s string) *domain.DateTime {
	dt, err := domain.ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return &dt
}
