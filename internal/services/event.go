package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"omekan/internal/domain"
)

const (
	// fallbackSlug is used when neither the slug nor the title yields any slug characters.
	fallbackSlug = "event"
	// slugAttempts bounds the retries when a concurrent insert takes the chosen slug.
	slugAttempts = 5

	formattedDateLayout = "02.01.2006"
	formattedTimeLayout = "15:04"
)

type eventService struct {
	eventRepo          domain.EventRepository
	relationRepo       domain.RelationRepository
	organizerRepo      domain.OrganizerRepository
	defaultLanguage    string
	defaultOrganizerID int64
	contextTimeout     time.Duration
}

// NewEventService returns the event read and write API. defaultOrganizerID is
// used for admin writes that name no organizer; zero disables it.
func NewEventService(
	eventRepo domain.EventRepository,
	relationRepo domain.RelationRepository,
	organizerRepo domain.OrganizerRepository,
	defaultLanguage string,
	defaultOrganizerID int64,
	timeout time.Duration,
) domain.EventService {
	if defaultLanguage == "" {
		defaultLanguage = domain.DefaultLanguage
	}
	return &eventService{
		eventRepo:          eventRepo,
		relationRepo:       relationRepo,
		organizerRepo:      organizerRepo,
		defaultLanguage:    defaultLanguage,
		defaultOrganizerID: defaultOrganizerID,
		contextTimeout:     timeout,
	}
}

func (s *eventService) language(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	if l == "" {
		return s.defaultLanguage
	}
	return l
}

func (s *eventService) ResolveTranslation(ctx context.Context, eventID int64, language string) (domain.Translation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return domain.Translation{}, fmt.Errorf("get event: %w", err)
	}
	return s.translationFor(ctx, &ev.Event, s.language(language))
}

// translationFor returns the stored translation or the slug fallback.
func (s *eventService) translationFor(ctx context.Context, ev *domain.Event, language string) (domain.Translation, error) {
	tr, err := s.eventRepo.GetTranslation(ctx, ev.ID, language)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.FallbackTranslation(ev.Slug, language), nil
	}
	if err != nil {
		return domain.Translation{}, fmt.Errorf("get translation: %w", err)
	}
	return domain.ResolveTranslation(ev.Slug, language, tr), nil
}

func (s *eventService) LoadRelations(ctx context.Context, eventID int64) (*domain.EventRelations, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rel, err := s.relationRepo.LoadRelations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	return rel, nil
}

func (s *eventService) ListEvents(ctx context.Context, language string) ([]domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	language = s.language(language)
	rows, err := s.eventRepo.List(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.summaries(ctx, rows, language)
}

func (s *eventService) SearchEvents(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.Language = s.language(filter.Language)
	filter.Sort = domain.ParseSortKey(string(filter.Sort))
	filter.Page = domain.NewPage(filter.Page.Limit, filter.Page.Offset)
	filter.SearchText = strings.TrimSpace(filter.SearchText)

	rows, total, err := s.eventRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	items, err := s.summaries(ctx, rows, filter.Language)
	if err != nil {
		return nil, err
	}
	return &domain.EventPage{
		Items:      items,
		Pagination: domain.NewPagination(total, filter.Page),
	}, nil
}

// summaries attaches list relations to rows and applies the translation
// fallback and hero video masking.
func (s *eventService) summaries(ctx context.Context, rows []domain.EventRow, language string) ([]domain.EventSummary, error) {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	rels, err := s.relationRepo.LoadListRelations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load list relations: %w", err)
	}

	out := make([]domain.EventSummary, 0, len(rows))
	for _, r := range rows {
		rel, ok := rels[r.ID]
		if !ok {
			rel = domain.NewEventRelations()
		}
		out = append(out, toSummary(r, rel, language))
	}
	return out, nil
}

func toSummary(r domain.EventRow, rel *domain.EventRelations, language string) domain.EventSummary {
	tr := domain.ResolveTranslation(r.Slug, language, r.Translation)
	sum := domain.EventSummary{
		ID:            r.ID,
		Slug:          r.Slug,
		Title:         tr.Title,
		Description:   tr.Description,
		LocationName:  tr.LocationName,
		AffiliateURL:  r.AffiliateURL,
		IsPromoted:    r.IsPromoted,
		HeroVideoPath: r.VisibleHeroVideo(),
		ImagePath:     r.ImagePath,
		Communities:   rel.Communities,
		Categories:    rel.Categories,
		Artists:       rel.Artists,
	}
	if r.StartDatetime != nil {
		start := domain.NewDateTime(*r.StartDatetime)
		sum.StartDatetime = &start
		sum.FormattedDate = start.Format(formattedDateLayout)
		sum.FormattedTime = start.Format(formattedTimeLayout)
	}
	return sum
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug, language string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ev, err := s.eventRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.detail(ctx, ev, s.language(language))
}

func (s *eventService) GetEventByID(ctx context.Context, id int64, language string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.detail(ctx, ev, s.language(language))
}

func (s *eventService) detail(ctx context.Context, ev *domain.EventWithOrganizer, language string) (*domain.EventDetail, error) {
	tr, err := s.translationFor(ctx, &ev.Event, language)
	if err != nil {
		return nil, err
	}
	rel, err := s.relationRepo.LoadRelations(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	return &domain.EventDetail{
		ID:            ev.ID,
		OrganizerID:   ev.OrganizerID,
		OrganizerName: ev.OrganizerName,
		Slug:          ev.Slug,
		Language:      tr.Language,
		Title:         tr.Title,
		Description:   tr.Description,
		LocationName:  tr.LocationName,
		AffiliateURL:  ev.AffiliateURL,
		IsPromoted:    ev.IsPromoted,
		HeroVideoPath: ev.VisibleHeroVideo(),
		ImagePath:     ev.ImagePath,
		CreatedAt:     ev.CreatedAt,
		Occurrences:   rel.Occurrences,
		Artists:       rel.Artists,
		Communities:   rel.Communities,
		Categories:    rel.Categories,
	}, nil
}

func (s *eventService) CreateEvent(ctx context.Context, p domain.Principal, in domain.EventInput) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.Role.CanWriteEvents() {
		return nil, domain.ErrForbidden
	}
	if err := validateEventInput(in); err != nil {
		return nil, err
	}
	organizerID, err := s.resolveOrganizer(ctx, p, in.OrganizerID)
	if err != nil {
		return nil, err
	}

	language := s.language(in.Language)
	w := buildEventWrite(in, language)
	w.Event.OrganizerID = organizerID
	// Create links every dimension; nil and empty mean the same here.
	w.ArtistIDs = nonNil(w.ArtistIDs)
	w.CommunityIDs = nonNil(w.CommunityIDs)
	w.CategoryIDs = nonNil(w.CategoryIDs)

	base := baseSlug(in.Slug, in.Title)
	for attempt := 1; ; attempt++ {
		taken, err := s.eventRepo.ListSlugsWithPrefix(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("list slugs: %w", err)
		}
		w.Event.Slug = nextFreeSlug(base, taken)

		err = s.eventRepo.Create(ctx, w)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateSlug) || attempt == slugAttempts {
			return nil, fmt.Errorf("create event: %w", err)
		}
	}

	ev, err := s.eventRepo.GetByID(ctx, w.Event.ID)
	if err != nil {
		return nil, fmt.Errorf("get created event: %w", err)
	}
	return s.detail(ctx, ev, language)
}

// UpdateEvent overwrites the event with in. Occurrences are always replaced;
// relation dimensions are replaced only when their id list is present.
func (s *eventService) UpdateEvent(ctx context.Context, p domain.Principal, id int64, in domain.EventInput) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.Role.CanWriteEvents() {
		return nil, domain.ErrForbidden
	}
	if err := validateEventInput(in); err != nil {
		return nil, err
	}
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.authorize(ctx, p, existing.OrganizerID); err != nil {
		return nil, err
	}

	language := s.language(in.Language)
	w := buildEventWrite(in, language)
	w.Event.ID = id
	w.Event.OrganizerID = existing.OrganizerID
	if in.OrganizerID != nil && *in.OrganizerID != existing.OrganizerID {
		if p.Role != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		if err := s.requireOrganizer(ctx, *in.OrganizerID); err != nil {
			return nil, err
		}
		w.Event.OrganizerID = *in.OrganizerID
	}

	w.Event.Slug = existing.Slug
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		base := baseSlug(in.Slug, in.Title)
		if base != existing.Slug {
			taken, err := s.eventRepo.ListSlugsWithPrefix(ctx, base)
			if err != nil {
				return nil, fmt.Errorf("list slugs: %w", err)
			}
			w.Event.Slug = nextFreeSlug(base, slices.DeleteFunc(taken, func(s string) bool {
				return s == existing.Slug
			}))
		}
	}

	if err := s.eventRepo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get updated event: %w", err)
	}
	return s.detail(ctx, ev, language)
}

// DeleteEvent reports false when the event does not exist.
func (s *eventService) DeleteEvent(ctx context.Context, p domain.Principal, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.Role.CanWriteEvents() {
		return false, domain.ErrForbidden
	}
	existing, err := s.eventRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get event: %w", err)
	}
	if err := s.authorize(ctx, p, existing.OrganizerID); err != nil {
		return false, err
	}

	deleted, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return deleted, nil
}

func (s *eventService) AddTranslation(ctx context.Context, p domain.Principal, id int64, in domain.TranslationInput) (*domain.Translation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.Role.CanWriteEvents() {
		return nil, domain.ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.authorize(ctx, p, existing.OrganizerID); err != nil {
		return nil, err
	}

	tr := domain.Translation{
		Language:     s.language(in.Language),
		Title:        in.Title,
		Description:  trimPtr(in.Description),
		LocationName: trimPtr(in.LocationName),
	}
	if err := s.eventRepo.AddTranslation(ctx, id, tr); err != nil {
		return nil, fmt.Errorf("add translation: %w", err)
	}
	return &tr, nil
}

// resolveOrganizer picks the organizer a new event is published under.
func (s *eventService) resolveOrganizer(ctx context.Context, p domain.Principal, requested *int64) (int64, error) {
	if p.Role == domain.RoleOrganizer {
		own, err := s.ownOrganizer(ctx, p)
		if err != nil {
			return 0, err
		}
		if requested != nil && *requested != own.ID {
			return 0, domain.ErrForbidden
		}
		return own.ID, nil
	}

	if requested != nil {
		if err := s.requireOrganizer(ctx, *requested); err != nil {
			return 0, err
		}
		return *requested, nil
	}
	own, err := s.organizerRepo.GetByUserID(ctx, p.UserID)
	if err == nil {
		return own.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("get organizer: %w", err)
	}
	if s.defaultOrganizerID > 0 {
		return s.defaultOrganizerID, nil
	}
	return 0, domain.NewValidationError("organizer_id is required")
}

func (s *eventService) ownOrganizer(ctx context.Context, p domain.Principal) (*domain.Organizer, error) {
	org, err := s.organizerRepo.GetByUserID(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: no organizer profile", domain.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	return org, nil
}

func (s *eventService) requireOrganizer(ctx context.Context, id int64) error {
	_, err := s.organizerRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("organizer_id does not exist")
	}
	if err != nil {
		return fmt.Errorf("get organizer: %w", err)
	}
	return nil
}

// authorize lets admins write any event and organizers only their own.
func (s *eventService) authorize(ctx context.Context, p domain.Principal, organizerID int64) error {
	switch p.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleOrganizer:
		own, err := s.ownOrganizer(ctx, p)
		if err != nil {
			return err
		}
		if own.ID != organizerID {
			return domain.ErrForbidden
		}
		return nil
	default:
		return domain.ErrForbidden
	}
}

func validateEventInput(in domain.EventInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.LocationName = strings.TrimSpace(in.LocationName)
	if err := validateStruct(in); err != nil {
		return err
	}
	var msgs []string
	if in.EndDatetime != nil && in.EndDatetime.Before(in.StartDatetime.Time) {
		msgs = append(msgs, "end_datetime must not be before start_datetime")
	}
	for i, o := range in.AdditionalOccurrences {
		if o.EndDatetime != nil && o.EndDatetime.Before(o.StartDatetime.Time) {
			msgs = append(msgs, fmt.Sprintf("additional_occurrences[%d].end_datetime must not be before start_datetime", i))
		}
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}

// buildEventWrite normalizes a validated payload. Slug and organizer are set by the caller.
func buildEventWrite(in domain.EventInput, language string) *domain.EventWrite {
	location := strings.TrimSpace(in.LocationName)
	w := &domain.EventWrite{
		Event: domain.Event{
			AffiliateURL:  trimPtr(in.AffiliateURL),
			IsPromoted:    in.IsPromoted,
			HeroVideoPath: trimPtr(in.HeroVideoPath),
			ImagePath:     trimPtr(in.ImagePath),
		},
		Translation: domain.Translation{
			Language:     language,
			Title:        strings.TrimSpace(in.Title),
			Description:  trimPtr(in.Description),
			LocationName: &location,
		},
		Occurrences:  []domain.Occurrence{occurrence(*in.StartDatetime, in.EndDatetime)},
		ArtistIDs:    in.ArtistIDs,
		CommunityIDs: in.CommunityIDs,
		CategoryIDs:  in.CategoryIDs,
	}
	for _, o := range in.AdditionalOccurrences {
		w.Occurrences = append(w.Occurrences, occurrence(*o.StartDatetime, o.EndDatetime))
	}
	return w
}

// occurrence defaults a missing end to the start.
func occurrence(start domain.DateTime, end *domain.DateTime) domain.Occurrence {
	o := domain.Occurrence{StartDatetime: start, EndDatetime: start}
	if end != nil {
		o.EndDatetime = *end
	}
	return o
}

func baseSlug(requested *string, title string) string {
	var base string
	if requested != nil && strings.TrimSpace(*requested) != "" {
		base = slugify(*requested)
	} else {
		base = slugify(title)
	}
	if base == "" {
		return fallbackSlug
	}
	return base
}

// trimPtr trims s and maps blank strings to nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
