package domain

import (
	"context"
	"time"
)

// DefaultLanguage is used when a request or payload names no language.
const DefaultLanguage = "de"

// Event is the base event row.
// swagger:model Event
type Event struct {
	ID            int64     `json:"id"`
	OrganizerID   int64     `json:"organizer_id"`
	Slug          string    `json:"slug"`
	AffiliateURL  *string   `json:"affiliate_url"`
	IsPromoted    bool      `json:"is_promoted"`
	HeroVideoPath *string   `json:"hero_video_path"`
	ImagePath     *string   `json:"image_path"`
	CreatedAt     time.Time `json:"created_at"`
}

// VisibleHeroVideo returns the hero video path only for promoted events.
func (e *Event) VisibleHeroVideo() *string {
	return MaskHeroVideo(e.IsPromoted, e.HeroVideoPath)
}

// MaskHeroVideo hides the hero video of events that are not promoted.
func MaskHeroVideo(isPromoted bool, heroVideoPath *string) *string {
	if !isPromoted {
		return nil
	}
	return heroVideoPath
}

// Translation holds the localized fields of an event for one language.
// swagger:model Translation
type Translation struct {
	Language     string  `json:"language"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	LocationName *string `json:"location_name"`
}

// FallbackTranslation is served when an event has no row for the requested language.
// There is no cross-language fallback: the slug stands in for the title.
func FallbackTranslation(slug, language string) Translation {
	return Translation{Language: language, Title: slug}
}

// ResolveTranslation returns tr when present and the slug fallback otherwise.
func ResolveTranslation(slug, language string, tr *Translation) Translation {
	if tr == nil {
		return FallbackTranslation(slug, language)
	}
	return *tr
}

// Occurrence is one concrete showtime of an event.
// swagger:model Occurrence
type Occurrence struct {
	ID            int64    `json:"id"`
	StartDatetime DateTime `json:"start_datetime"`
	EndDatetime   DateTime `json:"end_datetime"`
	IsCancelled   bool     `json:"is_cancelled"`
}

// EventRelations groups everything linked to one event.
// Every slice is non-nil, also for unknown event ids.
type EventRelations struct {
	Communities []Community  `json:"communities"`
	Categories  []Category   `json:"categories"`
	Artists     []Artist     `json:"artists"`
	Occurrences []Occurrence `json:"occurrences"`
}

// NewEventRelations returns relations with empty, non-nil collections.
func NewEventRelations() *EventRelations {
	return &EventRelations{
		Communities: []Community{},
		Categories:  []Category{},
		Artists:     []Artist{},
		Occurrences: []Occurrence{},
	}
}

// EventRow is one event as returned by the list and search queries.
// Translation is nil when the event has no row for the queried language.
type EventRow struct {
	Event
	Translation   *Translation
	StartDatetime *time.Time
}

// EventSummary is the list and search representation of an event.
// swagger:model EventSummary
type EventSummary struct {
	ID            int64       `json:"id"`
	Slug          string      `json:"slug"`
	Title         string      `json:"title"`
	Description   *string     `json:"description"`
	LocationName  *string     `json:"location_name"`
	StartDatetime *DateTime   `json:"start_datetime"`
	FormattedDate string      `json:"formatted_date,omitempty"`
	FormattedTime string      `json:"formatted_time,omitempty"`
	AffiliateURL  *string     `json:"affiliate_url"`
	IsPromoted    bool        `json:"is_promoted"`
	HeroVideoPath *string     `json:"hero_video_path"`
	ImagePath     *string     `json:"image_path"`
	Communities   []Community `json:"communities"`
	Categories    []Category  `json:"categories"`
	Artists       []Artist    `json:"artists"`
}

// EventDetail is the full client-ready record of one event.
// swagger:model EventDetail
type EventDetail struct {
	ID            int64        `json:"id"`
	OrganizerID   int64        `json:"organizer_id"`
	OrganizerName *string      `json:"organizer_name"`
	Slug          string       `json:"slug"`
	Language      string       `json:"language"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	LocationName  *string      `json:"location_name"`
	AffiliateURL  *string      `json:"affiliate_url"`
	IsPromoted    bool         `json:"is_promoted"`
	HeroVideoPath *string      `json:"hero_video_path"`
	ImagePath     *string      `json:"image_path"`
	CreatedAt     time.Time    `json:"created_at"`
	Occurrences   []Occurrence `json:"occurrences"`
	Artists       []Artist     `json:"artists"`
	Communities   []Community  `json:"communities"`
	Categories    []Category   `json:"categories"`
}

// EventWithOrganizer is an event row joined with its organizer's display name.
type EventWithOrganizer struct {
	Event
	OrganizerName *string
}

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByTitle    SortKey = "title"
	SortByLocation SortKey = "location"
)

// ParseSortKey maps unknown or empty keys to SortByDate.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByTitle, SortByLocation:
		return SortKey(s)
	default:
		return SortByDate
	}
}

// EventFilter is the input of an event search. Nil pointers do not filter.
type EventFilter struct {
	SearchText  string
	CommunityID *int64
	CategoryID  *int64
	Date        *time.Time
	Sort        SortKey
	Language    string
	Page        Page
}

// EventPage is one page of search results with pagination metadata.
type EventPage struct {
	Items      []EventSummary `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

// OccurrenceInput is an additional showtime in a write payload.
type OccurrenceInput struct {
	StartDatetime *DateTime `json:"start_datetime" validate:"required"`
	EndDatetime   *DateTime `json:"end_datetime"`
}

// EventInput is the create and update payload.
// Nil id slices leave a relation untouched on update; empty slices clear it.
// swagger:model EventInput
type EventInput struct {
	Slug                  *string           `json:"slug"`
	Title                 string            `json:"title" validate:"required,max=255"`
	Description           *string           `json:"description"`
	LocationName          string            `json:"location_name" validate:"required,max=255"`
	StartDatetime         *DateTime         `json:"start_datetime" validate:"required"`
	EndDatetime           *DateTime         `json:"end_datetime"`
	AffiliateURL          *string           `json:"affiliate_url" validate:"omitempty,url,max=500"`
	ImagePath             *string           `json:"image_path" validate:"omitempty,max=500"`
	IsPromoted            bool              `json:"is_promoted"`
	HeroVideoPath         *string           `json:"hero_video_path" validate:"omitempty,max=500"`
	ArtistIDs             []int64           `json:"artist_ids" validate:"omitempty,dive,gt=0"`
	CommunityIDs          []int64           `json:"community_ids" validate:"omitempty,dive,gt=0"`
	CategoryIDs           []int64           `json:"category_ids" validate:"omitempty,dive,gt=0"`
	Language              string            `json:"language" validate:"omitempty,min=2,max=5"`
	OrganizerID           *int64            `json:"organizer_id" validate:"omitempty,gt=0"`
	AdditionalOccurrences []OccurrenceInput `json:"additional_occurrences" validate:"omitempty,dive"`
}

// TranslationInput is the payload for adding a translation to an existing event.
// swagger:model TranslationInput
type TranslationInput struct {
	Language     string  `json:"language" validate:"required,min=2,max=5"`
	Title        string  `json:"title" validate:"required,max=255"`
	Description  *string `json:"description"`
	LocationName *string `json:"location_name" validate:"omitempty,max=255"`
}

// EventWrite is a validated, normalized write ready for storage.
type EventWrite struct {
	Event       Event
	Translation Translation
	Occurrences []Occurrence
	// Nil means "leave as is" on update.
	ArtistIDs    []int64
	CommunityIDs []int64
	CategoryIDs  []int64
}

// EventRepository persists events together with their translations, occurrences and links.
type EventRepository interface {
	// Create writes the whole aggregate in one transaction and sets w.Event.ID.
	Create(ctx context.Context, w *EventWrite) error
	// Update overwrites the aggregate in one transaction.
	Update(ctx context.Context, w *EventWrite) error
	// Delete removes the event and all dependent rows. It returns false when nothing was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*EventWithOrganizer, error)
	GetBySlug(ctx context.Context, slug string) (*EventWithOrganizer, error)
	// ListSlugsWithPrefix returns existing slugs equal to base or starting with base + "-".
	ListSlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	GetTranslation(ctx context.Context, eventID int64, language string) (*Translation, error)
	AddTranslation(ctx context.Context, eventID int64, tr Translation) error
	List(ctx context.Context, language string) ([]EventRow, error)
	Search(ctx context.Context, filter EventFilter) ([]EventRow, int, error)
}

// RelationRepository loads the relation collections of events.
type RelationRepository interface {
	LoadRelations(ctx context.Context, eventID int64) (*EventRelations, error)
	// LoadListRelations loads communities, categories and artists for many events at once.
	// Occurrences are left empty. Every requested id has an entry.
	LoadListRelations(ctx context.Context, eventIDs []int64) (map[int64]*EventRelations, error)
}

// EventService is the event read and write API.
type EventService interface {
	ResolveTranslation(ctx context.Context, eventID int64, language string) (Translation, error)
	LoadRelations(ctx context.Context, eventID int64) (*EventRelations, error)
	ListEvents(ctx context.Context, language string) ([]EventSummary, error)
	SearchEvents(ctx context.Context, filter EventFilter) (*EventPage, error)
	GetEventBySlug(ctx context.Context, slug, language string) (*EventDetail, error)
	GetEventByID(ctx context.Context, id int64, language string) (*EventDetail, error)
	CreateEvent(ctx context.Context, p Principal, in EventInput) (*EventDetail, error)
	UpdateEvent(ctx context.Context, p Principal, id int64, in EventInput) (*EventDetail, error)
	DeleteEvent(ctx context.Context, p Principal, id int64) (bool, error)
	AddTranslation(ctx context.Context, p Principal, id int64, in TranslationInput) (*Translation, error)
}
