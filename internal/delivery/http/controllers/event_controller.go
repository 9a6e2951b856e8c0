package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"omekan/internal/delivery/http/helpers"
	"omekan/internal/delivery/http/middleware"
	"omekan/internal/domain"
)

// slugRegex matches a stored event slug.
var slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// EventSearchResponse is the success envelope for GET /api/events.
type EventSearchResponse struct {
	Status     string                `json:"status"`
	Data       []domain.EventSummary `json:"data"`
	Pagination domain.Pagination     `json:"pagination"`
}

// EventDetailResponse is the success envelope of the event detail endpoints.
type EventDetailResponse struct {
	Status string              `json:"status"`
	Data   *domain.EventDetail `json:"data"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// SearchEvents godoc
// @Summary Search events
// @Description Case-insensitive text search over title, description, location and slug, with optional community, category and date filters. Hero videos are only returned for promoted events.
// @Tags events
// @Produce json
// @Param q query string false "Search text"
// @Param community query int false "Community ID"
// @Param category query int false "Category ID"
// @Param date query string false "Day with at least one occurrence (YYYY-MM-DD)"
// @Param sort query string false "date (default), title or location"
// @Param language query string false "Translation language" default(de)
// @Param limit query int false "Page size (1-50)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} controllers.EventSearchResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events [get]
func (c *EventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		SearchText: q.Get("q"),
		Sort:       domain.ParseSortKey(q.Get("sort")),
		Language:   q.Get("language"),
		Page:       helpers.ParsePage(r),
	}
	var ok bool
	if filter.CommunityID, ok = helpers.QueryInt64(r, "community"); !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, "invalid community")
		return
	}
	if filter.CategoryID, ok = helpers.QueryInt64(r, "category"); !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, "invalid category")
		return
	}
	if s := q.Get("date"); s != "" {
		day, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.Date = &day
	}

	page, err := c.Service.SearchEvents(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONPage(w, page.Items, page.Pagination)
}

// ListEvents godoc
// @Summary List all events
// @Description All events ordered by their earliest upcoming occurrence; events without occurrences come last.
// @Tags events
// @Produce json
// @Param language query string false "Translation language" default(de)
// @Success 200 {object} helpers.APIResponse "data contains the event summaries"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/list [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListEvents(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Param language query string false "Translation language" default(de)
// @Success 200 {object} controllers.EventDetailResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(r.PathValue("slug"))
	if !slugRegex.MatchString(slug) {
		helpers.WriteJSONError(w, http.StatusBadRequest, "invalid slug")
		return
	}
	detail, err := c.Service.GetEventBySlug(r.Context(), slug, r.URL.Query().Get("language"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param language query string false "Translation language" default(de)
// @Success 200 {object} controllers.EventDetailResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/id/{id} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := c.Service.GetEventByID(r.Context(), id, r.URL.Query().Get("language"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// GetEventRelations godoc
// @Summary Get the artists, communities, categories and occurrences of an event
// @Description Unknown events yield four empty lists.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the relations"
// @Failure 400 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/id/{id}/relations [get]
func (c *EventController) GetEventRelations(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	rel, err := c.Service.LoadRelations(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rel)
}

// GetEventTranslation godoc
// @Summary Resolve the translation of an event
// @Description Returns the stored translation, or the slug as title when the language is missing.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param language path string true "Language code"
// @Success 200 {object} helpers.APIResponse "data contains the translation"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/id/{id}/translations/{language} [get]
func (c *EventController) GetEventTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	tr, err := c.Service.ResolveTranslation(r.Context(), id, r.PathValue("language"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tr)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates the event with its translation, occurrences and links in one transaction. The slug is derived from the title when omitted and suffixed when taken.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body domain.EventInput true "Event"
// @Success 201 {object} controllers.EventDetailResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	detail, err := c.Service.CreateEvent(r.Context(), p, in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites the event. Occurrences are replaced; relation lists that are present (even empty) replace the stored links.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body domain.EventInput true "Event"
// @Success 200 {object} controllers.EventDetailResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	detail, err := c.Service.UpdateEvent(r.Context(), p, id, in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event with its translations, occurrences and links.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	deleted, err := c.Service.DeleteEvent(r.Context(), p, id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if !deleted {
		helpers.WriteJSONError(w, http.StatusNotFound, "event not found")
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "event deleted")
}

// AddTranslation godoc
// @Summary Add a translation to an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param translation body domain.TranslationInput true "Translation"
// @Success 201 {object} helpers.APIResponse "data contains the translation"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse "translation already exists"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{id}/translations [post]
func (c *EventController) AddTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.TranslationInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tr, err := c.Service.AddTranslation(r.Context(), p, id, in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tr)
}
