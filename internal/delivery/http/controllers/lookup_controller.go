package controllers

import (
	"log/slog"
	"net/http"

	"omekan/internal/delivery/http/helpers"
	"omekan/internal/domain"
)

// LookupController serves communities, categories and artists.
type LookupController struct {
	Logger  *slog.Logger
	Service domain.LookupService
}

func NewLookupController(logger *slog.Logger, svc domain.LookupService) *LookupController {
	return &LookupController{Logger: logger, Service: svc}
}

// ListCommunities godoc
// @Summary List communities
// @Tags communities
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the communities"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/communities [get]
func (c *LookupController) ListCommunities(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListCommunities(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// GetCommunity godoc
// @Summary Get a community
// @Tags communities
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} helpers.APIResponse "data contains the community"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /api/communities/{id} [get]
func (c *LookupController) GetCommunity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	community, err := c.Service.GetCommunity(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, community)
}

// CreateCommunity godoc
// @Summary Create a community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param community body domain.CommunityInput true "Community"
// @Success 201 {object} helpers.APIResponse "data contains the community"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse "slug already in use"
// @Router /api/communities [post]
func (c *LookupController) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	var in domain.CommunityInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	community, err := c.Service.CreateCommunity(r.Context(), in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, community)
}

// UpdateCommunity godoc
// @Summary Update a community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param community body domain.CommunityInput true "Community"
// @Success 200 {object} helpers.APIResponse "data contains the community"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse
// @Router /api/communities/{id} [put]
func (c *LookupController) UpdateCommunity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.CommunityInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	community, err := c.Service.UpdateCommunity(r.Context(), id, in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, community)
}

// DeleteCommunity godoc
// @Summary Delete a community
// @Description Also removes the community from every event.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /api/communities/{id} [delete]
func (c *LookupController) DeleteCommunity(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteCommunity(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "community deleted")
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the categories"
// @Router /api/categories [get]
func (c *LookupController) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListCategories(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} helpers.APIResponse "data contains the category"
// @Failure 404 {object} helpers.APIResponse
// @Router /api/categories/{id} [get]
func (c *LookupController) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	category, err := c.Service.GetCategory(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body domain.CategoryInput true "Category"
// @Success 201 {object} helpers.APIResponse "data contains the category"
// @Failure 400 {object} helpers.APIResponse
// @Failure 409 {object} helpers.APIResponse
// @Router /api/categories [post]
func (c *LookupController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	category, err := c.Service.CreateCategory(r.Context(), in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body domain.CategoryInput true "Category"
// @Success 200 {object} helpers.APIResponse "data contains the category"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /api/categories/{id} [put]
func (c *LookupController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.CategoryInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	category, err := c.Service.UpdateCategory(r.Context(), id, in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /api/categories/{id} [delete]
func (c *LookupController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteCategory(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "category deleted")
}

// ListArtists godoc
// @Summary List artists
// @Tags artists
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the artists"
// @Router /api/artists [get]
func (c *LookupController) ListArtists(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListArtists(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// GetArtist godoc
// @Summary Get an artist
// @Tags artists
// @Produce json
// @Param id path int true "Artist ID"
// @Success 200 {object} helpers.APIResponse "data contains the artist"
// @Failure 404 {object} helpers.APIResponse
// @Router /api/artists/{id} [get]
func (c *LookupController) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	artist, err := c.Service.GetArtist(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, artist)
}

// CreateArtist godoc
// @Summary Create an artist
// @Tags artists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param artist body domain.ArtistInput true "Artist"
// @Success 201 {object} helpers.APIResponse "data contains the artist"
// @Failure 400 {object} helpers.APIResponse
// @Router /api/artists [post]
func (c *LookupController) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var in domain.ArtistInput
	if !helpers.DecodeAndValidate(w, r, &in) {
		return
	}
	artist, err := c.Service.CreateArtist(r.Context(), in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, artist)
}
