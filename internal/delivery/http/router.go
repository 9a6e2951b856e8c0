package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"omekan/internal/delivery/http/controllers"
	"omekan/internal/delivery/http/middleware"
	"omekan/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event  *controllers.EventController
	Lookup *controllers.LookupController
	Auth   *controllers.AuthController
	Admin  *controllers.AdminController
	Upload *controllers.UploadController
	Health *controllers.HealthController
	// Uploads serves locally stored images below /uploads/. Nil when an
	// object store hosts them.
	Uploads http.Handler
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it in the CORS and logging middleware.
func NewRouter(c Controllers, verifier domain.TokenVerifier, allowedOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	writer := middleware.RequireRole(verifier, domain.RoleAdmin, domain.RoleOrganizer)
	admin := middleware.RequireRole(verifier, domain.RoleAdmin)

	// Events
	mux.HandleFunc("GET /api/events", c.Event.SearchEvents)
	mux.HandleFunc("GET /api/events/list", c.Event.ListEvents)
	mux.HandleFunc("GET /api/events/{slug}", c.Event.GetEventBySlug)
	mux.HandleFunc("GET /api/events/id/{id}", c.Event.GetEventByID)
	mux.HandleFunc("GET /api/events/id/{id}/relations", c.Event.GetEventRelations)
	mux.HandleFunc("GET /api/events/id/{id}/translations/{language}", c.Event.GetEventTranslation)
	mux.HandleFunc("POST /api/events", writer(c.Event.CreateEvent))
	mux.HandleFunc("PUT /api/events/{id}", writer(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", writer(c.Event.DeleteEvent))
	mux.HandleFunc("POST /api/events/{id}/translations", writer(c.Event.AddTranslation))

	// Lookups
	mux.HandleFunc("GET /api/communities", c.Lookup.ListCommunities)
	mux.HandleFunc("GET /api/communities/{id}", c.Lookup.GetCommunity)
	mux.HandleFunc("POST /api/communities", admin(c.Lookup.CreateCommunity))
	mux.HandleFunc("PUT /api/communities/{id}", admin(c.Lookup.UpdateCommunity))
	mux.HandleFunc("DELETE /api/communities/{id}", admin(c.Lookup.DeleteCommunity))
	mux.HandleFunc("GET /api/categories", c.Lookup.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", c.Lookup.GetCategory)
	mux.HandleFunc("POST /api/categories", admin(c.Lookup.CreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", admin(c.Lookup.UpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", admin(c.Lookup.DeleteCategory))
	mux.HandleFunc("GET /api/artists", c.Lookup.ListArtists)
	mux.HandleFunc("GET /api/artists/{id}", c.Lookup.GetArtist)
	mux.HandleFunc("POST /api/artists", writer(c.Lookup.CreateArtist))

	// Auth
	mux.HandleFunc("POST /api/register", c.Auth.Register)
	mux.HandleFunc("POST /api/login", c.Auth.Login)
	mux.HandleFunc("GET /api/me", auth(c.Auth.Me))

	// Admin
	mux.HandleFunc("GET /api/admin/stats", admin(c.Admin.Stats))
	mux.HandleFunc("GET /api/admin/users", admin(c.Admin.ListUsers))
	mux.HandleFunc("GET /api/admin/organizers", admin(c.Admin.ListOrganizers))

	// Uploads
	mux.HandleFunc("POST /api/upload/event-image", writer(c.Upload.UploadEventImage))
	if c.Uploads != nil {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", c.Uploads))
	}

	mux.HandleFunc("GET /health", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
