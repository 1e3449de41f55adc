package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/middleware"
	"github.com/kusitms-com/meetupd/internal/telemetry"
)

// RouterOptions controls the construction of the meetupd HTTP router.
// Gate is required; nil services leave their routes unmounted.
type RouterOptions struct {
	Accounts AccountService
	Users    UserService
	Teams    TeamService
	Contests ContestService

	Gate          *auth.Gate
	Logger        *slog.Logger
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
}

// API binds the services to their HTTP handlers.
type API struct {
	accounts AccountService
	users    UserService
	teams    TeamService
	contests ContestService
	logger   *slog.Logger
}

// DefaultCORSOptions returns the CORS policy for the given origins.
func DefaultCORSOptions(origins ...string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
		}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", errcode.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter assembles a chi.Router with the shared middleware chain and the
// meetupd handlers mounted. The error-translation layer wraps everything
// below it, so panics from metrics, CORS, the gate, or a handler all render
// as JSON errors.
func NewRouter(opts RouterOptions) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	api := &API{
		accounts: opts.Accounts,
		users:    opts.Users,
		teams:    opts.Teams,
		contests: opts.Contests,
		logger:   logger,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ErrorTranslation(logger))
	r.Use(telemetry.MetricsMiddleware)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}
	r.Use(middleware.AuthGate(opts.Gate, logger))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteError(logger, w, req, errcode.New(errcode.RouteNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteError(logger, w, req, errcode.New(errcode.MethodNotAllowed))
	})

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/", healthHandler)
	r.Get("/api/health", healthHandler)

	h := func(fn handlerFunc) http.HandlerFunc { return handle(logger, fn) }

	if api.accounts != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/register", h(api.register))
			r.Post("/login", h(api.login))
			r.Post("/reissue", h(api.reissue))
			r.Post("/logout", h(api.logout))
		})
	}

	if api.users != nil {
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", h(api.me))
			r.Patch("/me", h(api.updateAccount))
			r.Put("/me/profile", h(api.updateProfile))
			r.Get("/mypage", h(api.mypage))
			r.Get("/profiles/{userId}", h(api.publicProfile))

			r.Get("/tickets", h(api.ticketCount))
			r.Post("/tickets", h(api.buyTickets))
			r.Post("/tickets/spend", h(api.spendTicket))
			r.Get("/tickets/check/{targetUserId}", h(api.checkTicketUsed))
		})
	}

	if api.teams != nil {
		r.Route("/api/teams", func(r chi.Router) {
			r.Get("/", h(api.listTeams))
			r.Post("/", h(api.openTeam))
			r.Get("/recruiting", h(api.recruitingTeams))
			r.Get("/contest/{contestId}", h(api.contestTeams))
			r.Get("/{teamId}", h(api.teamDetail))
			r.Post("/{teamId}/apply", h(api.applyTeam))
			r.Patch("/members/{teamUserId}/role", h(api.changeRole))
		})
	}

	if api.contests != nil {
		r.Route("/api/contests", func(r chi.Router) {
			r.Get("/search", h(api.searchContests))
			r.Get("/categories", h(api.contestCategories))
			r.Get("/detail", h(api.contestDetail))
			r.Get("/main-recommendation", h(api.recommendedContests))
		})
	}

	return r
}
