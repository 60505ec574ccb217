package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mappamentis/application/commands/bus"
	querybus "mappamentis/application/queries/bus"
	"mappamentis/interfaces/http/rest/handlers"
	"mappamentis/interfaces/http/rest/middleware"
	"mappamentis/pkg/auth"
	"mappamentis/pkg/common"
	pkgerrors "mappamentis/pkg/errors"
	"mappamentis/pkg/observability"
)

// ReadinessCheck reports whether dependencies can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Router creates and configures the HTTP router
type Router struct {
	commandBus         *bus.CommandBus
	queryBus           *querybus.QueryBus
	errors             *pkgerrors.ErrorHandler
	validator          *auth.JWTValidator
	tracer             *observability.Tracer
	ready              ReadinessCheck
	enableCORS         bool
	rateLimitPerMinute int
	logger             *zap.Logger
}

// RouterOptions carries the optional parts of the router
type RouterOptions struct {
	// Validator enables JWT authentication on the API when set
	Validator    *auth.JWTValidator
	Tracer       *observability.Tracer
	ErrorHandler *pkgerrors.ErrorHandler
	Ready        ReadinessCheck

	EnableCORS         bool
	RateLimitPerMinute int
	Debug              bool
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
	opts RouterOptions,
) *Router {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = observability.NewTracer("mappamentis", false)
	}
	errs := opts.ErrorHandler
	if errs == nil {
		errs = pkgerrors.NewErrorHandler(logger, opts.Debug)
	}
	return &Router{
		commandBus:         commandBus,
		queryBus:           queryBus,
		errors:             errs,
		validator:          opts.Validator,
		tracer:             tracer,
		ready:              opts.Ready,
		enableCORS:         opts.EnableCORS,
		rateLimitPerMinute: opts.RateLimitPerMinute,
		logger:             logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errors.Middleware)
	router.Use(rt.tracer.Middleware)
	router.Use(chimiddleware.Timeout(30 * time.Second))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.mappamentis.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	deps := handlers.Deps{
		CommandBus:   rt.commandBus,
		QueryBus:     rt.queryBus,
		ErrorHandler: rt.errors,
		Logger:       rt.logger,
	}
	maps := handlers.NewMapHandler(deps)
	timers := handlers.NewTimerHandler(deps)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.validator != nil {
			r.Use(middleware.Authenticate(rt.validator, rt.errors, rt.logger))
		}
		if rt.rateLimitPerMinute > 0 {
			r.Use(middleware.RateLimit(rt.rateLimitPerMinute, rt.errors, rt.logger))
		}

		r.Route("/maps", func(r chi.Router) {
			r.Post("/", maps.CreateMap)
			r.Get("/", maps.ListMaps)

			r.Route("/{mapID}", func(r chi.Router) {
				r.Get("/", maps.GetMap)
				r.Put("/", maps.UpdateMap)
				r.Delete("/", maps.DeleteMap)

				r.Post("/nodes", maps.AddNode)
				r.Get("/nodes/search", maps.SearchNodes)
				r.Route("/nodes/{nodeID}", func(r chi.Router) {
					r.Get("/", maps.GetNode)
					r.Put("/", maps.UpdateNode)
					r.Delete("/", maps.RemoveNode)
					r.Post("/children", maps.AddChild)
					r.Get("/children", maps.GetChildren)
					r.Post("/notes", maps.AddNote)
					r.Put("/notes/{noteID}", maps.UpdateNote)
					r.Delete("/notes/{noteID}", maps.RemoveNote)
				})

				r.Post("/ideas", maps.CaptureIdea)

				r.Post("/links", maps.AddLink)
				r.Put("/links/{linkID}", maps.UpdateLink)
				r.Delete("/links/{linkID}", maps.RemoveLink)

				r.Post("/timers", timers.CreateTimer)
				r.Get("/timers", timers.ListTimers)
			})
		})

		r.Route("/timers/{timerID}", func(r chi.Router) {
			r.Get("/", timers.GetTimer)
			r.Delete("/", timers.DeleteTimer)
			r.Put("/durations", timers.UpdateDurations)
			r.Post("/{action}", timers.Transition)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports 503 while a dependency is unavailable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.ready != nil {
		if err := rt.ready(req.Context()); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			rt.errors.HandleStatus(w, req, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
