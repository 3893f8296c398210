package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "adoptme/docs"
	"adoptme/internal/adapters/storage/documents"
	"adoptme/internal/domain/adoptions"
	"adoptme/internal/domain/mocks"
	"adoptme/internal/domain/pets"
	"adoptme/internal/domain/users"
	"adoptme/internal/middleware"
	"adoptme/internal/platform/logger"
	"adoptme/internal/platform/password"
	"adoptme/internal/platform/respond"
	"adoptme/internal/ports/ratelimit"
	"adoptme/internal/ports/store"
)

type Options struct {
	Store  store.Store
	Logger logger.Logger

	// Limiter puede ser nil: sin Redis no hay rate limit en /api/mocks.
	Limiter   ratelimit.Limiter
	MockRPS   float64
	MockBurst int

	// Hasher nil usa bcrypt.DefaultCost.
	Hasher       *password.Hasher
	MockPassword string
	// MockSeed 0 = semilla aleatoria.
	MockSeed int64
}

// Services agrupa los servicios de dominio armados sobre un mismo store.
type Services struct {
	Users     *users.Service
	Pets      *pets.Service
	Adoptions *adoptions.Service
	Mocks     *mocks.Service
}

func NewServices(opts Options) Services {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = password.NewHasher(0)
	}
	mockPassword := opts.MockPassword
	if mockPassword == "" {
		mockPassword = "coder123"
	}

	usersSvc := users.NewService(documents.NewUsersRepo(opts.Store), hasher)
	petsSvc := pets.NewService(documents.NewPetsRepo(opts.Store))
	adoptionsSvc := adoptions.NewService(
		documents.NewAdoptionsRepo(opts.Store),
		usersSvc,
		petsSvc,
		log.With(map[string]any{"component": "adoptions"}),
	)
	mocksSvc := mocks.NewService(
		mocks.NewGenerator(opts.MockSeed),
		hasher,
		mockPassword,
		usersSvc,
		petsSvc,
		log.With(map[string]any{"component": "mocks"}),
	)

	return Services{
		Users:     usersSvc,
		Pets:      petsSvc,
		Adoptions: adoptionsSvc,
		Mocks:     mocksSvc,
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
		opts.Logger = log
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", healthHandler(opts.Store))
	r.Get("/apidocs/*", httpSwagger.Handler(httpSwagger.URL("/apidocs/doc.json")))

	svcs := NewServices(opts)

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		users.RegisterRoutes(api, svcs.Users)
		pets.RegisterRoutes(api, svcs.Pets)
		adoptions.RegisterRoutes(api, svcs.Adoptions)
		mocks.RegisterRoutes(api, svcs.Mocks,
			middleware.RateLimit(opts.Limiter, opts.MockRPS, opts.MockBurst, log),
		)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// healthHandler responde 503 si el store no contesta el ping.
func healthHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			respond.ErrorDetails(w, http.StatusServiceUnavailable, "store unavailable", err)
			return
		}
		respond.Message(w, http.StatusOK, "ok")
	}
}
