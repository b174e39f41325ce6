package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"brainwave-backend/internal/handlers"
	"brainwave-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	generateHandler *handlers.GenerateHandler,
	flashcardHandler *handlers.FlashcardHandler,
	collectionHandler *handlers.CollectionHandler,
	checkoutHandler *handlers.CheckoutHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler)

	// Every generate call costs a model call (10 req/min per IP)
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Flashcard Routes ────
		r.Route("/flashcards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", generateHandler.Generate)
			})

			r.Get("/", flashcardHandler.List)
			r.Post("/", flashcardHandler.Create)
			r.Put("/{id}", flashcardHandler.Update)
			r.Delete("/{id}", flashcardHandler.Delete)
		})

		// ──── Collection Routes ────
		r.Route("/collections", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", collectionHandler.Create)
			r.Delete("/{id}", collectionHandler.Delete)
		})

		// ──── Checkout Routes ────
		r.Route("/checkout", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/session", checkoutHandler.CreateSession)
		})
	})

	return r
}
