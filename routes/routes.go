package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/gameet/docs"
	"github.com/Dosada05/gameet/handlers"
	"github.com/Dosada05/gameet/metrics"
	"github.com/Dosada05/gameet/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Dependencies struct {
	Logger       *slog.Logger
	Auth         *middleware.Authenticator
	LoginLimiter *middleware.RateLimiter
	CORSOrigins  []string

	User        *handlers.UserHandler
	Event       *handlers.EventHandler
	Participant *handlers.ParticipantHandler
	Review      *handlers.ReviewHandler
	Game        *handlers.GameHandler
	Tag         *handlers.TagHandler
	Photo       *handlers.PhotoHandler
	Dashboard   *handlers.DashboardHandler
	WebSocket   *handlers.WebSocketHandler
	Health      *handlers.HealthHandler
}

func SetupRoutes(router chi.Router, d Dependencies) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(d.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(metrics.InstrumentHandler)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", d.Health.Check)
	router.Handle("/metrics", metrics.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(r chi.Router) {
		// Websocket connections outlive the request timeout.
		r.Get("/ws/event/{id}", d.WebSocket.ServeWs)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(30 * time.Second))

			r.Route("/user", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(d.LoginLimiter.Handler)
					r.Post("/register", d.User.Register)
					r.Post("/login", d.User.Login)
				})

				r.Group(func(r chi.Router) {
					r.Use(d.Auth.CheckJWT)
					r.Get("/me", d.User.Me)
					r.With(middleware.RequireAdmin).Get("/", d.User.List)
					r.Get("/{id}", d.User.GetByID)
					r.Patch("/{id}", d.User.Update)
					r.Delete("/{id}", d.User.Delete)
				})
			})

			r.Route("/event", func(r chi.Router) {
				r.Get("/", d.Event.List)
				r.Get("/{id}", d.Event.GetByID)
				r.Get("/{id}/participant", d.Participant.List)
				r.Get("/{id}/review", d.Review.List)

				r.Group(func(r chi.Router) {
					r.Use(d.Auth.CheckJWT)
					r.Post("/", d.Event.Create)
					r.Patch("/{id}", d.Event.Update)
					r.Delete("/{id}", d.Event.Delete)
					r.Post("/{id}/join", d.Event.Join)
					r.Post("/{id}/leave", d.Event.Leave)

					r.Post("/{id}/review", d.Review.Create)
					r.Patch("/{id}/review/{reviewID}", d.Review.Update)
					r.Delete("/{id}/review/{reviewID}", d.Review.Delete)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/{id}/participant", d.Participant.Add)
						r.Delete("/{id}/participant/{userID}", d.Participant.Remove)
					})
				})
			})

			r.Route("/game", func(r chi.Router) {
				r.Get("/", d.Game.List)
				r.Get("/{id}", d.Game.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(d.Auth.CheckJWT)
					r.Post("/", d.Game.Create)
					r.Post("/upload", d.Game.CreateWithUploads)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Patch("/{id}", d.Game.Update)
						r.Delete("/{id}", d.Game.Delete)
						r.Patch("/{id}/photo/{type}", d.Game.UpdatePhoto)
					})
				})
			})

			r.Route("/tag", func(r chi.Router) {
				r.Get("/", d.Tag.List)
				r.Get("/game/{gameID}", d.Tag.ListByGame)

				r.Group(func(r chi.Router) {
					r.Use(d.Auth.CheckJWT)
					r.Use(middleware.RequireAdmin)
					r.Post("/game/{gameID}", d.Tag.AddToGame)
					r.Delete("/game/{gameID}/{tagID}", d.Tag.RemoveFromGame)
				})
			})

			r.Route("/photo", func(r chi.Router) {
				r.Get("/{id}", d.Photo.Get)

				r.Group(func(r chi.Router) {
					r.Use(d.Auth.CheckJWT)
					r.Post("/", d.Photo.Upload)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Patch("/{id}", d.Photo.Replace)
						r.Delete("/{id}", d.Photo.Delete)
					})
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(d.Auth.CheckJWT)
				r.Use(middleware.RequireAdmin)
				r.Get("/dashboard", d.Dashboard.Stats)
			})
		})
	})
}
