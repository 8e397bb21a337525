package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/chess-portal/docs"
	"github.com/Dosada05/chess-portal/handlers"
	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Forms     *handlers.FormHandler
	Organizer *handlers.OrganizerHandler
	Player    *handlers.PlayerHandler
	Profile   *handlers.ProfileHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, sessions *middleware.Sessions, allowedOrigins []string, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Group(func(r chi.Router) {
		r.Use(sessions.Handler)

		r.Get("/ws/notifications", h.WebSocket.ServeWs)

		r.Route("/api", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Auth.Login)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/session", h.Auth.Session)
				r.Post("/register/player", h.Auth.RegisterPlayer)
				r.Post("/register/organizer", h.Auth.RegisterOrganizer)
			})

			r.Get("/locations/countries", h.Forms.Countries)
			r.Get("/catalog/tournaments", h.Forms.Catalog)

			r.Route("/forms", func(r chi.Router) {
				r.Get("/{form}", h.Forms.Open)
				r.Put("/{form}/country", h.Forms.SelectCountry)
				r.Put("/{form}/city", h.Forms.SelectCity)

				r.With(middleware.Authenticate, middleware.Authorize(models.KindOrganizer)).
					Post("/edit-tournament/{id}", h.Forms.OpenEdit)
			})

			r.Route("/organizer", func(r chi.Router) {
				r.Use(middleware.Authenticate)
				r.Use(middleware.Authorize(models.KindOrganizer))

				r.Get("/dashboard", h.Organizer.Dashboard)
				r.Post("/tournaments", h.Organizer.CreateTournament)
				r.Put("/tournaments/{id}", h.Organizer.UpdateTournament)
				r.Delete("/tournaments/{id}", h.Organizer.DeleteTournament)
				r.Get("/tournaments/{id}/players", h.Organizer.EnrolledPlayers)
				r.Post("/tournaments/{id}/players/export", h.Organizer.ExportPlayers)
			})

			r.Route("/player", func(r chi.Router) {
				r.Use(middleware.Authenticate)
				r.Use(middleware.Authorize(models.KindPlayer))

				r.Get("/dashboard", h.Player.Dashboard)
				r.Get("/enrollments", h.Player.Enrollments)
				r.Post("/enrollments", h.Player.Enroll)
				r.Delete("/enrollments/{id}", h.Player.CancelEnrollment)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Use(middleware.Authenticate)

				r.Put("/", h.Profile.Update)
				r.Get("/address", h.Profile.Address)
				r.Post("/photo", h.Profile.UploadPhoto)
				r.Delete("/photo", h.Profile.DeletePhoto)
			})
		})
	})
}
