package routes

import (
	"net/http"

	"github.com/draftleague/bracket-engine/docs"
	"github.com/draftleague/bracket-engine/handlers"
	"github.com/draftleague/bracket-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	scheduleHandler *handlers.ScheduleHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/token", authHandler.IssueTokenHandler)

	router.Route("/seasons", func(r chi.Router) {
		// Bracket views are public.
		r.Get("/{seasonID}/bracket", scheduleHandler.GetSeasonBracketHandler)

		// Schedule generation is commissioner-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate([]byte(jwtSecret)))
			r.Use(middleware.RequireRole("commissioner"))
			r.Post("/{seasonID}/schedule", scheduleHandler.GenerateScheduleHandler)
			r.Delete("/{seasonID}/schedule", scheduleHandler.ClearScheduleHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))
		r.Use(middleware.RequireRole("commissioner"))
		r.Post("/{matchID}/result", matchHandler.RecordResultHandler)
	})

	router.Get("/ws/seasons/{seasonID}", webSocketHandler.ServeWs)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPISpec)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
