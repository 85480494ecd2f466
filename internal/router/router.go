package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/api/auth"
	"github.com/nmtri-dev/goflix/internal/api/chapter"
	"github.com/nmtri-dev/goflix/internal/api/comment"
	"github.com/nmtri-dev/goflix/internal/api/episode"
	"github.com/nmtri-dev/goflix/internal/api/image"
	"github.com/nmtri-dev/goflix/internal/api/movie"
	"github.com/nmtri-dev/goflix/internal/api/user"
)

// Config contains the handlers the router wires up. Server-wide middleware
// (request ID, logger, recoverer, the request gate) is applied in main.go
// before this router is mounted.
type Config struct {
	AuthHandler    *auth.Handler
	MovieHandler   *movie.Handler
	ChapterHandler *chapter.Handler
	CommentHandler *comment.Handler
	EpisodeHandler *episode.Handler
	ImageHandler   *image.Handler
	UserHandler    *user.Handler
}

// SetupRouter initializes and configures the main application router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		api.SuccessResponse(w, r, http.StatusOK, nil, nil, "goflix catalog API")
	})

	// The gate has already verified an admin session for anything under
	// /cms before requests reach here.
	r.Route("/cms", func(r chi.Router) {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			api.SuccessResponse(w, r, http.StatusOK, nil, nil, "CMS")
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/me", cfg.AuthHandler.Me)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", cfg.MovieHandler.List)
			r.Post("/", cfg.MovieHandler.Create)
			r.Get("/select", cfg.MovieHandler.SelectOptions)
			r.Get("/{movieID}", cfg.MovieHandler.Get)
			r.Put("/{movieID}", cfg.MovieHandler.Update)
			r.Put("/{movieID}/status", cfg.MovieHandler.UpdateStatus)
			r.Get("/{movieID}/comments", cfg.CommentHandler.List)
			r.Post("/{movieID}/comments", cfg.CommentHandler.Create)
		})

		r.Route("/chapters", func(r chi.Router) {
			r.Get("/", cfg.ChapterHandler.List)
			r.Post("/", cfg.ChapterHandler.Create)
			r.Get("/select", cfg.ChapterHandler.SelectOptions)
			r.Put("/{chapterID}/status", cfg.ChapterHandler.UpdateStatus)
		})

		r.Route("/episodes", func(r chi.Router) {
			r.Get("/", cfg.EpisodeHandler.List)
			r.Post("/", cfg.EpisodeHandler.Create)
			r.Put("/{episodeID}/status", cfg.EpisodeHandler.UpdateStatus)
		})

		// Media-host upload callback: the host pushes the final asset URL
		// here once the file lands, so the path stays publicly reachable.
		r.Post("/upload/callback", cfg.ImageHandler.Create)

		r.Route("/images", func(r chi.Router) {
			r.Get("/", cfg.ImageHandler.List)
			r.Post("/", cfg.ImageHandler.Create)
			r.Put("/{imageID}/status", cfg.ImageHandler.UpdateStatus)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.List)
			r.Route("/{userID}/favorites", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.ListFavorites)
				r.Post("/", cfg.UserHandler.AddFavorite)
				r.Delete("/{movieID}", cfg.UserHandler.RemoveFavorite)
			})
		})
	})

	return r
}
