package router

import (
	"net/http"

	"github.com/dev-bsvit/blog-gpt5/internal/handler"
	"github.com/dev-bsvit/blog-gpt5/internal/middleware"
	"github.com/dev-bsvit/blog-gpt5/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Handlers struct {
	Article     *handler.ArticleHandler
	Comment     *handler.CommentHandler
	Interaction *handler.InteractionHandler
	User        *handler.UserHandler
	Upload      *handler.UploadHandler
}

// New wires the full /api/v1 surface. Reads go through OptionalAuth so
// anonymous viewers still get default interaction state; writes require a
// bearer token, except the clap increment which takes anonymous traffic.
func New(h Handlers, jwtSecret string, corsOrigins []string, m *metrics.MetricsManager, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))

	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Public reads with optional identity.
		api.Group(func(public chi.Router) {
			public.Use(middleware.OptionalAuth(jwtSecret))

			public.Get("/articles", h.Article.List)
			public.Get("/articles/{slug}", h.Article.Get)
			public.Get("/search", h.Article.Search)
			public.Get("/articles/{slug}/comments", h.Comment.List)
			public.Get("/articles/{slug}/likes", h.Interaction.GetLikes)
			public.Get("/articles/{slug}/bookmark", h.Interaction.GetBookmark)
			public.Get("/authors/{id}/subscription", h.Interaction.GetSubscription)

			// Claps are anonymous and unbounded.
			public.Post("/articles/{slug}/likes/increment", h.Interaction.IncrementLikes)
		})

		// Authenticated writes and per-user listings.
		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireAuth(jwtSecret, logger))

			private.Post("/articles", h.Article.Create)
			private.Put("/articles/{slug}", h.Article.Update)
			private.Delete("/articles/{slug}", h.Article.Delete)
			private.Post("/articles/{slug}/comments", h.Comment.Add)
			private.Post("/articles/{slug}/likes", h.Interaction.ToggleLike)
			private.Post("/articles/{slug}/bookmark", h.Interaction.ToggleBookmark)
			private.Post("/authors/{id}/subscription", h.Interaction.ToggleSubscription)

			private.Get("/users/me/articles", h.User.MyArticles)
			private.Get("/users/me/bookmarks", h.User.MyBookmarks)
			private.Get("/users/me/bookmarks/slugs", h.User.MyBookmarkSlugs)
			private.Get("/users/me/subscriptions", h.User.MySubscriptions)

			private.Post("/upload/cover", h.Upload.UploadCover)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-Id"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
