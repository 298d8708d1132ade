package handler

import (
	"net/http"

	"github.com/dev-bsvit/blog-gpt5/internal/middleware"
	"github.com/dev-bsvit/blog-gpt5/internal/usecase"
	"go.uber.org/zap"
)

// UserHandler serves the /users/me endpoints: the caller's articles,
// bookmarks and subscriptions. All of them sit behind RequireAuth.
type UserHandler struct {
	articleUC     *usecase.ArticleUseCase
	interactionUC *usecase.InteractionUseCase
	logger        *zap.Logger
}

func NewUserHandler(auc *usecase.ArticleUseCase, iuc *usecase.InteractionUseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		articleUC:     auc,
		interactionUC: iuc,
		logger:        logger,
	}
}

type slugsResponse struct {
	Slugs []string `json:"slugs"`
}

type authorsResponse struct {
	Authors []string `json:"authors"`
}

func (h *UserHandler) MyArticles(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	articles, err := h.articleUC.ListByAuthor(r.Context(), id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	noStore(w)
	respondJSON(w, http.StatusOK, toArticleResponses(articles))
}

func (h *UserHandler) MyBookmarks(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	articles, err := h.articleUC.ListBookmarked(r.Context(), id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	noStore(w)
	respondJSON(w, http.StatusOK, toArticleResponses(articles))
}

// MyBookmarkSlugs is the authoritative listing the client snapshot cache is
// replaced from wholesale on sign-in.
func (h *UserHandler) MyBookmarkSlugs(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	slugs, err := h.interactionUC.BookmarkSlugs(r.Context(), id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	noStore(w)
	respondJSON(w, http.StatusOK, slugsResponse{Slugs: slugs})
}

func (h *UserHandler) MySubscriptions(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	authors, err := h.interactionUC.SubscribedAuthors(r.Context(), id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	noStore(w)
	respondJSON(w, http.StatusOK, authorsResponse{Authors: authors})
}
