package handler

import (
	"net/http"

	"github.com/dev-bsvit/blog-gpt5/internal/middleware"
	"github.com/dev-bsvit/blog-gpt5/internal/platform/metrics"
	"github.com/dev-bsvit/blog-gpt5/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InteractionHandler serves the toggle and increment endpoints the
// optimistic client controller talks to. Read endpoints never fail on a
// missing credential; write endpoints sit behind RequireAuth except the
// clap increment, which takes anonymous traffic.
type InteractionHandler struct {
	interactionUC *usecase.InteractionUseCase
	metrics       *metrics.MetricsManager
	logger        *zap.Logger
}

func NewInteractionHandler(uc *usecase.InteractionUseCase, m *metrics.MetricsManager, logger *zap.Logger) *InteractionHandler {
	return &InteractionHandler{
		interactionUC: uc,
		metrics:       m,
		logger:        logger,
	}
}

type likesResponse struct {
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

type likesTotalResponse struct {
	Likes int64 `json:"likes"`
}

type bookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type subscriptionResponse struct {
	Subscribed bool  `json:"subscribed"`
	Count      int64 `json:"count"`
}

func (h *InteractionHandler) recordHit(kind, op string) {
	if h.metrics != nil {
		h.metrics.InteractionHits.WithLabelValues(kind, op).Inc()
	}
}

func (h *InteractionHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	userID := middleware.IdentityFromContext(r.Context()).UserID
	if userID == "" {
		// Legacy hint header from the first client build; honored on this
		// read only, never trusted for writes.
		userID = r.Header.Get("X-User-Id")
	}

	state, err := h.interactionUC.LikeState(r.Context(), slug, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindLike, "read")
	noStore(w)
	respondJSON(w, http.StatusOK, likesResponse{Likes: state.Likes, Liked: state.Liked})
}

func (h *InteractionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := middleware.IdentityFromContext(r.Context())

	state, err := h.interactionUC.ToggleLike(r.Context(), slug, id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindLike, "toggle")
	noStore(w)
	respondJSON(w, http.StatusOK, likesResponse{Likes: state.Likes, Liked: state.Liked})
}

func (h *InteractionHandler) IncrementLikes(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	total, err := h.interactionUC.IncrementLikes(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindLike, "increment")
	respondJSON(w, http.StatusOK, likesTotalResponse{Likes: total})
}

func (h *InteractionHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := middleware.IdentityFromContext(r.Context())

	bookmarked, err := h.interactionUC.BookmarkState(r.Context(), slug, id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindBookmark, "read")
	noStore(w)
	respondJSON(w, http.StatusOK, bookmarkResponse{Bookmarked: bookmarked})
}

func (h *InteractionHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := middleware.IdentityFromContext(r.Context())

	bookmarked, err := h.interactionUC.ToggleBookmark(r.Context(), slug, id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindBookmark, "toggle")
	noStore(w)
	respondJSON(w, http.StatusOK, bookmarkResponse{Bookmarked: bookmarked})
}

func (h *InteractionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	id := middleware.IdentityFromContext(r.Context())

	subscribed, count, err := h.interactionUC.SubscriptionState(r.Context(), authorID, id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindSubscription, "read")
	noStore(w)
	respondJSON(w, http.StatusOK, subscriptionResponse{Subscribed: subscribed, Count: count})
}

func (h *InteractionHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	id := middleware.IdentityFromContext(r.Context())

	subscribed, count, err := h.interactionUC.ToggleSubscription(r.Context(), authorID, id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.recordHit(usecase.InteractionKindSubscription, "toggle")
	noStore(w)
	respondJSON(w, http.StatusOK, subscriptionResponse{Subscribed: subscribed, Count: count})
}
