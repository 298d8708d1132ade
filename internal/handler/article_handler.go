package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/middleware"
	"github.com/dev-bsvit/blog-gpt5/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	articleUC *usecase.ArticleUseCase
	logger    *zap.Logger
}

func NewArticleHandler(uc *usecase.ArticleUseCase, logger *zap.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleUC: uc,
		logger:    logger,
	}
}

type articleResponse struct {
	Slug               string   `json:"slug"`
	Title              string   `json:"title"`
	Subtitle           string   `json:"subtitle"`
	Content            string   `json:"content"`
	IsPublished        bool     `json:"is_published"`
	Likes              int64    `json:"likes"`
	Views              int64    `json:"views"`
	CommentsCount      int64    `json:"comments_count"`
	Tags               []string `json:"tags"`
	Category           string   `json:"category"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
	CreatedBy          string   `json:"created_by"`
	CreatedByName      string   `json:"created_by_name,omitempty"`
	CreatedByEmail     string   `json:"created_by_email,omitempty"`
	CreatedByPhoto     string   `json:"created_by_photo,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
}

func toArticleResponse(a *entity.Article) articleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := articleResponse{
		Slug:               a.Slug,
		Title:              a.Title,
		Subtitle:           a.Subtitle,
		Content:            a.Content,
		IsPublished:        a.IsPublished,
		Likes:              a.Likes,
		Views:              a.Views,
		CommentsCount:      a.CommentsCount,
		Tags:               tags,
		Category:           a.Category,
		ReadingTimeMinutes: a.ReadingTimeMinutes,
		CreatedBy:          a.CreatedBy,
		CreatedByName:      a.CreatedByName,
		CreatedByEmail:     a.CreatedByEmail,
		CreatedByPhoto:     a.CreatedByPhoto,
		CreatedAt:          a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !a.UpdatedAt.IsZero() {
		resp.UpdatedAt = a.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toArticleResponses(articles []*entity.Article) []articleResponse {
	out := make([]articleResponse, len(articles))
	for i, a := range articles {
		out[i] = toArticleResponse(a)
	}
	return out
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleUC.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("Failed to list articles", zap.Error(err))
		// The feed degrades to empty rather than erroring the home page.
		respondJSON(w, http.StatusOK, []articleResponse{})
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=30, stale-while-revalidate=60")
	respondJSON(w, http.StatusOK, toArticleResponses(articles))
}

type createArticleRequest struct {
	Title              string   `json:"title"`
	Subtitle           string   `json:"subtitle"`
	Content            string   `json:"content"`
	IsPublished        *bool    `json:"is_published"`
	Tags               []string `json:"tags"`
	Category           string   `json:"category"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := middleware.IdentityFromContext(r.Context())
	article, err := h.articleUC.Create(r.Context(), usecase.CreateArticleInput{
		Title:              req.Title,
		Subtitle:           req.Subtitle,
		Content:            req.Content,
		IsPublished:        req.IsPublished,
		Tags:               req.Tags,
		Category:           req.Category,
		ReadingTimeMinutes: req.ReadingTimeMinutes,
		AuthorID:           id.UserID,
		AuthorName:         id.Name,
		AuthorEmail:        id.Email,
		AuthorPhoto:        id.Photo,
	})
	if err != nil {
		h.logger.Error("Failed to create article", zap.Error(err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toArticleResponse(article))
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	article, err := h.articleUC.GetBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}
	noStore(w)
	respondJSON(w, http.StatusOK, toArticleResponse(article))
}

type updateArticleRequest struct {
	Title              *string  `json:"title"`
	Subtitle           *string  `json:"subtitle"`
	Content            *string  `json:"content"`
	IsPublished        *bool    `json:"is_published"`
	Tags               []string `json:"tags"`
	Category           *string  `json:"category"`
	ReadingTimeMinutes *int     `json:"reading_time_minutes"`
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req updateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := middleware.IdentityFromContext(r.Context())
	article, err := h.articleUC.Update(r.Context(), usecase.UpdateArticleInput{
		Slug:               slug,
		ActorID:            id.UserID,
		Title:              req.Title,
		Subtitle:           req.Subtitle,
		Content:            req.Content,
		IsPublished:        req.IsPublished,
		Tags:               req.Tags,
		Category:           req.Category,
		ReadingTimeMinutes: req.ReadingTimeMinutes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toArticleResponse(article))
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := middleware.IdentityFromContext(r.Context())

	if err := h.articleUC.Delete(r.Context(), slug, id.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	articles, err := h.articleUC.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err), zap.String("q", q))
		respondJSON(w, http.StatusOK, []articleResponse{})
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=30, stale-while-revalidate=60")
	respondJSON(w, http.StatusOK, toArticleResponses(articles))
}
