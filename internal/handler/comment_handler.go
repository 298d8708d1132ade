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

type CommentHandler struct {
	commentUC *usecase.CommentUseCase
	logger    *zap.Logger
}

func NewCommentHandler(uc *usecase.CommentUseCase, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentUC: uc,
		logger:    logger,
	}
}

type commentResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

func toCommentResponse(c *entity.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Author:    c.Author,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	comments, err := h.commentUC.ListByArticle(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]commentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	noStore(w)
	respondJSON(w, http.StatusOK, out)
}

type addCommentRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := middleware.IdentityFromContext(r.Context())
	author := req.Author
	if author == "" {
		author = id.Name
	}
	if author == "" {
		author = id.Email
	}
	if author == "" {
		author = id.UserID
	}

	comment, err := h.commentUC.Add(r.Context(), usecase.AddCommentInput{
		ArticleSlug: slug,
		UserID:      id.UserID,
		Author:      author,
		Text:        req.Text,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}
