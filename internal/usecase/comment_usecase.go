package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyComment = errors.New("comment text is required")

type CommentUseCase struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	logger      *zap.Logger
}

func NewCommentUseCase(cr repository.CommentRepository, ar repository.ArticleRepository, log *zap.Logger) *CommentUseCase {
	return &CommentUseCase{
		commentRepo: cr,
		articleRepo: ar,
		logger:      log,
	}
}

func (uc *CommentUseCase) ListByArticle(ctx context.Context, slug string) ([]*entity.Comment, error) {
	if _, err := uc.articleRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.ListByArticle(ctx, slug)
	if err != nil {
		uc.logger.Error("Failed to list comments", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("CommentUseCase.ListByArticle: %w", err)
	}
	return comments, nil
}

type AddCommentInput struct {
	ArticleSlug string
	UserID      string
	Author      string
	Text        string
}

func (uc *CommentUseCase) Add(ctx context.Context, input AddCommentInput) (*entity.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	if _, err := uc.articleRepo.GetBySlug(ctx, input.ArticleSlug); err != nil {
		return nil, err
	}

	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = "User"
	}

	comment := &entity.Comment{
		ID:          uuid.New().String(),
		ArticleSlug: input.ArticleSlug,
		UserID:      input.UserID,
		Author:      author,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		uc.logger.Error("Failed to create comment", zap.Error(err), zap.String("slug", input.ArticleSlug))
		return nil, fmt.Errorf("CommentUseCase.Add: %w", err)
	}

	// Keep the denormalized counter in step. Atomic, so concurrent
	// commenters cannot lose updates.
	if _, err := uc.articleRepo.IncrementCounter(ctx, input.ArticleSlug, "comments_count", 1); err != nil {
		uc.logger.Warn("Failed to increment comments_count", zap.Error(err), zap.String("slug", input.ArticleSlug))
	}

	return comment, nil
}
