package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/cache"
	"github.com/dev-bsvit/blog-gpt5/internal/port/events"
	"github.com/dev-bsvit/blog-gpt5/internal/port/mailer"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"go.uber.org/zap"
)

var ErrForbidden = errors.New("actor is not the owner of the article")

const (
	articleListCacheKey = "articles:list"
	defaultCategory     = "Технологии"

	// Approximate reading speed used when the author does not supply a
	// reading time.
	wordsPerMinute = 180
)

var Categories = []string{"Технологии", "Дизайн", "Бизнес"}

type ArticleUseCase struct {
	articleRepo  repository.ArticleRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	bookmarkRepo repository.BookmarkRepository
	subRepo      repository.SubscriptionRepository
	cacheRepo    cache.CacheRepository
	publisher    events.Publisher
	emailSender  mailer.EmailSender
	listTTL      time.Duration
	logger       *zap.Logger
}

func NewArticleUseCase(
	ar repository.ArticleRepository,
	cr repository.CommentRepository,
	lr repository.LikeRepository,
	br repository.BookmarkRepository,
	sr repository.SubscriptionRepository,
	cache cache.CacheRepository,
	pub events.Publisher,
	sender mailer.EmailSender,
	listTTL time.Duration,
	log *zap.Logger,
) *ArticleUseCase {
	return &ArticleUseCase{
		articleRepo:  ar,
		commentRepo:  cr,
		likeRepo:     lr,
		bookmarkRepo: br,
		subRepo:      sr,
		cacheRepo:    cache,
		publisher:    pub,
		emailSender:  sender,
		listTTL:      listTTL,
		logger:       log,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)
var wordPattern = regexp.MustCompile(`\w+`)

func Slugify(title string) string {
	s := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "untitled"
	}
	return s
}

func ReadingTimeMinutes(content string) int {
	words := len(wordPattern.FindAllString(content, -1))
	minutes := (words + wordsPerMinute/2) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

type CreateArticleInput struct {
	Title              string
	Subtitle           string
	Content            string
	IsPublished        *bool
	Tags               []string
	Category           string
	ReadingTimeMinutes int

	AuthorID    string
	AuthorName  string
	AuthorEmail string
	AuthorPhoto string
}

func (uc *ArticleUseCase) Create(ctx context.Context, input CreateArticleInput) (*entity.Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled"
	}

	slug, err := uc.uniqueSlug(ctx, Slugify(title))
	if err != nil {
		return nil, fmt.Errorf("ArticleUseCase.Create: %w", err)
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}

	minutes := input.ReadingTimeMinutes
	if minutes <= 0 {
		minutes = ReadingTimeMinutes(input.Content)
	}

	category := input.Category
	if category == "" {
		category = defaultCategory
	}

	now := time.Now().UTC()
	article := &entity.Article{
		Slug:               slug,
		Title:              title,
		Subtitle:           input.Subtitle,
		Content:            input.Content,
		IsPublished:        published,
		Tags:               input.Tags,
		Category:           category,
		ReadingTimeMinutes: minutes,
		CreatedBy:          input.AuthorID,
		CreatedByName:      input.AuthorName,
		CreatedByEmail:     input.AuthorEmail,
		CreatedByPhoto:     input.AuthorPhoto,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.articleRepo.Create(ctx, article); err != nil {
		uc.logger.Error("Failed to create article in repository", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("ArticleUseCase.Create: %w", err)
	}

	uc.invalidateListCache(ctx)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishArticleCreated(ctx, article); errPub != nil {
			uc.logger.Warn("Failed to publish article.created event", zap.Error(errPub), zap.String("slug", slug))
		}
	}

	if published {
		go uc.notifySubscribers(article)
	}

	return article, nil
}

func (uc *ArticleUseCase) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for idx := 2; ; idx++ {
		exists, err := uc.articleRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, idx)
	}
}

// notifySubscribers emails everyone following the author. Best-effort: runs
// detached from the request and only logs failures.
func (uc *ArticleUseCase) notifySubscribers(article *entity.Article) {
	if uc.emailSender == nil || uc.subRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subs, err := uc.subRepo.SubscribersByAuthor(ctx, article.CreatedBy)
	if err != nil {
		uc.logger.Warn("Failed to load subscribers for notification",
			zap.Error(err), zap.String("author_id", article.CreatedBy))
		return
	}
	if len(subs) == 0 {
		return
	}

	to := make([]string, 0, len(subs))
	for _, s := range subs {
		// Subscription records store uids; the uid doubles as the mailbox
		// address only when it looks like one.
		if strings.Contains(s.UserID, "@") {
			to = append(to, s.UserID)
		}
	}
	if len(to) == 0 {
		return
	}

	subject := fmt.Sprintf("New article: %s", article.Title)
	body := fmt.Sprintf("%s just published %q.\n\n%s", article.CreatedByName, article.Title, article.Subtitle)
	if err := uc.emailSender.SendEmail(to, subject, body); err != nil {
		uc.logger.Warn("Failed to send subscriber notification", zap.Error(err), zap.String("slug", article.Slug))
	}
}

// GetBySlug returns the article and bumps its view counter atomically. The
// returned entity already carries the bumped value.
func (uc *ArticleUseCase) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	article, err := uc.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Error("Failed to get article from repository", zap.Error(err), zap.String("slug", slug))
		}
		return nil, err
	}

	views, err := uc.articleRepo.IncrementCounter(ctx, slug, "views", 1)
	if err != nil {
		uc.logger.Warn("Failed to increment views", zap.Error(err), zap.String("slug", slug))
	} else {
		article.Views = views
	}
	return article, nil
}

type UpdateArticleInput struct {
	Slug               string
	ActorID            string
	Title              *string
	Subtitle           *string
	Content            *string
	IsPublished        *bool
	Tags               []string
	Category           *string
	ReadingTimeMinutes *int
}

func (uc *ArticleUseCase) Update(ctx context.Context, input UpdateArticleInput) (*entity.Article, error) {
	article, err := uc.articleRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if article.CreatedBy != "" && input.ActorID != "" && article.CreatedBy != input.ActorID {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		if t := strings.TrimSpace(*input.Title); t != "" {
			article.Title = t
		}
	}
	if input.Subtitle != nil {
		article.Subtitle = *input.Subtitle
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.IsPublished != nil {
		article.IsPublished = *input.IsPublished
	}
	if input.Tags != nil {
		article.Tags = input.Tags
	}
	if input.Category != nil && *input.Category != "" {
		article.Category = *input.Category
	}

	// Reading time: an explicit positive value wins; an explicit non-positive
	// value asks for a recompute; otherwise a missing stored value is filled in.
	if input.ReadingTimeMinutes != nil {
		if *input.ReadingTimeMinutes > 0 {
			article.ReadingTimeMinutes = *input.ReadingTimeMinutes
		} else {
			article.ReadingTimeMinutes = ReadingTimeMinutes(article.Content)
		}
	} else if article.ReadingTimeMinutes <= 0 {
		article.ReadingTimeMinutes = ReadingTimeMinutes(article.Content)
	}

	article.UpdatedAt = time.Now().UTC()

	if err := uc.articleRepo.Update(ctx, article); err != nil {
		uc.logger.Error("Failed to update article in repository", zap.Error(err), zap.String("slug", input.Slug))
		return nil, fmt.Errorf("ArticleUseCase.Update: %w", err)
	}

	uc.invalidateListCache(ctx)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishArticleUpdated(ctx, article); errPub != nil {
			uc.logger.Warn("Failed to publish article.updated event", zap.Error(errPub), zap.String("slug", input.Slug))
		}
	}
	return article, nil
}

func (uc *ArticleUseCase) Delete(ctx context.Context, slug, actorID string) error {
	article, err := uc.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if article.CreatedBy != "" && actorID != "" && article.CreatedBy != actorID {
		return ErrForbidden
	}

	if err := uc.articleRepo.Delete(ctx, slug); err != nil {
		uc.logger.Error("Failed to delete article from repository", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("ArticleUseCase.Delete: %w", err)
	}

	// Cascade of dependent collections. Failures are logged, not returned:
	// the article itself is already gone.
	if _, err := uc.commentRepo.DeleteByArticle(ctx, slug); err != nil {
		uc.logger.Warn("Failed to cascade comments", zap.Error(err), zap.String("slug", slug))
	}
	if _, err := uc.likeRepo.DeleteByArticle(ctx, slug); err != nil {
		uc.logger.Warn("Failed to cascade likes", zap.Error(err), zap.String("slug", slug))
	}
	if _, err := uc.bookmarkRepo.DeleteByArticle(ctx, slug); err != nil {
		uc.logger.Warn("Failed to cascade bookmarks", zap.Error(err), zap.String("slug", slug))
	}

	uc.invalidateListCache(ctx)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishArticleDeleted(ctx, slug); errPub != nil {
			uc.logger.Warn("Failed to publish article.deleted event", zap.Error(errPub), zap.String("slug", slug))
		}
	}
	return nil
}

// ListPublished serves the home feed, cached in Redis for a short TTL.
func (uc *ArticleUseCase) ListPublished(ctx context.Context) ([]*entity.Article, error) {
	if uc.cacheRepo != nil {
		if cached, err := uc.cacheRepo.Get(ctx, articleListCacheKey); err == nil {
			var articles []*entity.Article
			if unmarshalErr := json.Unmarshal(cached, &articles); unmarshalErr == nil {
				return articles, nil
			}
			// Corrupt cache entry degrades to a repository read.
			if delErr := uc.cacheRepo.Delete(ctx, articleListCacheKey); delErr != nil {
				uc.logger.Warn("Failed to delete corrupted cache entry", zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Failed to read article list from cache", zap.Error(err))
		}
	}

	articles, err := uc.articleRepo.List(ctx, true)
	if err != nil {
		uc.logger.Error("Failed to list articles from repository", zap.Error(err))
		return nil, fmt.Errorf("ArticleUseCase.ListPublished: %w", err)
	}

	if err := uc.fillCommentCounts(ctx, articles); err != nil {
		uc.logger.Warn("Failed to fill comment counts", zap.Error(err))
	}

	if uc.cacheRepo != nil {
		if data, marshalErr := json.Marshal(articles); marshalErr == nil {
			if setErr := uc.cacheRepo.Set(ctx, articleListCacheKey, data, uc.listTTL); setErr != nil {
				uc.logger.Warn("Failed to cache article list", zap.Error(setErr))
			}
		}
	}
	return articles, nil
}

// Search is a case-insensitive substring match over title, subtitle and
// content, newest first.
func (uc *ArticleUseCase) Search(ctx context.Context, query string) ([]*entity.Article, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	articles, err := uc.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.Article, 0)
	for _, a := range articles {
		hay := strings.ToLower(a.Title + "\n" + a.Subtitle + "\n" + a.Content)
		if strings.Contains(hay, q) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (uc *ArticleUseCase) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Article, error) {
	articles, err := uc.articleRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		uc.logger.Error("Failed to list author articles", zap.Error(err), zap.String("author_id", authorID))
		return nil, fmt.Errorf("ArticleUseCase.ListByAuthor: %w", err)
	}
	return articles, nil
}

// ListBookmarked joins the user's bookmark slugs with the article collection.
func (uc *ArticleUseCase) ListBookmarked(ctx context.Context, userID string) ([]*entity.Article, error) {
	slugs, err := uc.bookmarkRepo.SlugsByUser(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to list bookmark slugs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("ArticleUseCase.ListBookmarked: %w", err)
	}

	articles, err := uc.articleRepo.ListBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("ArticleUseCase.ListBookmarked: %w", err)
	}

	if err := uc.fillCommentCounts(ctx, articles); err != nil {
		uc.logger.Warn("Failed to fill comment counts", zap.Error(err))
	}
	return articles, nil
}

// fillCommentCounts prefers the denormalized comments_count field and falls
// back to counting membership records when it is absent.
func (uc *ArticleUseCase) fillCommentCounts(ctx context.Context, articles []*entity.Article) error {
	for _, a := range articles {
		if a.CommentsCount > 0 {
			continue
		}
		count, err := uc.commentRepo.CountByArticle(ctx, a.Slug)
		if err != nil {
			return err
		}
		a.CommentsCount = count
	}
	return nil
}

func (uc *ArticleUseCase) invalidateListCache(ctx context.Context) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, articleListCacheKey); err != nil {
		uc.logger.Warn("Failed to invalidate article list cache", zap.Error(err))
	}
}
