package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dev-bsvit/blog-gpt5/internal/config"
	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	ArticleCreatedSubject         = "article.created"
	ArticleUpdatedSubject         = "article.updated"
	ArticleDeletedSubject         = "article.deleted"
	InteractionToggledSubject     = "interaction.toggled"
	InteractionIncrementedSubject = "interaction.incremented"
)

type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

type articleDeletedPayload struct {
	Slug string `json:"slug"`
}

type interactionToggledPayload struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subject_id"`
	UserID    string `json:"user_id"`
	Value     bool   `json:"value"`
}

type interactionIncrementedPayload struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subject_id"`
	Total     int64  `json:"total"`
}

func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", zap.String("subject", sub.Subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, logger: logger}, nil
}

func (p *Publisher) Close() {
	p.nc.Close()
}

func (p *Publisher) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal NATS payload", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish NATS message", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Debug("Published NATS message", zap.String("subject", subject))
	return nil
}

func (p *Publisher) PublishArticleCreated(ctx context.Context, article *entity.Article) error {
	return p.publish(ArticleCreatedSubject, article)
}

func (p *Publisher) PublishArticleUpdated(ctx context.Context, article *entity.Article) error {
	return p.publish(ArticleUpdatedSubject, article)
}

func (p *Publisher) PublishArticleDeleted(ctx context.Context, slug string) error {
	return p.publish(ArticleDeletedSubject, articleDeletedPayload{Slug: slug})
}

func (p *Publisher) PublishInteractionToggled(ctx context.Context, kind, subjectID, userID string, value bool) error {
	return p.publish(InteractionToggledSubject, interactionToggledPayload{
		Kind:      kind,
		SubjectID: subjectID,
		UserID:    userID,
		Value:     value,
	})
}

func (p *Publisher) PublishInteractionIncremented(ctx context.Context, kind, subjectID string, total int64) error {
	return p.publish(InteractionIncrementedSubject, interactionIncrementedPayload{
		Kind:      kind,
		SubjectID: subjectID,
		Total:     total,
	})
}
