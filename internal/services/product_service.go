package services

import (
	"context"
	"encoding/json"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
)

// Routing keys of product lifecycle events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers serialized events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductEvent is the message body published after a successful write.
type ProductEvent struct {
	Type       string         `json:"type"`
	ProductID  uint           `json:"product_id"`
	Product    map[string]any `json:"product,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	exchange  string
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, exchange string, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		exchange:  exchange,
		logger:    logger,
	}
}

// ListProducts returns the products matching filter; an empty filter lists everything.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if filter == (models.ProductFilter{}) {
		return s.repo.GetAll(ctx)
	}
	return s.repo.Find(ctx, filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct persists a new product and assigns its ID.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.publish(EventProductCreated, product.ID, product)
	return nil
}

// UpdateProduct persists changes to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.publish(EventProductUpdated, product.ID, product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, id, nil)
	return nil
}

// publish emits a lifecycle event. Failures are logged and never reach the caller.
func (s *ProductService) publish(eventType string, id uint, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := ProductEvent{
		Type:       eventType,
		ProductID:  id,
		OccurredAt: time.Now().UTC(),
	}
	if product != nil {
		event.Product = product.Serialize()
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to marshal product event")
		return
	}
	if err := s.publisher.Publish(s.exchange, eventType, body); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Uint("product_id", id).Msg("failed to publish product event")
	}
}
