package repositories

import (
	"context"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error

	Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	FindByName(ctx context.Context, name string) ([]models.Product, error)
	FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	FindByAvailability(ctx context.Context, available bool) ([]models.Product, error)
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]models.Product, error)
}

// errMissingID is returned by Update implementations for unsaved products.
func errMissingID() error {
	return models.NewValidationError("Update called with empty ID field", nil)
}
