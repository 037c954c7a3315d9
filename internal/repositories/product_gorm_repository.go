package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// updatableColumns lists the business columns written by Update.
var updatableColumns = []string{"name", "description", "price", "available", "category"}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product and assigns its ID.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the business fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		return errMissingID()
	}

	db := r.db.WithContext(ctx)
	// Select forces zero values such as available=false to be written.
	res := db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select(updatableColumns).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports changed rather than matched rows, so an unchanged
	// product also lands here.
	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product %d: %w", product.ID, err)
	}
	if count == 0 {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, models.ErrProductNotFound)
	}
	return nil
}

// Delete removes a product by its ID. Deleting a missing product is not an error.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// Find returns the products matching every set field of filter.
func (r *GORMProductRepository) Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}
	if filter.Price != nil {
		query = query.Where("price = ?", *filter.Price)
	}

	var products []models.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// FindByName returns all products with the given name.
func (r *GORMProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Name: &name})
}

// FindByCategory returns all products in a category.
func (r *GORMProductRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Category: &category})
}

// FindByAvailability returns all products with the given availability.
func (r *GORMProductRepository) FindByAvailability(ctx context.Context, available bool) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Available: &available})
}

// FindByPrice returns all products with exactly the given price.
func (r *GORMProductRepository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Price: &price})
}
