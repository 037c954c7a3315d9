package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It backs DATABASE_DRIVER=memory and keeps ids monotonically increasing.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products ordered by id.
func (r *MemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{})
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product and assigns its ID.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	if product.ID == 0 {
		return errMissingID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, models.ErrProductNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

// Find returns the products matching filter ordered by id.
func (r *MemoryProductRepository) Find(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// FindByName returns all products with the given name.
func (r *MemoryProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Name: &name})
}

// FindByCategory returns all products in a category.
func (r *MemoryProductRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Category: &category})
}

// FindByAvailability returns all products with the given availability.
func (r *MemoryProductRepository) FindByAvailability(ctx context.Context, available bool) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Available: &available})
}

// FindByPrice returns all products with exactly the given price.
func (r *MemoryProductRepository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]models.Product, error) {
	return r.Find(ctx, models.ProductFilter{Price: &price})
}
