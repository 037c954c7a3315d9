package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByAvailability(ctx context.Context, available bool) ([]models.Product, error) {
	args := m.Called(ctx, available)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]models.Product, error) {
	args := m.Called(ctx, price)
	return args.Get(0).([]models.Product), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, "", zerolog.Nop())

	all := []models.Product{{ID: 1, Name: "Product A"}, {ID: 2, Name: "Product B"}}
	mockRepo.On("GetAll", ctx).Return(all, nil).Once()

	products, err := service.ListProducts(ctx, models.ProductFilter{})
	assert.NoError(t, err)
	assert.Equal(t, all, products)

	name := "Product A"
	filter := models.ProductFilter{Name: &name}
	mockRepo.On("Find", ctx, filter).Return(all[:1], nil).Once()

	products, err = service.ListProducts(ctx, filter)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, "", zerolog.Nop())

	expectedProduct := &models.Product{ID: 1, Name: "Product A"}

	mockRepo.On("GetByID", ctx, uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", ctx, uint(99)).Return(nil, fmt.Errorf("product with ID 99: %w", models.ErrProductNotFound)).Once()
	product, err = service.GetProductByID(ctx, 99)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductPublishesEvent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, "products", zerolog.Nop())

	newProduct := &models.Product{Name: "New Product", Price: decimal.RequireFromString("50"), Category: models.CategoryFood}

	mockRepo.On("Create", ctx, newProduct).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 10
	}).Return(nil).Once()

	var published services.ProductEvent
	mockPublisher.On("Publish", "products", services.EventProductCreated, mock.Anything).Run(func(args mock.Arguments) {
		require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &published))
	}).Return(nil).Once()

	err := service.CreateProduct(ctx, newProduct)
	assert.NoError(t, err)
	assert.Equal(t, uint(10), newProduct.ID)
	assert.Equal(t, services.EventProductCreated, published.Type)
	assert.Equal(t, uint(10), published.ProductID)
	assert.Equal(t, "50.00", published.Product["price"])
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_CreateProductFailureSkipsEvent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, "products", zerolog.Nop())

	newProduct := &models.Product{Name: "New Product"}
	mockRepo.On("Create", ctx, newProduct).Return(fmt.Errorf("database error")).Once()

	err := service.CreateProduct(ctx, newProduct)
	assert.ErrorContains(t, err, "database error")
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_PublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, "products", zerolog.Nop())

	product := &models.Product{ID: 1, Name: "Product A Updated"}
	mockRepo.On("Update", ctx, product).Return(nil).Once()
	mockPublisher.On("Publish", "products", services.EventProductUpdated, mock.Anything).Return(fmt.Errorf("channel closed")).Once()

	assert.NoError(t, service.UpdateProduct(ctx, product))
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, "", zerolog.Nop())

	missing := &models.Product{ID: 99, Name: "NonExistent"}
	mockRepo.On("Update", ctx, missing).Return(fmt.Errorf("product with ID 99 not found for update: %w", models.ErrProductNotFound)).Once()

	err := service.UpdateProduct(ctx, missing)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, "products", zerolog.Nop())

	mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	mockPublisher.On("Publish", "products", services.EventProductDeleted, mock.Anything).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, 1))

	mockRepo.On("Delete", ctx, uint(2)).Return(fmt.Errorf("connection reset")).Once()
	assert.Error(t, service.DeleteProduct(ctx, 2))

	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}
