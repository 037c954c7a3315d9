package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/internal/repositories"
)

func TestNewProductRepository(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, closeRepo, err := newProductRepository(config.DatabaseConfig{Driver: config.DriverMemory}, zerolog.Nop())
		require.NoError(t, err)
		defer closeRepo()
		assert.IsType(t, &repositories.MemoryProductRepository{}, repo)
	})

	t.Run("sqlite", func(t *testing.T) {
		repo, closeRepo, err := newProductRepository(config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			URI:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		}, zerolog.Nop())
		require.NoError(t, err)
		defer closeRepo()
		assert.IsType(t, &repositories.GORMProductRepository{}, repo)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, _, err := newProductRepository(config.DatabaseConfig{Driver: "oracle"}, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository()

	require.NoError(t, seedProducts(ctx, repo, zerolog.Nop()))
	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)
	for _, p := range products {
		assert.NotZero(t, p.ID)
		assert.True(t, p.Category.Valid())
	}

	// A second run leaves the catalog alone.
	require.NoError(t, seedProducts(ctx, repo, zerolog.Nop()))
	products, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	food, err := repo.FindByCategory(ctx, models.CategoryFood)
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, "Big Mac", food[0].Name)
}

func TestLogProductEvent(t *testing.T) {
	handler := logProductEvent(zerolog.Nop())

	assert.NoError(t, handler(amqp.Delivery{
		RoutingKey: "product.created",
		Body:       []byte(`{"type":"product.created","product_id":7}`),
	}))
	assert.Error(t, handler(amqp.Delivery{Body: []byte("not json")}))
}
