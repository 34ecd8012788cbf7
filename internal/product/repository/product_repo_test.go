package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headphonesID = uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa1")

func TestInMemoryProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("is seeded with the demo catalogue", func(t *testing.T) {
		repo := NewInMemoryProductRepository()

		products, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)

		// List is sorted by name.
		assert.Equal(t, "Mechanical Keyboard", products[0].Name)
		assert.Equal(t, "USB-C Hub", products[1].Name)
		assert.Equal(t, "Wireless Headphones", products[2].Name)

		assert.Equal(t, 0, products[1].StockQuantity)
		assert.Equal(t, 50, products[2].StockQuantity)
	})

	t.Run("unknown id fails with ErrProductNotFound", func(t *testing.T) {
		repo := NewInMemoryProductRepository()

		_, err := repo.FindByID(ctx, uuid.New())
		require.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("mutating a loaded product does not change the store", func(t *testing.T) {
		repo := NewInMemoryProductRepository()

		product, err := repo.FindByID(ctx, headphonesID)
		require.NoError(t, err)

		product.StockQuantity = 1

		reloaded, err := repo.FindByID(ctx, headphonesID)
		require.NoError(t, err)
		assert.Equal(t, 50, reloaded.StockQuantity)
	})

	t.Run("save makes the change visible", func(t *testing.T) {
		repo := NewInMemoryProductRepository()

		product, err := repo.FindByID(ctx, headphonesID)
		require.NoError(t, err)

		product.StockQuantity = 48
		require.NoError(t, repo.Save(ctx, product))

		reloaded, err := repo.FindByID(ctx, headphonesID)
		require.NoError(t, err)
		assert.Equal(t, 48, reloaded.StockQuantity)
	})

	t.Run("concurrent readers and writers do not race", func(t *testing.T) {
		repo := NewInMemoryProductRepository()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)

			go func() {
				defer wg.Done()
				_, _ = repo.FindByID(ctx, headphonesID)
				_, _ = repo.List(ctx)
			}()

			go func() {
				defer wg.Done()
				product, err := repo.FindByID(ctx, headphonesID)
				if err != nil {
					return
				}
				_ = repo.Save(ctx, product)
			}()
		}
		wg.Wait()
	})
}
