package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderLine(t *testing.T) {
	productID := uuid.New()

	t.Run("valid line", func(t *testing.T) {
		line, err := NewOrderLine(productID, 3, 10.50)
		require.NoError(t, err)

		assert.Equal(t, productID, line.ProductID)
		assert.Equal(t, 3, line.Quantity)
		assert.InDelta(t, 31.50, line.LineTotal(), 0.0001)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewOrderLine(productID, 0, 10)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := NewOrderLine(productID, -1, 10)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewOrderLine(productID, 1, -0.01)
		require.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("free product is allowed", func(t *testing.T) {
		line, err := NewOrderLine(productID, 2, 0)
		require.NoError(t, err)
		assert.Zero(t, line.LineTotal())
	})
}

func TestPlace(t *testing.T) {
	customerID := uuid.New()

	line, err := NewOrderLine(uuid.New(), 2, 149.99)
	require.NoError(t, err)

	t.Run("creates placed order and emits event", func(t *testing.T) {
		order, event, err := Place(customerID, []OrderLine{line})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, order.ID)
		assert.Equal(t, customerID, order.CustomerID)
		assert.Equal(t, OrderStatusPlaced, order.Status)
		assert.False(t, order.PlacedAt.IsZero())
		assert.Equal(t, []OrderLine{line}, order.Lines)

		assert.Equal(t, EventOrderPlaced, event.EventName())
		assert.Equal(t, order.ID, event.OrderID)
		assert.Equal(t, customerID, event.CustomerID)
		assert.Equal(t, order.PlacedAt, event.PlacedAt)
		assert.Equal(t, order.Lines, event.Lines)
	})

	t.Run("order ids are unique", func(t *testing.T) {
		first, _, err := Place(customerID, []OrderLine{line})
		require.NoError(t, err)
		second, _, err := Place(customerID, []OrderLine{line})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("empty line list", func(t *testing.T) {
		_, _, err := Place(customerID, nil)
		require.ErrorIs(t, err, ErrEmptyOrder)
	})
}
