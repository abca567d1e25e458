package cart

import (
	"testing"

	"mesob_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, price float64, qty int) models.CartItem {
	return models.CartItem{ItemID: id, Name: id, Price: price, Quantity: qty}
}

func TestAdd(t *testing.T) {
	items := Add(nil, item("doro-wat", 250, 1))
	items = Add(items, item("injera", 30, 2))
	require.Len(t, items, 2)

	// Ajouter un article déjà présent incrémente sa quantité
	items = Add(items, item("doro-wat", 250, 2))
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)

	// Une quantité nulle ou négative est ignorée
	items = Add(items, item("tibs", 180, 0))
	assert.Len(t, items, 2)
}

func TestRemove(t *testing.T) {
	items := []models.CartItem{item("a", 10, 1), item("b", 20, 2)}

	items, found := Remove(items, "a")
	assert.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ItemID)

	items, found = Remove(items, "inconnu")
	assert.False(t, found)
	assert.Len(t, items, 1)
}

func TestSetQuantity(t *testing.T) {
	items := []models.CartItem{item("a", 10, 1), item("b", 20, 2)}

	items, found := SetQuantity(items, "a", 5)
	assert.True(t, found)
	assert.Equal(t, 5, items[0].Quantity)

	// Quantité 0 = suppression, l'entrée ne doit pas rester
	items, found = SetQuantity(items, "a", 0)
	assert.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ItemID)

	_, found = SetQuantity(items, "inconnu", 3)
	assert.False(t, found)
}

func TestCountEqualsSumOfQuantities(t *testing.T) {
	var items []models.CartItem
	items = Add(items, item("a", 10, 2))
	items = Add(items, item("b", 20, 3))
	items, _ = SetQuantity(items, "a", 4)
	items = Add(items, item("c", 5, 1))
	items, _ = Remove(items, "b")

	sum := 0
	for _, it := range items {
		sum += it.Quantity
		assert.Greater(t, it.Quantity, 0)
	}
	assert.Equal(t, sum, Count(items))
	assert.Equal(t, 5, Count(items))
}

func TestTotal(t *testing.T) {
	items := []models.CartItem{item("a", 10, 2), item("b", 7.5, 4)}
	assert.InDelta(t, 50.0, Total(items), 0.001)
	assert.Zero(t, Total(nil))
}
