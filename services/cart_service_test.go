package services

import (
	"testing"

	"gift-shop/models"
	"gift-shop/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) (*CartStore, *repositories.MemoryCartRepository) {
	t.Helper()
	repo := repositories.NewMemoryCartRepository()
	return NewCartStore(repo), repo
}

func testProduct(id string) models.Product {
	return models.Product{
		ID:          id,
		Name:        "Gift Box " + id,
		BasePrice:   2500,
		MinQuantity: 1,
		MaxQuantity: 4,
	}
}

func TestAddItemMergesSameProductAndVariants(t *testing.T) {
	store, _ := newTestCart(t)
	p := testProduct("p1")
	variants := models.Variants{"color": "Black"}

	store.AddItem(p, 2, variants, nil)
	line := store.AddItem(p, 3, variants, nil)

	items := store.Items()
	require.Len(t, items, 1)
	// 2+3 capped at maxQuantity=4, silently.
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestAddItemDistinctVariantsProduceDistinctLines(t *testing.T) {
	store, _ := newTestCart(t)
	p := testProduct("p1")

	store.AddItem(p, 1, models.Variants{"color": "Black"}, nil)
	store.AddItem(p, 2, models.Variants{"color": "White"}, nil)

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
	assert.NotEqual(t, items[0].CartItemID, items[1].CartItemID)
}

func TestAddItemCopiesSnapshotAndGeneratesID(t *testing.T) {
	store, _ := newTestCart(t)
	compareAt := 3000.0
	p := testProduct("p1")
	p.CompareAtPrice = &compareAt
	p.Images = []string{"a.jpg"}
	p.EstimatedDeliveryDays = 3

	line := store.AddItem(p, 2, nil, map[string]string{"engraving": "Ada"})

	assert.NotEmpty(t, line.CartItemID)
	assert.Equal(t, "p1", line.ProductID)
	assert.Equal(t, "Gift Box p1", line.Name)
	assert.Equal(t, 2500.0, line.BasePrice)
	require.NotNil(t, line.CompareAtPrice)
	assert.Equal(t, 3000.0, *line.CompareAtPrice)
	assert.Equal(t, []string{"a.jpg"}, line.Images)
	assert.Equal(t, 3, line.EstimatedDeliveryDays)
	assert.Equal(t, "Ada", line.Personalization["engraving"])
}

func TestAddItemDefaultsQuantityBounds(t *testing.T) {
	store, _ := newTestCart(t)
	p := models.Product{ID: "p1", Name: "Gift", BasePrice: 100}

	line := store.AddItem(p, 5, nil, nil)

	assert.Equal(t, 1, line.MinQuantity)
	assert.Equal(t, 1000, line.MaxQuantity)
	assert.Equal(t, 5, line.Quantity)
}

func TestIncrementNoOpAtMax(t *testing.T) {
	store, _ := newTestCart(t)
	line := store.AddItem(testProduct("p1"), 4, nil, nil)
	require.Equal(t, 4, line.Quantity)

	store.Increment(line.CartItemID)

	assert.Equal(t, 4, store.Items()[0].Quantity)
}

func TestIncrementBelowMax(t *testing.T) {
	store, _ := newTestCart(t)
	line := store.AddItem(testProduct("p1"), 2, nil, nil)

	store.Increment(line.CartItemID)

	assert.Equal(t, 3, store.Items()[0].Quantity)
}

func TestIncrementUnknownIDSilentNoOp(t *testing.T) {
	store, _ := newTestCart(t)
	store.AddItem(testProduct("p1"), 2, nil, nil)

	store.Increment("missing")

	assert.Equal(t, 2, store.Items()[0].Quantity)
}

func TestDecrementAtMinRemovesLine(t *testing.T) {
	store, _ := newTestCart(t)
	line := store.AddItem(testProduct("p1"), 1, nil, nil)

	store.Decrement(line.CartItemID)

	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.TotalCount())
	assert.Equal(t, 0.0, store.Subtotal())
}

func TestDecrementAboveMin(t *testing.T) {
	store, _ := newTestCart(t)
	line := store.AddItem(testProduct("p1"), 3, nil, nil)

	store.Decrement(line.CartItemID)

	assert.Equal(t, 2, store.Items()[0].Quantity)
}

func TestSetQuantityClampsWithoutRemoving(t *testing.T) {
	store, _ := newTestCart(t)
	line := store.AddItem(testProduct("p1"), 2, nil, nil)

	store.SetQuantity(line.CartItemID, 99)
	assert.Equal(t, 4, store.Items()[0].Quantity)

	store.SetQuantity(line.CartItemID, 0)
	require.Len(t, store.Items(), 1)
	assert.Equal(t, 1, store.Items()[0].Quantity)
}

func TestRemoveItemUnconditional(t *testing.T) {
	store, _ := newTestCart(t)
	line := store.AddItem(testProduct("p1"), 2, nil, nil)

	store.RemoveItem(line.CartItemID)
	assert.Empty(t, store.Items())

	// Absent id is a no-op, not an error.
	store.RemoveItem(line.CartItemID)
}

func TestClearCart(t *testing.T) {
	store, _ := newTestCart(t)
	store.AddItem(testProduct("p1"), 2, nil, nil)
	store.AddItem(testProduct("p2"), 1, nil, nil)

	store.ClearCart()

	assert.Empty(t, store.Items())
}

func TestGetCartItemLookup(t *testing.T) {
	store, _ := newTestCart(t)
	variants := models.Variants{"color": "Black", "size": "M"}
	store.AddItem(testProduct("p1"), 2, variants, nil)

	found := store.GetCartItem("p1", models.Variants{"size": "M", "color": "Black"})
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Quantity)

	assert.Nil(t, store.GetCartItem("p1", models.Variants{"color": "White"}))
	assert.Nil(t, store.GetCartItem("p2", variants))
}

func TestDerivedTotals(t *testing.T) {
	store, _ := newTestCart(t)
	p1 := testProduct("p1")
	p2 := testProduct("p2")
	p2.BasePrice = 1000

	a := store.AddItem(p1, 2, nil, nil)
	store.AddItem(p2, 3, nil, nil)

	assert.Equal(t, 5, store.TotalCount())
	assert.Equal(t, 2*2500.0+3*1000.0, store.Subtotal())

	store.Decrement(a.CartItemID)
	assert.Equal(t, 4, store.TotalCount())
	assert.Equal(t, 1*2500.0+3*1000.0, store.Subtotal())

	store.RemoveItem(a.CartItemID)
	assert.Equal(t, 3, store.TotalCount())
	assert.Equal(t, 3*1000.0, store.Subtotal())
}

func TestCartPersistsAcrossReload(t *testing.T) {
	repo := repositories.NewMemoryCartRepository()
	store := NewCartStore(repo)
	store.AddItem(testProduct("p1"), 2, models.Variants{"color": "Black"}, nil)

	reloaded := NewCartStore(repo)

	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)

	// Merging still works against reloaded lines.
	reloaded.AddItem(testProduct("p1"), 1, models.Variants{"color": "Black"}, nil)
	assert.Len(t, reloaded.Items(), 1)
	assert.Equal(t, 3, reloaded.Items()[0].Quantity)
}
