package services

import (
	"log"
	"sync"

	"gift-shop/models"
	"gift-shop/repositories"

	"github.com/google/uuid"
)

const (
	defaultMinQuantity = 1
	defaultMaxQuantity = 1000
)

// CartStore holds the session's cart lines and owns all quantity,
// variant and personalization merge logic. Operations never return
// errors for invalid ids or out-of-range quantities: ids that don't
// exist are no-ops and quantities are clamped. The cart is a
// convenience cache, not the system of record for checkout.
type CartStore struct {
	mu    sync.Mutex
	lines []models.CartLine
	repo  repositories.CartRepository
	newID func() string
}

// NewCartStore loads any previously persisted lines from repo. A load
// failure starts an empty cart rather than failing the whole gateway.
func NewCartStore(repo repositories.CartRepository) *CartStore {
	s := &CartStore{
		repo:  repo,
		newID: uuid.NewString,
	}

	lines, err := repo.Load()
	if err != nil {
		log.Printf("cart load error, starting empty: %v", err)
		return s
	}
	s.lines = lines
	return s
}

// AddItem merges into an existing line with the same product and
// variant selection, capping at the line's max quantity, or creates a
// new line copying the product snapshot. Returns the resulting line so
// callers can detect a silent cap.
func (s *CartStore) AddItem(product models.Product, quantity int, variants models.Variants, personalization map[string]string) models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}

	variantKey := variants.Key()
	for i := range s.lines {
		line := &s.lines[i]
		if line.ProductID == product.ID && line.Variants.Key() == variantKey {
			line.Quantity = min(line.Quantity+quantity, line.MaxQuantity)
			s.persist()
			return *line
		}
	}

	minQty := product.MinQuantity
	if minQty < 1 {
		minQty = defaultMinQuantity
	}
	maxQty := product.MaxQuantity
	if maxQty < 1 {
		maxQty = defaultMaxQuantity
	}

	line := models.CartLine{
		CartItemID:            s.newID(),
		ProductID:             product.ID,
		Name:                  product.Name,
		BasePrice:             product.BasePrice,
		CompareAtPrice:        product.CompareAtPrice,
		Images:                product.Images,
		Slug:                  product.Slug,
		MinQuantity:           minQty,
		MaxQuantity:           maxQty,
		EstimatedDeliveryDays: product.EstimatedDeliveryDays,
		Quantity:              clamp(quantity, minQty, maxQty),
		Variants:              variants,
		Personalization:       personalization,
	}
	s.lines = append(s.lines, line)
	s.persist()
	return line
}

// Increment adds one to the line's quantity, a no-op at the max or for
// an unknown id.
func (s *CartStore) Increment(cartItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		line := &s.lines[i]
		if line.CartItemID != cartItemID {
			continue
		}
		if line.Quantity >= line.MaxQuantity {
			return
		}
		line.Quantity++
		s.persist()
		return
	}
}

// Decrement subtracts one from the line's quantity. Dropping below the
// line's minimum removes the line entirely. Unknown ids are a no-op.
func (s *CartStore) Decrement(cartItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		line := &s.lines[i]
		if line.CartItemID != cartItemID {
			continue
		}
		if line.Quantity-1 < line.MinQuantity {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			line.Quantity--
		}
		s.persist()
		return
	}
}

// SetQuantity clamps the requested quantity into the line's bounds.
// The line is kept even when the clamped value differs from the
// request.
func (s *CartStore) SetQuantity(cartItemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		line := &s.lines[i]
		if line.CartItemID != cartItemID {
			continue
		}
		line.Quantity = clamp(quantity, line.MinQuantity, line.MaxQuantity)
		s.persist()
		return
	}
}

// RemoveItem removes the line unconditionally, a no-op if absent.
func (s *CartStore) RemoveItem(cartItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].CartItemID == cartItemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist()
			return
		}
	}
}

func (s *CartStore) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist()
}

// GetCartItem is a pure lookup by product and variant selection, nil if
// absent. Product-detail pages use it to decide between an "Add" button
// and a quantity stepper.
func (s *CartStore) GetCartItem(productID string, variants models.Variants) *models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	variantKey := variants.Key()
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Variants.Key() == variantKey {
			line := s.lines[i]
			return &line
		}
	}
	return nil
}

// Items returns a copy of the current lines in insertion order.
func (s *CartStore) Items() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.CartLine, len(s.lines))
	copy(items, s.lines)
	return items
}

// TotalCount is the sum of quantities across lines, recomputed on
// demand.
func (s *CartStore) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for i := range s.lines {
		total += s.lines[i].Quantity
	}
	return total
}

// Subtotal sums basePrice times quantity over current lines.
func (s *CartStore) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtotal float64
	for i := range s.lines {
		subtotal += s.lines[i].BasePrice * float64(s.lines[i].Quantity)
	}
	return subtotal
}

// persist writes the whole cart after a mutation. Failures are logged
// and swallowed: the in-memory state stays authoritative for the
// session and the next successful write catches up.
func (s *CartStore) persist() {
	if err := s.repo.Save(s.lines); err != nil {
		log.Printf("cart persist error: %v", err)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
