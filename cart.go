// cart.go

package main

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrDuplicateOption is returned by Add when the (id, color, size)
	// option is already in the cart. Adding never bumps quantity; callers
	// must use Increase.
	ErrDuplicateOption = errors.New("this option is already in your cart, increase quantity in cart")

	// ErrBadIndex is returned when an operation references a cart position
	// that does not exist.
	ErrBadIndex = errors.New("cart index out of range")
)

// CartStore owns the ordered list of line items. Every mutation persists
// the full cart before returning, so a restart loses at most the write in
// flight.
type CartStore struct {
	mu    sync.Mutex
	kv    *KVStore
	log   *zap.SugaredLogger
	items []LineItem
}

// NewCartStore hydrates the cart from durable storage. A missing or
// unparseable value yields an empty cart; corruption is logged, never
// surfaced.
func NewCartStore(kv *KVStore, log *zap.SugaredLogger) *CartStore {
	s := &CartStore{kv: kv, log: log, items: []LineItem{}}
	raw, ok, err := kv.Get(keyCartItems)
	if err != nil {
		log.Warnw("cart hydrate failed, starting empty", "err", err)
		return s
	}
	if !ok {
		return s
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Warnw("cart storage corrupt, starting empty", "err", err)
		return s
	}
	if items != nil {
		s.items = items
	}
	return s
}

func (s *CartStore) persist() error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return s.kv.Put(keyCartItems, string(raw))
}

// Add appends a new line item with quantity 1. It fails with
// ErrDuplicateOption, leaving the cart unchanged, if the option is already
// present.
func (s *CartStore) Add(item LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.SameOption(item.ID, item.Color, item.Size) {
			return ErrDuplicateOption
		}
	}
	item.Quantity = 1
	s.items = append(s.items, item)
	if err := s.persist(); err != nil {
		// failed adds leave the cart unchanged
		s.items = s.items[:len(s.items)-1]
		return err
	}
	return nil
}

// Increase adds 1 to the quantity at index i. No upper bound.
func (s *CartStore) Increase(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return ErrBadIndex
	}
	s.items[i].Quantity++
	return s.persist()
}

// Decrease subtracts 1 from the quantity at index i. An item at quantity 1
// is removed entirely; the cart never holds a quantity-0 entry.
func (s *CartStore) Decrease(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return ErrBadIndex
	}
	if s.items[i].Quantity > 1 {
		s.items[i].Quantity--
	} else {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return s.persist()
}

// Remove drops the item at index i regardless of quantity.
func (s *CartStore) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return ErrBadIndex
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.persist()
}

// Clear empties the cart and persists the empty state (the storage key
// stays present).
func (s *CartStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []LineItem{}
	return s.persist()
}

// Items returns a copy of the line items in insertion order.
func (s *CartStore) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem{}, s.items...)
}

// TotalQuantity is the sum of all quantities, used for the cart badge and
// discount eligibility.
func (s *CartStore) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *CartStore) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := 0.0
	for _, it := range s.items {
		subtotal += it.Price * float64(it.Quantity)
	}
	return subtotal
}
