package catalog

import (
	"slices"
	"sync"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

// Store holds the merged product and subscription snapshots accumulated
// over incremental fetches. Snapshots are returned as copies; entries are
// unique by (platform, id) and keep first-seen order.
type Store struct {
	mu            sync.RWMutex
	products      []iap.Product
	subscriptions []iap.Product
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

// Add merges fetched products into the snapshot matching their type.
func (s *Store) Add(products []iap.Product, typ iap.ProductType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if typ == iap.ProductTypeSubs {
		s.subscriptions = MergeProducts(s.subscriptions, products)
		return
	}
	s.products = MergeProducts(s.products, products)
}

// Products returns a copy of the one-time product snapshot.
func (s *Store) Products() []iap.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// Subscriptions returns a copy of the subscription product snapshot.
func (s *Store) Subscriptions() []iap.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.subscriptions)
}

// Clear drops both snapshots.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.subscriptions = nil
}
