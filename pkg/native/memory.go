package native

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

// MemoryModule is an in-memory storefront implementing both platform
// bridges and the event emitter. It exists for tests and for development
// builds that have no device billing available: every call is counted,
// failures are injectable per call, and events can be emitted at
// arbitrary times to exercise the race between a request's return and its
// asynchronous result.
//
// All methods are safe for concurrent use.
type MemoryModule struct {
	platform iap.Platform

	mu        sync.Mutex
	connected bool
	catalog   []iap.RawProduct
	available []iap.RawPurchase
	listeners map[Event]map[int]func(Payload)
	nextID    int

	// Injectable failures, checked before the corresponding call runs.
	FailInit      error
	FailEnd       error
	FailGetItems  error
	FailBuy       error
	FailAvailable error
	FailFinish    error

	// Call counters and last-seen request shapes for assertions.
	InitCalls        int
	EndCalls         int
	GetItemsCalls    int
	BuyCalls         int
	AvailableCalls   int
	FinishCalls      int
	ConsumeCalls     int
	AcknowledgeCalls int

	LastBuyProductParams BuyProductParams
	LastBuyItemParams    BuyItemParams
}

// NewMemoryModule creates an empty in-memory storefront for the given
// platform.
func NewMemoryModule(platform iap.Platform) *MemoryModule {
	return &MemoryModule{
		platform:  platform,
		listeners: make(map[Event]map[int]func(Payload)),
	}
}

func (m *MemoryModule) Platform() iap.Platform { return m.platform }

// StoreKit returns the iOS bridge, or nil when the module is an Android
// storefront.
func (m *MemoryModule) StoreKit() StoreKit {
	if m.platform != iap.PlatformIOS {
		return nil
	}
	return (*memoryStoreKit)(m)
}

// PlayBilling returns the Android bridge, or nil when the module is an
// iOS storefront.
func (m *MemoryModule) PlayBilling() PlayBilling {
	if m.platform != iap.PlatformAndroid {
		return nil
	}
	return (*memoryPlayBilling)(m)
}

func (m *MemoryModule) Emitter() Emitter { return m }

func (m *MemoryModule) ErrorCodes() map[string]iap.ErrorCode { return DefaultErrorCodes() }

// SetCatalog replaces the storefront catalog.
func (m *MemoryModule) SetCatalog(products ...iap.RawProduct) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = slices.Clone(products)
}

// SetAvailable replaces the available-purchases snapshot the storefront
// reports.
func (m *MemoryModule) SetAvailable(purchases ...iap.RawPurchase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = slices.Clone(purchases)
}

// AddListener attaches a handler to a named event stream.
func (m *MemoryModule) AddListener(event Event, handler func(Payload)) Listener {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listeners[event] == nil {
		m.listeners[event] = make(map[int]func(Payload))
	}
	id := m.nextID
	m.nextID++
	m.listeners[event][id] = handler

	return &memoryListener{module: m, event: event, id: id}
}

// ListenerCount reports how many handlers are attached to an event
// stream.
func (m *MemoryModule) ListenerCount(event Event) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[event])
}

// Emit delivers a payload to every handler attached to the event.
// Handlers run on the calling goroutine, matching how bridge callbacks
// arrive on the single logical application thread.
func (m *MemoryModule) Emit(event Event, payload Payload) {
	m.mu.Lock()
	handlers := make([]func(Payload), 0, len(m.listeners[event]))
	for _, h := range m.listeners[event] {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

// EmitPurchaseUpdated injects a purchase-updated event.
func (m *MemoryModule) EmitPurchaseUpdated(p iap.RawPurchase) {
	m.Emit(EventPurchaseUpdated, Payload{Purchase: &p})
}

// EmitPurchaseError injects a purchase-error event.
func (m *MemoryModule) EmitPurchaseError(e iap.RawError) {
	m.Emit(EventPurchaseError, Payload{Error: &e})
}

// EmitPromotedProduct injects an iOS promoted-product event.
func (m *MemoryModule) EmitPromotedProduct(p iap.RawProduct) {
	m.Emit(EventPromotedProductIOS, Payload{Product: &p})
}

type memoryListener struct {
	module *MemoryModule
	event  Event
	id     int
	once   sync.Once
}

func (l *memoryListener) Remove() {
	l.once.Do(func() {
		l.module.mu.Lock()
		defer l.module.mu.Unlock()
		delete(l.module.listeners[l.event], l.id)
	})
}

func (m *MemoryModule) initConnection() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
	if m.FailInit != nil {
		return false, m.FailInit
	}
	m.connected = true
	return true, nil
}

func (m *MemoryModule) endConnection() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndCalls++
	m.connected = false
	if m.FailEnd != nil {
		return false, m.FailEnd
	}
	return true, nil
}

func (m *MemoryModule) itemsBySKU(skus []string) ([]iap.RawProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetItemsCalls++
	if m.FailGetItems != nil {
		return nil, m.FailGetItems
	}
	if !m.connected {
		return nil, ErrNotConnected
	}

	items := make([]iap.RawProduct, 0, len(skus))
	for _, raw := range m.catalog {
		if slices.Contains(skus, raw.ID) {
			items = append(items, raw)
		}
	}
	return items, nil
}

func (m *MemoryModule) availableItems() ([]iap.RawPurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AvailableCalls++
	if m.FailAvailable != nil {
		return nil, m.FailAvailable
	}
	if !m.connected {
		return nil, ErrNotConnected
	}
	return slices.Clone(m.available), nil
}

func (m *MemoryModule) synthesizePurchase(sku string) iap.RawPurchase {
	return iap.RawPurchase{
		ID:              sku,
		TransactionID:   uuid.NewString(),
		TransactionDate: float64(time.Now().UnixMilli()),
		Platform:        string(m.platform),
	}
}

// memoryStoreKit exposes the module as the iOS bridge.
type memoryStoreKit MemoryModule

func (s *memoryStoreKit) module() *MemoryModule { return (*MemoryModule)(s) }

func (s *memoryStoreKit) InitConnection(context.Context) (bool, error) {
	return s.module().initConnection()
}

func (s *memoryStoreKit) EndConnection(context.Context) (bool, error) {
	return s.module().endConnection()
}

func (s *memoryStoreKit) GetItems(_ context.Context, skus []string) ([]iap.RawProduct, error) {
	return s.module().itemsBySKU(skus)
}

func (s *memoryStoreKit) BuyProduct(_ context.Context, params BuyProductParams) (iap.RawPurchase, error) {
	m := s.module()
	m.mu.Lock()
	m.BuyCalls++
	m.LastBuyProductParams = params
	fail := m.FailBuy
	connected := m.connected
	m.mu.Unlock()

	if fail != nil {
		return iap.RawPurchase{}, fail
	}
	if !connected {
		return iap.RawPurchase{}, ErrNotConnected
	}

	p := m.synthesizePurchase(params.SKU)
	p.QuantityIOS = &params.Quantity
	return p, nil
}

func (s *memoryStoreKit) GetAvailableItems(_ context.Context, alsoPublishToEventListener, onlyIncludeActiveItems bool) ([]iap.RawPurchase, error) {
	m := s.module()
	items, err := m.availableItems()
	if err != nil {
		return nil, err
	}
	if onlyIncludeActiveItems {
		now := float64(time.Now().UnixMilli())
		items = slices.DeleteFunc(items, func(p iap.RawPurchase) bool {
			return p.ExpirationDateIOS != nil && *p.ExpirationDateIOS <= now
		})
	}
	if alsoPublishToEventListener {
		for _, p := range items {
			m.EmitPurchaseUpdated(p)
		}
	}
	return items, nil
}

func (s *memoryStoreKit) FinishTransaction(_ context.Context, transactionID string) error {
	m := s.module()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FinishCalls++
	if m.FailFinish != nil {
		return m.FailFinish
	}
	m.available = slices.DeleteFunc(m.available, func(p iap.RawPurchase) bool {
		return p.TransactionID == transactionID && p.ExpirationDateIOS == nil
	})
	return nil
}

// memoryPlayBilling exposes the module as the Android bridge.
type memoryPlayBilling MemoryModule

func (b *memoryPlayBilling) module() *MemoryModule { return (*MemoryModule)(b) }

func (b *memoryPlayBilling) InitConnection(context.Context) (bool, error) {
	return b.module().initConnection()
}

func (b *memoryPlayBilling) EndConnection(context.Context) (bool, error) {
	return b.module().endConnection()
}

func (b *memoryPlayBilling) GetItemsByType(_ context.Context, typ iap.ProductType, skus []string) ([]iap.RawProduct, error) {
	items, err := b.module().itemsBySKU(skus)
	if err != nil {
		return nil, err
	}
	filtered := make([]iap.RawProduct, 0, len(items))
	for _, raw := range items {
		if raw.Type == "" || raw.Type == string(typ) {
			filtered = append(filtered, raw)
		}
	}
	return filtered, nil
}

func (b *memoryPlayBilling) BuyItemByType(_ context.Context, params BuyItemParams) ([]iap.RawPurchase, error) {
	m := b.module()
	m.mu.Lock()
	m.BuyCalls++
	m.LastBuyItemParams = params
	fail := m.FailBuy
	connected := m.connected
	m.mu.Unlock()

	if fail != nil {
		return nil, fail
	}
	if !connected {
		return nil, ErrNotConnected
	}

	purchases := make([]iap.RawPurchase, 0, len(params.SKUs))
	for _, sku := range params.SKUs {
		p := m.synthesizePurchase(sku)
		p.PurchaseTokenAndroid = fmt.Sprintf("token-%s", uuid.NewString())
		state := int(iap.PurchaseStatePurchased)
		p.PurchaseStateAndroid = &state
		purchases = append(purchases, p)
	}
	return purchases, nil
}

func (b *memoryPlayBilling) GetAvailableItemsByType(_ context.Context, typ iap.ProductType) ([]iap.RawPurchase, error) {
	items, err := b.module().availableItems()
	if err != nil {
		return nil, err
	}
	// The fake stores item type through the auto-renewing marker:
	// subscriptions carry autoRenewingAndroid, one-time purchases do not.
	filtered := make([]iap.RawPurchase, 0, len(items))
	for _, p := range items {
		isSub := p.AutoRenewingAndroid != nil
		if (typ == iap.ProductTypeSubs) == isSub {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (b *memoryPlayBilling) ConsumeProduct(_ context.Context, purchaseToken string) error {
	m := b.module()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConsumeCalls++
	if m.FailFinish != nil {
		return m.FailFinish
	}
	m.available = slices.DeleteFunc(m.available, func(p iap.RawPurchase) bool {
		return p.PurchaseTokenAndroid == purchaseToken
	})
	return nil
}

func (b *memoryPlayBilling) AcknowledgePurchase(_ context.Context, purchaseToken string) error {
	m := b.module()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcknowledgeCalls++
	if m.FailFinish != nil {
		return m.FailFinish
	}
	for i := range m.available {
		if m.available[i].PurchaseTokenAndroid == purchaseToken {
			acked := true
			m.available[i].IsAcknowledgedAndroid = &acked
		}
	}
	return nil
}
