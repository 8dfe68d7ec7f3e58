package client

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/yjb94/expo-iap-sub000/pkg/bridge"
	"github.com/yjb94/expo-iap-sub000/pkg/catalog"
	"github.com/yjb94/expo-iap-sub000/pkg/entitlement"
	"github.com/yjb94/expo-iap-sub000/pkg/iap"
	"github.com/yjb94/expo-iap-sub000/pkg/native"
	"github.com/yjb94/expo-iap-sub000/pkg/purchase"
)

// Client is the lifecycle controller tying the storefront connection, the
// event bridge, the catalog, and the purchase coordinator together for
// one logical session. It owns the single native connection and its
// listeners: Connect attaches them at most once, Disconnect detaches each
// exactly once, and both are idempotent.
//
// All methods are safe for concurrent use.
type Client struct {
	module      native.Module
	fetcher     *catalog.Fetcher
	coordinator *purchase.Coordinator
	store       *catalog.Store
	log         *slog.Logger
	cfg         Config

	mu          sync.Mutex
	connected   bool
	connecting  bool
	bridge      *bridge.Bridge
	attachments []*bridge.Subscription

	available            []iap.Purchase
	currentPurchase      *iap.Purchase
	currentPurchaseError *iap.PurchaseError
	promotedProduct      *iap.Product

	listenerID        int
	purchaseListeners map[int]func(iap.Purchase)
	errorListeners    map[int]func(iap.PurchaseError)
	promotedListeners map[int]func(iap.Product)
}

// New creates a client over the given native module. Panics on a nil
// module to fail fast during initialization.
func New(module native.Module, opts ...Option) *Client {
	if module == nil {
		panic("client: native module is required")
	}
	c := &Client{
		module:            module,
		store:             catalog.NewStore(),
		log:               slog.Default(),
		cfg:               DefaultConfig(),
		purchaseListeners: make(map[int]func(iap.Purchase)),
		errorListeners:    make(map[int]func(iap.PurchaseError)),
		promotedListeners: make(map[int]func(iap.Product)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fetcher = catalog.NewFetcher(module, catalog.WithLogger(c.log))
	c.coordinator = purchase.NewCoordinator(module, purchase.WithLogger(c.log))
	return c
}

// connection is the platform-independent slice of both billing bridges.
type connection interface {
	InitConnection(ctx context.Context) (bool, error)
	EndConnection(ctx context.Context) (bool, error)
}

func (c *Client) conn() (connection, error) {
	switch c.module.Platform() {
	case iap.PlatformIOS:
		return c.module.StoreKit(), nil
	case iap.PlatformAndroid:
		return c.module.PlayBilling(), nil
	default:
		return nil, fmt.Errorf("%w: %q", iap.ErrUnsupportedPlatform, c.module.Platform())
	}
}

// Connect initializes the storefront connection and attaches the event
// listeners. Calling it while already connected is a no-op returning the
// existing state: the native init is not re-issued and listeners are not
// re-registered, which prevents duplicate event delivery. A failed init
// surfaces the native error unchanged.
func (c *Client) Connect(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return true, nil
	}
	if c.connecting {
		c.mu.Unlock()
		return false, nil
	}
	c.connecting = true
	c.mu.Unlock()

	conn, err := c.conn()
	if err != nil {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
		return false, err
	}

	ok, err := conn.InitConnection(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = false
	if err != nil || !ok {
		return false, err
	}

	c.connected = true
	c.attachListeners()
	c.log.InfoContext(ctx, "storefront connected", slog.String("platform", string(c.module.Platform())))
	return true, nil
}

// attachListeners registers the session's native listeners. Caller holds
// the lock; runs at most once per connection because Connect guards it
// with the connected flag.
func (c *Client) attachListeners() {
	b := bridge.New(c.module.Emitter())
	c.bridge = b
	c.attachments = []*bridge.Subscription{
		b.Subscribe(native.EventPurchaseUpdated, c.onPurchaseUpdated),
		b.Subscribe(native.EventPurchaseError, c.onPurchaseError),
	}
	if c.module.Platform() == iap.PlatformIOS {
		c.attachments = append(c.attachments,
			b.Subscribe(native.EventPromotedProductIOS, c.onPromotedProduct))
	}
}

// Disconnect ends the storefront connection and detaches every listener
// this client attached. Local state is reset even when the native end
// call fails; such failures are logged and swallowed since the connection
// is torn down regardless.
func (c *Client) Disconnect(ctx context.Context) {
	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	for _, sub := range c.attachments {
		sub.Unsubscribe()
	}
	c.attachments = nil
	if c.bridge != nil {
		c.bridge.Close()
		c.bridge = nil
	}
	c.currentPurchase = nil
	c.currentPurchaseError = nil
	c.promotedProduct = nil
	c.mu.Unlock()

	if !wasConnected {
		return
	}

	conn, err := c.conn()
	if err != nil {
		c.log.WarnContext(ctx, "storefront disconnect skipped", slog.Any("error", err))
		return
	}
	if _, err := conn.EndConnection(ctx); err != nil {
		c.log.WarnContext(ctx, "storefront disconnect failed", slog.Any("error", err))
	}
}

// Connected reports whether the storefront connection is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// RequestProducts fetches the given SKUs from the storefront and merges
// them into the cached catalog snapshot for their type.
func (c *Client) RequestProducts(ctx context.Context, skus []string, typ iap.ProductType) ([]iap.Product, error) {
	products, err := c.fetcher.Fetch(ctx, skus, typ)
	if err != nil {
		return nil, err
	}
	c.store.Add(products, typ)
	return products, nil
}

// GetProducts fetches one-time products.
func (c *Client) GetProducts(ctx context.Context, skus []string) ([]iap.Product, error) {
	return c.RequestProducts(ctx, skus, iap.ProductTypeInApp)
}

// GetSubscriptions fetches subscription products.
func (c *Client) GetSubscriptions(ctx context.Context, skus []string) ([]iap.Product, error) {
	return c.RequestProducts(ctx, skus, iap.ProductTypeSubs)
}

// Products returns the cached one-time product snapshot.
func (c *Client) Products() []iap.Product { return c.store.Products() }

// Subscriptions returns the cached subscription product snapshot.
func (c *Client) Subscriptions() []iap.Product { return c.store.Subscriptions() }

// RequestPurchase issues a purchase request. Any previously stored
// current purchase or purchase error is cleared before the native call is
// made, so a stale result from an earlier request cannot be mistaken for
// this one's outcome. The returned purchases are informational; the
// authoritative outcome arrives through the purchase listeners.
func (c *Client) RequestPurchase(ctx context.Context, req purchase.Request, typ iap.ProductType) ([]iap.Purchase, error) {
	c.mu.Lock()
	c.currentPurchase = nil
	c.currentPurchaseError = nil
	c.mu.Unlock()

	return c.coordinator.Request(ctx, req, typ)
}

// FinishTransaction settles a delivered purchase with the storefront and,
// on success, clears it from the current-purchase slot when it is the one
// stored there.
func (c *Client) FinishTransaction(ctx context.Context, p iap.Purchase, isConsumable bool) error {
	if err := c.coordinator.Finish(ctx, p, isConsumable); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur := c.currentPurchase; cur != nil &&
		cur.Key() == p.Key() && cur.TransactionID == p.TransactionID {
		c.currentPurchase = nil
	}
	return nil
}

// GetAvailablePurchases fetches the purchases the current account is
// still entitled to and caches the snapshot for entitlement evaluation.
func (c *Client) GetAvailablePurchases(ctx context.Context) ([]iap.Purchase, error) {
	return c.fetchAvailable(ctx, c.cfg.AlsoPublishToEventListenerIOS, c.cfg.OnlyIncludeActiveItemsIOS)
}

// RestorePurchases re-syncs entitlements from the storefront, including
// expired iOS items, and returns the refreshed snapshot.
func (c *Client) RestorePurchases(ctx context.Context) ([]iap.Purchase, error) {
	return c.fetchAvailable(ctx, false, false)
}

func (c *Client) fetchAvailable(ctx context.Context, alsoPublish, onlyActive bool) ([]iap.Purchase, error) {
	raws, err := c.fetchAvailableRaw(ctx, alsoPublish, onlyActive)
	if err != nil {
		return nil, err
	}

	platform := c.module.Platform()
	purchases := make([]iap.Purchase, 0, len(raws))
	for _, raw := range raws {
		p, err := iap.PurchaseFromRaw(raw, platform)
		if err != nil {
			c.log.WarnContext(ctx, "dropping malformed available purchase",
				slog.String("sku", raw.ID), slog.Any("error", err))
			continue
		}
		purchases = append(purchases, p)
	}

	c.mu.Lock()
	c.available = purchases
	c.mu.Unlock()
	return slices.Clone(purchases), nil
}

func (c *Client) fetchAvailableRaw(ctx context.Context, alsoPublish, onlyActive bool) ([]iap.RawPurchase, error) {
	switch c.module.Platform() {
	case iap.PlatformIOS:
		return c.module.StoreKit().GetAvailableItems(ctx, alsoPublish, onlyActive)
	case iap.PlatformAndroid:
		inapp, err := c.module.PlayBilling().GetAvailableItemsByType(ctx, iap.ProductTypeInApp)
		if err != nil {
			return nil, err
		}
		subs, err := c.module.PlayBilling().GetAvailableItemsByType(ctx, iap.ProductTypeSubs)
		if err != nil {
			return nil, err
		}
		return append(inapp, subs...), nil
	default:
		return nil, fmt.Errorf("%w: %q", iap.ErrUnsupportedPlatform, c.module.Platform())
	}
}

// GetActiveSubscriptions refreshes the available-purchases snapshot and
// derives subscription activity, optionally filtered to the given product
// ids. Fetch failures are logged and yield an empty result instead of an
// error, which callers cannot distinguish from genuinely having no
// subscriptions; this mirrors how UIs consume it, preferring a blank
// state over flicker on transient failures.
func (c *Client) GetActiveSubscriptions(ctx context.Context, productIDs ...string) []entitlement.ActiveSubscription {
	if _, err := c.GetAvailablePurchases(ctx); err != nil {
		c.log.ErrorContext(ctx, "failed to refresh available purchases", slog.Any("error", err))
		return nil
	}
	return c.ActiveSubscriptions(productIDs...)
}

// HasActiveSubscriptions reports whether GetActiveSubscriptions yields
// any records. Like it, failures read as false.
func (c *Client) HasActiveSubscriptions(ctx context.Context, productIDs ...string) bool {
	return len(c.GetActiveSubscriptions(ctx, productIDs...)) > 0
}

// ActiveSubscriptions derives subscription activity from the cached
// snapshot without touching the storefront.
func (c *Client) ActiveSubscriptions(productIDs ...string) []entitlement.ActiveSubscription {
	c.mu.Lock()
	snapshot := slices.Clone(c.available)
	c.mu.Unlock()
	return entitlement.Evaluate(snapshot, time.Now(), productIDs...)
}

// AvailablePurchases returns the cached available-purchases snapshot.
func (c *Client) AvailablePurchases() []iap.Purchase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.available)
}

// CurrentPurchase returns the purchase most recently delivered through
// the purchase-updated stream, or nil. It is mutually exclusive with
// CurrentPurchaseError.
func (c *Client) CurrentPurchase() *iap.Purchase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentPurchase == nil {
		return nil
	}
	p := *c.currentPurchase
	return &p
}

// CurrentPurchaseError returns the failure most recently delivered
// through the purchase-error stream, or nil. It is mutually exclusive
// with CurrentPurchase.
func (c *Client) CurrentPurchaseError() *iap.PurchaseError {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentPurchaseError == nil {
		return nil
	}
	e := *c.currentPurchaseError
	return &e
}

// PromotedProductIOS returns the most recent App Store promoted product,
// or nil.
func (c *Client) PromotedProductIOS() *iap.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.promotedProduct == nil {
		return nil
	}
	p := *c.promotedProduct
	return &p
}

func (c *Client) onPurchaseUpdated(payload native.Payload) {
	if payload.Purchase == nil {
		return
	}
	p, err := iap.PurchaseFromRaw(*payload.Purchase, c.module.Platform())
	if err != nil {
		c.log.Warn("dropping malformed purchase event", slog.Any("error", err))
		return
	}

	c.mu.Lock()
	c.currentPurchase = &p
	c.currentPurchaseError = nil
	listeners := collectListeners(c.purchaseListeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
}

func (c *Client) onPurchaseError(payload native.Payload) {
	if payload.Error == nil {
		return
	}
	perr := iap.PurchaseError{
		Code:      iap.CodeFromRaw(payload.Error.Code, c.module.ErrorCodes()),
		Message:   payload.Error.Message,
		ProductID: payload.Error.ProductID,
	}

	c.mu.Lock()
	c.currentPurchaseError = &perr
	c.currentPurchase = nil
	listeners := collectListeners(c.errorListeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(perr)
	}
}

func (c *Client) onPromotedProduct(payload native.Payload) {
	if payload.Product == nil {
		return
	}
	p, err := iap.ProductFromRaw(*payload.Product, iap.PlatformIOS)
	if err != nil {
		c.log.Warn("dropping malformed promoted product event", slog.Any("error", err))
		return
	}

	c.mu.Lock()
	c.promotedProduct = &p
	listeners := collectListeners(c.promotedListeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
}

func collectListeners[T any](m map[int]func(T)) []func(T) {
	fns := make([]func(T), 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	return fns
}
