package client

import (
	"sync"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

// ListenerToken detaches an application listener. Remove is safe to call
// more than once.
type ListenerToken struct {
	once   sync.Once
	remove func()
}

// Remove detaches the listener. Subsequent calls are no-ops.
func (t *ListenerToken) Remove() {
	t.once.Do(t.remove)
}

// PurchaseUpdatedListener registers a handler for purchases delivered
// through the purchase-updated stream. Listeners survive
// connect/disconnect cycles; they simply receive nothing while the
// session is down.
func (c *Client) PurchaseUpdatedListener(fn func(iap.Purchase)) *ListenerToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.listenerID
	c.listenerID++
	c.purchaseListeners[id] = fn
	return &ListenerToken{remove: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.purchaseListeners, id)
	}}
}

// PurchaseErrorListener registers a handler for failures delivered
// through the purchase-error stream.
func (c *Client) PurchaseErrorListener(fn func(iap.PurchaseError)) *ListenerToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.listenerID
	c.listenerID++
	c.errorListeners[id] = fn
	return &ListenerToken{remove: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.errorListeners, id)
	}}
}

// PromotedProductListenerIOS registers a handler for App Store
// promoted-product selections. Never fires on Android.
func (c *Client) PromotedProductListenerIOS(fn func(iap.Product)) *ListenerToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.listenerID
	c.listenerID++
	c.promotedListeners[id] = fn
	return &ListenerToken{remove: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.promotedListeners, id)
	}}
}
