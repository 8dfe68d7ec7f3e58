// Package client is the caller-facing facade over the whole purchase
// lifecycle: one storefront connection, the event listeners attached to
// it, the cached catalog and entitlement snapshots, and the current
// purchase/error slots.
//
// # Session lifecycle
//
//	cfg, err := client.LoadConfig()
//	if err != nil {
//		...
//	}
//	c := client.New(module, client.WithConfig(cfg))
//
//	if _, err := c.Connect(ctx); err != nil {
//		...
//	}
//	defer c.Disconnect(ctx)
//
// Connect is idempotent: a second call while connected returns the
// existing state without re-issuing the native init or re-registering
// listeners. Disconnect detaches every listener exactly once and resets
// local state even when the native end call fails.
//
// # Purchases
//
// The return value of RequestPurchase only acknowledges that the billing
// flow started. The outcome the application must act on is delivered
// asynchronously and lands in either the current-purchase or the
// current-purchase-error slot; exactly one of the two is ever set. Apps
// usually watch the streams instead of polling the slots:
//
//	token := c.PurchaseUpdatedListener(func(p iap.Purchase) {
//		// grant entitlement, then settle:
//		_ = c.FinishTransaction(ctx, p, false)
//	})
//	defer token.Remove()
//
//	_, err = c.RequestPurchase(ctx, purchase.Request{
//		IOS: &purchase.RequestIOS{SKU: "premium_monthly"},
//	}, iap.ProductTypeSubs)
//
// # Entitlements
//
// GetActiveSubscriptions and HasActiveSubscriptions never fail: transient
// fetch errors are logged and read as "no subscriptions" so UIs do not
// flicker. Callers that need to tell failure from absence should call
// GetAvailablePurchases directly and evaluate the snapshot themselves.
package client
