package iap

import "time"

// Purchase is the unified purchase record for both one-time products and
// subscriptions. Exactly one of IOS / Android is non-nil, matching
// Platform. Purchases are immutable values: updates replace the record.
type Purchase struct {
	Platform           Platform
	ID                 string // product SKU
	TransactionID      string
	TransactionDate    time.Time
	TransactionReceipt string

	IOS     *PurchaseIOS
	Android *PurchaseAndroid
}

// Key returns the catalog identity of the purchased product.
func (p Purchase) Key() ProductKey {
	return ProductKey{Platform: p.Platform, ID: p.ID}
}

// Token returns the identifier a finish call needs: the transaction id on
// iOS, the purchase token on Android.
func (p Purchase) Token() string {
	if p.Platform == PlatformAndroid && p.Android != nil {
		return p.Android.PurchaseToken
	}
	return p.TransactionID
}

// PurchaseIOS carries the StoreKit 2 transaction fields.
type PurchaseIOS struct {
	ExpirationDate        *time.Time
	Environment           string // Sandbox or Production
	TransactionReason     string // PURCHASE or RENEWAL
	RevocationDate        *time.Time
	RevocationReason      string
	OriginalTransactionID string
	AppAccountToken       string
	QuantityIOS           int
	JWSRepresentation     string
}

// PurchaseAndroid carries the Play Billing purchase fields.
type PurchaseAndroid struct {
	PurchaseToken string
	// AutoRenewing is nil for one-time purchases: only subscription
	// records carry the flag, and its presence is what marks a purchase
	// as subscription-shaped.
	AutoRenewing        *bool
	PurchaseState       PurchaseState
	IsAcknowledged      bool
	PackageName         string
	OrderID             string
	ObfuscatedAccountID string
	ObfuscatedProfileID string
}

// PurchaseError is the portable purchase-flow failure delivered through
// the error listener. It implements error so it can travel through
// ordinary error plumbing, but purchase-flow failures are surfaced as
// values on the error slot rather than thrown from calls.
type PurchaseError struct {
	Code      ErrorCode
	Message   string
	ProductID string
}

func (e *PurchaseError) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}
