package iap

// Platform discriminates the two supported storefronts.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Valid reports whether the platform is one of the supported storefronts.
func (p Platform) Valid() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// ProductType distinguishes one-time purchases from subscriptions. The
// string values match what the native layers expect on the wire.
type ProductType string

const (
	ProductTypeInApp ProductType = "inapp"
	ProductTypeSubs  ProductType = "subs"
)

// ProductKey is the catalog identity of a product: SKUs are only unique
// within one platform's catalog.
type ProductKey struct {
	Platform Platform
	ID       string
}

// PurchaseState mirrors the Play Billing purchase state values.
type PurchaseState int

const (
	PurchaseStateUnspecified PurchaseState = 0
	PurchaseStatePurchased   PurchaseState = 1
	PurchaseStatePending     PurchaseState = 2
)

// EnvironmentSandbox is the StoreKit environment value for sandbox
// receipts. Sandbox receipts may omit expiration dates, which the
// entitlement evaluator compensates for.
const EnvironmentSandbox = "Sandbox"
