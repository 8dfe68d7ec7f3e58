package native

import (
	"context"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

// Event names the persistent native event streams.
type Event string

const (
	// EventPurchaseUpdated delivers finished or updated purchases from the
	// asynchronous native billing flow.
	EventPurchaseUpdated Event = "purchase-updated"
	// EventPurchaseError delivers purchase-flow failures.
	EventPurchaseError Event = "purchase-error"
	// EventPromotedProductIOS delivers App Store promoted-product
	// selections. iOS only.
	EventPromotedProductIOS Event = "iap-promoted-product"
)

// Payload is the value delivered to event handlers. Exactly one field is
// populated, depending on the event stream it arrived on.
type Payload struct {
	Purchase *iap.RawPurchase
	Error    *iap.RawError
	Product  *iap.RawProduct
}

// Listener is the detach handle returned by an emitter subscription.
// Remove must be safe to call more than once.
type Listener interface {
	Remove()
}

// Emitter is the native event source. AddListener attaches a handler to a
// named stream and returns its detach handle. The emitter may invoke
// handlers at arbitrary times relative to in-flight calls; ordering
// between a request's own return and its event is unspecified.
type Emitter interface {
	AddListener(event Event, handler func(Payload)) Listener
}

// BuyProductParams carries an iOS purchase request in the shape the
// StoreKit bridge expects.
type BuyProductParams struct {
	SKU             string
	AutoFinish      bool
	AppAccountToken string
	Quantity        int // -1 means unspecified
	Offer           *PaymentDiscount
}

// PaymentDiscount is the signed offer record the StoreKit bridge requires.
// Timestamp is stringified on purpose: the bridge passes it through to a
// dictionary of strings.
type PaymentDiscount struct {
	Identifier    string
	KeyIdentifier string
	Nonce         string
	Signature     string
	Timestamp     string
}

// StoreKit is the iOS billing bridge.
type StoreKit interface {
	InitConnection(ctx context.Context) (bool, error)
	EndConnection(ctx context.Context) (bool, error)
	GetItems(ctx context.Context, skus []string) ([]iap.RawProduct, error)
	BuyProduct(ctx context.Context, params BuyProductParams) (iap.RawPurchase, error)
	GetAvailableItems(ctx context.Context, alsoPublishToEventListener, onlyIncludeActiveItems bool) ([]iap.RawPurchase, error)
	FinishTransaction(ctx context.Context, transactionID string) error
}

// BuyItemParams carries an Android purchase request in the shape the Play
// Billing bridge expects.
type BuyItemParams struct {
	Type                iap.ProductType
	SKUs                []string
	PurchaseToken       string // previous purchase token for subscription replacement
	ReplacementMode     int    // -1 means not applicable
	ObfuscatedAccountID string
	ObfuscatedProfileID string
	OfferTokens         []string // parallel to SKUs for subscription offers
	IsOfferPersonalized bool
}

// PlayBilling is the Android billing bridge.
type PlayBilling interface {
	InitConnection(ctx context.Context) (bool, error)
	EndConnection(ctx context.Context) (bool, error)
	GetItemsByType(ctx context.Context, typ iap.ProductType, skus []string) ([]iap.RawProduct, error)
	BuyItemByType(ctx context.Context, params BuyItemParams) ([]iap.RawPurchase, error)
	GetAvailableItemsByType(ctx context.Context, typ iap.ProductType) ([]iap.RawPurchase, error)
	ConsumeProduct(ctx context.Context, purchaseToken string) error
	AcknowledgePurchase(ctx context.Context, purchaseToken string) error
}

// Module bundles one platform's billing bridge with its event emitter.
// Exactly one of StoreKit / PlayBilling returns a non-nil bridge,
// matching Platform.
type Module interface {
	Platform() iap.Platform
	StoreKit() StoreKit
	PlayBilling() PlayBilling
	Emitter() Emitter
	// ErrorCodes returns the raw-to-portable error code table published by
	// the native layer.
	ErrorCodes() map[string]iap.ErrorCode
}

// DefaultErrorCodes is the code table native layers publish when they
// already emit portable codes. Modules without their own table return it
// unchanged.
func DefaultErrorCodes() map[string]iap.ErrorCode {
	return map[string]iap.ErrorCode{
		"E_UNKNOWN":                       iap.ErrorCodeUnknown,
		"E_USER_CANCELLED":                iap.ErrorCodeUserCancelled,
		"E_USER_ERROR":                    iap.ErrorCodeUserError,
		"E_ITEM_UNAVAILABLE":              iap.ErrorCodeItemUnavailable,
		"E_REMOTE_ERROR":                  iap.ErrorCodeRemoteError,
		"E_NETWORK_ERROR":                 iap.ErrorCodeNetworkError,
		"E_SERVICE_ERROR":                 iap.ErrorCodeServiceError,
		"E_RECEIPT_FAILED":                iap.ErrorCodeReceiptFailed,
		"E_RECEIPT_FINISHED_FAILED":       iap.ErrorCodeReceiptFinishedFailed,
		"E_NOT_PREPARED":                  iap.ErrorCodeNotPrepared,
		"E_NOT_ENDED":                     iap.ErrorCodeNotEnded,
		"E_ALREADY_OWNED":                 iap.ErrorCodeAlreadyOwned,
		"E_DEVELOPER_ERROR":               iap.ErrorCodeDeveloperError,
		"E_DEFERRED_PAYMENT":              iap.ErrorCodeDeferredPayment,
		"E_INTERRUPTED":                   iap.ErrorCodeInterrupted,
		"E_IAP_NOT_AVAILABLE":             iap.ErrorCodeIAPNotAvailable,
		"E_PURCHASE_ERROR":                iap.ErrorCodePurchaseError,
		"E_SYNC_ERROR":                    iap.ErrorCodeSyncError,
		"E_TRANSACTION_VALIDATION_FAILED": iap.ErrorCodeTransactionValidationFailed,
		"E_ACTIVITY_UNAVAILABLE":          iap.ErrorCodeActivityUnavailable,
		"E_PENDING":                       iap.ErrorCodePending,
		"E_CONNECTION_CLOSED":             iap.ErrorCodeConnectionClosed,
	}
}
