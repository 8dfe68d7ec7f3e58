package purchase

// Request is the platform-agnostic purchase request. Exactly one of the
// platform shapes should be set for the active platform: IOS for
// single-SKU StoreKit requests, Android for multi-SKU Play Billing
// requests. A request matching neither shape for the active platform is
// rejected before any native call.
type Request struct {
	IOS     *RequestIOS
	Android *RequestAndroid
}

// RequestIOS is the StoreKit-shaped purchase request, discriminated by
// the presence of a SKU.
type RequestIOS struct {
	SKU string
	// AutoFinish finishes the transaction inside the native layer
	// immediately, skipping the app's own entitlement delivery step.
	AutoFinish      bool
	AppAccountToken string
	// Quantity of the item; zero or negative means unspecified and is
	// forwarded as -1.
	Quantity int
	Offer    *DiscountOfferIOS
}

// DiscountOfferIOS is a signed promotional offer attached to an iOS
// purchase request. The signature is produced server-side with the
// developer's subscription key.
type DiscountOfferIOS struct {
	Identifier    string
	KeyIdentifier string
	Nonce         string
	Signature     string
	Timestamp     int64 // epoch ms at signing time
}

// RequestAndroid is the Play-Billing-shaped purchase request,
// discriminated by the presence of a SKU list.
type RequestAndroid struct {
	SKUs                []string
	ObfuscatedAccountID string
	ObfuscatedProfileID string
	IsOfferPersonalized bool
	// PurchaseToken of the subscription being replaced, for upgrades and
	// downgrades.
	PurchaseToken string
	// ReplacementMode selects the Play Billing proration behavior when
	// replacing a subscription. Zero or negative means unset and is
	// forwarded as -1 (not applicable).
	ReplacementMode    int
	SubscriptionOffers []SubscriptionOfferAndroid
}

// SubscriptionOfferAndroid selects one offer token for one SKU of an
// Android subscription request.
type SubscriptionOfferAndroid struct {
	SKU        string
	OfferToken string
}
