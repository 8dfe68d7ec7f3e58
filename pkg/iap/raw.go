package iap

// RawProduct is the flat, duck-typed product payload delivered by a native
// storefront bridge. Both platforms' optional fields live side by side
// here; normalization converts it into the tagged Product as early as
// possible and nothing above the boundary should consume it directly.
type RawProduct struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	DisplayPrice string   `json:"displayPrice"`
	Currency     string   `json:"currency"`
	Price        *float64 `json:"price,omitempty"`
	Platform     string   `json:"platform,omitempty"`

	// StoreKit fields.
	DisplayName       string                  `json:"displayName,omitempty"`
	IsFamilyShareable *bool                   `json:"isFamilyShareable,omitempty"`
	SubscriptionInfo  *RawSubscriptionInfoIOS `json:"subscription,omitempty"`

	// Play Billing fields.
	NameAndroid                        string                        `json:"nameAndroid,omitempty"`
	OneTimePurchaseOfferDetailsAndroid *RawOneTimeOfferAndroid       `json:"oneTimePurchaseOfferDetailsAndroid,omitempty"`
	SubscriptionOfferDetailsAndroid    []RawSubscriptionOfferAndroid `json:"subscriptionOfferDetailsAndroid,omitempty"`
}

// RawSubscriptionInfoIOS mirrors the StoreKit subscription info payload.
type RawSubscriptionInfoIOS struct {
	SubscriptionGroupID string        `json:"subscriptionGroupId"`
	SubscriptionPeriod  RawPeriodIOS  `json:"subscriptionPeriod"`
	IntroductoryOffer   *RawOfferIOS  `json:"introductoryOffer,omitempty"`
	PromotionalOffers   []RawOfferIOS `json:"promotionalOffers,omitempty"`
}

// RawPeriodIOS is a StoreKit subscription period payload.
type RawPeriodIOS struct {
	Unit  string `json:"unit"`
	Value int    `json:"value"`
}

// RawOfferIOS is a StoreKit introductory or promotional offer payload.
type RawOfferIOS struct {
	ID           string       `json:"id"`
	DisplayPrice string       `json:"displayPrice"`
	Price        float64      `json:"price"`
	PaymentMode  string       `json:"paymentMode"`
	Period       RawPeriodIOS `json:"period"`
	PeriodCount  int          `json:"periodCount"`
}

// RawOneTimeOfferAndroid mirrors Play Billing's one-time purchase offer
// details.
type RawOneTimeOfferAndroid struct {
	FormattedPrice    string `json:"formattedPrice"`
	PriceAmountMicros int64  `json:"priceAmountMicros,string"`
	PriceCurrencyCode string `json:"priceCurrencyCode"`
}

// RawSubscriptionOfferAndroid mirrors one entry of Play Billing's
// subscription offer details.
type RawSubscriptionOfferAndroid struct {
	BasePlanID    string                   `json:"basePlanId"`
	OfferID       string                   `json:"offerId,omitempty"`
	OfferToken    string                   `json:"offerToken"`
	PricingPhases []RawPricingPhaseAndroid `json:"pricingPhases"`
}

// RawPricingPhaseAndroid mirrors one Play Billing pricing phase.
type RawPricingPhaseAndroid struct {
	FormattedPrice    string `json:"formattedPrice"`
	PriceAmountMicros int64  `json:"priceAmountMicros,string"`
	PriceCurrencyCode string `json:"priceCurrencyCode"`
	BillingPeriod     string `json:"billingPeriod"`
	BillingCycleCount int    `json:"billingCycleCount"`
	RecurrenceMode    int    `json:"recurrenceMode"`
}

// RawPurchase is the flat, duck-typed purchase payload delivered by a
// native storefront bridge. Timestamps are epoch milliseconds as emitted
// by both native layers.
type RawPurchase struct {
	ID                 string  `json:"id"`
	TransactionID      string  `json:"transactionId,omitempty"`
	TransactionDate    float64 `json:"transactionDate"`
	TransactionReceipt string  `json:"transactionReceipt,omitempty"`
	Platform           string  `json:"platform,omitempty"`

	// StoreKit 2 fields.
	ExpirationDateIOS                *float64 `json:"expirationDateIos,omitempty"`
	EnvironmentIOS                   string   `json:"environmentIos,omitempty"`
	TransactionReasonIOS             string   `json:"transactionReasonIos,omitempty"`
	RevocationDateIOS                *float64 `json:"revocationDateIos,omitempty"`
	RevocationReasonIOS              string   `json:"revocationReasonIos,omitempty"`
	OriginalTransactionIdentifierIOS string   `json:"originalTransactionIdentifierIos,omitempty"`
	AppAccountTokenIOS               string   `json:"appAccountToken,omitempty"`
	QuantityIOS                      *int     `json:"quantityIos,omitempty"`
	JWSRepresentationIOS             string   `json:"jwsRepresentationIos,omitempty"`

	// Play Billing fields.
	PurchaseTokenAndroid       string `json:"purchaseTokenAndroid,omitempty"`
	AutoRenewingAndroid        *bool  `json:"autoRenewingAndroid,omitempty"`
	PurchaseStateAndroid       *int   `json:"purchaseStateAndroid,omitempty"`
	IsAcknowledgedAndroid      *bool  `json:"isAcknowledgedAndroid,omitempty"`
	PackageNameAndroid         string `json:"packageNameAndroid,omitempty"`
	OrderIDAndroid             string `json:"orderIdAndroid,omitempty"`
	ObfuscatedAccountIDAndroid string `json:"obfuscatedAccountIdAndroid,omitempty"`
	ObfuscatedProfileIDAndroid string `json:"obfuscatedProfileIdAndroid,omitempty"`
}

// RawError is the error payload delivered through the purchase-error
// event stream.
type RawError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"productId,omitempty"`
}
