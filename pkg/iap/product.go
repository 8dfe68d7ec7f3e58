package iap

// Product is the unified catalog record. Common fields are populated for
// both storefronts; exactly one of IOS / Android is non-nil, matching
// Platform. Products are immutable values: updates replace the record.
type Product struct {
	Platform     Platform
	ID           string
	Title        string
	Description  string
	Type         ProductType
	DisplayPrice string
	Currency     string // ISO 4217
	Price        *float64

	IOS     *ProductIOS
	Android *ProductAndroid
}

// Key returns the catalog identity of the product.
func (p Product) Key() ProductKey {
	return ProductKey{Platform: p.Platform, ID: p.ID}
}

// ProductIOS carries the StoreKit-only product fields.
type ProductIOS struct {
	DisplayName       string
	IsFamilyShareable bool
	Subscription      *SubscriptionInfoIOS
}

// SubscriptionInfoIOS describes the subscription group and offers attached
// to an iOS subscription product.
type SubscriptionInfoIOS struct {
	SubscriptionGroupID string
	SubscriptionPeriod  SubscriptionPeriodIOS
	IntroductoryOffer   *SubscriptionOfferIOS
	PromotionalOffers   []SubscriptionOfferIOS
}

// SubscriptionPeriodIOS is a StoreKit subscription period, e.g. one month.
type SubscriptionPeriodIOS struct {
	Unit  string // day, week, month, year
	Value int
}

// SubscriptionOfferIOS is an introductory or promotional offer on an iOS
// subscription product.
type SubscriptionOfferIOS struct {
	ID           string
	DisplayPrice string
	Price        float64
	PaymentMode  string
	Period       SubscriptionPeriodIOS
	PeriodCount  int
}

// ProductAndroid carries the Play Billing-only product fields.
type ProductAndroid struct {
	Name                     string
	OneTimePurchaseOffer     *OneTimePurchaseOfferAndroid
	SubscriptionOfferDetails []SubscriptionOfferAndroid
}

// OneTimePurchaseOfferAndroid is the price detail of an Android one-time
// product.
type OneTimePurchaseOfferAndroid struct {
	FormattedPrice    string
	PriceAmountMicros int64
	PriceCurrencyCode string
}

// SubscriptionOfferAndroid is one base-plan/offer tuple on an Android
// subscription product. OfferToken is what a purchase request must carry
// to buy this offer.
type SubscriptionOfferAndroid struct {
	BasePlanID    string
	OfferID       string
	OfferToken    string
	PricingPhases []PricingPhaseAndroid
}

// PricingPhaseAndroid is one phase of an Android subscription offer, e.g.
// a free trial followed by a recurring price.
type PricingPhaseAndroid struct {
	FormattedPrice    string
	PriceAmountMicros int64
	PriceCurrencyCode string
	BillingPeriod     string // ISO 8601 duration, e.g. P1M
	BillingCycleCount int
	RecurrenceMode    int
}
