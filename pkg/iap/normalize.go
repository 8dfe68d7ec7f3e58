package iap

import (
	"fmt"
	"time"
)

// IsProductIOS reports whether a raw product record is a well-formed
// StoreKit record. Records carrying an explicit foreign platform tag or
// Android-only payload fields are rejected.
func IsProductIOS(raw RawProduct) bool {
	if raw.ID == "" {
		return false
	}
	if raw.Platform != "" {
		return raw.Platform == string(PlatformIOS)
	}
	return raw.NameAndroid == "" &&
		raw.OneTimePurchaseOfferDetailsAndroid == nil &&
		len(raw.SubscriptionOfferDetailsAndroid) == 0
}

// IsProductAndroid reports whether a raw product record is a well-formed
// Play Billing record.
func IsProductAndroid(raw RawProduct) bool {
	if raw.ID == "" {
		return false
	}
	if raw.Platform != "" {
		return raw.Platform == string(PlatformAndroid)
	}
	return raw.DisplayName == "" && raw.IsFamilyShareable == nil && raw.SubscriptionInfo == nil
}

// ProductFromRaw tags and validates a raw native product record for the
// given platform. Malformed or foreign-platform records are rejected with
// ErrMalformedRecord.
func ProductFromRaw(raw RawProduct, platform Platform) (Product, error) {
	switch platform {
	case PlatformIOS:
		if !IsProductIOS(raw) {
			return Product{}, fmt.Errorf("%w: product %q is not an ios record", ErrMalformedRecord, raw.ID)
		}
	case PlatformAndroid:
		if !IsProductAndroid(raw) {
			return Product{}, fmt.Errorf("%w: product %q is not an android record", ErrMalformedRecord, raw.ID)
		}
	default:
		return Product{}, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	p := Product{
		Platform:     platform,
		ID:           raw.ID,
		Title:        raw.Title,
		Description:  raw.Description,
		Type:         ProductType(raw.Type),
		DisplayPrice: raw.DisplayPrice,
		Currency:     raw.Currency,
		Price:        raw.Price,
	}

	switch platform {
	case PlatformIOS:
		ios := &ProductIOS{DisplayName: raw.DisplayName}
		if raw.IsFamilyShareable != nil {
			ios.IsFamilyShareable = *raw.IsFamilyShareable
		}
		if raw.SubscriptionInfo != nil {
			ios.Subscription = subscriptionInfoFromRaw(*raw.SubscriptionInfo)
		}
		p.IOS = ios
	case PlatformAndroid:
		android := &ProductAndroid{Name: raw.NameAndroid}
		if d := raw.OneTimePurchaseOfferDetailsAndroid; d != nil {
			android.OneTimePurchaseOffer = &OneTimePurchaseOfferAndroid{
				FormattedPrice:    d.FormattedPrice,
				PriceAmountMicros: d.PriceAmountMicros,
				PriceCurrencyCode: d.PriceCurrencyCode,
			}
			// Play Billing puts price data on the offer details only.
			if p.Currency == "" {
				p.Currency = d.PriceCurrencyCode
			}
			if p.Price == nil {
				amount := amountFromMicros(d.PriceAmountMicros)
				p.Price = &amount
			}
			if p.DisplayPrice == "" {
				p.DisplayPrice = d.FormattedPrice
			}
		}
		for _, offer := range raw.SubscriptionOfferDetailsAndroid {
			android.SubscriptionOfferDetails = append(android.SubscriptionOfferDetails, subscriptionOfferFromRaw(offer))
		}
		p.Android = android
	}

	if p.DisplayPrice == "" && p.Price != nil && p.Currency != "" {
		p.DisplayPrice = FormatDisplayPrice(*p.Price, p.Currency)
	}
	return p, nil
}

func subscriptionInfoFromRaw(raw RawSubscriptionInfoIOS) *SubscriptionInfoIOS {
	info := &SubscriptionInfoIOS{
		SubscriptionGroupID: raw.SubscriptionGroupID,
		SubscriptionPeriod: SubscriptionPeriodIOS{
			Unit:  raw.SubscriptionPeriod.Unit,
			Value: raw.SubscriptionPeriod.Value,
		},
	}
	if raw.IntroductoryOffer != nil {
		offer := offerFromRaw(*raw.IntroductoryOffer)
		info.IntroductoryOffer = &offer
	}
	for _, o := range raw.PromotionalOffers {
		info.PromotionalOffers = append(info.PromotionalOffers, offerFromRaw(o))
	}
	return info
}

func offerFromRaw(raw RawOfferIOS) SubscriptionOfferIOS {
	return SubscriptionOfferIOS{
		ID:           raw.ID,
		DisplayPrice: raw.DisplayPrice,
		Price:        raw.Price,
		PaymentMode:  raw.PaymentMode,
		Period:       SubscriptionPeriodIOS{Unit: raw.Period.Unit, Value: raw.Period.Value},
		PeriodCount:  raw.PeriodCount,
	}
}

func subscriptionOfferFromRaw(raw RawSubscriptionOfferAndroid) SubscriptionOfferAndroid {
	offer := SubscriptionOfferAndroid{
		BasePlanID: raw.BasePlanID,
		OfferID:    raw.OfferID,
		OfferToken: raw.OfferToken,
	}
	for _, phase := range raw.PricingPhases {
		offer.PricingPhases = append(offer.PricingPhases, PricingPhaseAndroid{
			FormattedPrice:    phase.FormattedPrice,
			PriceAmountMicros: phase.PriceAmountMicros,
			PriceCurrencyCode: phase.PriceCurrencyCode,
			BillingPeriod:     phase.BillingPeriod,
			BillingCycleCount: phase.BillingCycleCount,
			RecurrenceMode:    phase.RecurrenceMode,
		})
	}
	return offer
}

// IsPurchaseIOS reports whether a raw purchase record is a well-formed
// StoreKit record.
func IsPurchaseIOS(raw RawPurchase) bool {
	if raw.ID == "" {
		return false
	}
	if raw.Platform != "" {
		return raw.Platform == string(PlatformIOS)
	}
	return raw.PurchaseTokenAndroid == "" && raw.PurchaseStateAndroid == nil
}

// IsPurchaseAndroid reports whether a raw purchase record is a well-formed
// Play Billing record.
func IsPurchaseAndroid(raw RawPurchase) bool {
	if raw.ID == "" {
		return false
	}
	if raw.Platform != "" {
		return raw.Platform == string(PlatformAndroid)
	}
	return raw.JWSRepresentationIOS == "" && raw.EnvironmentIOS == "" && raw.ExpirationDateIOS == nil
}

// PurchaseFromRaw tags and validates a raw native purchase record for the
// given platform. On iOS, fields missing from the flat record are
// backfilled from the decoded JWS payload when one is attached.
func PurchaseFromRaw(raw RawPurchase, platform Platform) (Purchase, error) {
	switch platform {
	case PlatformIOS:
		if !IsPurchaseIOS(raw) {
			return Purchase{}, fmt.Errorf("%w: purchase %q is not an ios record", ErrMalformedRecord, raw.ID)
		}
	case PlatformAndroid:
		if !IsPurchaseAndroid(raw) {
			return Purchase{}, fmt.Errorf("%w: purchase %q is not an android record", ErrMalformedRecord, raw.ID)
		}
	default:
		return Purchase{}, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	p := Purchase{
		Platform:           platform,
		ID:                 raw.ID,
		TransactionID:      raw.TransactionID,
		TransactionDate:    timeFromMillis(raw.TransactionDate),
		TransactionReceipt: raw.TransactionReceipt,
	}

	switch platform {
	case PlatformIOS:
		ios := &PurchaseIOS{
			Environment:           raw.EnvironmentIOS,
			TransactionReason:     raw.TransactionReasonIOS,
			OriginalTransactionID: raw.OriginalTransactionIdentifierIOS,
			AppAccountToken:       raw.AppAccountTokenIOS,
			JWSRepresentation:     raw.JWSRepresentationIOS,
		}
		if raw.ExpirationDateIOS != nil {
			t := timeFromMillis(*raw.ExpirationDateIOS)
			ios.ExpirationDate = &t
		}
		if raw.RevocationDateIOS != nil {
			t := timeFromMillis(*raw.RevocationDateIOS)
			ios.RevocationDate = &t
			ios.RevocationReason = raw.RevocationReasonIOS
		}
		if raw.QuantityIOS != nil {
			ios.QuantityIOS = *raw.QuantityIOS
		}
		if ios.JWSRepresentation != "" {
			backfillFromJWS(&p, ios)
		}
		p.IOS = ios
	case PlatformAndroid:
		android := &PurchaseAndroid{
			PurchaseToken:       raw.PurchaseTokenAndroid,
			PackageName:         raw.PackageNameAndroid,
			OrderID:             raw.OrderIDAndroid,
			ObfuscatedAccountID: raw.ObfuscatedAccountIDAndroid,
			ObfuscatedProfileID: raw.ObfuscatedProfileIDAndroid,
		}
		if raw.AutoRenewingAndroid != nil {
			v := *raw.AutoRenewingAndroid
			android.AutoRenewing = &v
		}
		if raw.PurchaseStateAndroid != nil {
			android.PurchaseState = PurchaseState(*raw.PurchaseStateAndroid)
		}
		if raw.IsAcknowledgedAndroid != nil {
			android.IsAcknowledged = *raw.IsAcknowledgedAndroid
		}
		p.Android = android
	}
	return p, nil
}

// backfillFromJWS fills purchase fields the flat record omitted from the
// decoded JWS payload. Decode failures are ignored: the JWS is an extra
// source of truth, not a required one.
func backfillFromJWS(p *Purchase, ios *PurchaseIOS) {
	tx, err := DecodeJWSTransaction(ios.JWSRepresentation)
	if err != nil {
		return
	}
	if p.TransactionID == "" {
		p.TransactionID = tx.TransactionID
	}
	if p.TransactionDate.IsZero() && tx.PurchaseDate > 0 {
		p.TransactionDate = time.UnixMilli(tx.PurchaseDate)
	}
	if ios.OriginalTransactionID == "" {
		ios.OriginalTransactionID = tx.OriginalTransactionID
	}
	if ios.Environment == "" {
		ios.Environment = tx.Environment
	}
	if ios.TransactionReason == "" {
		ios.TransactionReason = tx.TransactionReason
	}
	if ios.ExpirationDate == nil && tx.ExpiresDate != nil {
		t := time.UnixMilli(*tx.ExpiresDate)
		ios.ExpirationDate = &t
	}
	if ios.AppAccountToken == "" {
		ios.AppAccountToken = tx.AppAccountToken
	}
	if ios.QuantityIOS == 0 {
		ios.QuantityIOS = tx.Quantity
	}
}

func timeFromMillis(ms float64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms))
}

func amountFromMicros(micros int64) float64 {
	return float64(micros) / 1e6
}
