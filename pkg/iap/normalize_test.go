package iap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

func TestProductGuards(t *testing.T) {
	t.Parallel()

	t.Run("explicit platform tag wins", func(t *testing.T) {
		t.Parallel()
		raw := iap.RawProduct{ID: "sku", Platform: "android"}
		assert.False(t, iap.IsProductIOS(raw))
		assert.True(t, iap.IsProductAndroid(raw))
	})

	t.Run("untagged records are duck-typed", func(t *testing.T) {
		t.Parallel()
		ios := iap.RawProduct{ID: "sku", DisplayName: "Premium"}
		android := iap.RawProduct{ID: "sku", NameAndroid: "Premium"}
		assert.True(t, iap.IsProductIOS(ios))
		assert.False(t, iap.IsProductIOS(android))
		assert.True(t, iap.IsProductAndroid(android))
		assert.False(t, iap.IsProductAndroid(ios))
	})

	t.Run("missing id is malformed", func(t *testing.T) {
		t.Parallel()
		assert.False(t, iap.IsProductIOS(iap.RawProduct{}))
		assert.False(t, iap.IsProductAndroid(iap.RawProduct{}))
	})
}

func TestProductFromRaw(t *testing.T) {
	t.Parallel()

	t.Run("tags an ios record", func(t *testing.T) {
		t.Parallel()
		price := 9.99
		shareable := true
		raw := iap.RawProduct{
			ID:           "premium_monthly",
			Title:        "Premium",
			Type:         "subs",
			DisplayPrice: "$9.99",
			Currency:     "USD",
			Price:        &price,
			Platform:     "ios",
			DisplayName:  "Premium Monthly",
			IsFamilyShareable: &shareable,
			SubscriptionInfo: &iap.RawSubscriptionInfoIOS{
				SubscriptionGroupID: "group1",
				SubscriptionPeriod:  iap.RawPeriodIOS{Unit: "month", Value: 1},
			},
		}

		p, err := iap.ProductFromRaw(raw, iap.PlatformIOS)
		require.NoError(t, err)
		assert.Equal(t, iap.PlatformIOS, p.Platform)
		assert.Equal(t, iap.ProductKey{Platform: iap.PlatformIOS, ID: "premium_monthly"}, p.Key())
		require.NotNil(t, p.IOS)
		assert.Nil(t, p.Android)
		assert.Equal(t, "Premium Monthly", p.IOS.DisplayName)
		assert.True(t, p.IOS.IsFamilyShareable)
		require.NotNil(t, p.IOS.Subscription)
		assert.Equal(t, "group1", p.IOS.Subscription.SubscriptionGroupID)
	})

	t.Run("rejects foreign-platform record", func(t *testing.T) {
		t.Parallel()
		raw := iap.RawProduct{ID: "sku", Platform: "android"}
		_, err := iap.ProductFromRaw(raw, iap.PlatformIOS)
		assert.ErrorIs(t, err, iap.ErrMalformedRecord)
	})

	t.Run("rejects unsupported platform", func(t *testing.T) {
		t.Parallel()
		_, err := iap.ProductFromRaw(iap.RawProduct{ID: "sku"}, iap.Platform("web"))
		assert.ErrorIs(t, err, iap.ErrUnsupportedPlatform)
	})

	t.Run("derives android price from one-time offer details", func(t *testing.T) {
		t.Parallel()
		raw := iap.RawProduct{
			ID:       "coins_100",
			Platform: "android",
			Type:     "inapp",
			NameAndroid: "100 Coins",
			OneTimePurchaseOfferDetailsAndroid: &iap.RawOneTimeOfferAndroid{
				FormattedPrice:    "$1.99",
				PriceAmountMicros: 1990000,
				PriceCurrencyCode: "USD",
			},
		}

		p, err := iap.ProductFromRaw(raw, iap.PlatformAndroid)
		require.NoError(t, err)
		assert.Equal(t, "$1.99", p.DisplayPrice)
		assert.Equal(t, "USD", p.Currency)
		require.NotNil(t, p.Price)
		assert.InDelta(t, 1.99, *p.Price, 0.0001)
	})

	t.Run("formats a display price when native omitted it", func(t *testing.T) {
		t.Parallel()
		price := 4.99
		raw := iap.RawProduct{ID: "sku", Platform: "ios", Currency: "USD", Price: &price}

		p, err := iap.ProductFromRaw(raw, iap.PlatformIOS)
		require.NoError(t, err)
		assert.NotEmpty(t, p.DisplayPrice)
		assert.Contains(t, p.DisplayPrice, "4.99")
	})
}

func TestPurchaseFromRaw(t *testing.T) {
	t.Parallel()

	t.Run("tags an ios purchase with millisecond dates", func(t *testing.T) {
		t.Parallel()
		exp := float64(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC).UnixMilli())
		raw := iap.RawPurchase{
			ID:                "premium_monthly",
			TransactionID:     "2000000123",
			TransactionDate:   float64(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC).UnixMilli()),
			Platform:          "ios",
			ExpirationDateIOS: &exp,
			EnvironmentIOS:    "Production",
		}

		p, err := iap.PurchaseFromRaw(raw, iap.PlatformIOS)
		require.NoError(t, err)
		require.NotNil(t, p.IOS)
		assert.Nil(t, p.Android)
		assert.Equal(t, "2000000123", p.TransactionID)
		require.NotNil(t, p.IOS.ExpirationDate)
		assert.Equal(t, int64(exp), p.IOS.ExpirationDate.UnixMilli())
	})

	t.Run("tags an android purchase", func(t *testing.T) {
		t.Parallel()
		renewing := true
		state := int(iap.PurchaseStatePurchased)
		acked := false
		raw := iap.RawPurchase{
			ID:                    "premium_monthly",
			Platform:              "android",
			PurchaseTokenAndroid:  "token-1",
			AutoRenewingAndroid:   &renewing,
			PurchaseStateAndroid:  &state,
			IsAcknowledgedAndroid: &acked,
		}

		p, err := iap.PurchaseFromRaw(raw, iap.PlatformAndroid)
		require.NoError(t, err)
		require.NotNil(t, p.Android)
		assert.Equal(t, "token-1", p.Android.PurchaseToken)
		assert.Equal(t, "token-1", p.Token())
		require.NotNil(t, p.Android.AutoRenewing)
		assert.True(t, *p.Android.AutoRenewing)
		assert.Equal(t, iap.PurchaseStatePurchased, p.Android.PurchaseState)
		assert.False(t, p.Android.IsAcknowledged)
	})

	t.Run("rejects foreign-platform purchase", func(t *testing.T) {
		t.Parallel()
		raw := iap.RawPurchase{ID: "sku", Platform: "ios"}
		_, err := iap.PurchaseFromRaw(raw, iap.PlatformAndroid)
		assert.ErrorIs(t, err, iap.ErrMalformedRecord)
	})
}
