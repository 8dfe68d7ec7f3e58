package purchase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
	"github.com/yjb94/expo-iap-sub000/pkg/native"
	"github.com/yjb94/expo-iap-sub000/pkg/purchase"
)

func connectedModule(t *testing.T, platform iap.Platform) *native.MemoryModule {
	t.Helper()
	module := native.NewMemoryModule(platform)
	var err error
	switch platform {
	case iap.PlatformIOS:
		_, err = module.StoreKit().InitConnection(context.Background())
	case iap.PlatformAndroid:
		_, err = module.PlayBilling().InitConnection(context.Background())
	}
	require.NoError(t, err)
	return module
}

func TestCoordinator_Request_Validation(t *testing.T) {
	t.Parallel()

	t.Run("android rejects an ios-shaped request before any native call", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformAndroid)
		c := purchase.NewCoordinator(module)

		_, err := c.Request(context.Background(), purchase.Request{
			IOS: &purchase.RequestIOS{SKU: "x"},
		}, iap.ProductTypeInApp)

		assert.ErrorIs(t, err, purchase.ErrInvalidRequest)
		assert.Zero(t, module.BuyCalls)
	})

	t.Run("ios rejects an android-shaped request", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformIOS)
		c := purchase.NewCoordinator(module)

		_, err := c.Request(context.Background(), purchase.Request{
			Android: &purchase.RequestAndroid{SKUs: []string{"x"}},
		}, iap.ProductTypeInApp)

		assert.ErrorIs(t, err, purchase.ErrInvalidRequest)
		assert.Zero(t, module.BuyCalls)
	})

	t.Run("empty sku fields are rejected", func(t *testing.T) {
		t.Parallel()
		iosModule := connectedModule(t, iap.PlatformIOS)
		_, err := purchase.NewCoordinator(iosModule).Request(context.Background(),
			purchase.Request{IOS: &purchase.RequestIOS{}}, iap.ProductTypeInApp)
		assert.ErrorIs(t, err, purchase.ErrInvalidRequest)

		androidModule := connectedModule(t, iap.PlatformAndroid)
		_, err = purchase.NewCoordinator(androidModule).Request(context.Background(),
			purchase.Request{Android: &purchase.RequestAndroid{}}, iap.ProductTypeInApp)
		assert.ErrorIs(t, err, purchase.ErrInvalidRequest)
	})
}

func TestCoordinator_Request_IOS(t *testing.T) {
	t.Parallel()

	t.Run("quantity defaults to unspecified", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformIOS)
		c := purchase.NewCoordinator(module)

		purchases, err := c.Request(context.Background(), purchase.Request{
			IOS: &purchase.RequestIOS{SKU: "coins_100"},
		}, iap.ProductTypeInApp)
		require.NoError(t, err)
		require.Len(t, purchases, 1)
		assert.Equal(t, "coins_100", purchases[0].ID)
		assert.Equal(t, -1, module.LastBuyProductParams.Quantity)
		assert.Nil(t, module.LastBuyProductParams.Offer)
	})

	t.Run("translates a signed discount offer", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformIOS)
		c := purchase.NewCoordinator(module)

		_, err := c.Request(context.Background(), purchase.Request{
			IOS: &purchase.RequestIOS{
				SKU:      "premium_monthly",
				Quantity: 2,
				Offer: &purchase.DiscountOfferIOS{
					Identifier:    "intro50",
					KeyIdentifier: "KEY123",
					Nonce:         "f4f43e9a-2c41-4c2c-8b71-d333ff2ee011",
					Signature:     "c2lnbmF0dXJl",
					Timestamp:     1756500000000,
				},
			},
		}, iap.ProductTypeSubs)
		require.NoError(t, err)

		params := module.LastBuyProductParams
		assert.Equal(t, 2, params.Quantity)
		require.NotNil(t, params.Offer)
		assert.Equal(t, "intro50", params.Offer.Identifier)
		// The bridge passes the timestamp through a string dictionary.
		assert.Equal(t, "1756500000000", params.Offer.Timestamp)
	})
}

func TestCoordinator_Request_Android(t *testing.T) {
	t.Parallel()

	t.Run("one-time purchases carry no offer tokens", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformAndroid)
		c := purchase.NewCoordinator(module)

		purchases, err := c.Request(context.Background(), purchase.Request{
			Android: &purchase.RequestAndroid{SKUs: []string{"coins_100"}},
		}, iap.ProductTypeInApp)
		require.NoError(t, err)
		require.Len(t, purchases, 1)

		params := module.LastBuyItemParams
		assert.Equal(t, []string{"coins_100"}, params.SKUs)
		assert.Empty(t, params.OfferTokens)
		assert.NotNil(t, params.OfferTokens)
		assert.Equal(t, -1, params.ReplacementMode)
	})

	t.Run("subscription offers map to offer tokens", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformAndroid)
		c := purchase.NewCoordinator(module)

		purchases, err := c.Request(context.Background(), purchase.Request{
			Android: &purchase.RequestAndroid{
				SKUs: []string{"premium_monthly", "premium_annual"},
				SubscriptionOffers: []purchase.SubscriptionOfferAndroid{
					{SKU: "premium_monthly", OfferToken: "tok-m"},
					{SKU: "premium_annual", OfferToken: "tok-a"},
				},
			},
		}, iap.ProductTypeSubs)
		require.NoError(t, err)
		// Multi-SKU subscription requests may legitimately produce
		// multiple purchases.
		assert.Len(t, purchases, 2)

		params := module.LastBuyItemParams
		assert.Equal(t, []string{"premium_monthly", "premium_annual"}, params.SKUs)
		assert.Equal(t, []string{"tok-m", "tok-a"}, params.OfferTokens)
		assert.Equal(t, -1, params.ReplacementMode)
	})

	t.Run("replacement mode is forwarded when set", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformAndroid)
		c := purchase.NewCoordinator(module)

		_, err := c.Request(context.Background(), purchase.Request{
			Android: &purchase.RequestAndroid{
				SKUs:            []string{"premium_annual"},
				PurchaseToken:   "old-token",
				ReplacementMode: 3,
			},
		}, iap.ProductTypeSubs)
		require.NoError(t, err)

		params := module.LastBuyItemParams
		assert.Equal(t, 3, params.ReplacementMode)
		assert.Equal(t, "old-token", params.PurchaseToken)
	})
}

func TestCoordinator_Finish(t *testing.T) {
	t.Parallel()

	t.Run("ios finishes by transaction id", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformIOS)
		c := purchase.NewCoordinator(module)

		err := c.Finish(context.Background(), iap.Purchase{
			Platform:      iap.PlatformIOS,
			ID:            "coins_100",
			TransactionID: "tx-1",
			IOS:           &iap.PurchaseIOS{},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 1, module.FinishCalls)
	})

	t.Run("android consumes consumables", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformAndroid)
		c := purchase.NewCoordinator(module)

		err := c.Finish(context.Background(), iap.Purchase{
			Platform: iap.PlatformAndroid,
			ID:       "coins_100",
			Android:  &iap.PurchaseAndroid{PurchaseToken: "tok"},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 1, module.ConsumeCalls)
		assert.Zero(t, module.AcknowledgeCalls)
	})

	t.Run("android acknowledges non-consumables once", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformAndroid)
		c := purchase.NewCoordinator(module)

		unacked := iap.Purchase{
			Platform: iap.PlatformAndroid,
			ID:       "premium_monthly",
			Android:  &iap.PurchaseAndroid{PurchaseToken: "tok"},
		}
		require.NoError(t, c.Finish(context.Background(), unacked, false))
		assert.Equal(t, 1, module.AcknowledgeCalls)

		acked := unacked
		acked.Android = &iap.PurchaseAndroid{PurchaseToken: "tok", IsAcknowledged: true}
		require.NoError(t, c.Finish(context.Background(), acked, false))
		assert.Equal(t, 1, module.AcknowledgeCalls, "already-acknowledged purchases are not re-acknowledged")
	})

	t.Run("platform mismatch is rejected", func(t *testing.T) {
		t.Parallel()
		module := connectedModule(t, iap.PlatformIOS)
		c := purchase.NewCoordinator(module)

		err := c.Finish(context.Background(), iap.Purchase{Platform: iap.PlatformAndroid, ID: "x"}, false)
		assert.ErrorIs(t, err, purchase.ErrInvalidRequest)
	})
}
