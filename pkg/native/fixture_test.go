package native_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
	"github.com/yjb94/expo-iap-sub000/pkg/native"
)

const iosFixture = `
products:
  - id: coins_100
    title: 100 Coins
    type: inapp
    display_price: "$0.99"
    currency: USD
    price: 0.99
    display_name: Coins
  - id: premium_monthly
    title: Premium
    type: subs
    display_price: "$9.99"
    currency: USD
    price: 9.99
purchases:
  - id: premium_monthly
    transaction_id: tx-1
    transaction_date: 1756500000000
    expiration_date: 1759100000000
    environment: Sandbox
`

const androidFixture = `
products:
  - id: premium_monthly
    title: Premium
    type: subs
    name: Premium
    offer_token: tok-base
    base_plan_id: monthly
purchases:
  - id: premium_monthly
    transaction_id: tx-1
    purchase_token: ptok-1
    auto_renewing: true
    acknowledged: false
`

func TestLoadFixtureBytes_IOS(t *testing.T) {
	t.Parallel()

	module := native.NewMemoryModule(iap.PlatformIOS)
	require.NoError(t, module.LoadFixtureBytes([]byte(iosFixture)))
	_, err := module.StoreKit().InitConnection(context.Background())
	require.NoError(t, err)

	items, err := module.StoreKit().GetItems(context.Background(), []string{"coins_100", "premium_monthly"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "coins_100", items[0].ID)
	assert.Equal(t, "Coins", items[0].DisplayName)
	assert.Equal(t, string(iap.PlatformIOS), items[0].Platform)

	owned, err := module.StoreKit().GetAvailableItems(context.Background(), false, true)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "premium_monthly", owned[0].ID)
	require.NotNil(t, owned[0].ExpirationDateIOS)
	assert.Equal(t, iap.EnvironmentSandbox, owned[0].EnvironmentIOS)
}

func TestLoadFixtureBytes_Android(t *testing.T) {
	t.Parallel()

	module := native.NewMemoryModule(iap.PlatformAndroid)
	require.NoError(t, module.LoadFixtureBytes([]byte(androidFixture)))
	_, err := module.PlayBilling().InitConnection(context.Background())
	require.NoError(t, err)

	items, err := module.PlayBilling().GetItemsByType(context.Background(), iap.ProductTypeSubs, []string{"premium_monthly"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Premium", items[0].NameAndroid)
	require.Len(t, items[0].SubscriptionOfferDetailsAndroid, 1)
	assert.Equal(t, "tok-base", items[0].SubscriptionOfferDetailsAndroid[0].OfferToken)

	subs, err := module.PlayBilling().GetAvailableItemsByType(context.Background(), iap.ProductTypeSubs)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "ptok-1", subs[0].PurchaseTokenAndroid)

	inapp, err := module.PlayBilling().GetAvailableItemsByType(context.Background(), iap.ProductTypeInApp)
	require.NoError(t, err)
	assert.Empty(t, inapp)
}

func TestLoadFixtureBytes_Invalid(t *testing.T) {
	t.Parallel()

	module := native.NewMemoryModule(iap.PlatformIOS)

	t.Run("bad yaml", func(t *testing.T) {
		t.Parallel()
		err := module.LoadFixtureBytes([]byte("products: ["))
		assert.ErrorIs(t, err, native.ErrFixtureInvalid)
	})

	t.Run("product without id", func(t *testing.T) {
		t.Parallel()
		err := module.LoadFixtureBytes([]byte("products:\n  - title: nameless\n"))
		assert.ErrorIs(t, err, native.ErrFixtureInvalid)
	})

	t.Run("purchase without id", func(t *testing.T) {
		t.Parallel()
		err := module.LoadFixtureBytes([]byte("purchases:\n  - transaction_id: tx-1\n"))
		assert.ErrorIs(t, err, native.ErrFixtureInvalid)
	})
}
