package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjb94/expo-iap-sub000/pkg/entitlement"
	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

func iosSubscription(id string, expiration *time.Time, environment string) iap.Purchase {
	return iap.Purchase{
		Platform:        iap.PlatformIOS,
		ID:              id,
		TransactionID:   "tx-" + id,
		TransactionDate: time.Now(),
		IOS: &iap.PurchaseIOS{
			ExpirationDate: expiration,
			Environment:    environment,
		},
	}
}

func androidSubscription(id string, autoRenewing bool) iap.Purchase {
	return iap.Purchase{
		Platform: iap.PlatformAndroid,
		ID:       id,
		Android: &iap.PurchaseAndroid{
			PurchaseToken: "tok-" + id,
			AutoRenewing:  &autoRenewing,
		},
	}
}

func TestEvaluate_IOS(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active far from expiration", func(t *testing.T) {
		t.Parallel()
		exp := now.Add(30 * 24 * time.Hour)
		subs := entitlement.Evaluate([]iap.Purchase{iosSubscription("premium", &exp, "Production")}, now)
		require.Len(t, subs, 1)

		sub := subs[0]
		assert.Equal(t, "premium", sub.ProductID)
		assert.True(t, sub.IsActive)
		require.NotNil(t, sub.ExpirationDateIOS)
		assert.True(t, sub.ExpirationDateIOS.Equal(exp))
		require.NotNil(t, sub.DaysUntilExpirationIOS)
		assert.Equal(t, 30, *sub.DaysUntilExpirationIOS)
		require.NotNil(t, sub.WillExpireSoon)
		assert.False(t, *sub.WillExpireSoon)
		assert.Equal(t, "Production", sub.EnvironmentIOS)
	})

	t.Run("exactly seven days out is expiring soon", func(t *testing.T) {
		t.Parallel()
		exp := now.Add(7 * 24 * time.Hour)
		subs := entitlement.Evaluate([]iap.Purchase{iosSubscription("premium", &exp, "Production")}, now)
		require.Len(t, subs, 1)
		require.NotNil(t, subs[0].WillExpireSoon)
		assert.True(t, *subs[0].WillExpireSoon)
		require.NotNil(t, subs[0].DaysUntilExpirationIOS)
		assert.Equal(t, 7, *subs[0].DaysUntilExpirationIOS)
	})

	t.Run("eight days out is not expiring soon", func(t *testing.T) {
		t.Parallel()
		exp := now.Add(8 * 24 * time.Hour)
		subs := entitlement.Evaluate([]iap.Purchase{iosSubscription("premium", &exp, "Production")}, now)
		require.Len(t, subs, 1)
		require.NotNil(t, subs[0].WillExpireSoon)
		assert.False(t, *subs[0].WillExpireSoon)
	})

	t.Run("just expired reports no remaining-time fields", func(t *testing.T) {
		t.Parallel()
		exp := now.Add(-time.Millisecond)
		subs := entitlement.Evaluate([]iap.Purchase{iosSubscription("premium", &exp, "Production")}, now)
		require.Len(t, subs, 1)

		sub := subs[0]
		assert.False(t, sub.IsActive)
		assert.Nil(t, sub.DaysUntilExpirationIOS)
		assert.Nil(t, sub.WillExpireSoon)
	})

	t.Run("sandbox grace without expiration date", func(t *testing.T) {
		t.Parallel()
		recent := iosSubscription("premium", nil, iap.EnvironmentSandbox)
		recent.TransactionDate = now.Add(-time.Hour)
		stale := iosSubscription("premium_old", nil, iap.EnvironmentSandbox)
		stale.TransactionDate = now.Add(-25 * time.Hour)

		subs := entitlement.Evaluate([]iap.Purchase{recent, stale}, now)
		require.Len(t, subs, 2)
		assert.True(t, subs[0].IsActive)
		assert.False(t, subs[1].IsActive)
	})
}

func TestEvaluate_Android(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("presence implies active", func(t *testing.T) {
		t.Parallel()
		subs := entitlement.Evaluate([]iap.Purchase{androidSubscription("premium", true)}, now)
		require.Len(t, subs, 1)

		sub := subs[0]
		assert.True(t, sub.IsActive)
		require.NotNil(t, sub.AutoRenewingAndroid)
		assert.True(t, *sub.AutoRenewingAndroid)
		require.NotNil(t, sub.WillExpireSoon)
		assert.False(t, *sub.WillExpireSoon)
	})

	t.Run("disabled auto-renew means expiring soon", func(t *testing.T) {
		t.Parallel()
		subs := entitlement.Evaluate([]iap.Purchase{androidSubscription("premium", false)}, now)
		require.Len(t, subs, 1)
		require.NotNil(t, subs[0].WillExpireSoon)
		assert.True(t, *subs[0].WillExpireSoon)
	})

	t.Run("one-time purchases are not subscription-shaped", func(t *testing.T) {
		t.Parallel()
		oneTime := iap.Purchase{
			Platform: iap.PlatformAndroid,
			ID:       "coins_100",
			Android:  &iap.PurchaseAndroid{PurchaseToken: "tok"},
		}
		subs := entitlement.Evaluate([]iap.Purchase{oneTime}, now)
		assert.Empty(t, subs)
	})
}

func TestEvaluate_Filtering(t *testing.T) {
	t.Parallel()

	now := time.Now()
	exp := now.Add(48 * time.Hour)
	snapshot := []iap.Purchase{
		iosSubscription("premium_monthly", &exp, "Production"),
		iosSubscription("premium_annual", &exp, "Production"),
	}

	t.Run("filter ids narrow the result", func(t *testing.T) {
		t.Parallel()
		subs := entitlement.Evaluate(snapshot, now, "premium_annual")
		require.Len(t, subs, 1)
		assert.Equal(t, "premium_annual", subs[0].ProductID)
	})

	t.Run("no filter keeps everything subscription-shaped", func(t *testing.T) {
		t.Parallel()
		subs := entitlement.Evaluate(snapshot, now)
		assert.Len(t, subs, 2)
	})

	t.Run("unknown platform yields nothing", func(t *testing.T) {
		t.Parallel()
		subs := entitlement.Evaluate([]iap.Purchase{{Platform: "web", ID: "premium"}}, now)
		assert.Empty(t, subs)
	})

	t.Run("one-time ios purchases are skipped", func(t *testing.T) {
		t.Parallel()
		oneTime := iap.Purchase{
			Platform: iap.PlatformIOS,
			ID:       "coins_100",
			IOS:      &iap.PurchaseIOS{Environment: "Production"},
		}
		subs := entitlement.Evaluate([]iap.Purchase{oneTime}, now)
		assert.Empty(t, subs)
	})
}
