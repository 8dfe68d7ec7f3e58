package entitlement

import (
	"math"
	"slices"
	"time"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
)

const (
	// ExpireSoonWindow is how close to expiration a subscription must be
	// before it is flagged as expiring soon.
	ExpireSoonWindow = 7 * 24 * time.Hour

	// sandboxGrace covers sandbox receipts that omit expiration dates:
	// a sandbox transaction within this window counts as active. This is
	// observed StoreKit sandbox behavior, not a billing guarantee.
	sandboxGrace = 24 * time.Hour
)

// ActiveSubscription is the derived activity state of one subscription
// purchase. It is recomputed on demand from the available-purchases
// snapshot and never mutated in place.
//
// DaysUntilExpirationIOS and WillExpireSoon are only reported while the
// subscription is still active; an expired subscription carries
// IsActive=false and nil pointers there, not zero or negative values.
// On Android, presence in the
// snapshot implies active (Play Billing only returns current
// entitlements) and WillExpireSoon reflects a disabled auto-renew.
type ActiveSubscription struct {
	ProductID string
	IsActive  bool

	ExpirationDateIOS      *time.Time
	DaysUntilExpirationIOS *int
	WillExpireSoon         *bool
	EnvironmentIOS         string

	AutoRenewingAndroid *bool
}

// Evaluate derives subscription activity for every subscription-shaped
// purchase in the snapshot, optionally filtered to the given product ids.
// A purchase is subscription-shaped when it carries an iOS expiration
// date, an Android auto-renew flag, or a sandbox environment marker.
func Evaluate(purchases []iap.Purchase, now time.Time, filterIDs ...string) []ActiveSubscription {
	subs := make([]ActiveSubscription, 0, len(purchases))
	for _, p := range purchases {
		if len(filterIDs) > 0 && !slices.Contains(filterIDs, p.ID) {
			continue
		}
		if !subscriptionShaped(p) {
			continue
		}
		subs = append(subs, evaluateOne(p, now))
	}
	return subs
}

func subscriptionShaped(p iap.Purchase) bool {
	switch p.Platform {
	case iap.PlatformIOS:
		return p.IOS != nil && (p.IOS.ExpirationDate != nil || p.IOS.Environment == iap.EnvironmentSandbox)
	case iap.PlatformAndroid:
		return p.Android != nil && p.Android.AutoRenewing != nil
	default:
		return false
	}
}

func evaluateOne(p iap.Purchase, now time.Time) ActiveSubscription {
	sub := ActiveSubscription{ProductID: p.ID}

	switch p.Platform {
	case iap.PlatformIOS:
		sub.EnvironmentIOS = p.IOS.Environment
		if exp := p.IOS.ExpirationDate; exp != nil {
			sub.ExpirationDateIOS = exp
			if exp.After(now) {
				sub.IsActive = true
				days := daysUntil(*exp, now)
				soon := days <= int(ExpireSoonWindow/(24*time.Hour))
				sub.DaysUntilExpirationIOS = &days
				sub.WillExpireSoon = &soon
			}
			break
		}
		// Sandbox receipts may omit expiration; a recent transaction is
		// treated as an active entitlement.
		if p.IOS.Environment == iap.EnvironmentSandbox && now.Sub(p.TransactionDate) < sandboxGrace {
			sub.IsActive = true
		}
	case iap.PlatformAndroid:
		autoRenewing := *p.Android.AutoRenewing
		soon := !autoRenewing
		sub.IsActive = true
		sub.AutoRenewingAndroid = &autoRenewing
		sub.WillExpireSoon = &soon
	}
	return sub
}

// daysUntil rounds the remaining lifetime to whole days, matching the
// millisecond arithmetic the native clients perform.
func daysUntil(exp, now time.Time) int {
	remaining := float64(exp.Sub(now).Milliseconds())
	return int(math.Round(remaining / float64((24 * time.Hour).Milliseconds())))
}
