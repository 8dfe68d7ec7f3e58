// Package iap defines the unified data model shared by every other package
// in this module: tagged product and purchase records, the raw shapes
// delivered by the native storefront bridges, normalization guards that
// turn raw records into tagged ones, and the portable purchase-error
// taxonomy.
//
// # Data model
//
// Native StoreKit and Play Billing records are duck-typed: the same flat
// payload carries iOS fields or Android fields depending on where it came
// from. This package keeps that flat shape only at the boundary (RawProduct,
// RawPurchase) and converts it into an explicit tagged form as early as
// possible:
//
//   - Product carries the fields both storefronts share plus exactly one of
//     ProductIOS / ProductAndroid, selected by Platform.
//   - Purchase does the same with PurchaseIOS / PurchaseAndroid.
//
// Records are treated as immutable values; updates replace the whole
// record. Identity is (Platform, ID).
//
// # Normalization
//
// ProductFromRaw and PurchaseFromRaw validate a raw record against a target
// platform and reject malformed or foreign-platform payloads:
//
//	product, err := iap.ProductFromRaw(raw, iap.PlatformIOS)
//	if errors.Is(err, iap.ErrMalformedRecord) {
//		// drop the record, it did not come from the platform it claims
//	}
//
// When a raw iOS purchase carries a StoreKit 2 JWS representation, missing
// transaction fields are backfilled from the decoded (unverified) payload.
//
// # Error taxonomy
//
// ErrorCode is the closed, platform-independent enum for purchase-flow
// outcomes. Classification helpers work on both bare codes and error
// values:
//
//	if iap.IsUserCancelled(err) {
//		// silently drop, the user closed the payment sheet
//	}
//	if iap.IsRecoverable(err) {
//		// safe to retry the flow later
//	}
//
// FriendlyMessage never fails and always returns a human-readable string
// for any input.
package iap
