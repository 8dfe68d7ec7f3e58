// Package purchase issues storefront purchase requests and settles their
// transactions.
//
// The coordinator owns the translation from the platform-agnostic Request
// into each bridge's native shape: signed discount offers and quantity
// defaulting for StoreKit, offer tokens and replacement modes for Play
// Billing. Requests that do not match the active platform's shape fail
// with ErrInvalidRequest before any native call.
//
// A purchase call's return value only acknowledges that the flow was
// started. The result the application must act on arrives later through
// the event bridge, matched by product id; see the Coordinator
// documentation for the ordering caveats.
package purchase
