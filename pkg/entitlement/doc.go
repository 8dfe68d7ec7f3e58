// Package entitlement derives subscription activity from the raw
// available-purchases snapshot.
//
// The two storefronts express "still entitled" through different fields:
// StoreKit attaches an expiration date (which sandbox receipts sometimes
// omit), Play Billing simply stops returning lapsed purchases and signals
// an upcoming lapse through a disabled auto-renew. Evaluate folds both
// into the single ActiveSubscription shape, applying the 7-day
// expiring-soon window and the sandbox 24-hour heuristic.
package entitlement
