// Package catalog fetches, filters, and caches storefront products.
//
// Fetcher validates SKU lists before touching native code, dispatches to
// the active platform's fetch call, and drops malformed, foreign-platform
// and unrequested records on the way back. Store accumulates the results
// of incremental fetches into snapshots that stay unique by
// (platform, id), using the order-preserving idempotent MergeBy.
package catalog
