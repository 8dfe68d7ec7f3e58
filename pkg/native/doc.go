// Package native declares the boundary to the platform billing bridges.
//
// The in-process core never talks to StoreKit or Play Billing directly; it
// consumes a Module, which bundles one platform's billing calls with the
// event emitter those bridges deliver asynchronous purchase results
// through. Real bridge bindings implement these interfaces out of tree.
//
// The package ships MemoryModule, an in-memory storefront that implements
// both platform interfaces, counts calls, and lets tests and development
// builds inject purchase events at arbitrary times relative to in-flight
// calls. Its catalog can be seeded programmatically or from a YAML
// fixture:
//
//	module := native.NewMemoryModule(iap.PlatformIOS)
//	if err := module.LoadFixture("testdata/storefront.yaml"); err != nil {
//		...
//	}
//	module.EmitPurchaseUpdated(iap.RawPurchase{ID: "premium_monthly", ...})
package native
