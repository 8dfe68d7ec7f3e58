package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
	"github.com/yjb94/expo-iap-sub000/pkg/native"
)

// Fetcher retrieves and normalizes catalog entries from the native layer.
type Fetcher struct {
	module native.Module
	log    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the fetcher's logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFetcher creates a catalog fetcher over the given native module.
// Panics on a nil module to fail fast during initialization.
func NewFetcher(module native.Module, opts ...Option) *Fetcher {
	if module == nil {
		panic("catalog: native module is required")
	}
	f := &Fetcher{module: module, log: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch requests the given SKUs from the active platform's storefront and
// returns them as tagged products. The SKU list must be non-empty; that
// is validated before any native call. Malformed or foreign-platform
// records are dropped, and so are records for SKUs that were never
// requested, since native layers have been observed returning extras.
// Repeated entries for the same (platform, id) keep the first occurrence,
// so the result honors catalog identity uniqueness on its own.
func (f *Fetcher) Fetch(ctx context.Context, skus []string, typ iap.ProductType) ([]iap.Product, error) {
	if len(skus) == 0 {
		return nil, ErrEmptySKUList
	}

	raws, err := f.fetchRaw(ctx, skus, typ)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	platform := f.module.Platform()
	products := make([]iap.Product, 0, len(raws))
	seen := make(map[iap.ProductKey]bool, len(raws))
	for _, raw := range raws {
		if !slices.Contains(skus, raw.ID) {
			f.log.DebugContext(ctx, "dropping unrequested catalog entry", slog.String("sku", raw.ID))
			continue
		}
		product, err := iap.ProductFromRaw(raw, platform)
		if err != nil {
			f.log.WarnContext(ctx, "dropping malformed catalog entry",
				slog.String("sku", raw.ID), slog.Any("error", err))
			continue
		}
		// Native layers have been observed repeating entries; first one wins.
		if seen[product.Key()] {
			continue
		}
		seen[product.Key()] = true
		products = append(products, product)
	}
	return products, nil
}

func (f *Fetcher) fetchRaw(ctx context.Context, skus []string, typ iap.ProductType) ([]iap.RawProduct, error) {
	switch f.module.Platform() {
	case iap.PlatformIOS:
		return f.module.StoreKit().GetItems(ctx, skus)
	case iap.PlatformAndroid:
		return f.module.PlayBilling().GetItemsByType(ctx, typ, skus)
	default:
		return nil, fmt.Errorf("%w: %q", iap.ErrUnsupportedPlatform, f.module.Platform())
	}
}

// MergeBy appends to existing only those incoming items whose key is not
// already present, preserving first-seen order. Merging the same incoming
// batch twice yields the same result as merging it once. Quadratic over
// catalog sizes, which stay in the tens of items.
func MergeBy[T any, K comparable](existing, incoming []T, key func(T) K) []T {
	merged := slices.Clone(existing)
	for _, item := range incoming {
		k := key(item)
		seen := slices.ContainsFunc(merged, func(t T) bool { return key(t) == k })
		if !seen {
			merged = append(merged, item)
		}
	}
	return merged
}

// MergeProducts merges incoming products into existing by catalog
// identity (platform, id).
func MergeProducts(existing, incoming []iap.Product) []iap.Product {
	return MergeBy(existing, incoming, iap.Product.Key)
}
