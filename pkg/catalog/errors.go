package catalog

import "errors"

var (
	// ErrEmptySKUList is returned when a fetch is requested with no SKUs.
	// Validation happens before any native call is made.
	ErrEmptySKUList = errors.New("catalog: sku list must not be empty")

	// ErrFetchFailed wraps native fetch failures.
	ErrFetchFailed = errors.New("catalog: product fetch failed")
)
