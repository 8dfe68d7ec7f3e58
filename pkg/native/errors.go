package native

import "errors"

var (
	// ErrNotConnected is returned by bridge calls issued before a
	// successful InitConnection.
	ErrNotConnected = errors.New("native: storefront connection not initialized")

	// ErrFixtureInvalid is returned when a storefront fixture file cannot
	// be parsed.
	ErrFixtureInvalid = errors.New("native: invalid storefront fixture")
)
