package iap

import "errors"

var (
	// ErrUnsupportedPlatform is returned when a record or request targets a
	// platform other than ios or android.
	ErrUnsupportedPlatform = errors.New("iap: unsupported platform")

	// ErrMalformedRecord is returned by the normalization guards when a raw
	// native record is missing required fields or claims a foreign platform.
	ErrMalformedRecord = errors.New("iap: malformed native record")

	// ErrInvalidJWS is returned when a StoreKit JWS representation cannot be
	// decoded into a transaction payload.
	ErrInvalidJWS = errors.New("iap: invalid JWS representation")
)
