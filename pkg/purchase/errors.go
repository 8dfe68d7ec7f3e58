package purchase

import "errors"

var (
	// ErrInvalidRequest is returned when a request object does not match
	// the shape the active platform requires. Validation happens before
	// any native call.
	ErrInvalidRequest = errors.New("purchase: request does not match active platform")

	// ErrRequestFailed wraps native purchase call failures. The rejected
	// call is informational: the authoritative outcome still arrives
	// through the purchase event streams.
	ErrRequestFailed = errors.New("purchase: native purchase request failed")

	// ErrFinishFailed wraps native finish/consume/acknowledge failures.
	ErrFinishFailed = errors.New("purchase: finish transaction failed")
)
