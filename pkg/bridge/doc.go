// Package bridge routes the asynchronous native billing events to
// application handlers.
//
// Native billing layers deliver purchase results through persistent event
// streams, not through the return value of the originating call. The
// bridge owns the native listener registrations for one connection
// session and guarantees:
//
//   - at most one native listener per event name, however many handlers
//     subscribe (fan-out),
//   - idempotent unsubscribe tokens,
//   - exactly one native detach per native attach, reached either through
//     the last token's Unsubscribe or through Close.
//
// Leaked native listeners would keep firing callbacks into torn-down
// state after disconnect; the lifecycle controller therefore creates a
// fresh Bridge per connection and Closes it on teardown.
package bridge
