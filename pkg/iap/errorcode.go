package iap

import "errors"

// ErrorCode is the closed, platform-independent taxonomy of purchase-flow
// failures. Raw platform codes are mapped onto it by CodeFromRaw using the
// code table the native layer exposes.
type ErrorCode string

const (
	ErrorCodeUnknown                     ErrorCode = "E_UNKNOWN"
	ErrorCodeUserCancelled               ErrorCode = "E_USER_CANCELLED"
	ErrorCodeUserError                   ErrorCode = "E_USER_ERROR"
	ErrorCodeItemUnavailable             ErrorCode = "E_ITEM_UNAVAILABLE"
	ErrorCodeRemoteError                 ErrorCode = "E_REMOTE_ERROR"
	ErrorCodeNetworkError                ErrorCode = "E_NETWORK_ERROR"
	ErrorCodeServiceError                ErrorCode = "E_SERVICE_ERROR"
	ErrorCodeReceiptFailed               ErrorCode = "E_RECEIPT_FAILED"
	ErrorCodeReceiptFinishedFailed       ErrorCode = "E_RECEIPT_FINISHED_FAILED"
	ErrorCodeNotPrepared                 ErrorCode = "E_NOT_PREPARED"
	ErrorCodeNotEnded                    ErrorCode = "E_NOT_ENDED"
	ErrorCodeAlreadyOwned                ErrorCode = "E_ALREADY_OWNED"
	ErrorCodeDeveloperError              ErrorCode = "E_DEVELOPER_ERROR"
	ErrorCodeDeferredPayment             ErrorCode = "E_DEFERRED_PAYMENT"
	ErrorCodeInterrupted                 ErrorCode = "E_INTERRUPTED"
	ErrorCodeIAPNotAvailable             ErrorCode = "E_IAP_NOT_AVAILABLE"
	ErrorCodePurchaseError               ErrorCode = "E_PURCHASE_ERROR"
	ErrorCodeSyncError                   ErrorCode = "E_SYNC_ERROR"
	ErrorCodeTransactionValidationFailed ErrorCode = "E_TRANSACTION_VALIDATION_FAILED"
	ErrorCodeActivityUnavailable         ErrorCode = "E_ACTIVITY_UNAVAILABLE"
	ErrorCodePending                     ErrorCode = "E_PENDING"
	ErrorCodeConnectionClosed            ErrorCode = "E_CONNECTION_CLOSED"
)

// CodeFromRaw maps a raw platform error code onto the portable taxonomy
// using the code table published by the native layer. Unmapped codes fall
// back to ErrorCodeUnknown rather than failing.
func CodeFromRaw(raw string, table map[string]ErrorCode) ErrorCode {
	if code, ok := table[raw]; ok {
		return code
	}
	// Native layers commonly emit the portable code verbatim.
	if code := ErrorCode(raw); code.known() {
		return code
	}
	return ErrorCodeUnknown
}

func (c ErrorCode) known() bool {
	switch c {
	case ErrorCodeUnknown, ErrorCodeUserCancelled, ErrorCodeUserError,
		ErrorCodeItemUnavailable, ErrorCodeRemoteError, ErrorCodeNetworkError,
		ErrorCodeServiceError, ErrorCodeReceiptFailed, ErrorCodeReceiptFinishedFailed,
		ErrorCodeNotPrepared, ErrorCodeNotEnded, ErrorCodeAlreadyOwned,
		ErrorCodeDeveloperError, ErrorCodeDeferredPayment, ErrorCodeInterrupted,
		ErrorCodeIAPNotAvailable, ErrorCodePurchaseError, ErrorCodeSyncError,
		ErrorCodeTransactionValidationFailed, ErrorCodeActivityUnavailable,
		ErrorCodePending, ErrorCodeConnectionClosed:
		return true
	}
	return false
}

// UserCancelled reports whether the code means the user dismissed the
// payment sheet.
func (c ErrorCode) UserCancelled() bool {
	return c == ErrorCodeUserCancelled
}

// NetworkRelated reports whether the code indicates a network or
// storefront-availability failure.
func (c ErrorCode) NetworkRelated() bool {
	switch c {
	case ErrorCodeNetworkError, ErrorCodeRemoteError, ErrorCodeServiceError:
		return true
	}
	return false
}

// Recoverable reports whether retrying the flow later can reasonably be
// expected to succeed. Superset of NetworkRelated.
func (c ErrorCode) Recoverable() bool {
	return c.NetworkRelated() || c == ErrorCodeInterrupted
}

// codeOf extracts an ErrorCode from an arbitrary error value. Works for
// *PurchaseError anywhere in the chain; anything else yields false.
func codeOf(err error) (ErrorCode, bool) {
	var pe *PurchaseError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return "", false
}

// IsUserCancelled reports whether err is a purchase error caused by the
// user dismissing the payment sheet. Cancellations are expected flow, not
// failures, and should usually be dropped silently.
func IsUserCancelled(err error) bool {
	code, ok := codeOf(err)
	return ok && code.UserCancelled()
}

// IsNetworkError reports whether err is a network or storefront
// availability failure.
func IsNetworkError(err error) bool {
	code, ok := codeOf(err)
	return ok && code.NetworkRelated()
}

// IsRecoverable reports whether the failed flow can be retried later.
func IsRecoverable(err error) bool {
	code, ok := codeOf(err)
	return ok && code.Recoverable()
}

// FriendlyMessage returns a human-readable message for a purchase error.
// Unknown codes fall back to the error's own message, then to a generic
// string. It never fails regardless of input, including nil.
func FriendlyMessage(err error) string {
	const generic = "An unknown error occurred. Please try again."
	if err == nil {
		return generic
	}

	code, ok := codeOf(err)
	if !ok {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return generic
	}

	switch code {
	case ErrorCodeUserCancelled:
		return "Purchase cancelled."
	case ErrorCodeNetworkError:
		return "Network connection error. Please check your connection and try again."
	case ErrorCodeRemoteError, ErrorCodeServiceError:
		return "Store service error. Please try again later."
	case ErrorCodeItemUnavailable:
		return "This item is not available for purchase."
	case ErrorCodeAlreadyOwned:
		return "You already own this item."
	case ErrorCodeDeferredPayment:
		return "Payment is pending approval."
	case ErrorCodeNotPrepared:
		return "Store connection is not ready. Please try again."
	case ErrorCodeTransactionValidationFailed:
		return "Transaction could not be verified."
	case ErrorCodeReceiptFailed, ErrorCodeReceiptFinishedFailed:
		return "Receipt processing failed. Please try again."
	case ErrorCodeInterrupted:
		return "The purchase was interrupted. Please try again."
	case ErrorCodeIAPNotAvailable:
		return "In-app purchases are not available on this device."
	case ErrorCodePending:
		return "The purchase is pending. Please wait for it to complete."
	case ErrorCodeDeveloperError, ErrorCodeUserError:
		return "There was a problem with this purchase request."
	default:
		var pe *PurchaseError
		if errors.As(err, &pe) && pe.Message != "" {
			return pe.Message
		}
		return generic
	}
}
