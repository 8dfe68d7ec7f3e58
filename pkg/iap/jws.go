package iap

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// JWSTransaction is the decoded payload of a StoreKit 2 signed
// transaction. Timestamps are epoch milliseconds as Apple emits them.
type JWSTransaction struct {
	TransactionID         string `json:"transactionId"`
	OriginalTransactionID string `json:"originalTransactionId"`
	WebOrderLineItemID    string `json:"webOrderLineItemId,omitempty"`
	BundleID              string `json:"bundleId"`
	ProductID             string `json:"productId"`
	SubscriptionGroupID   string `json:"subscriptionGroupIdentifier,omitempty"`
	PurchaseDate          int64  `json:"purchaseDate"`
	OriginalPurchaseDate  int64  `json:"originalPurchaseDate"`
	ExpiresDate           *int64 `json:"expiresDate,omitempty"`
	RevocationDate        *int64 `json:"revocationDate,omitempty"`
	RevocationReason      *int   `json:"revocationReason,omitempty"`
	Quantity              int    `json:"quantity"`
	Type                  string `json:"type"`
	AppAccountToken       string `json:"appAccountToken,omitempty"`
	InAppOwnershipType    string `json:"inAppOwnershipType,omitempty"`
	Environment           string `json:"environment"`
	TransactionReason     string `json:"transactionReason,omitempty"`
	Storefront            string `json:"storefront,omitempty"`
	Currency              string `json:"currency,omitempty"`
	Price                 int64  `json:"price,omitempty"`
}

// DecodeJWSTransaction decodes the payload segment of a StoreKit 2 JWS
// representation. The signature is NOT verified: cryptographic
// verification belongs on a server holding Apple's root certificates, this
// decode only recovers fields the flat native record may have omitted.
func DecodeJWSTransaction(token string) (JWSTransaction, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return JWSTransaction{}, ErrInvalidJWS
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return JWSTransaction{}, errors.Join(ErrInvalidJWS, err)
	}

	var tx JWSTransaction
	if err := json.Unmarshal(payload, &tx); err != nil {
		return JWSTransaction{}, errors.Join(ErrInvalidJWS, err)
	}
	return tx, nil
}
