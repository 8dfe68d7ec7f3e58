package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/yjb94/expo-iap-sub000/pkg/iap"
	"github.com/yjb94/expo-iap-sub000/pkg/native"
)

// notApplicable is the replacement-mode / quantity value native layers
// expect when the caller left the field unset.
const notApplicable = -1

// Coordinator translates platform-agnostic purchase requests into the
// shape each native billing bridge requires and issues them.
//
// The returned purchases are informational acknowledgements only: native
// billing flows are asynchronous UI flows that may outlive the call, so
// the authoritative outcome is whatever later arrives on the
// purchase-updated / purchase-error event streams. Zero, one, or (for
// multi-SKU Android subscription requests) several events may follow a
// single call, in unspecified order relative to the call's own return.
type Coordinator struct {
	module native.Module
	log    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator's logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCoordinator creates a purchase coordinator over the given native
// module. Panics on a nil module to fail fast during initialization.
func NewCoordinator(module native.Module, opts ...Option) *Coordinator {
	if module == nil {
		panic("purchase: native module is required")
	}
	c := &Coordinator{module: module, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request validates, translates, and issues a purchase request. The
// request must carry the shape the active platform requires (SKU-shaped
// for iOS, SKU-list-shaped for Android); anything else is rejected with
// ErrInvalidRequest before any native call.
func (c *Coordinator) Request(ctx context.Context, req Request, typ iap.ProductType) ([]iap.Purchase, error) {
	requestID := uuid.NewString()
	log := c.log.With(slog.String("request_id", requestID))

	switch c.module.Platform() {
	case iap.PlatformIOS:
		if req.IOS == nil || req.IOS.SKU == "" {
			return nil, fmt.Errorf("%w: ios requires a sku", ErrInvalidRequest)
		}
		return c.requestIOS(ctx, log, *req.IOS)
	case iap.PlatformAndroid:
		if req.Android == nil || len(req.Android.SKUs) == 0 {
			return nil, fmt.Errorf("%w: android requires a sku list", ErrInvalidRequest)
		}
		return c.requestAndroid(ctx, log, *req.Android, typ)
	default:
		return nil, fmt.Errorf("%w: %q", iap.ErrUnsupportedPlatform, c.module.Platform())
	}
}

func (c *Coordinator) requestIOS(ctx context.Context, log *slog.Logger, req RequestIOS) ([]iap.Purchase, error) {
	params := native.BuyProductParams{
		SKU:             req.SKU,
		AutoFinish:      req.AutoFinish,
		AppAccountToken: req.AppAccountToken,
		Quantity:        notApplicable,
	}
	if req.Quantity > 0 {
		params.Quantity = req.Quantity
	}
	if req.Offer != nil {
		params.Offer = &native.PaymentDiscount{
			Identifier:    req.Offer.Identifier,
			KeyIdentifier: req.Offer.KeyIdentifier,
			Nonce:         req.Offer.Nonce,
			Signature:     req.Offer.Signature,
			Timestamp:     strconv.FormatInt(req.Offer.Timestamp, 10),
		}
	}

	log.DebugContext(ctx, "issuing storekit purchase", slog.String("sku", req.SKU))
	raw, err := c.module.StoreKit().BuyProduct(ctx, params)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	p, err := iap.PurchaseFromRaw(raw, iap.PlatformIOS)
	if err != nil {
		// The call itself went through; the event stream still carries
		// the authoritative result.
		log.WarnContext(ctx, "purchase acknowledgement was malformed", slog.Any("error", err))
		return nil, nil
	}
	return []iap.Purchase{p}, nil
}

func (c *Coordinator) requestAndroid(ctx context.Context, log *slog.Logger, req RequestAndroid, typ iap.ProductType) ([]iap.Purchase, error) {
	params := native.BuyItemParams{
		Type:                typ,
		SKUs:                req.SKUs,
		ReplacementMode:     notApplicable,
		ObfuscatedAccountID: req.ObfuscatedAccountID,
		ObfuscatedProfileID: req.ObfuscatedProfileID,
		OfferTokens:         []string{},
		IsOfferPersonalized: req.IsOfferPersonalized,
	}

	if typ == iap.ProductTypeSubs {
		params.PurchaseToken = req.PurchaseToken
		if req.ReplacementMode > 0 {
			params.ReplacementMode = req.ReplacementMode
		}
		if len(req.SubscriptionOffers) > 0 {
			skus := make([]string, 0, len(req.SubscriptionOffers))
			tokens := make([]string, 0, len(req.SubscriptionOffers))
			for _, offer := range req.SubscriptionOffers {
				skus = append(skus, offer.SKU)
				tokens = append(tokens, offer.OfferToken)
			}
			params.SKUs = skus
			params.OfferTokens = tokens
		}
	}

	log.DebugContext(ctx, "issuing play billing purchase",
		slog.Any("skus", params.SKUs), slog.String("type", string(typ)))
	raws, err := c.module.PlayBilling().BuyItemByType(ctx, params)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	purchases := make([]iap.Purchase, 0, len(raws))
	for _, raw := range raws {
		p, err := iap.PurchaseFromRaw(raw, iap.PlatformAndroid)
		if err != nil {
			log.WarnContext(ctx, "purchase acknowledgement was malformed", slog.Any("error", err))
			continue
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

// Finish settles a delivered purchase with the storefront: iOS finishes
// the transaction, Android consumes consumables and acknowledges
// everything else. A purchase is finishable exactly once; finishing an
// already-acknowledged Android non-consumable is a no-op.
func (c *Coordinator) Finish(ctx context.Context, p iap.Purchase, isConsumable bool) error {
	if p.Platform != c.module.Platform() {
		return fmt.Errorf("%w: purchase platform %q", ErrInvalidRequest, p.Platform)
	}

	switch p.Platform {
	case iap.PlatformIOS:
		if err := c.module.StoreKit().FinishTransaction(ctx, p.TransactionID); err != nil {
			return errors.Join(ErrFinishFailed, err)
		}
	case iap.PlatformAndroid:
		token := p.Token()
		switch {
		case isConsumable:
			if err := c.module.PlayBilling().ConsumeProduct(ctx, token); err != nil {
				return errors.Join(ErrFinishFailed, err)
			}
		case p.Android != nil && p.Android.IsAcknowledged:
			// Already settled.
		default:
			if err := c.module.PlayBilling().AcknowledgePurchase(ctx, token); err != nil {
				return errors.Join(ErrFinishFailed, err)
			}
		}
	default:
		return fmt.Errorf("%w: %q", iap.ErrUnsupportedPlatform, p.Platform)
	}

	c.log.DebugContext(ctx, "finished transaction",
		slog.String("sku", p.ID), slog.String("transaction_id", p.TransactionID))
	return nil
}
