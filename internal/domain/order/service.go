package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/txn"
	"github.com/xenking/storefront/internal/ident"
)

// idPrefix is prepended to generated order IDs.
const idPrefix = "order"

// ErrEmptyCart is returned when checking out a cart without items.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutRequest holds the input for a checkout.
type CheckoutRequest struct {
	CartID string
	// DiscountCode is optional; empty means no code.
	DiscountCode string
}

// CheckoutResult holds the output of a successful checkout.
type CheckoutResult struct {
	Order *Order
	// NewDiscountCode is set when this order earned a loyalty code.
	NewDiscountCode *discount.Code
}

// Service encapsulates the checkout transaction.
type Service struct {
	carts     cart.Repository
	redeemer  discount.Redeemer
	discounts discount.Registry
	ledger    Ledger
	tx        txn.Transactor
	now       func() time.Time

	tracer  trace.Tracer
	metrics *metrics
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	carts cart.Repository,
	redeemer discount.Redeemer,
	discounts discount.Registry,
	ledger Ledger,
	tx txn.Transactor,
	opts ...Option,
) (*Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m, err := newMetrics(o.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}

	return &Service{
		carts:     carts,
		redeemer:  redeemer,
		discounts: discounts,
		ledger:    ledger,
		tx:        tx,
		now:       time.Now,
		tracer:    o.tracerProvider.Tracer(instrumentationName),
		metrics:   m,
	}, nil
}

// Checkout converts a cart into an order. The whole sequence runs inside a
// single store transaction:
//
//  1. load the cart and reject empty carts;
//  2. redeem the discount code, if any (the code is consumed here and is not
//     released if a later step fails);
//  3. record the order, which assigns the next sequential number;
//  4. delete the cart;
//  5. issue a loyalty code when the order number is a multiple of
//     discount.EveryNthOrder. Issuance failures are logged, not returned.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.CartID == "" {
		return nil, cart.ErrMissingID
	}

	ctx, span := s.tracer.Start(ctx, "order.Checkout",
		trace.WithAttributes(
			attribute.String("cart.id", req.CartID),
			attribute.Bool("discount.requested", req.DiscountCode != ""),
		),
	)
	defer span.End()

	var res *CheckoutResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.checkout(ctx, req)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		if rejected(err) {
			span.SetAttributes(attribute.String("checkout.rejected", err.Error()))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("order.number", res.Order.Number))
	s.metrics.observe(ctx, res)
	return res, nil
}

func (s *Service) checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	c, err := s.carts.Get(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := c.Subtotal()

	o := &Order{
		ID:             ident.New(idPrefix, s.now()),
		CartID:         c.ID,
		Items:          snapshotItems(c.Items),
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
	}

	if req.DiscountCode != "" {
		redemption, err := s.redeemer.Redeem(ctx, req.DiscountCode, subtotal)
		if err != nil {
			return nil, err
		}
		o.DiscountCode = redemption.Code
		o.DiscountAmount = redemption.Amount
	}
	o.Total = subtotal.Sub(o.DiscountAmount)

	if err := s.ledger.Record(ctx, o); err != nil {
		return nil, errors.Wrap(err, "record order")
	}

	if _, err := s.carts.Delete(ctx, c.ID); err != nil {
		return nil, errors.Wrap(err, "delete cart")
	}

	res := &CheckoutResult{Order: o}
	if !discount.ShouldIssue(o.Number) {
		return res, nil
	}

	code := discount.Generate(o.Number, s.now())
	switch err := s.discounts.Issue(ctx, code); {
	case err == nil:
		res.NewDiscountCode = code
	case errors.Is(err, discount.ErrCodeExists):
		// A manually issued code already took this name. The order is
		// committed, so the checkout succeeds without a new code.
		zctx.From(ctx).Warn("Loyalty code already exists, skipping issuance",
			zap.String("code", code.Code),
			zap.Int("order_number", o.Number),
		)
	default:
		// The order is already recorded; checkout succeeds without a new code.
		zctx.From(ctx).Error("Failed to issue loyalty code",
			zap.String("code", code.Code),
			zap.Int("order_number", o.Number),
			zap.Error(err),
		)
	}

	return res, nil
}

// rejected reports whether err is an expected checkout outcome caused by the
// request rather than a failure of the service.
func rejected(err error) bool {
	for _, target := range []error{
		cart.ErrNotFound,
		ErrEmptyCart,
		discount.ErrInvalidCode,
		discount.ErrCodeUsed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func snapshotItems(items []cart.Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return out
}
