package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/order"
)

// Checkout converts a cart into an order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := h.bind(w, r, &req, false); err != nil {
		zctx.From(ctx).Debug("Invalid checkout request", zap.Error(err))
		writeError(w, apiError{http.StatusBadRequest, "INVALID_INPUT", "Invalid checkout request"})
		return
	}

	res, err := h.orders.Checkout(ctx, order.CheckoutRequest{
		CartID:       req.CartID,
		DiscountCode: req.DiscountCode,
	})
	if err != nil {
		fail(w, r, err, internalError("CHECKOUT_ERROR", "Failed to process checkout"))
		return
	}

	fields := []zap.Field{
		zap.String("order_id", res.Order.ID),
		zap.Int("order_number", res.Order.Number),
		zap.String("total", res.Order.Total.StringFixed(2)),
	}
	if res.NewDiscountCode != nil {
		fields = append(fields, zap.String("new_discount_code", res.NewDiscountCode.Code))
	}
	zctx.From(ctx).Info("Order placed", fields...)

	writeData(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("order", func(e *jx.Encoder) { encodeOrder(e, res.Order) })
			if res.NewDiscountCode != nil {
				e.Field("newDiscountCode", func(e *jx.Encoder) { encodeDiscountCode(e, res.NewDiscountCode) })
			}
		})
	})
}

// ListDiscountCodes returns the codes that can still be redeemed.
func (h *Handler) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.discounts.ListUnused(r.Context())
	if err != nil {
		fail(w, r, err, internalError("DISCOUNT_CODES_FETCH_ERROR", "Failed to fetch discount codes"))
		return
	}

	writeData(w, http.StatusOK, func(e *jx.Encoder) { encodeDiscountCodes(e, codes) })
}
