package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// GetAdminStats returns aggregated store statistics.
func (h *Handler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.admin.Stats(r.Context())
	if err != nil {
		fail(w, r, err, internalError("STATS_ERROR", "Failed to fetch statistics"))
		return
	}

	writeData(w, http.StatusOK, func(e *jx.Encoder) { encodeStats(e, st) })
}

// GenerateDiscountCode issues a discount code outside the checkout flow.
func (h *Handler) GenerateDiscountCode(w http.ResponseWriter, r *http.Request) {
	var req generateDiscountRequest
	if err := h.bind(w, r, &req, true); err != nil {
		zctx.From(r.Context()).Debug("Invalid generate request", zap.Error(err))
		writeError(w, apiError{http.StatusBadRequest, "INVALID_INPUT", "Invalid request body"})
		return
	}

	code, err := h.admin.GenerateDiscountCode(r.Context(), req.ForceGenerate)
	if err != nil {
		fail(w, r, err, internalError("DISCOUNT_GENERATION_ERROR", "Failed to generate discount code"))
		return
	}

	zctx.From(r.Context()).Info("Discount code generated", zap.String("code", code.Code))
	writeData(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("discountCode", func(e *jx.Encoder) { encodeDiscountCode(e, code) })
		})
	})
}

// ResetStore clears carts, orders and discount codes.
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Reset(r.Context()); err != nil {
		fail(w, r, err, internalError("RESET_ERROR", "Failed to reset store"))
		return
	}

	zctx.From(r.Context()).Warn("Store reset")
	writeData(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str("Store reset successfully") })
		})
	})
}
