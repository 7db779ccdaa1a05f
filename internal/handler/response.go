package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/admin"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// apiError is the client-facing form of a failure.
type apiError struct {
	Status  int
	Code    string
	Message string
}

var (
	errInvalidInput = apiError{http.StatusBadRequest, "INVALID_INPUT", "Valid product ID and quantity are required"}
	errMissingIDs   = apiError{http.StatusBadRequest, "MISSING_IDS", "Cart ID and Product ID are required"}
)

// knownErrors maps domain errors to their API representation. Anything not
// listed is an internal error.
var knownErrors = []struct {
	target error
	api    apiError
}{
	{cart.ErrMissingID, apiError{http.StatusBadRequest, "MISSING_CART_ID", "Cart ID is required"}},
	{cart.ErrInvalidInput, errInvalidInput},
	{cart.ErrNotFound, apiError{http.StatusNotFound, "CART_NOT_FOUND", "Cart not found"}},
	{product.ErrNotFound, apiError{http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found"}},
	{cart.ErrItemNotFound, apiError{http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found in cart"}},
	{cart.ErrInsufficientStock, apiError{http.StatusBadRequest, "INSUFFICIENT_STOCK", "Insufficient stock"}},
	{order.ErrEmptyCart, apiError{http.StatusBadRequest, "EMPTY_CART", "Cart is empty"}},
	{discount.ErrInvalidCode, apiError{http.StatusBadRequest, "INVALID_DISCOUNT_CODE", "Invalid discount code"}},
	{discount.ErrCodeUsed, apiError{http.StatusBadRequest, "DISCOUNT_CODE_USED", "Discount code has already been used"}},
	{admin.ErrForceRequired, apiError{
		http.StatusBadRequest, "ADMIN_ONLY",
		"This endpoint is for admin testing only. Set forceGenerate: true",
	}},
	{discount.ErrCodeExists, apiError{http.StatusConflict, "DISCOUNT_CODE_EXISTS", "Discount code already exists"}},
	{admin.ErrResetForbidden, apiError{http.StatusForbidden, "PRODUCTION_RESET_DENIED", "Reset not allowed in production"}},
}

func mapError(err error) (apiError, bool) {
	for _, k := range knownErrors {
		if errors.Is(err, k.target) {
			return k.api, true
		}
	}
	return apiError{}, false
}

// fail writes the API form of err. Unknown errors are logged and reported
// with the operation-specific internal code and message.
func fail(w http.ResponseWriter, r *http.Request, err error, internal apiError) {
	if e, ok := mapError(err); ok {
		writeError(w, e)
		return
	}

	zctx.From(r.Context()).Error(internal.Message,
		zap.String("code", internal.Code),
		zap.Error(err),
	)
	writeError(w, internal)
}

func internalError(code, message string) apiError {
	return apiError{Status: http.StatusInternalServerError, Code: code, Message: message}
}

func writeError(w http.ResponseWriter, e apiError) {
	var enc jx.Encoder
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("error", func(enc *jx.Encoder) { enc.Str(e.Message) })
		enc.Field("code", func(enc *jx.Encoder) { enc.Str(e.Code) })
		enc.Field("details", func(enc *jx.Encoder) { enc.Obj(func(*jx.Encoder) {}) })
	})
	writeJSON(w, e.Status, enc.Bytes())
}

// writeData wraps the value produced by data in the success envelope.
func writeData(w http.ResponseWriter, status int, data func(e *jx.Encoder)) {
	var enc jx.Encoder
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("data", data)
	})
	writeJSON(w, status, enc.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
