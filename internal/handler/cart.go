package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// ListProducts returns the catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		fail(w, r, err, internalError("PRODUCTS_FETCH_ERROR", "Failed to fetch products"))
		return
	}

	writeData(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("products", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, p := range products {
						encodeProduct(e, p)
					}
				})
			})
		})
	})
}

// CreateCart creates an empty cart.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Create(r.Context())
	if err != nil {
		fail(w, r, err, internalError("CART_CREATION_ERROR", "Failed to create cart"))
		return
	}

	zctx.From(r.Context()).Debug("Cart created", zap.String("cart_id", c.ID))
	writeData(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("cart", func(e *jx.Encoder) { encodeCart(e, c) })
		})
	})
}

// GetCart returns a cart by id.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), r.PathValue("cartId"))
	if err != nil {
		fail(w, r, err, internalError("CART_FETCH_ERROR", "Failed to fetch cart"))
		return
	}

	writeData(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("cart", func(e *jx.Encoder) { encodeCart(e, c) })
		})
	})
}

// AddCartItem adds a product to a cart, merging with an existing line.
// The response carries the cart itself as data, unlike the other cart routes.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartId")

	var req addItemRequest
	if err := h.bind(w, r, &req, false); err != nil {
		zctx.From(r.Context()).Debug("Invalid add item request", zap.Error(err))
		writeError(w, errInvalidInput)
		return
	}

	c, err := h.carts.AddItem(r.Context(), cartID, req.ProductID, req.Quantity)
	if err != nil {
		fail(w, r, err, internalError("ADD_TO_CART_ERROR", "Failed to add item to cart"))
		return
	}

	zctx.From(r.Context()).Debug("Item added to cart",
		zap.String("cart_id", c.ID),
		zap.String("product_id", req.ProductID),
		zap.Int("item_count", c.ItemCount()),
	)
	writeData(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

// RemoveCartItem removes a product line from a cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	cartID, productID := r.PathValue("cartId"), r.PathValue("productId")
	if cartID == "" || productID == "" {
		writeError(w, errMissingIDs)
		return
	}

	c, err := h.carts.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		fail(w, r, err, internalError("REMOVE_FROM_CART_ERROR", "Failed to remove item from cart"))
		return
	}

	writeData(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("cart", func(e *jx.Encoder) { encodeCart(e, c) })
		})
	})
}
