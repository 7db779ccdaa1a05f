// Package handler exposes the storefront operations over HTTP.
package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/xenking/storefront/internal/domain/admin"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// PathPrefix is the mount point of the API routes.
const PathPrefix = "/api"

// Handler serves the JSON API, delegating business logic to the domain
// services.
type Handler struct {
	products  product.Repository
	carts     *cart.Service
	orders    *order.Service
	discounts discount.Registry
	admin     *admin.Service
	validate  *validator.Validate
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	carts *cart.Service,
	orders *order.Service,
	discounts discount.Registry,
	adminService *admin.Service,
) *Handler {
	return &Handler{
		products:  products,
		carts:     carts,
		orders:    orders,
		discounts: discounts,
		admin:     adminService,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+PathPrefix+"/products", h.ListProducts)

	mux.HandleFunc("POST "+PathPrefix+"/cart", h.CreateCart)
	mux.HandleFunc("GET "+PathPrefix+"/cart/{cartId}", h.GetCart)
	mux.HandleFunc("POST "+PathPrefix+"/cart/{cartId}/items", h.AddCartItem)
	mux.HandleFunc("DELETE "+PathPrefix+"/cart/{cartId}/items/{productId}", h.RemoveCartItem)

	mux.HandleFunc("POST "+PathPrefix+"/checkout", h.Checkout)
	mux.HandleFunc("GET "+PathPrefix+"/discount-codes", h.ListDiscountCodes)

	mux.HandleFunc("GET "+PathPrefix+"/admin/stats", h.GetAdminStats)
	mux.HandleFunc("POST "+PathPrefix+"/admin/discount", h.GenerateDiscountCode)
	mux.HandleFunc("POST "+PathPrefix+"/admin/reset", h.ResetStore)
}
