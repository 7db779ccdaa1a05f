package handler

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/admin"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// timeLayout renders timestamps in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Float64(d.InexactFloat64())
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(timeLayout))
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeMoney(e, p.Price) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
	})
}

// encodeLine writes a cart or order line; both share the same wire shape.
func encodeLine(e *jx.Encoder, productID string, quantity int, price decimal.Decimal) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Str(productID) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(quantity) })
		e.Field("price", func(e *jx.Encoder) { encodeMoney(e, price) })
	})
}

func encodeCart(e *jx.Encoder, c *cart.Cart) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range c.Items {
					encodeLine(e, it.ProductID, it.Quantity, it.Price)
				}
			})
		})
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, c.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encodeTime(e, c.UpdatedAt) })
	})
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("orderNumber", func(e *jx.Encoder) { e.Int(o.Number) })
		e.Field("cartId", func(e *jx.Encoder) { e.Str(o.CartID) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range o.Items {
					encodeLine(e, it.ProductID, it.Quantity, it.Price)
				}
			})
		})
		e.Field("subtotal", func(e *jx.Encoder) { encodeMoney(e, o.Subtotal) })
		if o.DiscountCode != "" {
			e.Field("discountCode", func(e *jx.Encoder) { e.Str(o.DiscountCode) })
		}
		e.Field("discountAmount", func(e *jx.Encoder) { encodeMoney(e, o.DiscountAmount) })
		e.Field("total", func(e *jx.Encoder) { encodeMoney(e, o.Total) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, o.CreatedAt) })
	})
}

func encodeDiscountCode(e *jx.Encoder, c *discount.Code) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(c.Code) })
		e.Field("discount", func(e *jx.Encoder) { e.Float64(c.Rate.InexactFloat64()) })
		e.Field("isUsed", func(e *jx.Encoder) { e.Bool(c.Used) })
		e.Field("createdForOrderNumber", func(e *jx.Encoder) { e.Int(c.CreatedForOrderNumber) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, c.CreatedAt) })
		if c.UsedAt != nil {
			e.Field("usedAt", func(e *jx.Encoder) { encodeTime(e, *c.UsedAt) })
		}
	})
}

func encodeDiscountCodes(e *jx.Encoder, codes []discount.Code) {
	e.Arr(func(e *jx.Encoder) {
		for i := range codes {
			encodeDiscountCode(e, &codes[i])
		}
	})
}

func encodeStats(e *jx.Encoder, st *admin.Stats) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("totalOrders", func(e *jx.Encoder) { e.Int(st.TotalOrders) })
		e.Field("totalItemsPurchased", func(e *jx.Encoder) { e.Int(st.TotalItemsPurchased) })
		e.Field("totalRevenue", func(e *jx.Encoder) { encodeMoney(e, st.TotalRevenue) })
		e.Field("totalDiscountAmount", func(e *jx.Encoder) { encodeMoney(e, st.TotalDiscountAmount) })
		e.Field("discountCodes", func(e *jx.Encoder) { encodeDiscountCodes(e, st.DiscountCodes) })
		e.Field("unusedDiscountCodes", func(e *jx.Encoder) { e.Int(st.UnusedDiscountCodes) })
		e.Field("orders", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range st.Orders {
					encodeOrder(e, &st.Orders[i])
				}
			})
		})
	})
}
