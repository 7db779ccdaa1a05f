package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// maxBodySize limits request bodies; every request payload is a small object.
const maxBodySize = 1 << 16

type addItemRequest struct {
	ProductID string `validate:"required"`
	Quantity  int    `validate:"gt=0"`
}

// checkoutRequest fields are checked by the order service.
type checkoutRequest struct {
	CartID       string
	DiscountCode string
}

type generateDiscountRequest struct {
	ForceGenerate bool
}

// readBody returns the request body, or nil for an empty one.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return b, nil
}

// decodeObject calls field for every key of the JSON object in b. Null
// values are skipped so that optional fields may be sent as null.
func decodeObject(b []byte, field func(d *jx.Decoder, key string) error) error {
	d := jx.DecodeBytes(b)
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if d.Next() == jx.Null {
			return d.Null()
		}
		return field(d, string(key))
	})
}

func (req *addItemRequest) Decode(b []byte) error {
	return decodeObject(b, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			req.ProductID, err = d.Str()
		case "quantity":
			req.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (req *checkoutRequest) Decode(b []byte) error {
	return decodeObject(b, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cartId":
			req.CartID, err = d.Str()
		case "discountCode":
			req.DiscountCode, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (req *generateDiscountRequest) Decode(b []byte) error {
	return decodeObject(b, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "forceGenerate":
			req.ForceGenerate, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

// decoder is implemented by the request types.
type decoder interface {
	Decode(b []byte) error
}

// bind reads, decodes and validates the body into req. An empty body leaves
// req at its zero value when allowEmpty is set.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, req decoder, allowEmpty bool) error {
	b, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		if !allowEmpty {
			return errors.New("empty body")
		}
	} else if err := req.Decode(b); err != nil {
		return errors.Wrap(err, "decode body")
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.Wrap(err, "validate body")
	}
	return nil
}
