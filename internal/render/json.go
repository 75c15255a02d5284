package render

import (
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/domain/user"
	"github.com/xenking/order-reports/internal/report"
)

// JSON writes s as a single JSON document. Decimal values are written as
// JSON numbers with their exact decimal representation.
func JSON(w io.Writer, s *report.Summary) error {
	e := &jx.Encoder{}

	e.ObjStart()

	e.FieldStart("code")
	e.ObjStart()
	e.FieldStart("code")
	e.Str(s.Code.Code)
	e.FieldStart("used")
	e.Bool(s.Code.Used)
	e.ObjEnd()

	e.FieldStart("most_expensive")
	encodeProduct(e, s.MostExpensive)

	e.FieldStart("most_popular")
	encodeProduct(e, s.MostPopular)

	e.FieldStart("average_age")
	e.ObjStart()
	e.FieldStart("product")
	encodeProduct(e, s.AverageAge.Product)
	e.FieldStart("age")
	e.Float64(s.AverageAge.Age)
	e.ObjEnd()

	e.FieldStart("buyers")
	e.ArrStart()
	for p, users := range s.Buyers.All {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(e, p)
		e.FieldStart("users")
		e.ArrStart()
		for _, u := range users {
			encodeUser(e, u)
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("products_by_price")
	e.ArrStart()
	for _, p := range s.ProductsByPrice {
		encodeProduct(e, p)
	}
	e.ArrEnd()

	e.FieldStart("orders_by_age_desc")
	e.ArrStart()
	for _, o := range s.OrdersByAgeDesc {
		encodeOrder(e, o)
	}
	e.ArrEnd()

	e.FieldStart("order_weights")
	e.ArrStart()
	for o, total := range s.Weights.All {
		e.ObjStart()
		e.FieldStart("order")
		encodeOrder(e, o)
		e.FieldStart("total_weight")
		e.Int64(total)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.ObjEnd()

	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return errors.Wrap(err, "write json")
	}
	return nil
}

func encodeUser(e *jx.Encoder, u user.User) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(u.Name())
	e.FieldStart("age")
	e.Int(u.Age())
	e.ObjEnd()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	if p == nil {
		e.Null()
		return
	}

	e.ObjStart()
	e.FieldStart("type")
	e.Str(p.Kind().String())
	e.FieldStart("name")
	e.Str(p.Name())
	e.FieldStart("price")
	e.Raw([]byte(p.Price().String()))

	switch v := p.(type) {
	case product.Real:
		e.FieldStart("size")
		e.Raw([]byte(v.Size().String()))
		e.FieldStart("weight")
		e.Raw([]byte(v.Weight().String()))
	case product.Virtual:
		e.FieldStart("code")
		e.Str(v.Code())
		e.FieldStart("expiration_date")
		e.Str(v.ExpiresOn().Format(time.DateOnly))
	}
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("user")
	encodeUser(e, o.User())
	e.FieldStart("products")
	e.ArrStart()
	for _, p := range o.All {
		encodeProduct(e, p)
	}
	e.ArrEnd()
	e.ObjEnd()
}
