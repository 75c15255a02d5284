package order

import (
	"slices"
	"strconv"
	"strings"

	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/domain/user"
)

// Order represents a user's purchase of an ordered list of products. The same
// product may appear more than once. An Order never changes after New.
type Order struct {
	user     user.User
	products []product.Product
}

// Key is a comparable value identifying an order by its user and product
// sequence.
type Key string

// New returns an Order for u holding a snapshot of products. Nil entries are
// dropped.
func New(u user.User, products []product.Product) Order {
	return Order{
		user: u,
		products: slices.DeleteFunc(slices.Clone(products), func(p product.Product) bool {
			return p == nil
		}),
	}
}

// User returns the buyer.
func (o Order) User() user.User { return o.user }

// Products returns a copy of the ordered product list.
func (o Order) Products() []product.Product {
	return slices.Clone(o.products)
}

// Len returns the number of product occurrences in the order.
func (o Order) Len() int { return len(o.products) }

// All iterates over the products in order without copying.
func (o Order) All(yield func(int, product.Product) bool) {
	for i, p := range o.products {
		if !yield(i, p) {
			return
		}
	}
}

// Contains reports whether the order lists a product equal to p.
func (o Order) Contains(p product.Product) bool {
	return o.Count(p) > 0
}

// Count returns how many times a product equal to p is listed.
func (o Order) Count(p product.Product) int {
	if p == nil {
		return 0
	}
	key := p.Key()
	n := 0
	for _, item := range o.products {
		if item.Key() == key {
			n++
		}
	}
	return n
}

// Key returns the structural identity of the order.
func (o Order) Key() Key {
	var b strings.Builder
	b.WriteString(strconv.Quote(o.user.Name()))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(o.user.Age()))
	for _, p := range o.products {
		b.WriteByte('|')
		b.WriteString(p.Key().String())
	}
	return Key(b.String())
}

// Equal reports whether o and other have equal users and equal product
// sequences.
func (o Order) Equal(other Order) bool {
	return o.user == other.user && slices.EqualFunc(o.products, other.products, product.Equal)
}

// String renders the order for diagnostics.
func (o Order) String() string {
	var b strings.Builder
	b.WriteString("Order{user=")
	b.WriteString(o.user.String())
	b.WriteString(", products=[")
	for i, p := range o.products {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString("]}")
	return b.String()
}
