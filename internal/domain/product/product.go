// Package product defines the product catalog model: a closed set of product
// variants behind the Product interface.
package product

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies a product variant.
type Kind uint8

const (
	// KindReal is a physical product with a size and a weight.
	KindReal Kind = iota + 1
	// KindVirtual is a redeemable product identified by a code.
	KindVirtual
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindVirtual:
		return "virtual"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Product is implemented by Real and Virtual only. Use a type switch to reach
// variant attributes.
type Product interface {
	Name() string
	Price() decimal.Decimal
	Kind() Kind
	// Key returns the structural identity of the product. Two products are
	// equal iff their keys are equal.
	Key() Key
	String() string

	sealed()
}

// Key is a comparable value identifying a product by all of its attributes.
// Decimal attributes are stored in canonical form, so 20.5 and 20.50 yield
// the same key.
type Key struct {
	kind  Kind
	name  string
	price string
	attrs [2]string
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Product) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Real is a physical product.
type Real struct {
	name   string
	price  decimal.Decimal
	size   decimal.Decimal
	weight decimal.Decimal
}

// NewReal returns a Real product.
func NewReal(name string, price, size, weight decimal.Decimal) Product {
	return Real{name: name, price: price, size: size, weight: weight}
}

// Name returns the product name.
func (p Real) Name() string { return p.name }

// Price returns the product price.
func (p Real) Price() decimal.Decimal { return p.price }

// Kind returns KindReal.
func (p Real) Kind() Kind { return KindReal }

func (p Real) sealed() {}

// Size returns the product size.
func (p Real) Size() decimal.Decimal { return p.size }

// Weight returns the product weight in whole-unit scale.
func (p Real) Weight() decimal.Decimal { return p.weight }

// WithSize returns a copy of p with the size replaced.
func (p Real) WithSize(size decimal.Decimal) Real {
	p.size = size
	return p
}

// WithWeight returns a copy of p with the weight replaced.
func (p Real) WithWeight(weight decimal.Decimal) Real {
	p.weight = weight
	return p
}

// Key returns the structural identity of p.
func (p Real) Key() Key {
	return Key{
		kind:  KindReal,
		name:  p.name,
		price: p.price.String(),
		attrs: [2]string{p.size.String(), p.weight.String()},
	}
}

// String renders p for reports.
func (p Real) String() string {
	return fmt.Sprintf("RealProduct{name=%s, price=%s, size=%s, weight=%s}",
		p.name, p.price, p.size, p.weight)
}

// Virtual is a product redeemed with a code until its expiration date.
type Virtual struct {
	name      string
	price     decimal.Decimal
	code      string
	expiresOn time.Time
}

// NewVirtual returns a Virtual product. Only the calendar date of expiresOn
// is kept.
func NewVirtual(name string, price decimal.Decimal, code string, expiresOn time.Time) Product {
	return Virtual{name: name, price: price, code: code, expiresOn: Date(expiresOn)}
}

// Name returns the product name.
func (p Virtual) Name() string { return p.name }

// Price returns the product price.
func (p Virtual) Price() decimal.Decimal { return p.price }

// Kind returns KindVirtual.
func (p Virtual) Kind() Kind { return KindVirtual }

func (p Virtual) sealed() {}

// Code returns the redemption code. Codes are not guaranteed to be unique.
func (p Virtual) Code() string { return p.code }

// ExpiresOn returns the expiration date at UTC midnight.
func (p Virtual) ExpiresOn() time.Time { return p.expiresOn }

// Key returns the structural identity of p.
func (p Virtual) Key() Key {
	return Key{
		kind:  KindVirtual,
		name:  p.name,
		price: p.price.String(),
		attrs: [2]string{p.code, p.expiresOn.Format(time.DateOnly)},
	}
}

// String renders p for reports.
func (p Virtual) String() string {
	return fmt.Sprintf("VirtualProduct{name=%s, price=%s, code=%s, expirationDate=%s}",
		p.name, p.price, p.code, p.expiresOn.Format(time.DateOnly))
}

// Date truncates t to its calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// String renders the key in an unambiguous textual form.
func (k Key) String() string {
	return fmt.Sprintf("%d:%q:%q:%q:%q", k.kind, k.name, k.price, k.attrs[0], k.attrs[1])
}
