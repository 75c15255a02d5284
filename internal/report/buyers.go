package report

import (
	"slices"

	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/domain/user"
)

// ProductBuyers maps each distinct product to the users whose orders listed
// it. Iteration follows the order in which products were first seen.
type ProductBuyers struct {
	products []product.Product
	users    [][]user.User
	index    map[product.Key]int
}

// Buyers builds the product to buyers index. A user appears once per
// occurrence: an order listing a product twice adds its user twice.
func Buyers(orders []order.Order) *ProductBuyers {
	b := &ProductBuyers{index: make(map[product.Key]int)}
	for _, o := range orders {
		u := o.User()
		for _, p := range o.All {
			k := p.Key()
			i, ok := b.index[k]
			if !ok {
				i = len(b.products)
				b.index[k] = i
				b.products = append(b.products, p)
				b.users = append(b.users, nil)
			}
			b.users[i] = append(b.users[i], u)
		}
	}
	return b
}

// Len returns the number of distinct products.
func (b *ProductBuyers) Len() int { return len(b.products) }

// Get returns the buyers of p in traversal order, or nil when nobody
// ordered it.
func (b *ProductBuyers) Get(p product.Product) []user.User {
	if p == nil {
		return nil
	}
	i, ok := b.index[p.Key()]
	if !ok {
		return nil
	}
	return slices.Clone(b.users[i])
}

// All iterates over products and their buyers.
func (b *ProductBuyers) All(yield func(product.Product, []user.User) bool) {
	for i, p := range b.products {
		if !yield(p, slices.Clone(b.users[i])) {
			return
		}
	}
}
