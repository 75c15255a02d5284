// Package report implements the aggregate reports over a list of orders.
//
// Every function is a pure read of its input: orders and products are never
// modified, and results are deterministic for a given input order. Orders are
// traversed in list order and products in per-order list order.
package report

import (
	"cmp"
	"slices"

	"github.com/go-faster/errors"

	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
)

var (
	// ErrNoPopularProduct is returned by MostPopular when no product was
	// ordered at all.
	ErrNoPopularProduct = errors.New("no popular product determinable")
	// ErrNoBuyers is returned by AverageAge when no order contains the
	// product, so the average is undefined.
	ErrNoBuyers = errors.New("no orders contain product")
)

// MostExpensive returns the ordered product with the highest price. Among
// products sharing the maximum price the first one encountered wins. It
// returns false when no product was ordered.
func MostExpensive(orders []order.Order) (product.Product, bool) {
	var best product.Product
	for _, o := range orders {
		for _, p := range o.All {
			if best == nil || p.Price().GreaterThan(best.Price()) {
				best = p
			}
		}
	}
	return best, best != nil
}

// MostPopular returns the product that occurs most often across all orders,
// counting every occurrence including repeats within one order. Ties go to
// the product that appeared first.
func MostPopular(orders []order.Order) (product.Product, error) {
	counts := make(map[product.Key]int)
	var seen []product.Product
	for _, o := range orders {
		for _, p := range o.All {
			k := p.Key()
			if counts[k] == 0 {
				seen = append(seen, p)
			}
			counts[k]++
		}
	}
	if len(seen) == 0 {
		return nil, ErrNoPopularProduct
	}

	best, bestCount := seen[0], counts[seen[0].Key()]
	for _, p := range seen[1:] {
		if n := counts[p.Key()]; n > bestCount {
			best, bestCount = p, n
		}
	}
	return best, nil
}

// AverageAge returns the mean age of the users whose orders contain p. Each
// qualifying order contributes one sample, however many times it lists p.
func AverageAge(p product.Product, orders []order.Order) (float64, error) {
	var sum, n int
	for _, o := range orders {
		if o.Contains(p) {
			sum += o.User().Age()
			n++
		}
	}
	if n == 0 {
		name := "<nil>"
		if p != nil {
			name = p.Name()
		}
		return 0, errors.Wrapf(ErrNoBuyers, "average age for %s", name)
	}
	return float64(sum) / float64(n), nil
}

// SortProductsByPrice returns a copy of products in ascending price order.
// Products with equal prices keep their relative input order.
func SortProductsByPrice(products []product.Product) []product.Product {
	sorted := slices.Clone(products)
	slices.SortStableFunc(sorted, func(a, b product.Product) int {
		return a.Price().Cmp(b.Price())
	})
	return sorted
}

// SortOrdersByAgeDesc returns a copy of orders sorted by buyer age, oldest
// first. Orders of equally old buyers keep their relative input order.
func SortOrdersByAgeDesc(orders []order.Order) []order.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b order.Order) int {
		return cmp.Compare(b.User().Age(), a.User().Age())
	})
	return sorted
}
