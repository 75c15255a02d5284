package report

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
)

var half = decimal.RequireFromString("0.5")

// OrderWeights maps orders to their total weight. Iteration follows input
// order. Structurally equal orders share one entry.
type OrderWeights struct {
	orders  []order.Order
	weights []int64
	index   map[order.Key]int
}

// Weights computes the total weight of every order.
func Weights(orders []order.Order) *OrderWeights {
	w := &OrderWeights{index: make(map[order.Key]int, len(orders))}
	for _, o := range orders {
		k := o.Key()
		if _, ok := w.index[k]; ok {
			continue
		}
		w.index[k] = len(w.orders)
		w.orders = append(w.orders, o)
		w.weights = append(w.weights, OrderWeight(o))
	}
	return w
}

// OrderWeight sums the weights of the real products in o, rounding each
// weight half-up to a whole unit before adding it. Virtual products weigh
// nothing.
func OrderWeight(o order.Order) int64 {
	var total int64
	for _, p := range o.All {
		if rp, ok := p.(product.Real); ok {
			total += RoundHalfUp(rp.Weight())
		}
	}
	return total
}

// RoundHalfUp rounds w to the nearest integer, with halves rounded toward
// positive infinity.
func RoundHalfUp(w decimal.Decimal) int64 {
	return w.Add(half).Floor().IntPart()
}

// Len returns the number of distinct orders.
func (w *OrderWeights) Len() int { return len(w.orders) }

// Get returns the total weight of o.
func (w *OrderWeights) Get(o order.Order) (int64, bool) {
	i, ok := w.index[o.Key()]
	if !ok {
		return 0, false
	}
	return w.weights[i], true
}

// All iterates over orders and their total weights.
func (w *OrderWeights) All(yield func(order.Order, int64) bool) {
	for i, o := range w.orders {
		if !yield(o, w.weights[i]) {
			return
		}
	}
}
