package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/domain/user"
)

// --- Helpers ---

func newReal(name, price, weight string) product.Product {
	return product.NewReal(name, decimal.RequireFromString(price), decimal.NewFromInt(1), decimal.RequireFromString(weight))
}

func newVirtual(name, price, code string) product.Product {
	return product.NewVirtual(name, decimal.RequireFromString(price), code, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))
}

// --- Tests ---

func TestNew_SnapshotsProducts(t *testing.T) {
	a := newReal("A", "20.5", "25")
	b := newReal("B", "50", "17")
	products := []product.Product{a, b}

	o := New(user.New("Alice", 32), products)
	products[0] = b

	require.Equal(t, 2, o.Len())
	got := o.Products()
	assert.True(t, product.Equal(a, got[0]))

	got[1] = a
	assert.True(t, product.Equal(b, o.Products()[1]))
}

func TestNew_DropsNilProducts(t *testing.T) {
	a := newReal("A", "1", "1")
	o := New(user.New("Dave", 50), []product.Product{nil, a, nil})

	require.Equal(t, 1, o.Len())
	assert.Equal(t, 1, o.Count(a))
	assert.True(t, o.Equal(New(user.New("Dave", 50), []product.Product{a})))
	assert.NotPanics(t, func() {
		_ = o.Key()
		_ = o.String()
	})
}

func TestOrder_ContainsAndCount(t *testing.T) {
	a := newReal("A", "20.5", "25")
	c := newVirtual("C", "100", "xxx")
	o := New(user.New("Bob", 19), []product.Product{a, c, newReal("A", "20.50", "25")})

	assert.True(t, o.Contains(a))
	assert.True(t, o.Contains(newVirtual("C", "100", "xxx")))
	assert.False(t, o.Contains(newVirtual("C", "100", "yyy")))
	assert.False(t, o.Contains(nil))
	assert.Equal(t, 2, o.Count(a))
	assert.Equal(t, 1, o.Count(c))
}

func TestOrder_All(t *testing.T) {
	a := newReal("A", "1", "1")
	b := newReal("B", "2", "2")
	o := New(user.New("Carol", 40), []product.Product{a, b, a})

	var names []string
	for _, p := range o.All {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"A", "B", "A"}, names)

	var first []string
	for _, p := range o.All {
		first = append(first, p.Name())
		break
	}
	assert.Equal(t, []string{"A"}, first)
}

func TestOrder_Equality(t *testing.T) {
	u := user.New("Alice", 32)
	a := newReal("A", "20.5", "25")
	b := newReal("B", "50", "17")

	tests := []struct {
		name  string
		left  Order
		right Order
		want  bool
	}{
		{
			name:  "same user and sequence",
			left:  New(u, []product.Product{a, b}),
			right: New(user.New("Alice", 32), []product.Product{newReal("A", "20.50", "25"), b}),
			want:  true,
		},
		{
			name:  "order of products matters",
			left:  New(u, []product.Product{a, b}),
			right: New(u, []product.Product{b, a}),
		},
		{
			name:  "duplicates matter",
			left:  New(u, []product.Product{a, b}),
			right: New(u, []product.Product{a, b, b}),
		},
		{
			name:  "different user",
			left:  New(u, []product.Product{a}),
			right: New(user.New("Alice", 33), []product.Product{a}),
		},
		{
			name:  "empty orders of the same user",
			left:  New(u, nil),
			right: New(u, []product.Product{}),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.left.Equal(tt.right))
			assert.Equal(t, tt.want, tt.left.Key() == tt.right.Key())
		})
	}
}

func TestOrder_KeyIsUnambiguous(t *testing.T) {
	// A name containing the separator must not collide with a longer order.
	left := New(user.New(`A"|B`, 1), nil)
	right := New(user.New("A", 1), []product.Product{newReal("B", "1", "1")})

	assert.NotEqual(t, left.Key(), right.Key())
}

func TestOrder_String(t *testing.T) {
	o := New(user.New("Bob", 19), []product.Product{
		newReal("A", "20.5", "25"),
		newVirtual("D", "81.25", "yyy"),
	})

	assert.Equal(t,
		"Order{user=User{name=Bob, age=19}, products=[RealProduct{name=A, price=20.5, size=1, weight=25}, "+
			"VirtualProduct{name=D, price=81.25, code=yyy, expirationDate=2024-06-20}]}",
		o.String())
}
