package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/domain/user"
	"github.com/xenking/order-reports/internal/report"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newSummary(t *testing.T) *report.Summary {
	t.Helper()

	alice := user.New("Alice", 32)
	bob := user.New("Bob", 19)
	a := product.NewReal("Product A", d("20.50"), d("10"), d("25"))
	c := product.NewVirtual("Product C", d("100"), "xxx", time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC))
	orders := []order.Order{
		order.New(bob, []product.Product{a}),
		order.New(alice, []product.Product{a, c}),
	}

	expensive, ok := report.MostExpensive(orders)
	require.True(t, ok)
	popular, err := report.MostPopular(orders)
	require.NoError(t, err)
	age, err := report.AverageAge(a, orders)
	require.NoError(t, err)

	return &report.Summary{
		Code:            report.CodeCheck{Code: "xxx", Used: true},
		MostExpensive:   expensive,
		MostPopular:     popular,
		AverageAge:      report.AgeReport{Product: a, Age: age},
		Buyers:          report.Buyers(orders),
		ProductsByPrice: report.SortProductsByPrice([]product.Product{c, a}),
		OrdersByAgeDesc: report.SortOrdersByAgeDesc(orders),
		Weights:         report.Weights(orders),
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, newSummary(t)))

	want := `1. Is code xxx used: true

2. Most expensive product: VirtualProduct{name=Product C, price=100, code=xxx, expirationDate=2023-05-12}

3. Most popular product: RealProduct{name=Product A, price=20.5, size=10, weight=25}

4. Average age of buyers of Product A: 25.5

5. Products and their buyers:
   RealProduct{name=Product A, price=20.5, size=10, weight=25}: [User{name=Bob, age=19}, User{name=Alice, age=32}]
   VirtualProduct{name=Product C, price=100, code=xxx, expirationDate=2023-05-12}: [User{name=Alice, age=32}]

6a. Products sorted by price:
   RealProduct{name=Product A, price=20.5, size=10, weight=25}
   VirtualProduct{name=Product C, price=100, code=xxx, expirationDate=2023-05-12}

6b. Orders sorted by buyer age, descending:
   Order{user=User{name=Alice, age=32}, products=[RealProduct{name=Product A, price=20.5, size=10, weight=25}, VirtualProduct{name=Product C, price=100, code=xxx, expirationDate=2023-05-12}]}
   Order{user=User{name=Bob, age=19}, products=[RealProduct{name=Product A, price=20.5, size=10, weight=25}]}

7. Total weight of each order:
   Order{user=User{name=Bob, age=19}, products=[RealProduct{name=Product A, price=20.5, size=10, weight=25}]}: 25
   Order{user=User{name=Alice, age=32}, products=[RealProduct{name=Product A, price=20.5, size=10, weight=25}, VirtualProduct{name=Product C, price=100, code=xxx, expirationDate=2023-05-12}]}: 25
`
	assert.Equal(t, want, buf.String())
}

func TestText_NoMostExpensive(t *testing.T) {
	s := newSummary(t)
	s.MostExpensive = nil

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, s))
	assert.Contains(t, buf.String(), "2. Most expensive product: none\n")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, newSummary(t)))

	var doc struct {
		Code struct {
			Code string `json:"code"`
			Used bool   `json:"used"`
		} `json:"code"`
		MostExpensive map[string]any `json:"most_expensive"`
		AverageAge    struct {
			Age float64 `json:"age"`
		} `json:"average_age"`
		Buyers []struct {
			Product map[string]any `json:"product"`
			Users   []struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			} `json:"users"`
		} `json:"buyers"`
		ProductsByPrice []map[string]any `json:"products_by_price"`
		OrderWeights    []struct {
			TotalWeight int `json:"total_weight"`
		} `json:"order_weights"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "xxx", doc.Code.Code)
	assert.True(t, doc.Code.Used)
	assert.Equal(t, "virtual", doc.MostExpensive["type"])
	assert.Equal(t, "2023-05-12", doc.MostExpensive["expiration_date"])
	assert.InDelta(t, 100.0, doc.MostExpensive["price"], 1e-9)
	assert.InDelta(t, 25.5, doc.AverageAge.Age, 1e-9)

	require.Len(t, doc.Buyers, 2)
	assert.Equal(t, "Product A", doc.Buyers[0].Product["name"])
	require.Len(t, doc.Buyers[0].Users, 2)
	assert.Equal(t, "Bob", doc.Buyers[0].Users[0].Name)

	require.Len(t, doc.ProductsByPrice, 2)
	assert.Equal(t, "real", doc.ProductsByPrice[0]["type"])
	assert.InDelta(t, 20.5, doc.ProductsByPrice[0]["price"], 1e-9)
	assert.InDelta(t, 25.0, doc.ProductsByPrice[0]["weight"], 1e-9)

	require.Len(t, doc.OrderWeights, 2)
	assert.Equal(t, 25, doc.OrderWeights[0].TotalWeight)
}

func TestJSON_NullMostExpensive(t *testing.T) {
	s := newSummary(t)
	s.MostExpensive = nil

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, s))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Nil(t, doc["most_expensive"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), newSummary(t))
	require.ErrorIs(t, err, ErrUnknownFormat)
}
