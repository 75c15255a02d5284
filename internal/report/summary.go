package report

import (
	"github.com/xenking/order-reports/internal/domain/order"
	"github.com/xenking/order-reports/internal/domain/product"
)

// Summary holds the outcome of every report of a run, in presentation order.
type Summary struct {
	Code            CodeCheck
	MostExpensive   product.Product // nil when nothing was ordered
	MostPopular     product.Product
	AverageAge      AgeReport
	Buyers          *ProductBuyers
	ProductsByPrice []product.Product
	OrdersByAgeDesc []order.Order
	Weights         *OrderWeights
}

// CodeCheck is the used status of a redemption code.
type CodeCheck struct {
	Code string
	Used bool
}

// AgeReport is the average buyer age of a product.
type AgeReport struct {
	Product product.Product
	Age     float64
}
