// Package render writes a report summary in human-readable or JSON form.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/order-reports/internal/domain/user"
	"github.com/xenking/order-reports/internal/report"
)

// Format is an output format name.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by Write for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Write renders s to w in the given format.
func Write(w io.Writer, f Format, s *report.Summary) error {
	switch f {
	case FormatText:
		return Text(w, s)
	case FormatJSON:
		return JSON(w, s)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", f)
	}
}

// Text writes the numbered report sections in presentation order.
func Text(w io.Writer, s *report.Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "1. Is code %s used: %t\n\n", s.Code.Code, s.Code.Used)

	expensive := "none"
	if s.MostExpensive != nil {
		expensive = s.MostExpensive.String()
	}
	fmt.Fprintf(bw, "2. Most expensive product: %s\n\n", expensive)
	fmt.Fprintf(bw, "3. Most popular product: %s\n\n", s.MostPopular)
	fmt.Fprintf(bw, "4. Average age of buyers of %s: %s\n\n",
		s.AverageAge.Product.Name(), strconv.FormatFloat(s.AverageAge.Age, 'f', -1, 64))

	fmt.Fprintln(bw, "5. Products and their buyers:")
	for p, users := range s.Buyers.All {
		fmt.Fprintf(bw, "   %s: %s\n", p, joinUsers(users))
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "6a. Products sorted by price:")
	for _, p := range s.ProductsByPrice {
		fmt.Fprintf(bw, "   %s\n", p)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "6b. Orders sorted by buyer age, descending:")
	for _, o := range s.OrdersByAgeDesc {
		fmt.Fprintf(bw, "   %s\n", o)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "7. Total weight of each order:")
	for o, total := range s.Weights.All {
		fmt.Fprintf(bw, "   %s: %d\n", o, total)
	}

	return bw.Flush()
}

func joinUsers(users []user.User) string {
	parts := make([]string, len(users))
	for i, u := range users {
		parts[i] = u.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
