package domain

import (
	"fmt"
	"strings"
)

// OrderItem is one purchased line on an order page.
type OrderItem struct {
	Title     string
	Qty       int
	PriceEach float64
}

// OrderSummary is the typed record extracted from one order page. It is a
// value: enrichment goes through the With* methods, which return a copy
// instead of mutating in place.
type OrderSummary struct {
	OrderNo      string
	URL          string
	Date         string // as displayed, e.g. "Oct 19, 2025"; may be empty
	Payment      string // "****1529" or "N/A"
	PaymentBrand string // canonicalized brand when one was visible; informational only
	Name         string // customer first name; may be empty
	Subtotal     float64
	Discount     float64 // zero or negative, never positive
	Delivery     float64 // zero when the page shows no delivery label
	Taxes        float64
	Total        float64
	Items        []OrderItem
}

// WithName returns a copy of the summary carrying the given first name.
func (s OrderSummary) WithName(name string) OrderSummary {
	s.Name = name
	return s
}

// WithItems returns a copy of the summary carrying the given item list.
func (s OrderSummary) WithItems(items []OrderItem) OrderSummary {
	s.Items = append([]OrderItem(nil), items...)
	return s
}

// RenderText serializes the summary in the line-oriented format persisted
// next to the raw page capture. Money fields render with exactly two
// decimals; each item takes one line.
func RenderText(s OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", s.OrderNo)
	fmt.Fprintf(&b, "URL: %s\n", s.URL)
	fmt.Fprintf(&b, "Date: %s\n", s.Date)
	fmt.Fprintf(&b, "Payment: %s\n", s.Payment)
	fmt.Fprintf(&b, "Name: %s\n", s.Name)
	fmt.Fprintf(&b, "Subtotal: %.2f\n", s.Subtotal)
	fmt.Fprintf(&b, "Discount: %.2f\n", s.Discount)
	fmt.Fprintf(&b, "Delivery: %.2f\n", s.Delivery)
	fmt.Fprintf(&b, "Taxes: %.2f\n", s.Taxes)
	fmt.Fprintf(&b, "Total: %.2f\n", s.Total)
	b.WriteString("Items:")
	for _, it := range s.Items {
		fmt.Fprintf(&b, "\n- %s | Qty: %d | Price: %.2f", it.Title, it.Qty, it.PriceEach)
	}
	return b.String()
}
