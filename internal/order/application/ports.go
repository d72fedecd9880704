package application

import (
	"context"

	"github.com/orderdesk/walmart-importer/internal/order/domain"
)

// PageCapture is everything the fetch layer recovered from one rendered
// order page: the raw markup, the flattened visible text, and the
// structurally extracted bits the text parser cannot see.
type PageCapture struct {
	HTML        string
	Text        string
	Items       []domain.OrderItem
	ContactName string // first name found near the Address block, "" if none
}

type PageFetcher interface {
	Fetch(ctx context.Context, url string) (PageCapture, error)
}

type SummarySink interface {
	Persist(ctx context.Context, summary domain.OrderSummary, rawHTML string) error
}
