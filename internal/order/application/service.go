package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orderdesk/walmart-importer/internal/order/domain"
)

type Service struct {
	log         *slog.Logger
	fetcher     PageFetcher
	urlTemplate string
	sinks       []SummarySink
}

func NewService(log *slog.Logger, fetcher PageFetcher, urlTemplate string, sinks ...SummarySink) *Service {
	return &Service{log: log, fetcher: fetcher, urlTemplate: urlTemplate, sinks: sinks}
}

// Import fetches, parses and persists every order in sequence, one page at
// a time over the shared browser session. A failure on a single order
// (navigation, capture or sink) logs, skips it and moves on; only context
// cancellation stops the run early.
func (s *Service) Import(ctx context.Context, ids []string) error {
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		url := fmt.Sprintf(s.urlTemplate, id)
		s.log.Info("fetching order page", "order", id, "url", url, "pos", i+1, "total", len(ids))

		capture, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.log.Error("fetch failed, skipping order", "order", id, "err", err)
			continue
		}

		summary := domain.ParseOrderPage(capture.Text, id, url)
		if summary.Name == "" && capture.ContactName != "" {
			summary = summary.WithName(capture.ContactName)
		}
		summary = summary.WithItems(capture.Items)

		s.log.Info("order parsed",
			"order", id,
			"date", summary.Date,
			"payment", summary.Payment,
			"brand", summary.PaymentBrand,
			"name", summary.Name,
			"total", summary.Total,
			"items", len(summary.Items),
		)

		for _, sink := range s.sinks {
			if err := sink.Persist(ctx, summary, capture.HTML); err != nil {
				s.log.Error("persist failed", "order", id, "err", err)
			}
		}
	}
	return nil
}
