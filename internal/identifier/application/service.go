package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orderdesk/walmart-importer/internal/identifier/domain"
)

type Service struct {
	log           *slog.Logger
	source        MessageSource
	folder        string
	subjectFilter string
}

func NewService(log *slog.Logger, source MessageSource, folder, subjectFilter string) *Service {
	return &Service{log: log, source: source, folder: folder, subjectFilter: subjectFilter}
}

// Scan returns the unique order identifiers mentioned in the folder's
// messages within [since, before), sorted ascending.
func (s *Service) Scan(ctx context.Context, since, before time.Time) ([]string, error) {
	msgs, err := s.source.Messages(ctx, s.folder, since, before)
	if err != nil {
		return nil, fmt.Errorf("mail scan: %w", err)
	}
	s.log.Info("messages in period", "folder", s.folder, "count", len(msgs))

	ids := domain.ExtractIdentifiers(msgs, s.subjectFilter)
	s.log.Info("order identifiers extracted", "subject", s.subjectFilter, "count", len(ids))
	return ids, nil
}
