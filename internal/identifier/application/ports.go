package application

import (
	"context"
	"time"

	"github.com/orderdesk/walmart-importer/internal/identifier/domain"
)

// MessageSource enumerates a mail folder's messages inside a time window.
// Failing to reach the store or to find the folder is fatal to the scan;
// per-message defects surface later through the Message accessors.
type MessageSource interface {
	Messages(ctx context.Context, folder string, since, before time.Time) ([]domain.Message, error)
}
