package events

import (
	"context"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
)

// NopPublisher discards events. It is used when no backend is configured.
type NopPublisher struct{}

var _ portssvc.TransferEventPublisher = NopPublisher{}

func (NopPublisher) PublishTransfers(context.Context, []domain.TransferRecord) error { return nil }
func (NopPublisher) Close() error                                                    { return nil }
