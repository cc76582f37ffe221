package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
)

// eventNotifier publishes committed records best-effort.
type eventNotifier struct {
	BaseService
	publisher portssvc.TransferEventPublisher
}

// notify never fails the caller; a publish error is only logged.
func (n *eventNotifier) notify(ctx context.Context, records ...domain.TransferRecord) {
	if n.publisher == nil || len(records) == 0 {
		return
	}
	if err := n.publisher.PublishTransfers(context.WithoutCancel(ctx), records); err != nil {
		n.LogWarn(ctx, err, "Failed to publish transfer events",
			slog.String("transfer_id", records[0].TransferID),
			slog.Int("count", len(records)))
	}
}
