package events

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
)

// DefaultPublishTimeout bounds one PublishTransfers call when none is configured.
const DefaultPublishTimeout = 2 * time.Second

// TimeoutPublisher gives every publish a deadline, so a stalled broker cannot hold
// the reply of an already committed operation.
type TimeoutPublisher struct {
	next    portssvc.TransferEventPublisher
	timeout time.Duration
}

var _ portssvc.TransferEventPublisher = (*TimeoutPublisher)(nil)

func NewTimeoutPublisher(next portssvc.TransferEventPublisher, timeout time.Duration) *TimeoutPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &TimeoutPublisher{next: next, timeout: timeout}
}

func (p *TimeoutPublisher) PublishTransfers(ctx context.Context, records []domain.TransferRecord) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.next.PublishTransfers(ctx, records); err != nil {
		return fmt.Errorf("publish within %s: %w", p.timeout, err)
	}
	return nil
}

func (p *TimeoutPublisher) Close() error {
	return p.next.Close()
}
