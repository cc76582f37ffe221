// Package events publishes committed transfer records to Redis or Kafka.
package events

import (
	"time"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
)

// TransferEvent is the wire shape of a committed transfer record.
type TransferEvent struct {
	EventType  string    `json:"event_type"`
	TransferID string    `json:"transfer_id"`
	OwnerID    string    `json:"owner_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Reference  *string   `json:"reference,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTransferEvent builds the event for a record. The event type is "transfer.<status>",
// lower-cased, e.g. "transfer.confirmed".
func NewTransferEvent(r domain.TransferRecord) TransferEvent {
	return TransferEvent{
		EventType:  eventType(r.Status),
		TransferID: r.TransferID,
		OwnerID:    r.UserID,
		Kind:       string(r.Kind),
		Status:     string(r.Status),
		Amount:     r.Amount.String(),
		Currency:   r.Currency.String(),
		Reference:  r.Reference,
		CreatedAt:  r.CreatedAt,
	}
}

func eventType(status domain.TransferStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return "transfer.confirmed"
	case domain.StatusFailed:
		return "transfer.failed"
	default:
		return "transfer.pending"
	}
}

// messageKey groups both legs of a swap onto one partition.
func messageKey(r domain.TransferRecord) []byte {
	if r.Reference != nil {
		return []byte(*r.Reference)
	}
	return []byte(r.TransferID)
}
