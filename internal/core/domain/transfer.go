package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
)

// TransferKind is the kind of value movement a record describes.
type TransferKind string

const (
	KindDeposit    TransferKind = "DEPOSIT"
	KindWithdrawal TransferKind = "WITHDRAWAL"
	KindTransfer   TransferKind = "TRANSFER"
	KindSwap       TransferKind = "SWAP"
	KindPayment    TransferKind = "PAYMENT"
)

// TransferStatus is the lifecycle state of a transfer record.
type TransferStatus string

const (
	StatusPending   TransferStatus = "PENDING"
	StatusConfirmed TransferStatus = "CONFIRMED"
	StatusFailed    TransferStatus = "FAILED"
)

// CanTransitionTo reports whether a record may move from s to next.
// Only PENDING records move, and only to a terminal state.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	return s == StatusPending && (next == StatusConfirmed || next == StatusFailed)
}

// TransferRecord is the audit record of a value movement.
// Amount is signed: negative for the debit leg of a swap, positive otherwise.
// A record is never updated once persisted.
type TransferRecord struct {
	TransferID string         `json:"transferID"`
	Kind       TransferKind   `json:"kind"`
	UserID     string         `json:"userID"`
	Status     TransferStatus `json:"status"`
	Amount     Money          `json:"amount"`
	Currency   Currency       `json:"currency"`
	Reference  *string        `json:"reference,omitempty"` // shared by both legs of a swap
	CreatedAt  time.Time      `json:"createdAt"`
}

// Transition moves an unpersisted draft along the status state machine.
func (t *TransferRecord) Transition(next TransferStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: transfer %s cannot move from %s to %s", apperrors.ErrValidation, t.TransferID, t.Status, next)
	}
	t.Status = next
	return nil
}

// IsDebit reports whether the record removes value from the balance.
func (t TransferRecord) IsDebit() bool {
	return t.Amount.IsNegative()
}

// SwapLegs are the linked debit and credit drafts of one swap.
type SwapLegs struct {
	Debit  TransferRecord
	Credit TransferRecord
	Rate   Rate
}

// Records returns the legs in debit, credit order.
func (l *SwapLegs) Records() []TransferRecord {
	return []TransferRecord{l.Debit, l.Credit}
}

// TransitionAll moves both legs to next.
func (l *SwapLegs) TransitionAll(next TransferStatus) error {
	if err := l.Debit.Transition(next); err != nil {
		return err
	}
	return l.Credit.Transition(next)
}
