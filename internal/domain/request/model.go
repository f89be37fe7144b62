package request

import (
	"errors"
	"fmt"
	"time"
)

// ErrOpenRequestExists is returned by repositories when a write would give a
// user a second open request in the same pool. Approval or rejection of the
// existing request frees the slot.
var ErrOpenRequestExists = errors.New("an open request already exists for this pool")

type Status string

const (
	StatusPending        Status = "pending"
	StatusPaymentPending Status = "payment_pending"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
)

// IsTerminal reports whether a request can never change status again.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsOpen reports whether the request still counts against the per-pool
// entry allowance.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusPaymentPending
}

// Request is a user's ask to acquire entries in a pool, gated by payment
// confirmation and admin approval.
type Request struct {
	ID              string
	UserID          string
	PoolID          string
	NumberOfEntries int
	Status          Status
	PaymentMethod   string
	TransactionID   string
	TotalAmount     int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r Request) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("request id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("request user id is required")
	}
	if r.PoolID == "" {
		return fmt.Errorf("request pool id is required")
	}
	if r.NumberOfEntries < 1 || r.NumberOfEntries > 3 {
		return fmt.Errorf("number of entries must be between 1 and 3")
	}
	switch r.Status {
	case StatusPending, StatusPaymentPending, StatusApproved, StatusRejected:
	default:
		return fmt.Errorf("unknown request status %q", r.Status)
	}
	if r.TotalAmount < 0 {
		return fmt.Errorf("total amount cannot be negative")
	}
	return nil
}
