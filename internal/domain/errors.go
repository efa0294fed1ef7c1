package domain

import (
	"errors"
	"fmt"
	"time"
)

// Validation and state sentinels. Callers match them with errors.Is; the
// wrapping error carries the human-readable detail.
var (
	ErrInvalidSlot        = errors.New("invalid time slot")
	ErrInvalidContactInfo = errors.New("invalid contact info")
	ErrInvalidOfficeID    = errors.New("invalid office id")
	ErrInvalidUserName    = errors.New("invalid user name")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// OfficeNotFoundError is returned when an office id is outside the known set.
type OfficeNotFoundError struct {
	OfficeID int64
}

func (e *OfficeNotFoundError) Error() string {
	return fmt.Sprintf("office %d not found", e.OfficeID)
}

// ReservationNotFoundError is returned when a referenced reservation is absent.
type ReservationNotFoundError struct {
	ReservationID int64
}

func (e *ReservationNotFoundError) Error() string {
	return fmt.Sprintf("reservation %d not found", e.ReservationID)
}

// ConflictError reports an active overlapping reservation. It carries enough
// detail for the caller to contact the incumbent.
type ConflictError struct {
	OfficeID int64
	UserName string
	Email    string
	Phone    string
	Until    time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("office %d is occupied by %s until %s",
		e.OfficeID, e.UserName, e.Until.Format("2006-01-02 15:04"))
}
