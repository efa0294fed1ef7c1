package domain

import (
	"fmt"
	"time"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Reservation books one office for one user over one time slot. ID is zero
// until the store assigns it on first save.
type Reservation struct {
	ID        int64
	OfficeID  int64
	User      User
	Slot      TimeSlot
	Status    Status
	CreatedAt time.Time
}

// NewReservation constructs a pending reservation.
func NewReservation(officeID int64, user User, slot TimeSlot) (*Reservation, error) {
	if err := ValidateOfficeID(officeID); err != nil {
		return nil, err
	}
	if slot.IsZero() {
		return nil, fmt.Errorf("reservation requires a slot: %w", ErrInvalidSlot)
	}
	return &Reservation{
		OfficeID:  officeID,
		User:      user,
		Slot:      slot,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// IsActive reports whether the reservation participates in conflict detection.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsInPast reports whether the slot already ended. Informational only, never
// enforced at creation.
func (r *Reservation) IsInPast(now time.Time) bool {
	return r.Slot.End().Before(now)
}

// Blocks reports whether this reservation prevents booking the given slot.
func (r *Reservation) Blocks(slot TimeSlot) bool {
	return r.IsActive() && r.Slot.Overlaps(slot)
}

// Confirm moves the reservation to CONFIRMED. Terminal states reject it.
func (r *Reservation) Confirm() error {
	switch r.Status {
	case StatusCancelled:
		return fmt.Errorf("cannot confirm a cancelled reservation: %w", ErrInvalidTransition)
	case StatusCompleted:
		return fmt.Errorf("cannot confirm a completed reservation: %w", ErrInvalidTransition)
	}
	r.Status = StatusConfirmed
	return nil
}

// Cancel moves the reservation to CANCELLED.
func (r *Reservation) Cancel() error {
	switch r.Status {
	case StatusCompleted:
		return fmt.Errorf("cannot cancel a completed reservation: %w", ErrInvalidTransition)
	case StatusCancelled:
		return fmt.Errorf("reservation is already cancelled: %w", ErrInvalidTransition)
	}
	r.Status = StatusCancelled
	return nil
}

// Complete moves the reservation to COMPLETED.
func (r *Reservation) Complete() error {
	if r.Status == StatusCancelled {
		return fmt.Errorf("cannot complete a cancelled reservation: %w", ErrInvalidTransition)
	}
	r.Status = StatusCompleted
	return nil
}

func (r *Reservation) String() string {
	return fmt.Sprintf("Reservation #%d: Office %d by %s (%s) - %s",
		r.ID, r.OfficeID, r.User.Name, r.Slot, r.Status)
}
