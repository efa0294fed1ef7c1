// Package repository defines the store contracts consumed by the booking
// service and the cache-aside decorator layered over the office store.
package repository

import (
	"context"

	"officebook/internal/domain"
)

// OfficeRepository is the office read/write contract. Getters return nil
// (not an error) when the office is absent.
type OfficeRepository interface {
	GetOffice(ctx context.Context, id int64) (*domain.Office, error)
	ListOffices(ctx context.Context) ([]domain.Office, error)
	SaveOffice(ctx context.Context, office *domain.Office) (*domain.Office, error)
}

// ReservationRepository is the reservation contract. ListOverlapping is
// restricted to active reservations; SaveReservation assigns the id on first
// save and may return a domain.ConflictError when the storage-layer
// exclusion check loses to a concurrent writer.
type ReservationRepository interface {
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListOverlapping(ctx context.Context, officeID int64, slot domain.TimeSlot) ([]*domain.Reservation, error)
	SaveReservation(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) (bool, error)
}
