// Package service implements the booking workflows: availability check,
// booking with conflict detection, and occupancy lookup.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"officebook/internal/domain"
	"officebook/internal/events"
	"officebook/internal/metrics"
	"officebook/internal/notify"
	"officebook/internal/repository"
)

// EventPublisher is the slice of the event bus the service needs.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// ReservationService runs the booking workflows against the injected
// collaborators. It holds no mutable state and is safe for concurrent use.
type ReservationService struct {
	offices      repository.OfficeRepository
	reservations repository.ReservationRepository
	notifier     notify.Notifier
	bus          EventPublisher
	logger       *zerolog.Logger
}

func NewReservationService(
	offices repository.OfficeRepository,
	reservations repository.ReservationRepository,
	notifier notify.Notifier,
	bus EventPublisher,
	logger *zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		offices:      offices,
		reservations: reservations,
		notifier:     notifier,
		bus:          bus,
		logger:       logger,
	}
}

const messageTimeFormat = "2006-01-02 15:04"

// CheckAvailability reports whether the office is free for the slot, listing
// every blocking reservation when it is not. Re-running the check with no
// intervening bookings returns the same result.
func (s *ReservationService) CheckAvailability(ctx context.Context, officeID int64, slot domain.TimeSlot) (*Availability, error) {
	office, err := s.getOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.reservations.ListOverlapping(ctx, officeID, slot)
	if err != nil {
		return nil, fmt.Errorf("list overlapping reservations: %w", err)
	}

	conflicts := make([]ConflictInfo, 0, len(overlapping))
	for _, r := range overlapping {
		conflicts = append(conflicts, ConflictInfo{
			UserName:  r.User.Name,
			UserEmail: r.User.Contact.Email,
			UserPhone: r.User.Contact.Phone,
			Start:     r.Slot.Start(),
			End:       r.Slot.End(),
		})
	}

	result := &Availability{
		OfficeID:   officeID,
		OfficeName: office.Name,
		Available:  len(conflicts) == 0,
		Start:      slot.Start(),
		End:        slot.End(),
		Conflicts:  conflicts,
	}
	if result.Available {
		result.Message = fmt.Sprintf("Office %d (%s) is available from %s to %s",
			officeID, office.Name,
			slot.Start().Format(messageTimeFormat), slot.End().Format("15:04"))
	} else {
		result.Message = fmt.Sprintf("Office %d (%s) is NOT available. Found %d conflicting reservation(s).",
			officeID, office.Name, len(conflicts))
	}
	return result, nil
}

// Book reserves the office for the slot. Any overlapping active reservation
// blocks the booking; the first one found is reported in the ConflictError.
// On success the reservation is confirmed, persisted and a notification is
// dispatched; notification failure never fails the booking.
func (s *ReservationService) Book(ctx context.Context, officeID int64, slot domain.TimeSlot, name, email, phone string) (*BookingResult, error) {
	started := time.Now()

	office, err := s.getOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.reservations.ListOverlapping(ctx, officeID, slot)
	if err != nil {
		return nil, fmt.Errorf("list overlapping reservations: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, s.rejectConflict(officeID, slot, overlapping[0])
	}

	contact, err := domain.NewContactInfo(email, phone)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(name, contact)
	if err != nil {
		return nil, err
	}
	reservation, err := domain.NewReservation(officeID, user, slot)
	if err != nil {
		return nil, err
	}
	if err := reservation.Confirm(); err != nil {
		return nil, err
	}

	saved, err := s.reservations.SaveReservation(ctx, reservation)
	if err != nil {
		// The storage-layer exclusion check may lose the race we already
		// pre-checked; report it exactly like a pre-check conflict.
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncBooking("conflict")
			return nil, err
		}
		metrics.IncBooking("error")
		return nil, fmt.Errorf("save reservation: %w", err)
	}

	notification := s.notifier.Send(ctx, notify.Data{
		RecipientName:  user.Name,
		RecipientEmail: contact.Email,
		RecipientPhone: contact.Phone,
		OfficeID:       officeID,
		OfficeName:     office.Name,
		Start:          slot.Start(),
		End:            slot.End(),
		ReservationID:  saved.ID,
	})

	metrics.IncBooking("confirmed")
	metrics.ObserveBookingDuration(time.Since(started).Seconds())
	s.publish(events.TypeReservationConfirmed, ReservationEvent{
		ReservationID: saved.ID,
		OfficeID:      officeID,
		OfficeName:    office.Name,
		UserName:      user.Name,
		UserEmail:     contact.Email,
		UserPhone:     contact.Phone,
		Start:         slot.Start(),
		End:           slot.End(),
		Status:        string(saved.Status),
	})

	s.logger.Info().
		Int64("reservation_id", saved.ID).
		Int64("office_id", officeID).
		Str("user", user.Name).
		Msg("reservation confirmed")

	return &BookingResult{
		ReservationID: saved.ID,
		OfficeID:      officeID,
		OfficeName:    office.Name,
		UserName:      user.Name,
		UserEmail:     contact.Email,
		UserPhone:     contact.Phone,
		Start:         slot.Start(),
		End:           slot.End(),
		Status:        string(saved.Status),
		CreatedAt:     saved.CreatedAt,
		Notification:  notification,
	}, nil
}

// GetOccupancy reports who, if anyone, holds the office during the slot.
func (s *ReservationService) GetOccupancy(ctx context.Context, officeID int64, slot domain.TimeSlot) (*Occupancy, error) {
	office, err := s.getOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.reservations.ListOverlapping(ctx, officeID, slot)
	if err != nil {
		return nil, fmt.Errorf("list overlapping reservations: %w", err)
	}

	if len(overlapping) == 0 {
		return &Occupancy{
			OfficeID:   officeID,
			OfficeName: office.Name,
			Occupied:   false,
			Message: fmt.Sprintf("Office %d (%s) is free during %s - %s",
				officeID, office.Name,
				slot.Start().Format(messageTimeFormat), slot.End().Format("15:04")),
		}, nil
	}

	occupant := overlapping[0]
	return &Occupancy{
		OfficeID:      officeID,
		OfficeName:    office.Name,
		Occupied:      true,
		OccupiedBy:    occupant.User.Name,
		OccupantEmail: occupant.User.Contact.Email,
		OccupantPhone: occupant.User.Contact.Phone,
		From:          occupant.Slot.Start(),
		Until:         occupant.Slot.End(),
		Message: fmt.Sprintf("Office %d (%s) is occupied by %s (%s, %s) from %s until %s",
			officeID, office.Name,
			occupant.User.Name, occupant.User.Contact.Email, occupant.User.Contact.Phone,
			occupant.Slot.Start().Format(messageTimeFormat),
			occupant.Slot.End().Format(messageTimeFormat)),
	}, nil
}

func (s *ReservationService) getOffice(ctx context.Context, officeID int64) (*domain.Office, error) {
	office, err := s.offices.GetOffice(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("get office: %w", err)
	}
	if office == nil {
		return nil, &domain.OfficeNotFoundError{OfficeID: officeID}
	}
	return office, nil
}

func (s *ReservationService) rejectConflict(officeID int64, slot domain.TimeSlot, blocking *domain.Reservation) error {
	metrics.IncBooking("conflict")
	s.publish(events.TypeReservationConflict, ReservationEvent{
		OfficeID:  officeID,
		UserName:  blocking.User.Name,
		UserEmail: blocking.User.Contact.Email,
		UserPhone: blocking.User.Contact.Phone,
		Start:     slot.Start(),
		End:       slot.End(),
	})
	return &domain.ConflictError{
		OfficeID: officeID,
		UserName: blocking.User.Name,
		Email:    blocking.User.Contact.Email,
		Phone:    blocking.User.Contact.Phone,
		Until:    blocking.Slot.End(),
	}
}

func (s *ReservationService) publish(eventType string, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("event publish failed")
	}
}
