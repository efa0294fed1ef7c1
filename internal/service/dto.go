package service

import (
	"time"

	"officebook/internal/notify"
)

// ConflictInfo describes one blocking reservation in an availability check.
type ConflictInfo struct {
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	UserPhone string    `json:"user_phone"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
}

// Availability is the projection returned by CheckAvailability.
type Availability struct {
	OfficeID   int64          `json:"office_id"`
	OfficeName string         `json:"office_name"`
	Available  bool           `json:"available"`
	Start      time.Time      `json:"requested_start_time"`
	End        time.Time      `json:"requested_end_time"`
	Conflicts  []ConflictInfo `json:"conflicting_reservations,omitempty"`
	Message    string         `json:"message"`
}

// BookingResult is the projection returned by Book.
type BookingResult struct {
	ReservationID int64         `json:"reservation_id"`
	OfficeID      int64         `json:"office_id"`
	OfficeName    string        `json:"office_name"`
	UserName      string        `json:"user_name"`
	UserEmail     string        `json:"user_email"`
	UserPhone     string        `json:"user_phone"`
	Start         time.Time     `json:"start_time"`
	End           time.Time     `json:"end_time"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	Notification  notify.Result `json:"notification"`
}

// Occupancy is the projection returned by GetOccupancy.
type Occupancy struct {
	OfficeID      int64     `json:"office_id"`
	OfficeName    string    `json:"office_name"`
	Occupied      bool      `json:"occupied"`
	OccupiedBy    string    `json:"occupied_by,omitempty"`
	OccupantEmail string    `json:"occupant_email,omitempty"`
	OccupantPhone string    `json:"occupant_phone,omitempty"`
	From          time.Time `json:"from_time,omitempty"`
	Until         time.Time `json:"until_time,omitempty"`
	Message       string    `json:"message"`
}

// ReservationEvent is the payload published on the event bus after a booking
// attempt resolves.
type ReservationEvent struct {
	ReservationID int64     `json:"reservation_id,omitempty"`
	OfficeID      int64     `json:"office_id"`
	OfficeName    string    `json:"office_name,omitempty"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserPhone     string    `json:"user_phone"`
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
	Status        string    `json:"status,omitempty"`
}
