package domain

import (
	"fmt"
	"strings"
)

// Office id range is fixed reference data.
const (
	MinOfficeID = 1
	MaxOfficeID = 5
)

// Office is a bookable physical resource. Static reference data, seeded once
// at startup and rarely mutated.
type Office struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description,omitempty"`
}

// NewOffice validates and constructs an office.
func NewOffice(id int64, name string, capacity int, description string) (Office, error) {
	if err := ValidateOfficeID(id); err != nil {
		return Office{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Office{}, fmt.Errorf("office name cannot be empty: %w", ErrInvalidOfficeID)
	}
	if capacity < 1 {
		return Office{}, fmt.Errorf("office capacity must be at least 1: %w", ErrInvalidOfficeID)
	}
	return Office{ID: id, Name: name, Capacity: capacity, Description: description}, nil
}

// ValidateOfficeID checks the id against the known range.
func ValidateOfficeID(id int64) error {
	if id < MinOfficeID || id > MaxOfficeID {
		return fmt.Errorf("office id %d must be between %d and %d: %w",
			id, MinOfficeID, MaxOfficeID, ErrInvalidOfficeID)
	}
	return nil
}

func (o Office) String() string {
	return fmt.Sprintf("Office %d: %s (capacity: %d)", o.ID, o.Name, o.Capacity)
}
