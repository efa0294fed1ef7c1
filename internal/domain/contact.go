package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// International format: + followed by 10-15 digits, after separators
	// are stripped.
	phonePattern    = regexp.MustCompile(`^\+\d{10,15}$`)
	phoneSeparators = regexp.MustCompile(`[\s\-()]`)
)

// ContactInfo is a validated immutable pair of email and phone.
type ContactInfo struct {
	Email string
	Phone string
}

// NewContactInfo validates both fields and normalizes nothing: the phone is
// stored as given, separators are only stripped for validation.
func NewContactInfo(email, phone string) (ContactInfo, error) {
	if !emailPattern.MatchString(email) {
		return ContactInfo{}, fmt.Errorf("email %q: %w", email, ErrInvalidContactInfo)
	}
	cleaned := phoneSeparators.ReplaceAllString(phone, "")
	if !phonePattern.MatchString(cleaned) {
		return ContactInfo{}, fmt.Errorf("phone %q must be international format, e.g. +1234567890: %w",
			phone, ErrInvalidContactInfo)
	}
	return ContactInfo{Email: email, Phone: phone}, nil
}

func (c ContactInfo) String() string {
	return fmt.Sprintf("%s, %s", c.Email, c.Phone)
}

// User is a requester identity. ID is zero until assigned by the store.
type User struct {
	ID      int64
	Name    string
	Contact ContactInfo
}

const minUserNameLength = 2

// NewUser validates the name and wraps the contact info.
func NewUser(name string, contact ContactInfo) (User, error) {
	if len(strings.TrimSpace(name)) < minUserNameLength {
		return User{}, fmt.Errorf("name %q must be at least %d characters: %w",
			name, minUserNameLength, ErrInvalidUserName)
	}
	return User{Name: name, Contact: contact}, nil
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.Contact.Email)
}
