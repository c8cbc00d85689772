package booking

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrMissingGuestName    = errors.New("guest name is required")
	ErrInvalidGuestEmail   = errors.New("invalid guest email")
	ErrMissingGuestContact = errors.New("guest email or phone is required")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// GuestContact identifies who the reservation is for. Email doubles as the
// contact identifier for coupon usage tracking and derived idempotency keys.
type GuestContact struct {
	name    string
	email   string
	phone   string
	address string
}

func NewGuestContact(name, email, phone, address string) (GuestContact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)

	if name == "" {
		return GuestContact{}, ErrMissingGuestName
	}
	if email == "" && phone == "" {
		return GuestContact{}, ErrMissingGuestContact
	}
	if email != "" && !emailRegex.MatchString(email) {
		return GuestContact{}, ErrInvalidGuestEmail
	}

	return GuestContact{
		name:    name,
		email:   email,
		phone:   phone,
		address: strings.TrimSpace(address),
	}, nil
}

func (g GuestContact) Name() string    { return g.name }
func (g GuestContact) Email() string   { return g.email }
func (g GuestContact) Phone() string   { return g.phone }
func (g GuestContact) Address() string { return g.address }

// ContactID is the stable identifier used by the usage ledger and
// idempotency key derivation.
func (g GuestContact) ContactID() string {
	if g.email != "" {
		return g.email
	}
	return g.phone
}
