package guest

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("guest: not found")
	ErrNameRequired = errors.New("guest: first name required")
)

// Guest is the identity captured when a stay is created. Reservations and
// bookings reference it by ID only.
type Guest struct {
	ID          string
	HotelID     int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNum    string
	IdentityNum string
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, g *Guest) error
	ByID(ctx context.Context, id string) (*Guest, error)
}

func New(id string, hotelID int64, firstName, lastName, email, phoneNum, identityNum string, now time.Time) (*Guest, error) {
	if firstName == "" {
		return nil, ErrNameRequired
	}
	return &Guest{
		ID:          id,
		HotelID:     hotelID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNum:    phoneNum,
		IdentityNum: identityNum,
		CreatedAt:   now.UTC(),
	}, nil
}
