package repository

import (
	"eventbook/internal/database"
)

type Repositories struct {
	Events   *EventRepository
	Bookings *BookingRepository
	Users    *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:   NewEventRepository(db),
		Bookings: NewBookingRepository(db),
		Users:    NewUserRepository(db),
	}
}
