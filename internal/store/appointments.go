package store

import (
	"context"
	"time"

	"agenda/backend/internal/domain"
)

// AppointmentRepository is the persistence port for booked slots. Both the
// in-memory and the postgres implementations enforce (provider_id, date)
// uniqueness on Create and report a violation as ErrConflict, so the booking
// flow stays correct even when its pre-check races a concurrent insert.
type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	FindBySlot(ctx context.Context, providerID string, date time.Time) (domain.Appointment, error)
	ListProviderDay(ctx context.Context, providerID string, year int, month time.Month, day int) ([]domain.Appointment, error)
	All(ctx context.Context) ([]domain.Appointment, error)
}
