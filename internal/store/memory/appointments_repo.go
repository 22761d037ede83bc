// Package memory holds an in-process AppointmentRepository backed by a
// mutex-guarded slice. Lookups are linear scans, which is fine for the small
// working sets it is meant for (tests, local development).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

type AppointmentRepo struct {
	loc *time.Location

	mu    sync.Mutex
	appts []domain.Appointment
}

// NewAppointmentRepo returns an empty repository. Day boundaries for
// ListProviderDay are computed in loc; nil means UTC.
func NewAppointmentRepo(loc *time.Location) *AppointmentRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentRepo{loc: loc}
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Duplicate check and append happen under the same lock, so
	// compare-and-insert is atomic for in-process callers.
	for _, existing := range r.appts {
		if existing.ProviderID == appt.ProviderID && existing.Date.Equal(appt.Date) {
			return domain.Appointment{}, store.ErrConflict
		}
	}

	if appt.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Appointment{}, err
		}
		appt.ID = id
	}
	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	if appt.UpdatedAt.IsZero() {
		appt.UpdatedAt = now
	}

	r.appts = append(r.appts, appt)
	return appt, nil
}

func (r *AppointmentRepo) FindBySlot(ctx context.Context, providerID string, date time.Time) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, appt := range r.appts {
		if appt.ProviderID == providerID && appt.Date.Equal(date) {
			return appt, nil
		}
	}
	return domain.Appointment{}, store.ErrNotFound
}

func (r *AppointmentRepo) ListProviderDay(ctx context.Context, providerID string, year int, month time.Month, day int) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dayStart := time.Date(year, month, day, 0, 0, 0, 0, r.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Appointment
	for _, appt := range r.appts {
		if appt.ProviderID != providerID {
			continue
		}
		if appt.Date.Before(dayStart) || !appt.Date.Before(dayEnd) {
			continue
		}
		out = append(out, appt)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}

func (r *AppointmentRepo) All(ctx context.Context) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Appointment, len(r.appts))
	copy(out, r.appts)
	return out, nil
}
