package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo store.AppointmentRepository
	loc  *time.Location
	now  func() time.Time
}

// NewService wires the scheduling logic to a repository. loc is the location
// used for slot-hour comparison and must match the one the repository computes
// day boundaries in; nil means UTC.
func NewService(repo store.AppointmentRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

type BookInput struct {
	ProviderID string
	Date       time.Time
}

// Book reserves the slot at in.Date for the provider. The repository's
// uniqueness backstop decides races between concurrent identical bookings, so
// at most one of them ever succeeds even though the pre-check and the insert
// are two separate store calls.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	providerID := strings.TrimSpace(in.ProviderID)
	if providerID == "" {
		return domain.Appointment{}, validationError("provider_id is required")
	}
	if in.Date.IsZero() {
		return domain.Appointment{}, validationError("date is required")
	}

	date := in.Date.UTC()
	if date.Before(s.now().UTC()) {
		return domain.Appointment{}, validationError("cannot book a past date")
	}

	_, err := s.repo.FindBySlot(ctx, providerID, date)
	if err == nil {
		return domain.Appointment{}, store.ErrConflict
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, err
	}

	return s.repo.Create(ctx, domain.Appointment{
		ProviderID: providerID,
		Date:       date,
	})
}

func (s *Service) Appointments(ctx context.Context) ([]domain.Appointment, error) {
	return s.repo.All(ctx)
}
