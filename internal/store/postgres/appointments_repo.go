package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

// uniqueSlotConstraint is the index backing the one-booking-per-provider-slot
// invariant; see migrations/0001_create_appointments.sql.
const uniqueSlotConstraint = "appointments_provider_date_key"

type AppointmentRepo struct {
	db  *bun.DB
	loc *time.Location
}

// NewAppointmentRepo wraps db. Day boundaries for ListProviderDay are
// computed in loc; nil means UTC.
func NewAppointmentRepo(db *bun.DB, loc *time.Location) *AppointmentRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentRepo{db: db, loc: loc}
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:         appt.ID,
		ProviderID: appt.ProviderID,
		Date:       appt.Date,
		CreatedAt:  appt.CreatedAt,
		UpdatedAt:  appt.UpdatedAt,
	}

	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueSlotConstraint {
			// The booking pre-check lost a race; the index is the backstop.
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}

	return m, nil
}

func (r *AppointmentRepo) FindBySlot(ctx context.Context, providerID string, date time.Time) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("provider_id = ?", providerID).
		Where("date = ?", date).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepo) ListProviderDay(ctx context.Context, providerID string, year int, month time.Month, day int) ([]domain.Appointment, error) {
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, r.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("date >= ?", dayStart).
		Where("date < ?", dayEnd).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) All(ctx context.Context) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
