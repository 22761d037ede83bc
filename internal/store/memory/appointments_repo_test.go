package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

func TestCreate_StampsIDAndAuditTimestamps(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)

	appt, err := repo.Create(context.Background(), domain.Appointment{
		ProviderID: "p1",
		Date:       time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if appt.ID == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
	if appt.CreatedAt.IsZero() || appt.UpdatedAt.IsZero() {
		t.Fatalf("expected audit timestamps, got created_at=%v updated_at=%v", appt.CreatedAt, appt.UpdatedAt)
	}
}

func TestCreate_DuplicateSlotConflicts(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)
	slot := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: slot}); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	_, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: slot})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second Create error = %v, want %v", err, store.ErrConflict)
	}

	if _, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p2", Date: slot}); err != nil {
		t.Fatalf("other provider Create error: %v", err)
	}
}

func TestCreate_ConcurrentSameSlotSingleWinner(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)
	slot := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	const attempts = 32

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: slot})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, store.ErrConflict):
		default:
			t.Fatalf("attempt %d unexpected error: %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want 1", winners)
	}

	all, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("stored appointments = %d, want 1", len(all))
	}
}

func TestFindBySlot_ExactMatchOnly(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)
	slot := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	created, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: slot})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := repo.FindBySlot(context.Background(), "p1", slot)
	if err != nil {
		t.Fatalf("FindBySlot error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("id = %s, want %s", got.ID, created.ID)
	}

	if _, err := repo.FindBySlot(context.Background(), "p1", slot.Add(time.Minute)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("off-by-a-minute error = %v, want %v", err, store.ErrNotFound)
	}
	if _, err := repo.FindBySlot(context.Background(), "p2", slot); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("other provider error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestFindBySlot_MatchesEqualInstantAcrossZones(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	slotUTC := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if _, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: slotUTC}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := repo.FindBySlot(context.Background(), "p1", slotUTC.In(loc)); err != nil {
		t.Fatalf("FindBySlot error: %v", err)
	}
}

func TestListProviderDay_FiltersAndOrders(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)

	dates := []time.Time{
		time.Date(2024, 3, 10, 16, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 11, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),  // next day boundary
		time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), // previous day
	}
	for _, d := range dates {
		if _, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: d}); err != nil {
			t.Fatalf("Create(%s) error: %v", d, err)
		}
	}
	if _, err := repo.Create(context.Background(), domain.Appointment{
		ProviderID: "p2",
		Date:       time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	day, err := repo.ListProviderDay(context.Background(), "p1", 2024, time.March, 10)
	if err != nil {
		t.Fatalf("ListProviderDay error: %v", err)
	}
	if len(day) != 3 {
		t.Fatalf("appointments = %d, want 3", len(day))
	}
	for i := 1; i < len(day); i++ {
		if day[i].Date.Before(day[i-1].Date) {
			t.Fatalf("appointments out of order: %v before %v", day[i].Date, day[i-1].Date)
		}
	}
}

func TestListProviderDay_EmptyDay(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)

	day, err := repo.ListProviderDay(context.Background(), "p1", 2024, time.March, 10)
	if err != nil {
		t.Fatalf("ListProviderDay error: %v", err)
	}
	if len(day) != 0 {
		t.Fatalf("appointments = %d, want 0", len(day))
	}
}

func TestListProviderDay_RespectsConfiguredLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}
	repo := NewAppointmentRepo(loc)

	// 01:00 UTC on March 11 is still March 10 in Sao Paulo (UTC-3).
	late := time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)
	if _, err := repo.Create(context.Background(), domain.Appointment{ProviderID: "p1", Date: late}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	day, err := repo.ListProviderDay(context.Background(), "p1", 2024, time.March, 10)
	if err != nil {
		t.Fatalf("ListProviderDay error: %v", err)
	}
	if len(day) != 1 {
		t.Fatalf("appointments = %d, want 1", len(day))
	}
}

func TestAll_ReturnsCopies(t *testing.T) {
	repo := NewAppointmentRepo(time.UTC)

	if _, err := repo.Create(context.Background(), domain.Appointment{
		ProviderID: "p1",
		Date:       time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	first, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	first[0].ProviderID = "mutated"

	second, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if second[0].ProviderID != "p1" {
		t.Fatalf("stored provider_id = %q, want %q", second[0].ProviderID, "p1")
	}
}
