package scheduling

import (
	"context"
	"time"
)

// Business hours: ten one-hour slots with start times 08:00 through 17:00.
const (
	dayStartHour = 8
	slotsPerDay  = 10
)

type HourAvailability struct {
	Hour      int
	Available bool
}

// DayAvailability reports the free/busy state of every business-hour slot of
// the provider on the given calendar day. The result always has exactly
// slotsPerDay entries in ascending hour order; appointments only mark an hour
// busy through their hour component, so a 09:30 booking blocks the 09:00 slot.
// Past days are not special-cased: the answer is a pure function of the store
// contents and the requested date.
func (s *Service) DayAvailability(ctx context.Context, providerID string, year int, month time.Month, day int) ([]HourAvailability, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, s.loc)
	if date.Year() != year || date.Month() != month || date.Day() != day {
		return nil, validationError("invalid calendar date")
	}

	appts, err := s.repo.ListProviderDay(ctx, providerID, year, month, day)
	if err != nil {
		return nil, err
	}

	booked := make(map[int]bool, len(appts))
	for _, appt := range appts {
		booked[appt.Date.In(s.loc).Hour()] = true
	}

	out := make([]HourAvailability, 0, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		hour := dayStartHour + i
		out = append(out, HourAvailability{
			Hour:      hour,
			Available: !booked[hour],
		})
	}
	return out, nil
}
