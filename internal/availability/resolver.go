package availability

import (
	"sort"
	"time"

	"sportclub/internal/models"
)

// Resolve turns the schedule rows of one day into slots.
//
// A slot is not bookable when it intersects any pending or confirmed
// reservation. A day before the current day of now (in now's location) has no
// slots. On the current day, slots starting before now+leadTime are dropped. The result is ordered by start
// time with one slot per start time; a collapsed slot is bookable only if
// every row sharing its start was.
func Resolve(date models.Date, schedules []*models.FieldSchedule, reservations []*models.Reservation, now time.Time, leadTime time.Duration) []models.AvailabilitySlot {
	slots := make([]models.AvailabilitySlot, 0, len(schedules))
	today := models.DateOf(now)
	if len(schedules) == 0 || date.Before(today.Time) {
		return slots
	}

	loc := now.Location()
	isToday := today.Equal(date.Time)
	cutoff := now.Add(leadTime)

	for _, s := range schedules {
		if s == nil || !s.Active || s.StartTime >= s.EndTime {
			continue
		}
		if isToday && date.At(s.StartTime, loc).Before(cutoff) {
			continue
		}
		slots = append(slots, models.AvailabilitySlot{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Bookable:  !occupied(s.StartTime, s.EndTime, reservations),
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].EndTime < slots[j].EndTime
	})

	return dedupe(slots)
}

func occupied(start, end models.TimeOfDay, reservations []*models.Reservation) bool {
	for _, r := range reservations {
		if r != nil && r.IsActive() && r.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// dedupe expects slots sorted by start time.
func dedupe(slots []models.AvailabilitySlot) []models.AvailabilitySlot {
	out := slots[:0]
	for _, s := range slots {
		if n := len(out); n > 0 && out[n-1].StartTime == s.StartTime {
			out[n-1].Bookable = out[n-1].Bookable && s.Bookable
			continue
		}
		out = append(out, s)
	}
	return out
}
