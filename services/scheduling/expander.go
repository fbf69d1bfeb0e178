package scheduling

import (
	"sort"

	"tutorly/models"
)

// ExpandRanges turns a provider's weekly availability ranges into the
// discrete bookable slots a session of the given duration could occupy.
// Slots are emitted at start, start+duration, start+2*duration, ... while a
// full session still fits before the range end; a trailing remainder shorter
// than the duration is dropped, never rounded up. Overlapping or duplicate
// ranges dedupe by (day, time). Output is ordered day-then-time ascending.
func ExpandRanges(ranges []models.WeeklyRange, durationMinutes int) ([]models.BookableSlot, error) {
	if durationMinutes <= 0 {
		return nil, validationErrorf("slot duration must be positive, got %d", durationMinutes)
	}

	seen := make(map[models.BookableSlot]struct{})
	for _, r := range ranges {
		if r.Start >= r.End {
			return nil, &InvalidRangeError{Range: r}
		}
		for t := r.Start; t+durationMinutes <= r.End; t += durationMinutes {
			seen[models.BookableSlot{Day: r.Day, Time: t}] = struct{}{}
		}
	}

	slots := make([]models.BookableSlot, 0, len(seen))
	for s := range seen {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].Time < slots[j].Time
	})
	return slots, nil
}
