package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// filterAvailable оставляет свободные слоты не раньше today (и на date, если задана)
// и сортирует их по дате и времени начала
func filterAvailable(slots []*domain.Slot, today time.Time, date *time.Time) []*domain.Slot {
	out := make([]*domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.IsAvailable(today) {
			continue
		}
		if date != nil && !domain.DateOnly(s.Date).Equal(domain.DateOnly(*date)) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime.IsBefore(out[j].StartTime)
	})

	return out
}

func toResponseSlots(slots []*domain.Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, Slot{
			ID:        s.ID,
			ClinicID:  s.ClinicID,
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return out
}
