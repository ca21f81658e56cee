package generate_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// interval полуинтервал [start, end) в минутах от начала суток
type interval struct {
	start int
	end   int
}

// partitionWindow делит окно на последовательные интервалы длиной duration
// Хвост короче duration отбрасывается
func partitionWindow(start, end types.TimeString, duration int) []interval {
	if duration <= 0 {
		return nil
	}

	from, to := start.Minutes(), end.Minutes()
	intervals := make([]interval, 0, max(0, (to-from)/duration))
	for cur := from; cur+duration <= to; cur += duration {
		intervals = append(intervals, interval{start: cur, end: cur + duration})
	}
	return intervals
}

// ExpandSchedule строит слоты расписания для всех подходящих дат горизонта
func ExpandSchedule(schedule *domain.RecurringSchedule, horizon Horizon) ([]*domain.Slot, error) {
	intervals := partitionWindow(schedule.StartTime, schedule.EndTime, schedule.SlotDurationMinutes)
	if len(intervals) == 0 {
		return []*domain.Slot{}, nil
	}

	slots := make([]*domain.Slot, 0)
	last := domain.DateOnly(horizon.To)
	for date := domain.DateOnly(horizon.From); !date.After(last); date = date.AddDate(0, 0, 1) {
		if !schedule.OccursOn(date) {
			continue
		}

		for _, iv := range intervals {
			start, err := types.NewTimeStringFromMinutes(iv.start)
			if err != nil {
				return nil, err
			}
			end, err := types.NewTimeStringFromMinutes(iv.end)
			if err != nil {
				return nil, err
			}

			slots = append(slots, &domain.Slot{
				ID:         uuid.NewString(),
				ScheduleID: schedule.ID,
				ClinicID:   schedule.ClinicID,
				DoctorID:   schedule.DoctorID,
				Date:       date,
				StartTime:  start,
				EndTime:    end,
				IsBooked:   false,
			})
		}
	}

	return slots, nil
}
