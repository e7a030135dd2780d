package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/config"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// generateCandidateSlots генерирует все возможные слоты дня с фиксированным
// шагом slotDuration в пределах рабочих часов
// Слот, не помещающийся целиком до закрытия, отбрасывается
func generateCandidateSlots(
	date time.Time,
	hours config.DaySchedule,
	slotDuration int,
	loc *time.Location,
) ([]domain.TimeSlot, error) {
	if !hours.IsOpen() {
		return []domain.TimeSlot{}, nil
	}

	openTime, err := types.NewTimeStringFromString(hours.Open)
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromString(hours.Close)
	if err != nil {
		return nil, err
	}

	open, err := openTime.OnDate(date, loc)
	if err != nil {
		return nil, err
	}
	close, err := closeTime.OnDate(date, loc)
	if err != nil {
		return nil, err
	}

	step := time.Duration(slotDuration) * time.Minute

	slots := make([]domain.TimeSlot, 0)
	for start := open; !start.Add(step).After(close); start = start.Add(step) {
		slots = append(slots, domain.TimeSlot{
			Start:     start,
			End:       start.Add(step),
			Available: true,
		})
	}

	return slots, nil
}

// filterPastSlots оставляет только слоты, начинающиеся строго в будущем
func filterPastSlots(slots []domain.TimeSlot, now time.Time) []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Start.After(now) {
			result = append(result, slot)
		}
	}
	return result
}

// markUnavailable помечает недоступными слоты, пересекающиеся с локальными
// бронированиями или занятыми интервалами внешнего календаря
//
// Пересечение полуинтервальное: slotStart < otherEnd && slotEnd > otherStart.
// Слот, касающийся границы занятого интервала, остается доступным.
func markUnavailable(
	slots []domain.TimeSlot,
	bookings []*domain.BookingRecord,
	externalBusy []domain.BusyInterval,
	loc *time.Location,
) []domain.TimeSlot {
	busy := make([]domain.BusyInterval, 0, len(bookings)+len(externalBusy))

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		start, err := booking.StartTime.OnDate(booking.BookingDate, loc)
		if err != nil {
			// Некорректное время в записи не должно ронять расчет
			continue
		}
		busy = append(busy, domain.BusyInterval{
			Start: start,
			End:   start.Add(time.Duration(booking.DurationMinutes) * time.Minute),
		})
	}

	busy = append(busy, externalBusy...)

	result := make([]domain.TimeSlot, len(slots))
	for i, slot := range slots {
		available := true
		for _, interval := range busy {
			if slot.Overlaps(interval.Start, interval.End) {
				available = false
				break
			}
		}
		slot.Available = available
		result[i] = slot
	}

	return result
}

// onlyAvailable возвращает доступные слоты (порядок сохраняется)
func onlyAvailable(slots []domain.TimeSlot) []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available {
			result = append(result, slot)
		}
	}
	return result
}
