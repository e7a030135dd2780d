package domain

import "time"

// TimeSlot represents a candidate bookable interval
// Value type - слоты никогда не персистятся, всегда вычисляются заново
type TimeSlot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// Overlaps reports whether the slot overlaps [otherStart, otherEnd)
// Полуинтервальная проверка: слоты, касающиеся границы занятого
// интервала, пересечением не считаются
func (s TimeSlot) Overlaps(otherStart, otherEnd time.Time) bool {
	return s.Start.Before(otherEnd) && s.End.After(otherStart)
}

// BusyInterval занятый интервал из внешнего календаря (free/busy)
type BusyInterval struct {
	Start time.Time
	End   time.Time
}
