package domain

// MeetingTypeConfig describes a bookable consultation type
// Загружается из статической конфигурации и не изменяется в рантайме
type MeetingTypeConfig struct {
	Name            string
	DurationMinutes int
	Price           float64 // Цена в нативных единицах леджера
	PriceUSD        float64
	RequiresPayment bool
	Description     string
}

// IsFree returns true if the meeting type does not require payment
func (m *MeetingTypeConfig) IsFree() bool {
	return !m.RequiresPayment
}
