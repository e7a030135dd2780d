package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// Request модель запроса на перенос бронирования
// Длительность сохраняется от исходного бронирования, платежные
// проверки не выполняются повторно
type Request struct {
	EventID      string           // ID события во внешнем календаре
	NewDate      time.Time        // Новая дата
	NewStartTime types.TimeString // Новое время начала
	Timezone     string           // IANA таймзона клиента (для писем)
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID              int64
	ExternalEventID string
	MeetingType     string
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	AttendeeName  string
	AttendeeEmail string
	Notes         *string
	PaymentID     *string
}
