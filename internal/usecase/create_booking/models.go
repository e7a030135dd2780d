package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	MeetingType   string           // Тип встречи
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	Timezone      string           // IANA таймзона клиента (для писем)
	AttendeeName  string
	AttendeeEmail string
	Notes         *string // Дополнительные заметки (опционально)

	// PaymentID ID подтвержденной платежной транзакции
	// Обязателен для типов встреч с requires_payment = true
	PaymentID *string
}

// Response модель ответа с созданным бронированием
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

	CreatedAt time.Time
	UpdatedAt time.Time
}
