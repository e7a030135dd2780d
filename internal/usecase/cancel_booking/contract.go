package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByEventID(ctx context.Context, eventID string) (*domain.BookingRecord, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	DeleteEvent(ctx context.Context, eventID string) error
}

// NotificationClient интерфейс почтовых уведомлений (best-effort)
type NotificationClient interface {
	Send(to, subject, htmlBody string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
