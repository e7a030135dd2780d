package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByEventID(ctx context.Context, eventID string) (*domain.BookingRecord, error)
	GetByDate(ctx context.Context, date time.Time, filter domain.BookingsFilter) ([]*domain.BookingRecord, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime types.TimeString, durationMinutes int) error
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time) ([]domain.BusyInterval, error)
	UpdateEvent(ctx context.Context, eventID string, patch *calendar.EventPatch) error
}

// NotificationClient интерфейс почтовых уведомлений (best-effort)
type NotificationClient interface {
	Send(to, subject, htmlBody string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
