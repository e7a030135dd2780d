package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
	paymentModels "github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error)
	GetByDate(ctx context.Context, date time.Time, filter domain.BookingsFilter) ([]*domain.BookingRecord, error)
	GetActiveByPaymentID(ctx context.Context, paymentID string) (*domain.BookingRecord, error)
}

// PaymentVerifier интерфейс сервиса верификации платежей
// Оркестратор только читает статус: переходами владеет сервис платежей
type PaymentVerifier interface {
	Verify(ctx context.Context, transactionID string) (*paymentModels.VerifyPaymentResponse, error)
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time) ([]domain.BusyInterval, error)
	CreateEvent(ctx context.Context, event *calendar.Event) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
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
