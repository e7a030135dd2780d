package domain

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// BookingStatus represents the lifecycle state of a booking record
type BookingStatus string

const (
	StatusCreated   BookingStatus = "created"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingRecord represents a confirmed meeting booking
// Создается только после того, как выполнены все предусловия
// (оплата подтверждена для платных типов, слот свободен на момент записи).
// Запись никогда не удаляется - при отмене помечается cancelled.
type BookingRecord struct {
	ID              int64
	ExternalEventID string // ID события во внешнем календаре
	MeetingType     string
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	AttendeeName  string
	AttendeeEmail string
	Notes         *string

	// PaymentID ссылка на подтвержденную платежную транзакцию
	// Обязателен для типов встреч с requires_payment = true
	PaymentID *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking has not been cancelled
func (b *BookingRecord) IsActive() bool {
	return b.Status == StatusCreated
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *BookingRecord) CanBeCancelled() bool {
	return b.Status == StatusCreated
}

// CanBeRescheduled returns true if the booking can be moved to a new slot
func (b *BookingRecord) CanBeRescheduled() bool {
	return b.Status == StatusCreated
}

// EndTime returns the booking end time
func (b *BookingRecord) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *BookingStatus
	IncludeInactive bool // Включать ли отмененные бронирования
}
