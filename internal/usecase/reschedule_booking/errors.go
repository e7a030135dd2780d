package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrCannotReschedule возвращается при попытке перенести
	// отмененное бронирование
	ErrCannotReschedule = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrSlotNotAvailable возвращается при конфликте нового слота
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда новый слот вне рабочих часов
	// или в прошлом
	ErrInvalidTimeSlot = errors.New("reschedule_booking: invalid time slot")

	// ErrCalendarUnavailable возвращается при недоступности календаря.
	// Retryable: бронирование остается на прежнем слоте.
	ErrCalendarUnavailable = errors.New("reschedule_booking: calendar unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
