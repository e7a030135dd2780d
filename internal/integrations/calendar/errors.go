package calendar

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено в календаре
	ErrEventNotFound = errors.New("calendar client: event not found")

	// ErrConflict возвращается, когда календарь отклонил запись из-за пересечения
	// с существующим событием. Календарь - финальный арбитр занятости слота.
	ErrConflict = errors.New("calendar client: event conflicts with existing event")

	// ErrCalendarUnavailable возвращается при недоступности календарного сервиса.
	// Ошибка retryable.
	ErrCalendarUnavailable = errors.New("calendar client: calendar unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе сервиса
	ErrInvalidResponse = errors.New("calendar client: invalid response")
)
