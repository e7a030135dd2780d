package get_available_slots

import "errors"

var (
	// ErrUnknownMeetingType возвращается при неизвестном типе встречи
	ErrUnknownMeetingType = errors.New("get_available_slots: unknown meeting type")

	// ErrInvalidTimezone возвращается при некорректной таймзоне
	ErrInvalidTimezone = errors.New("get_available_slots: invalid timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
