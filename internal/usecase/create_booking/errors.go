package create_booking

import "errors"

var (
	// ErrUnknownMeetingType возвращается при неизвестном типе встречи (терминальная)
	ErrUnknownMeetingType = errors.New("create_booking: unknown meeting type")

	// ErrPaymentRequired возвращается, когда тип встречи платный,
	// а paymentId не передан. Вызывающий должен инициализировать платеж.
	ErrPaymentRequired = errors.New("create_booking: payment required")

	// ErrPaymentNotFound возвращается, когда платежная транзакция не найдена
	ErrPaymentNotFound = errors.New("create_booking: payment transaction not found")

	// ErrPaymentPending возвращается, когда платеж еще не подтвержден леджером.
	// Отличается от ErrPaymentRequired: вызывающий должен поллить verify,
	// а не начинать оплату заново.
	ErrPaymentPending = errors.New("create_booking: payment not confirmed yet")

	// ErrPaymentFailed возвращается, когда платеж в терминальном статусе failed
	// (несовпадение суммы или получателя). Требуется новый платеж.
	ErrPaymentFailed = errors.New("create_booking: payment failed")

	// ErrPaymentMismatch возвращается, когда платеж оплачен
	// за другой тип встречи
	ErrPaymentMismatch = errors.New("create_booking: payment was made for a different meeting type")

	// ErrPaymentAlreadyUsed возвращается, когда подтвержденный платеж
	// уже привязан к другому активному бронированию
	ErrPaymentAlreadyUsed = errors.New("create_booking: payment already used by another booking")

	// ErrSlotNotAvailable возвращается при конфликте слота на момент записи
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда слот вне рабочих часов или в прошлом
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrCalendarUnavailable возвращается при недоступности календаря.
	// Retryable: подтвержденный платеж не расходуется, повторный вызов
	// с тем же paymentId допустим.
	ErrCalendarUnavailable = errors.New("create_booking: calendar unavailable")

	// ErrLedgerUnavailable возвращается при недоступности леджера. Retryable.
	ErrLedgerUnavailable = errors.New("create_booking: ledger unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
