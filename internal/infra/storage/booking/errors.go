package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrPaymentAlreadyUsed возвращается при попытке привязать платеж,
	// уже использованный активным бронированием. Частичный уникальный индекс
	// по payment_id - финальный арбитр против двойного списания.
	ErrPaymentAlreadyUsed = errors.New("booking.repository: payment already used by an active booking")

	// ErrEventExists возвращается при попытке создать запись
	// с уже существующим external_event_id
	ErrEventExists = errors.New("booking.repository: external event id already exists")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking.repository: booking cannot be cancelled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
