package payments

import "errors"

var (
	// ErrUnknownMeetingType возвращается при неизвестном типе встречи
	ErrUnknownMeetingType = errors.New("payments: unknown meeting type")

	// ErrPaymentNotRequired возвращается при попытке инициализировать платеж
	// для бесплатного типа встречи
	ErrPaymentNotRequired = errors.New("payments: meeting type does not require payment")

	// ErrTransactionNotFound возвращается, когда платежная транзакция не найдена
	ErrTransactionNotFound = errors.New("payments: transaction not found")

	// ErrReferenceCollision возвращается при коллизии сгенерированного reference.
	// Reference генерируется криптографически: коллизия означает проблему
	// с источником энтропии или конфигурацией, тихий ретрай запрещен.
	ErrReferenceCollision = errors.New("payments: reference collision")

	// ErrLedgerUnavailable возвращается при недоступности леджера.
	// Ошибка retryable и никогда не переводит транзакцию в терминальный статус.
	ErrLedgerUnavailable = errors.New("payments: ledger unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")
)
