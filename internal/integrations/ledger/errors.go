package ledger

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда транзакция с указанным reference
	// еще не найдена в леджере. Это ожидаемый результат при поллинге, не сбой.
	ErrTransactionNotFound = errors.New("ledger client: transaction not found")

	// ErrLedgerUnavailable возвращается при недоступности RPC узла леджера.
	// Ошибка retryable - никогда не должна приводить к терминальному статусу платежа.
	ErrLedgerUnavailable = errors.New("ledger client: ledger unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе RPC узла
	ErrInvalidResponse = errors.New("ledger client: invalid response")

	// ErrRecipientMismatch возвращается, когда получатель в транзакции
	// не совпадает с ожидаемым кошельком
	ErrRecipientMismatch = errors.New("ledger client: recipient mismatch")

	// ErrAmountMismatch возвращается, когда сумма перевода не совпадает с ожидаемой
	ErrAmountMismatch = errors.New("ledger client: amount mismatch")

	// ErrReferenceMismatch возвращается, когда proof не содержит ожидаемый reference
	ErrReferenceMismatch = errors.New("ledger client: reference mismatch")
)
