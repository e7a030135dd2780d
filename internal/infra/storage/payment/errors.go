package payment

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда платежная транзакция не найдена
	ErrTransactionNotFound = errors.New("payment.repository: transaction not found")

	// ErrReferenceExists возвращается при попытке создать транзакцию
	// с уже существующим reference. Reference генерируется криптографически,
	// коллизия означает ошибку конфигурации, а не повод для тихого ретрая.
	ErrReferenceExists = errors.New("payment.repository: reference already exists")

	// ErrAlreadyTerminal возвращается, когда CAS-переход не выполнился,
	// потому что транзакция уже в терминальном статусе.
	// Вызывающий должен перечитать запись и вернуть сохраненный результат.
	ErrAlreadyTerminal = errors.New("payment.repository: transaction already terminal")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
