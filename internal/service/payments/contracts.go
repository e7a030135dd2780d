package payments

import (
	"context"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/ledger"
)

// PaymentRepository интерфейс репозитория платежных транзакций
// Переходы статуса выполняются только через Confirm/Fail (CAS по id)
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error)
	Confirm(ctx context.Context, id string, signature string) error
	Fail(ctx context.Context, id string) error
}

// LedgerClient интерфейс клиента леджера
type LedgerClient interface {
	FindTransactionByReference(ctx context.Context, reference string, finality string) (*ledger.TransactionProof, error)
	ValidateTransfer(proof *ledger.TransactionProof, recipient string, amount float64, reference string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
