package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MeetingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки Postgres при нарушении уникального ограничения
const uniqueViolation = "23505"

var paymentColumns = []string{
	"id",
	"meeting_type",
	"amount",
	"reference",
	"status",
	"signature",
	"user_id",
	"created_at",
	"confirmed_at",
}

// Repository репозиторий платежных транзакций
// Хранилище с двумя ключами: PK по id и UNIQUE индекс по reference,
// оба обеспечивают O(1) поиск
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую pending-транзакцию
// Нарушение уникальности reference возвращается как ErrReferenceExists
func (r *Repository) Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_transactions").
		Columns(
			"id",
			"meeting_type",
			"amount",
			"reference",
			"status",
			"user_id",
		).
		Values(
			tx.ID,
			tx.MeetingType,
			tx.Amount,
			tx.Reference,
			tx.Status,
			tx.UserID,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrReferenceExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	return tx, nil
}

// GetByID получает транзакцию по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByReference получает транзакцию по reference
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	return r.getOne(ctx, squirrel.Eq{"reference": reference})
}

// Confirm атомарно переводит pending-транзакцию в confirmed и сохраняет signature
//
// Compare-and-set: WHERE status = 'pending' гарантирует, что из двух
// конкурентных верификаций переход выполнит ровно одна. Проигравшая
// получает ErrAlreadyTerminal и должна перечитать запись.
func (r *Repository) Confirm(ctx context.Context, id string, signature string) error {
	return r.transition(ctx, "Confirm", id,
		psqlbuilder.Update("payment_transactions").
			Set("status", domain.PaymentConfirmed).
			Set("signature", signature).
			Set("confirmed_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id, "status": domain.PaymentPending}))
}

// Fail атомарно переводит pending-транзакцию в failed
// Та же CAS-семантика, что и у Confirm
func (r *Repository) Fail(ctx context.Context, id string) error {
	return r.transition(ctx, "Fail", id,
		psqlbuilder.Update("payment_transactions").
			Set("status", domain.PaymentFailed).
			Where(squirrel.Eq{"id": id, "status": domain.PaymentPending}))
}

func (r *Repository) transition(ctx context.Context, op string, id string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}

	if affected == 0 {
		// CAS не сработал: либо транзакции нет, либо она уже терминальна
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if existing.IsTerminal() {
			return ErrAlreadyTerminal
		}
		return fmt.Errorf("%w: %s - no transition for id=%s", ErrExecQuery, op, id)
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payment_transactions").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var tx domain.PaymentTransaction
	var createdAt, confirmedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&tx.MeetingType,
		&tx.Amount,
		&tx.Reference,
		&tx.Status,
		&tx.Signature,
		&tx.UserID,
		&createdAt,
		&confirmedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan transaction: %v", ErrScanRow, err)
	}

	tx.CreatedAt = createdAt.Time
	if confirmedAt.Valid {
		tx.ConfirmedAt = &confirmedAt.Time
	}

	return &tx, nil
}
