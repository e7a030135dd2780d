package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MeetingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// uniqueViolation код ошибки Postgres при нарушении уникального ограничения
const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"external_event_id",
	"meeting_type",
	"booking_date",
	"start_time",
	"duration_minutes",
	"status",
	"attendee_name",
	"attendee_email",
	"notes",
	"payment_id",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись о бронировании
// Если в контексте передана активная транзакция, использует её -
// проверка доступности слота и запись должны идти в одной
// сериализуемой транзакции, чтобы исключить гонку check-then-act
func (r *Repository) Create(ctx context.Context, record *domain.BookingRecord) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_records").
		Columns(
			"external_event_id",
			"meeting_type",
			"booking_date",
			"start_time",
			"duration_minutes",
			"status",
			"attendee_name",
			"attendee_email",
			"notes",
			"payment_id",
		).
		Values(
			record.ExternalEventID,
			record.MeetingType,
			record.BookingDate,
			record.StartTime,
			record.DurationMinutes,
			record.Status,
			record.AttendeeName,
			record.AttendeeEmail,
			record.Notes,
			record.PaymentID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&record.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			// Разделяем нарушение по payment_id и по external_event_id
			if strings.Contains(pqErr.Constraint, "payment") {
				return nil, ErrPaymentAlreadyUsed
			}
			return nil, ErrEventExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	return record, nil
}

// GetByEventID получает бронирование по ID события внешнего календаря
func (r *Repository) GetByEventID(ctx context.Context, eventID string) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("booking_records").
		Where(squirrel.Eq{"external_event_id": eventID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEventID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	record, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEventID - scan booking: %v", ErrScanRow, err)
	}

	return record, nil
}

// GetActiveByPaymentID получает активное бронирование, привязанное к платежу
// Используется оркестратором для защиты от повторного использования
// подтвержденного платежа
func (r *Repository) GetActiveByPaymentID(ctx context.Context, paymentID string) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("booking_records").
		Where(squirrel.Eq{
			"payment_id": paymentID,
			"status":     domain.StatusCreated,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPaymentID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	record, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPaymentID - scan booking: %v", ErrScanRow, err)
	}

	return record, nil
}

// GetByDate получает бронирования на указанную дату с фильтрацией
// По умолчанию возвращает только активные записи
func (r *Repository) GetByDate(ctx context.Context, date time.Time, filter domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("booking_records").
		Where(squirrel.Eq{"booking_date": date})

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusCreated})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel помечает бронирование отмененным
// Запись не удаляется - только меняется статус
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_records").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusCreated,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCannotCancel
	}

	return nil
}

// UpdateSchedule переносит бронирование на новые дату и время
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime types.TimeString, durationMinutes int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_records").
		Set("booking_date", date).
		Set("start_time", startTime).
		Set("duration_minutes", durationMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusCreated,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.BookingRecord, error) {
	var record domain.BookingRecord
	var createdAt, updatedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.ExternalEventID,
		&record.MeetingType,
		&record.BookingDate,
		&record.StartTime,
		&record.DurationMinutes,
		&record.Status,
		&record.AttendeeName,
		&record.AttendeeEmail,
		&record.Notes,
		&record.PaymentID,
		&record.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time
	if cancelledAt.Valid {
		record.CancelledAt = &cancelledAt.Time
	}

	return &record, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.BookingRecord, error) {
	bookings := make([]*domain.BookingRecord, 0)

	for rows.Next() {
		record, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings: %v", ErrScanRow, err)
		}
		bookings = append(bookings, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrExecQuery, err)
	}

	return bookings, nil
}
