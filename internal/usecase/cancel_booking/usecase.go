package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
)

// UseCase use case отмены бронирования
//
// Отмена не ссылается на платежное состояние и не меняет его:
// возврат средств - ручная операция вне сервиса
type UseCase struct {
	bookingRepo BookingRepository
	calendar    CalendarClient
	notifier    NotificationClient
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	calendarClient CalendarClient,
	notifier NotificationClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepository,
		calendar:    calendarClient,
		notifier:    notifier,
		logger:      logger,
	}
}

// Execute отменяет бронирование по ID внешнего события
//
// Сначала удаляется внешнее событие, затем запись помечается cancelled.
// Уже удаленное событие не считается ошибкой: отмена устойчива к повтору.
// Ошибка почтового уведомления не влияет на результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("CancelBooking: event_id=%s", req.EventID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return err
	}

	record, err := uc.bookingRepo.GetByEventID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking with event_id=%s not found", req.EventID)
			return ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to load booking: %v", err)
		return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
	}

	if !record.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%d already cancelled", record.ID)
		return ErrAlreadyCancelled
	}

	if err := uc.calendar.DeleteEvent(ctx, req.EventID); err != nil {
		if errors.Is(err, calendar.ErrEventNotFound) {
			// Событие уже удалено вручную - продолжаем отмену записи
			uc.logger.Warn("CancelBooking: event %s already absent in calendar", req.EventID)
		} else {
			// Запись остается активной, вызов можно повторить
			uc.logger.Error("CancelBooking: failed to delete event %s: %v", req.EventID, err)
			return fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
		}
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	if err := uc.bookingRepo.Cancel(ctx, record.ID, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrCannotCancel) {
			// Конкурентная отмена успела раньше - событие уже удалено,
			// итоговое состояние совпадает
			uc.logger.Warn("CancelBooking: booking id=%d cancelled concurrently", record.ID)
			return nil
		}
		uc.logger.Error("CancelBooking: failed to mark booking id=%d cancelled: %v", record.ID, err)
		return fmt.Errorf("%w: failed to mark cancelled: %v", ErrInternal, err)
	}

	uc.notifyCancellation(record, reason)

	uc.logger.Info("CancelBooking: booking id=%d cancelled", record.ID)
	return nil
}

// notifyCancellation отправляет письмо об отмене в фоне
func (uc *UseCase) notifyCancellation(record *domain.BookingRecord, reason string) {
	subject := fmt.Sprintf("Booking cancelled: %s on %s",
		record.MeetingType, record.BookingDate.Format(domain.DateFormat))

	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your <b>%s</b> on <b>%s</b> at <b>%s</b> has been cancelled.</p>",
		record.AttendeeName,
		record.MeetingType,
		record.BookingDate.Format(domain.DateFormat),
		record.StartTime,
	)
	if reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}

	go func() {
		if err := uc.notifier.Send(record.AttendeeEmail, subject, body); err != nil {
			uc.logger.Warn("CancelBooking: failed to send notification for booking id=%d: %v", record.ID, err)
			return
		}
		uc.logger.Info("CancelBooking: notification sent for booking id=%d", record.ID)
	}()
}
