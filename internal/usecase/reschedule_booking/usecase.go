package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/config"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
	"github.com/m04kA/SMC-MeetingService/pkg/ptr"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// UseCase use case переноса бронирования
//
// Переносит существующее бронирование на новый слот с сохранением
// длительности. Платеж был удовлетворен при создании и не проверяется
// повторно. Внешнее событие обновляется на месте, ID события не меняется.
type UseCase struct {
	bookingRepo  BookingRepository
	calendar     CalendarClient
	notifier     NotificationClient
	txManager    TransactionManager
	bookingCfg   config.BookingConfig
	businessLoc  *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	calendarClient CalendarClient,
	notifier NotificationClient,
	txManager TransactionManager,
	bookingCfg config.BookingConfig,
	businessLoc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		calendar:     calendarClient,
		notifier:     notifier,
		txManager:    txManager,
		bookingCfg:   bookingCfg,
		businessLoc:  businessLoc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переносит бронирование на новый слот
//
// Порядок зеркален созданию: сначала внешнее событие (календарь -
// финальный арбитр слота), затем локальная запись в serializable -
// транзакции. При локальном конфликте событие best-effort возвращается
// на прежние границы.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: event_id=%s, new_date=%s, new_start=%s",
		req.EventID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	record, err := uc.bookingRepo.GetByEventID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking with event_id=%s not found", req.EventID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to load booking: %v", err)
		return nil, fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
	}

	if !record.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d is cancelled", record.ID)
		return nil, ErrCannotReschedule
	}

	// Длительность наследуется от исходного бронирования
	newStart, newEnd, err := uc.resolveSlot(req, record.DurationMinutes)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: slot rejected: %v", err)
		return nil, err
	}

	oldStart, oldEnd, err := currentBounds(record, uc.businessLoc)
	if err != nil {
		uc.logger.Error("RescheduleBooking: corrupt schedule on booking id=%d: %v", record.ID, err)
		return nil, fmt.Errorf("%w: corrupt booking schedule: %v", ErrInternal, err)
	}

	if err := uc.precheckAvailability(ctx, record, req.NewDate, newStart, newEnd); err != nil {
		return nil, err
	}

	if err := uc.patchEvent(ctx, req.EventID, newStart, newEnd); err != nil {
		return nil, err
	}

	if err := uc.persistSchedule(ctx, record, req, newStart, newEnd); err != nil {
		// Возвращаем событие на прежние границы, чтобы календарь
		// не расходился с локальной записью
		uc.revertEvent(req.EventID, oldStart, oldEnd)
		return nil, err
	}

	updated := *record
	updated.BookingDate = dateOnly(req.NewDate)
	updated.StartTime = req.NewStartTime

	uc.notifyReschedule(&updated)

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s %s",
		record.ID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	return buildResponse(&updated), nil
}

// resolveSlot вычисляет границы нового слота и проверяет его корректность
func (uc *UseCase) resolveSlot(req *Request, durationMinutes int) (time.Time, time.Time, error) {
	endTime, err := req.NewStartTime.AddMinutes(durationMinutes)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	hours := uc.bookingCfg.HoursFor(req.NewDate.Weekday())
	if !hours.IsOpen() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: no working hours on %s", ErrInvalidTimeSlot, req.NewDate.Weekday())
	}

	openTime, err := types.NewTimeStringFromString(hours.Open)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	closeTime, err := types.NewTimeStringFromString(hours.Close)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}

	if req.NewStartTime.IsBefore(openTime) || closeTime.IsBefore(endTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: slot %s-%s outside working hours %s-%s",
			ErrInvalidTimeSlot, req.NewStartTime, endTime, openTime, closeTime)
	}

	newStart, err := req.NewStartTime.OnDate(req.NewDate, uc.businessLoc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	newEnd := newStart.Add(time.Duration(durationMinutes) * time.Minute)

	if !newStart.After(uc.timeProvider.Now()) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: slot start is in the past", ErrInvalidTimeSlot)
	}

	return newStart, newEnd, nil
}

// precheckAvailability отклоняет заведомо занятые слоты до обновления
// события. Собственное бронирование исключается из проверки: перенос
// в пределах своего же слота допустим.
func (uc *UseCase) precheckAvailability(ctx context.Context, record *domain.BookingRecord, newDate time.Time, newStart, newEnd time.Time) error {
	bookings, err := uc.bookingRepo.GetByDate(ctx, dateOnly(newDate), domain.BookingsFilter{})
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to load bookings: %v", err)
		return fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}

	if overlapsBookings(newStart, newEnd, bookings, uc.businessLoc, record.ID) {
		uc.logger.Warn("RescheduleBooking: slot %s conflicts with local booking", newStart)
		return ErrSlotNotAvailable
	}

	busy, err := uc.calendar.QueryFreeBusy(ctx, newStart, newEnd)
	if err != nil {
		// Обновление события все равно подтвердит или отклонит слот
		uc.logger.Warn("RescheduleBooking: freebusy precheck unavailable: %v", err)
		return nil
	}

	// Собственное событие занимает старый слот и не мешает, если
	// интервалы не пересекаются. Пересечение со старым слотом здесь
	// не отличимо от чужого - конфликт разрешит сам календарь.
	oldStart, oldEnd, boundsErr := currentBounds(record, uc.businessLoc)
	for _, interval := range busy {
		if boundsErr == nil && !interval.Start.Before(oldStart) && !interval.End.After(oldEnd) {
			continue
		}
		if newStart.Before(interval.End) && newEnd.After(interval.Start) {
			uc.logger.Warn("RescheduleBooking: slot %s busy in external calendar", newStart)
			return ErrSlotNotAvailable
		}
	}

	return nil
}

// patchEvent обновляет границы внешнего события на месте
func (uc *UseCase) patchEvent(ctx context.Context, eventID string, newStart, newEnd time.Time) error {
	patch := &calendar.EventPatch{
		Start: ptr.Ptr(newStart),
		End:   ptr.Ptr(newEnd),
	}

	if err := uc.calendar.UpdateEvent(ctx, eventID, patch); err != nil {
		switch {
		case errors.Is(err, calendar.ErrConflict):
			uc.logger.Warn("RescheduleBooking: calendar rejected slot %s as busy", newStart)
			return ErrSlotNotAvailable
		case errors.Is(err, calendar.ErrEventNotFound):
			// Запись ссылается на событие, которого больше нет
			uc.logger.Error("RescheduleBooking: event %s missing in calendar", eventID)
			return fmt.Errorf("%w: external event missing", ErrInternal)
		default:
			uc.logger.Error("RescheduleBooking: failed to update event %s: %v", eventID, err)
			return fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
		}
	}
	return nil
}

// persistSchedule записывает новый слот в serializable-транзакции
// с повторной проверкой пересечений
func (uc *UseCase) persistSchedule(ctx context.Context, record *domain.BookingRecord, req *Request, newStart, newEnd time.Time) error {
	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		bookings, err := uc.bookingRepo.GetByDate(ctx, dateOnly(req.NewDate), domain.BookingsFilter{})
		if err != nil {
			return fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
		}

		if overlapsBookings(newStart, newEnd, bookings, uc.businessLoc, record.ID) {
			return ErrSlotNotAvailable
		}

		return uc.bookingRepo.UpdateSchedule(ctx, record.ID, dateOnly(req.NewDate), req.NewStartTime, record.DurationMinutes)
	})
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to persist schedule for id=%d: %v", record.ID, err)
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
	return nil
}

// revertEvent best-effort возвращает событие на прежние границы
func (uc *UseCase) revertEvent(eventID string, oldStart, oldEnd time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	patch := &calendar.EventPatch{
		Start: ptr.Ptr(oldStart),
		End:   ptr.Ptr(oldEnd),
	}
	if err := uc.calendar.UpdateEvent(ctx, eventID, patch); err != nil {
		uc.logger.Error("RescheduleBooking: failed to revert event %s: %v", eventID, err)
		return
	}
	uc.logger.Info("RescheduleBooking: event %s reverted to previous slot", eventID)
}

// notifyReschedule отправляет письмо о переносе в фоне
func (uc *UseCase) notifyReschedule(updated *domain.BookingRecord) {
	subject := fmt.Sprintf("Booking rescheduled: %s on %s",
		updated.MeetingType, updated.BookingDate.Format(domain.DateFormat))

	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your <b>%s</b> has been moved to <b>%s</b> at <b>%s</b>.</p>",
		updated.AttendeeName,
		updated.MeetingType,
		updated.BookingDate.Format(domain.DateFormat),
		updated.StartTime,
	)

	go func() {
		if err := uc.notifier.Send(updated.AttendeeEmail, subject, body); err != nil {
			uc.logger.Warn("RescheduleBooking: failed to send notification for booking id=%d: %v", updated.ID, err)
			return
		}
		uc.logger.Info("RescheduleBooking: notification sent for booking id=%d", updated.ID)
	}()
}

// currentBounds возвращает границы текущего слота бронирования
func currentBounds(record *domain.BookingRecord, loc *time.Location) (time.Time, time.Time, error) {
	start, err := record.StartTime.OnDate(record.BookingDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(time.Duration(record.DurationMinutes) * time.Minute), nil
}

// overlapsBookings проверяет полуинтервальное пересечение слота
// с активными бронированиями, исключая excludeID
func overlapsBookings(slotStart, slotEnd time.Time, bookings []*domain.BookingRecord, loc *time.Location, excludeID int64) bool {
	for _, booking := range bookings {
		if !booking.IsActive() || booking.ID == excludeID {
			continue
		}
		start, err := booking.StartTime.OnDate(booking.BookingDate, loc)
		if err != nil {
			continue
		}
		end := start.Add(time.Duration(booking.DurationMinutes) * time.Minute)
		if slotStart.Before(end) && slotEnd.After(start) {
			return true
		}
	}
	return false
}

func buildResponse(record *domain.BookingRecord) *Response {
	return &Response{
		ID:              record.ID,
		ExternalEventID: record.ExternalEventID,
		MeetingType:     record.MeetingType,
		BookingDate:     record.BookingDate,
		StartTime:       record.StartTime,
		DurationMinutes: record.DurationMinutes,
		Status:          string(record.Status),
		AttendeeName:    record.AttendeeName,
		AttendeeEmail:   record.AttendeeEmail,
		Notes:           record.Notes,
		PaymentID:       record.PaymentID,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
