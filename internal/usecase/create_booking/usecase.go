package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/config"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
	"github.com/m04kA/SMC-MeetingService/internal/service/payments"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// UseCase use case создания бронирования
//
// Оркестрирует платежный гейт, проверку доступности слота, создание
// события во внешнем календаре и локальную запись. Календарь - финальный
// арбитр слота, частичный уникальный индекс по payment_id - финальный
// арбитр против повторного использования платежа.
type UseCase struct {
	bookingRepo  BookingRepository
	calendar     CalendarClient
	payments     PaymentVerifier
	notifier     NotificationClient
	txManager    TransactionManager
	bookingCfg   config.BookingConfig
	meetingTypes map[string]domain.MeetingTypeConfig
	businessLoc  *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	calendarClient CalendarClient,
	paymentVerifier PaymentVerifier,
	notifier NotificationClient,
	txManager TransactionManager,
	bookingCfg config.BookingConfig,
	meetingTypes map[string]domain.MeetingTypeConfig,
	businessLoc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		calendar:     calendarClient,
		payments:     paymentVerifier,
		notifier:     notifier,
		txManager:    txManager,
		bookingCfg:   bookingCfg,
		meetingTypes: meetingTypes,
		businessLoc:  businessLoc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает бронирование
//
// Порядок шагов фиксирован:
//  1. Валидация входа и слота (рабочие часы, будущее время)
//  2. Платежный гейт для платных типов (confirmed, не использован)
//  3. Предварительная проверка доступности (локально + календарь)
//  4. Создание события в календаре (409 = слот занят)
//  5. Локальная запись в serializable-транзакции; при конфликте -
//     компенсирующее удаление события
//  6. Best-effort почтовое уведомление
//
// При недоступности календаря подтвержденный платеж НЕ расходуется:
// повторный вызов с тем же paymentId допустим до первой успешной записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: meeting_type=%s, date=%s, start=%s",
		req.MeetingType, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	meetingType, ok := uc.meetingTypes[req.MeetingType]
	if !ok {
		uc.logger.Warn("CreateBooking: unknown meeting type %q", req.MeetingType)
		return nil, ErrUnknownMeetingType
	}

	slotStart, slotEnd, err := uc.resolveSlot(req, meetingType.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot rejected: %v", err)
		return nil, err
	}

	paymentID, err := uc.checkPaymentGate(ctx, req, meetingType)
	if err != nil {
		return nil, err
	}

	if err := uc.precheckAvailability(ctx, req, slotStart, slotEnd); err != nil {
		return nil, err
	}

	eventID, err := uc.createCalendarEvent(ctx, req, meetingType, slotStart, slotEnd, paymentID)
	if err != nil {
		return nil, err
	}

	record, err := uc.persistBooking(ctx, req, meetingType, slotStart, slotEnd, paymentID, eventID)
	if err != nil {
		// Событие уже создано - компенсируем, чтобы не держать слот занятым
		uc.compensateEvent(eventID)
		return nil, err
	}

	uc.notifyConfirmation(record, meetingType)

	uc.logger.Info("CreateBooking: booking id=%d created, event=%s", record.ID, record.ExternalEventID)

	return buildResponse(record), nil
}

// resolveSlot вычисляет границы слота и проверяет его корректность:
// слот целиком в рабочих часах дня и начинается строго в будущем
func (uc *UseCase) resolveSlot(req *Request, durationMinutes int) (time.Time, time.Time, error) {
	endTime, err := req.StartTime.AddMinutes(durationMinutes)
	if err != nil {
		// Слот пересекает полночь
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	hours := uc.bookingCfg.HoursFor(req.Date.Weekday())
	if !hours.IsOpen() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: no working hours on %s", ErrInvalidTimeSlot, req.Date.Weekday())
	}

	openTime, err := types.NewTimeStringFromString(hours.Open)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	closeTime, err := types.NewTimeStringFromString(hours.Close)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}

	if req.StartTime.IsBefore(openTime) || closeTime.IsBefore(endTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: slot %s-%s outside working hours %s-%s",
			ErrInvalidTimeSlot, req.StartTime, endTime, openTime, closeTime)
	}

	slotStart, err := req.StartTime.OnDate(req.Date, uc.businessLoc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	slotEnd := slotStart.Add(time.Duration(durationMinutes) * time.Minute)

	if !slotStart.After(uc.timeProvider.Now()) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: slot start is in the past", ErrInvalidTimeSlot)
	}

	return slotStart, slotEnd, nil
}

// checkPaymentGate проверяет платежные предусловия для платных типов встреч
// Возвращает paymentID для привязки к записи (nil для бесплатных типов)
func (uc *UseCase) checkPaymentGate(ctx context.Context, req *Request, meetingType domain.MeetingTypeConfig) (*string, error) {
	if meetingType.IsFree() {
		// Платеж к бесплатной встрече не привязывается
		if req.PaymentID != nil {
			uc.logger.Warn("CreateBooking: payment id provided for free meeting type %q, ignored", meetingType.Name)
		}
		return nil, nil
	}

	if req.PaymentID == nil {
		uc.logger.Warn("CreateBooking: payment required for meeting type %q", meetingType.Name)
		return nil, ErrPaymentRequired
	}

	verified, err := uc.payments.Verify(ctx, *req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrTransactionNotFound):
			uc.logger.Warn("CreateBooking: payment %s not found", *req.PaymentID)
			return nil, ErrPaymentNotFound
		case errors.Is(err, payments.ErrLedgerUnavailable):
			uc.logger.Warn("CreateBooking: ledger unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
		default:
			uc.logger.Error("CreateBooking: payment verification failed: %v", err)
			return nil, fmt.Errorf("%w: payment verification failed: %v", ErrInternal, err)
		}
	}

	switch verified.Status {
	case domain.PaymentConfirmed:
		// ok
	case domain.PaymentPending:
		uc.logger.Info("CreateBooking: payment %s still pending", *req.PaymentID)
		return nil, ErrPaymentPending
	default:
		uc.logger.Warn("CreateBooking: payment %s is %s", *req.PaymentID, verified.Status)
		return nil, ErrPaymentFailed
	}

	if verified.MeetingType != meetingType.Name {
		uc.logger.Warn("CreateBooking: payment %s was made for %q, requested %q",
			*req.PaymentID, verified.MeetingType, meetingType.Name)
		return nil, ErrPaymentMismatch
	}

	// Ранняя проверка повторного использования. Финальный арбитр -
	// уникальный индекс при вставке записи.
	existing, err := uc.bookingRepo.GetActiveByPaymentID(ctx, *req.PaymentID)
	if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("CreateBooking: failed to check payment usage: %v", err)
		return nil, fmt.Errorf("%w: failed to check payment usage: %v", ErrInternal, err)
	}
	if existing != nil {
		uc.logger.Warn("CreateBooking: payment %s already used by booking id=%d", *req.PaymentID, existing.ID)
		return nil, ErrPaymentAlreadyUsed
	}

	return req.PaymentID, nil
}

// precheckAvailability отклоняет заведомо занятые слоты до создания
// события. Недоступность календаря здесь не блокирует: создание события
// все равно подтвердит или отклонит слот.
func (uc *UseCase) precheckAvailability(ctx context.Context, req *Request, slotStart, slotEnd time.Time) error {
	bookings, err := uc.bookingRepo.GetByDate(ctx, dateOnly(req.Date), domain.BookingsFilter{})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load bookings: %v", err)
		return fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}

	if overlapsBookings(slotStart, slotEnd, bookings, uc.businessLoc, 0) {
		uc.logger.Warn("CreateBooking: slot %s conflicts with local booking", slotStart)
		return ErrSlotNotAvailable
	}

	busy, err := uc.calendar.QueryFreeBusy(ctx, slotStart, slotEnd)
	if err != nil {
		uc.logger.Warn("CreateBooking: freebusy precheck unavailable, deferring to event creation: %v", err)
		return nil
	}

	for _, interval := range busy {
		if slotStart.Before(interval.End) && slotEnd.After(interval.Start) {
			uc.logger.Warn("CreateBooking: slot %s busy in external calendar", slotStart)
			return ErrSlotNotAvailable
		}
	}

	return nil
}

// createCalendarEvent создает событие во внешнем календаре
// 409 означает проигранную гонку за слот
func (uc *UseCase) createCalendarEvent(
	ctx context.Context,
	req *Request,
	meetingType domain.MeetingTypeConfig,
	slotStart, slotEnd time.Time,
	paymentID *string,
) (string, error) {
	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s: %s", meetingType.Name, req.AttendeeName),
		Description: buildEventDescription(req),
		Start:       slotStart,
		End:         slotEnd,
		Attendees: []calendar.Attendee{
			{Name: req.AttendeeName, Email: req.AttendeeEmail},
		},
	}
	if paymentID != nil {
		event.Metadata = map[string]string{"payment_id": *paymentID}
	}

	eventID, err := uc.calendar.CreateEvent(ctx, event)
	if err != nil {
		if errors.Is(err, calendar.ErrConflict) {
			uc.logger.Warn("CreateBooking: calendar rejected slot %s as busy", slotStart)
			return "", ErrSlotNotAvailable
		}
		// Платеж не расходуется: записи нет, повторный вызов допустим
		uc.logger.Error("CreateBooking: failed to create calendar event: %v", err)
		return "", fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	return eventID, nil
}

// persistBooking записывает бронирование в serializable-транзакции
// с повторной проверкой пересечений внутри транзакции
func (uc *UseCase) persistBooking(
	ctx context.Context,
	req *Request,
	meetingType domain.MeetingTypeConfig,
	slotStart, slotEnd time.Time,
	paymentID *string,
	eventID string,
) (*domain.BookingRecord, error) {
	var created *domain.BookingRecord

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		bookings, err := uc.bookingRepo.GetByDate(ctx, dateOnly(req.Date), domain.BookingsFilter{})
		if err != nil {
			return fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
		}

		if overlapsBookings(slotStart, slotEnd, bookings, uc.businessLoc, 0) {
			return ErrSlotNotAvailable
		}

		record := &domain.BookingRecord{
			ExternalEventID: eventID,
			MeetingType:     meetingType.Name,
			BookingDate:     dateOnly(req.Date),
			StartTime:       req.StartTime,
			DurationMinutes: meetingType.DurationMinutes,
			Status:          domain.StatusCreated,
			AttendeeName:    req.AttendeeName,
			AttendeeEmail:   req.AttendeeEmail,
			Notes:           req.Notes,
			PaymentID:       paymentID,
		}

		created, err = uc.bookingRepo.Create(ctx, record)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrPaymentAlreadyUsed) {
				return ErrPaymentAlreadyUsed
			}
			return fmt.Errorf("%w: failed to persist booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to persist booking: %v", err)
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrPaymentAlreadyUsed) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	return created, nil
}

// compensateEvent best-effort удаляет событие, оставшееся без локальной
// записи. Использует собственный контекст: исходный может быть отменен.
func (uc *UseCase) compensateEvent(eventID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.calendar.DeleteEvent(ctx, eventID); err != nil {
		// Осиротевшее событие блокирует слот до ручной очистки
		uc.logger.Error("CreateBooking: failed to delete orphaned event %s: %v", eventID, err)
		return
	}
	uc.logger.Info("CreateBooking: orphaned event %s deleted", eventID)
}

// notifyConfirmation отправляет письмо-подтверждение в фоне
// Ошибка отправки не влияет на результат бронирования
func (uc *UseCase) notifyConfirmation(record *domain.BookingRecord, meetingType domain.MeetingTypeConfig) {
	subject, body := buildConfirmationMail(record, meetingType)

	go func() {
		if err := uc.notifier.Send(record.AttendeeEmail, subject, body); err != nil {
			uc.logger.Warn("CreateBooking: failed to send confirmation for booking id=%d: %v", record.ID, err)
			return
		}
		uc.logger.Info("CreateBooking: confirmation sent for booking id=%d", record.ID)
	}()
}

// overlapsBookings проверяет полуинтервальное пересечение слота
// с активными бронированиями. excludeID исключает запись из проверки
// (используется при переносе).
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

func buildEventDescription(req *Request) string {
	description := fmt.Sprintf("Attendee: %s <%s>", req.AttendeeName, req.AttendeeEmail)
	if req.Notes != nil && *req.Notes != "" {
		description += "\n\n" + *req.Notes
	}
	return description
}

func buildConfirmationMail(record *domain.BookingRecord, meetingType domain.MeetingTypeConfig) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed: %s on %s",
		meetingType.Name, record.BookingDate.Format(domain.DateFormat))

	body = fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your <b>%s</b> (%d min) is confirmed for <b>%s</b> at <b>%s</b>.</p>",
		record.AttendeeName,
		meetingType.Name,
		record.DurationMinutes,
		record.BookingDate.Format(domain.DateFormat),
		record.StartTime,
	)
	if record.Notes != nil && *record.Notes != "" {
		body += fmt.Sprintf("<p>Notes: %s</p>", *record.Notes)
	}
	body += fmt.Sprintf("<p>Reference: %d</p>", record.ID)
	return subject, body
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
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
