package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/config"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
)

// UseCase use case для получения доступных слотов
// Не хранит состояния и не выполняет записей: чистая функция от своих
// входов на момент вызова, безопасен для конкурентных и повторных вызовов
type UseCase struct {
	bookingRepo  BookingRepository
	calendar     CalendarClient
	bookingCfg   config.BookingConfig
	meetingTypes map[string]domain.MeetingTypeConfig
	businessLoc  *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calendar CalendarClient,
	bookingCfg config.BookingConfig,
	meetingTypes map[string]domain.MeetingTypeConfig,
	businessLoc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calendar:     calendar,
		bookingCfg:   bookingCfg,
		meetingTypes: meetingTypes,
		businessLoc:  businessLoc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет расчет доступных слотов на дату
//
// Доступность = рабочие часы минус прошедшее время минус локальные
// бронирования минус занятость внешнего календаря. Недоступность
// календаря не роняет расчет (fail open): локальное хранилище
// остается резервным источником истины, ответ помечается degraded.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, timezone=%s, meeting_type=%s",
		req.Date.Format(domain.DateFormat), req.Timezone, req.MeetingType)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	displayLoc := uc.businessLoc
	if req.Timezone != "" {
		loc, err := time.LoadLocation(req.Timezone)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: invalid timezone %q", req.Timezone)
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, req.Timezone)
		}
		displayLoc = loc
	}

	slotDuration := uc.bookingCfg.DefaultSlotMinutes
	if req.MeetingType != "" {
		meetingType, ok := uc.meetingTypes[req.MeetingType]
		if !ok {
			uc.logger.Warn("GetAvailableSlots: unknown meeting type %q", req.MeetingType)
			return nil, ErrUnknownMeetingType
		}
		slotDuration = meetingType.DurationMinutes
	}

	now := uc.timeProvider.Now()

	// Рабочие часы привязаны к таймзоне бизнеса
	hours := uc.bookingCfg.HoursFor(req.Date.Weekday())
	candidates, err := generateCandidateSlots(req.Date, hours, slotDuration, uc.businessLoc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// День без рабочих часов - пустой список, не ошибка
	if len(candidates) == 0 {
		return &Response{Date: req.Date, Slots: []Slot{}}, nil
	}

	candidates = filterPastSlots(candidates, now)
	if len(candidates) == 0 {
		return &Response{Date: req.Date, Slots: []Slot{}}, nil
	}

	bookings, err := uc.bookingRepo.GetByDate(ctx, dateOnly(req.Date), domain.BookingsFilter{})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// Занятость внешнего календаря за все окно дня
	windowStart := candidates[0].Start
	windowEnd := candidates[len(candidates)-1].End

	degraded := false
	externalBusy, err := uc.calendar.QueryFreeBusy(ctx, windowStart, windowEnd)
	if err != nil {
		// Fail open: считаем внешнюю занятость пустой и помечаем ответ
		uc.logger.Warn("GetAvailableSlots: calendar unavailable, using local bookings only: %v", err)
		externalBusy = nil
		degraded = true
	}

	marked := markUnavailable(candidates, bookings, externalBusy, uc.businessLoc)
	available := onlyAvailable(marked)

	slots := make([]Slot, len(available))
	for i, slot := range available {
		slots[i] = Slot{
			Start: slot.Start.In(displayLoc),
			End:   slot.End.In(displayLoc),
		}
	}

	uc.logger.Info("GetAvailableSlots: %d/%d slots available on %s (degraded=%v)",
		len(slots), len(marked), req.Date.Format(domain.DateFormat), degraded)

	return &Response{
		Date:             req.Date,
		Slots:            slots,
		CalendarDegraded: degraded,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
