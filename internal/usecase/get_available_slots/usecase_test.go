package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingService/internal/config"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// Понедельник
var testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

var testBookingCfg = config.BookingConfig{
	Timezone:           "UTC",
	DefaultSlotMinutes: 30,
	Monday:             config.DaySchedule{Open: "10:00", Close: "13:00"},
	Tuesday:            config.DaySchedule{Open: "10:00", Close: "18:00"},
}

var testMeetingTypes = map[string]domain.MeetingTypeConfig{
	"intro":        {Name: "intro", DurationMinutes: 30},
	"consultation": {Name: "consultation", DurationMinutes: 60, Price: 0.5, RequiresPayment: true},
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings []*domain.BookingRecord
	err      error
}

func (r *fakeBookingRepo) GetByDate(context.Context, time.Time, domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	return r.bookings, r.err
}

type fakeCalendar struct {
	busy []domain.BusyInterval
	err  error
}

func (c *fakeCalendar) QueryFreeBusy(context.Context, time.Time, time.Time) ([]domain.BusyInterval, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.busy, nil
}

type fixedTime struct{ now time.Time }

func (p fixedTime) Now() time.Time { return p.now }

func newTestUseCase(repo *fakeBookingRepo, cal *fakeCalendar, now time.Time) *UseCase {
	uc := NewUseCase(repo, cal, testBookingCfg, testMeetingTypes, time.UTC, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

// Вчерашняя полночь: все слоты testDate в будущем
var dayBefore = testDate.Add(-24 * time.Hour)

func booking(start string, minutes int) *domain.BookingRecord {
	return &domain.BookingRecord{
		ID:              1,
		BookingDate:     testDate,
		StartTime:       types.TimeString(start),
		DurationMinutes: minutes,
		Status:          domain.StatusCreated,
	}
}

func slotStarts(resp *Response) []string {
	starts := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		starts[i] = slot.Start.Format("15:04")
	}
	return starts
}

func TestExecute(t *testing.T) {
	t.Run("full open day in chronological order", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate})

		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00", "12:30"}, slotStarts(resp))
		assert.False(t, resp.CalendarDegraded)
	})

	t.Run("closed day yields empty list", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, dayBefore)
		sunday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

		resp, err := uc.Execute(context.Background(), &Request{Date: sunday})

		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("meeting type duration drives slot size", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate, MeetingType: "consultation"})

		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "11:00", "12:00"}, slotStarts(resp))
	})

	t.Run("unknown meeting type", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, dayBefore)

		_, err := uc.Execute(context.Background(), &Request{Date: testDate, MeetingType: "nope"})

		assert.ErrorIs(t, err, ErrUnknownMeetingType)
	})

	t.Run("past slots filtered out", func(t *testing.T) {
		// 11:00 наступило: слот 11:00 уже не в будущем
		now := time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC)
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, now)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate})

		require.NoError(t, err)
		assert.Equal(t, []string{"11:30", "12:00", "12:30"}, slotStarts(resp))
	})

	t.Run("local booking blocks overlapping slots", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: []*domain.BookingRecord{booking("10:30", 60)}}
		uc := newTestUseCase(repo, &fakeCalendar{}, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate})

		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "11:30", "12:00", "12:30"}, slotStarts(resp))
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		cancelled := booking("10:30", 60)
		cancelled.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{bookings: []*domain.BookingRecord{cancelled}}
		uc := newTestUseCase(repo, &fakeCalendar{}, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate})

		require.NoError(t, err)
		assert.Len(t, resp.Slots, 6)
	})

	t.Run("boundary touch does not block", func(t *testing.T) {
		// Занято 10:30-11:00: слоты 10:00 и 11:00 касаются границ и свободны
		busy := []domain.BusyInterval{{
			Start: time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
			End:   time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC),
		}}
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{busy: busy}, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate})

		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "11:00", "11:30", "12:00", "12:30"}, slotStarts(resp))
	})

	t.Run("calendar outage fails open with degraded flag", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: []*domain.BookingRecord{booking("10:00", 30)}}
		cal := &fakeCalendar{err: errors.New("calendar down")}
		uc := newTestUseCase(repo, cal, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate})

		require.NoError(t, err)
		assert.True(t, resp.CalendarDegraded)
		// Локальные бронирования продолжают учитываться
		assert.Equal(t, []string{"10:30", "11:00", "11:30", "12:00", "12:30"}, slotStarts(resp))
	})

	t.Run("invalid timezone", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, dayBefore)

		_, err := uc.Execute(context.Background(), &Request{Date: testDate, Timezone: "Mars/Olympus"})

		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})

	t.Run("slots converted to requested timezone", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, dayBefore)

		resp, err := uc.Execute(context.Background(), &Request{Date: testDate, Timezone: "Europe/Moscow"})

		require.NoError(t, err)
		require.NotEmpty(t, resp.Slots)
		// 10:00 UTC = 13:00 MSK
		assert.Equal(t, "13:00", resp.Slots[0].Start.Format("15:04"))
	})
}
