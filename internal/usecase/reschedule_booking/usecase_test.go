package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingService/internal/config"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MeetingService/internal/integrations/calendar"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// Понедельник и вторник той же недели
var (
	oldDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	newDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

var dayBefore = oldDate.Add(-24 * time.Hour)

var testBookingCfg = config.BookingConfig{
	Timezone:           "UTC",
	DefaultSlotMinutes: 30,
	Monday:             config.DaySchedule{Open: "10:00", Close: "18:00"},
	Tuesday:            config.DaySchedule{Open: "10:00", Close: "18:00"},
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	record      *domain.BookingRecord
	bookings    []*domain.BookingRecord
	updateErr   error
	updatedDate *time.Time
	updatedTime *types.TimeString
}

func (r *fakeBookingRepo) GetByEventID(_ context.Context, eventID string) (*domain.BookingRecord, error) {
	if r.record == nil || r.record.ExternalEventID != eventID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	result := *r.record
	return &result, nil
}

func (r *fakeBookingRepo) GetByDate(context.Context, time.Time, domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	return r.bookings, nil
}

func (r *fakeBookingRepo) UpdateSchedule(_ context.Context, _ int64, date time.Time, startTime types.TimeString, _ int) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedDate = &date
	r.updatedTime = &startTime
	return nil
}

type patchCall struct {
	eventID string
	patch   *calendar.EventPatch
}

type fakeCalendar struct {
	busy      []domain.BusyInterval
	updateErr error
	patches   []patchCall
}

func (c *fakeCalendar) QueryFreeBusy(context.Context, time.Time, time.Time) ([]domain.BusyInterval, error) {
	return c.busy, nil
}

func (c *fakeCalendar) UpdateEvent(_ context.Context, eventID string, patch *calendar.EventPatch) error {
	if c.updateErr != nil {
		// Первый патч падает, откат уже должен проходить
		err := c.updateErr
		c.updateErr = nil
		return err
	}
	c.patches = append(c.patches, patchCall{eventID: eventID, patch: patch})
	return nil
}

type fakeNotifier struct {
	sent chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan string, 1)}
}

func (n *fakeNotifier) Send(to, _, _ string) error {
	n.sent <- to
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (p fixedTime) Now() time.Time { return p.now }

func activeBooking() *domain.BookingRecord {
	return &domain.BookingRecord{
		ID:              42,
		ExternalEventID: "evt-1",
		MeetingType:     "consultation",
		BookingDate:     oldDate,
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 60,
		Status:          domain.StatusCreated,
		AttendeeName:    "Ivan Petrov",
		AttendeeEmail:   "ivan@example.com",
	}
}

func newTestUseCase(repo *fakeBookingRepo, cal *fakeCalendar, notifier *fakeNotifier) *UseCase {
	uc := NewUseCase(repo, cal, notifier, passthroughTxManager{}, testBookingCfg, time.UTC, nopLogger{})
	uc.timeProvider = fixedTime{now: dayBefore}
	return uc
}

func rescheduleRequest() *Request {
	return &Request{
		EventID:      "evt-1",
		NewDate:      newDate,
		NewStartTime: types.TimeString("14:00"),
	}
}

func TestExecute(t *testing.T) {
	t.Run("moves booking keeping duration and event id", func(t *testing.T) {
		repo := &fakeBookingRepo{record: activeBooking()}
		cal := &fakeCalendar{}
		notifier := newFakeNotifier()
		uc := newTestUseCase(repo, cal, notifier)

		resp, err := uc.Execute(context.Background(), rescheduleRequest())

		require.NoError(t, err)
		assert.Equal(t, "evt-1", resp.ExternalEventID)
		assert.Equal(t, 60, resp.DurationMinutes)
		assert.Equal(t, newDate, resp.BookingDate)
		assert.Equal(t, types.TimeString("14:00"), resp.StartTime)

		require.Len(t, cal.patches, 1)
		patch := cal.patches[0]
		assert.Equal(t, "evt-1", patch.eventID)
		require.NotNil(t, patch.patch.Start)
		assert.Equal(t, time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC), *patch.patch.Start)
		assert.Equal(t, time.Date(2026, 9, 15, 15, 0, 0, 0, time.UTC), *patch.patch.End)

		require.NotNil(t, repo.updatedDate)
		assert.Equal(t, newDate, *repo.updatedDate)

		select {
		case to := <-notifier.sent:
			assert.Equal(t, "ivan@example.com", to)
		case <-time.After(time.Second):
			t.Fatal("reschedule notice was not sent")
		}
	})

	t.Run("booking not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCalendar{}, newFakeNotifier())

		_, err := uc.Execute(context.Background(), rescheduleRequest())

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("cancelled booking cannot be rescheduled", func(t *testing.T) {
		record := activeBooking()
		record.Status = domain.StatusCancelled
		uc := newTestUseCase(&fakeBookingRepo{record: record}, &fakeCalendar{}, newFakeNotifier())

		_, err := uc.Execute(context.Background(), rescheduleRequest())

		assert.ErrorIs(t, err, ErrCannotReschedule)
	})

	t.Run("new slot outside working hours", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{record: activeBooking()}, &fakeCalendar{}, newFakeNotifier())
		req := rescheduleRequest()
		req.NewStartTime = types.TimeString("17:30")

		_, err := uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("conflicting local booking", func(t *testing.T) {
		other := activeBooking()
		other.ID = 7
		other.BookingDate = newDate
		other.StartTime = types.TimeString("14:30")
		repo := &fakeBookingRepo{record: activeBooking(), bookings: []*domain.BookingRecord{other}}
		uc := newTestUseCase(repo, &fakeCalendar{}, newFakeNotifier())

		_, err := uc.Execute(context.Background(), rescheduleRequest())

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("own slot does not conflict", func(t *testing.T) {
		// Перенос в пределах собственного слота: запись исключается из проверки
		record := activeBooking()
		repo := &fakeBookingRepo{record: record, bookings: []*domain.BookingRecord{record}}
		uc := newTestUseCase(repo, &fakeCalendar{}, newFakeNotifier())
		req := rescheduleRequest()
		req.NewDate = oldDate
		req.NewStartTime = types.TimeString("10:30")

		_, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
	})

	t.Run("calendar conflict on update", func(t *testing.T) {
		cal := &fakeCalendar{updateErr: calendar.ErrConflict}
		uc := newTestUseCase(&fakeBookingRepo{record: activeBooking()}, cal, newFakeNotifier())

		_, err := uc.Execute(context.Background(), rescheduleRequest())

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("calendar outage keeps previous slot", func(t *testing.T) {
		repo := &fakeBookingRepo{record: activeBooking()}
		cal := &fakeCalendar{updateErr: calendar.ErrCalendarUnavailable}
		uc := newTestUseCase(repo, cal, newFakeNotifier())

		_, err := uc.Execute(context.Background(), rescheduleRequest())

		assert.ErrorIs(t, err, ErrCalendarUnavailable)
		assert.Nil(t, repo.updatedDate)
	})

	t.Run("local failure reverts event to previous bounds", func(t *testing.T) {
		repo := &fakeBookingRepo{record: activeBooking(), updateErr: bookingRepo.ErrExecQuery}
		cal := &fakeCalendar{}
		uc := newTestUseCase(repo, cal, newFakeNotifier())

		_, err := uc.Execute(context.Background(), rescheduleRequest())

		assert.ErrorIs(t, err, ErrInternal)
		// Первый патч - новый слот, второй - откат на прежний
		require.Len(t, cal.patches, 2)
		revert := cal.patches[1]
		assert.Equal(t, time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), *revert.patch.Start)
		assert.Equal(t, time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC), *revert.patch.End)
	})
}
