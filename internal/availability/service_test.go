package availability

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"sportclub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetScheduleForField(ctx context.Context, fieldID int64, weekday int) ([]*models.FieldSchedule, error) {
	args := m.Called(ctx, fieldID, weekday)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FieldSchedule), args.Error(1)
}

func (m *mockRepo) GetDefaultSchedule(ctx context.Context, fieldID int64) ([]*models.FieldSchedule, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FieldSchedule), args.Error(1)
}

func (m *mockRepo) GetReservations(ctx context.Context, fieldID int64, date models.Date, statuses []string) ([]*models.Reservation, error) {
	args := m.Called(ctx, fieldID, date, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

func newTestService(t *testing.T, repo Repository, now time.Time) *Service {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewService(repo, NewFixedClock(now), now.Location(), 2*time.Hour, &logger)
}

func TestService_WeekdayRowsWin(t *testing.T) {
	repo := new(mockRepo)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, rome(t))
	monday := models.MustDate("2025-06-02")
	svc := newTestService(t, repo, now)

	repo.On("GetScheduleForField", ctx, int64(1), int(time.Monday)).
		Return([]*models.FieldSchedule{schedule("10:00", "11:00")}, nil).Once()
	repo.On("GetReservations", ctx, int64(1), monday, models.ActiveStatuses).
		Return([]*models.Reservation{}, nil).Once()

	got, err := svc.GetAvailability(ctx, 1, monday)
	require.NoError(t, err)
	assert.Equal(t, []models.AvailabilitySlot{slot("10:00", "11:00", true)}, got)
	repo.AssertNotCalled(t, "GetDefaultSchedule", ctx, int64(1))
	repo.AssertExpectations(t)
}

func TestService_FallsBackToDefaultRows(t *testing.T) {
	repo := new(mockRepo)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, rome(t))
	tuesday := models.MustDate("2025-06-03")
	svc := newTestService(t, repo, now)

	repo.On("GetScheduleForField", ctx, int64(1), int(time.Tuesday)).
		Return([]*models.FieldSchedule{}, nil).Once()
	repo.On("GetDefaultSchedule", ctx, int64(1)).
		Return([]*models.FieldSchedule{schedule("18:00", "19:00"), schedule("17:00", "18:00")}, nil).Once()
	repo.On("GetReservations", ctx, int64(1), tuesday, models.ActiveStatuses).
		Return([]*models.Reservation{reservation("18:00", "19:00", models.StatusPending)}, nil).Once()

	got, err := svc.GetAvailability(ctx, 1, tuesday)
	require.NoError(t, err)
	assert.Equal(t, []models.AvailabilitySlot{
		slot("17:00", "18:00", true),
		slot("18:00", "19:00", false),
	}, got)
	repo.AssertExpectations(t)
}

func TestService_NoScheduleIsEmpty(t *testing.T) {
	repo := new(mockRepo)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, rome(t))
	date := models.MustDate("2025-06-03")
	svc := newTestService(t, repo, now)

	repo.On("GetScheduleForField", ctx, int64(99), int(time.Tuesday)).Return(nil, nil).Once()
	repo.On("GetDefaultSchedule", ctx, int64(99)).Return(nil, nil).Once()

	got, err := svc.GetAvailability(ctx, 99, date)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "GetReservations", ctx, int64(99), date, models.ActiveStatuses)
}

func TestService_RepositoryErrors(t *testing.T) {
	repo := new(mockRepo)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, rome(t))
	date := models.MustDate("2025-06-03")
	svc := newTestService(t, repo, now)
	boom := errors.New("disk on fire")

	repo.On("GetScheduleForField", ctx, int64(1), int(time.Tuesday)).
		Return([]*models.FieldSchedule{schedule("10:00", "11:00")}, nil).Once()
	repo.On("GetReservations", ctx, int64(1), date, models.ActiveStatuses).Return(nil, boom).Once()

	_, err := svc.GetAvailability(ctx, 1, date)
	assert.ErrorIs(t, err, boom)

	repo.On("GetScheduleForField", ctx, int64(2), int(time.Tuesday)).Return(nil, boom).Once()
	_, err = svc.GetAvailability(ctx, 2, date)
	assert.ErrorIs(t, err, boom)
}

func TestService_TodayUsesClock(t *testing.T) {
	repo := new(mockRepo)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, rome(t))
	today := models.MustDate("2025-06-01")
	svc := newTestService(t, repo, now)

	repo.On("GetScheduleForField", ctx, int64(1), int(time.Sunday)).
		Return([]*models.FieldSchedule{schedule("10:00", "11:00"), schedule("12:00", "13:00")}, nil)
	repo.On("GetReservations", ctx, int64(1), today, models.ActiveStatuses).Return([]*models.Reservation{}, nil)

	got, err := svc.GetAvailability(ctx, 1, today)
	require.NoError(t, err)
	assert.Equal(t, []models.AvailabilitySlot{slot("12:00", "13:00", true)}, got)
	assert.Equal(t, today, svc.Today())

	svc.clock.(*FixedClock).Advance(-3 * time.Hour)
	got, err = svc.GetAvailability(ctx, 1, today)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
