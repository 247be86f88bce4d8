package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

type scheduleStoreStub struct {
	schedules map[string]models.WeeklySchedule
	saveErr   map[string]error
	saved     map[string]models.WeeklySchedule
	loads     int
}

func newScheduleStoreStub() *scheduleStoreStub {
	return &scheduleStoreStub{
		schedules: map[string]models.WeeklySchedule{},
		saveErr:   map[string]error{},
		saved:     map[string]models.WeeklySchedule{},
	}
}

func (s *scheduleStoreStub) GetByUser(ctx context.Context, userID string) (*models.UserSchedule, error) {
	s.loads++
	week, ok := s.schedules[userID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &models.UserSchedule{UserID: userID, Week: week.Clone()}, nil
}

func (s *scheduleStoreStub) Upsert(ctx context.Context, userID string, week models.WeeklySchedule) error {
	if err := s.saveErr[userID]; err != nil {
		return err
	}
	s.saved[userID] = week
	s.schedules[userID] = week
	return nil
}

func (s *scheduleStoreStub) Delete(ctx context.Context, userID string) error {
	if _, ok := s.schedules[userID]; !ok {
		return appErrors.ErrNotFound
	}
	delete(s.schedules, userID)
	return nil
}

type memoryCacheStub struct {
	entries map[string][]byte
}

func (m *memoryCacheStub) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func weekWith(day models.Weekday, intervals ...models.TimeInterval) models.WeeklySchedule {
	week := models.NewWeeklySchedule()
	week[day] = intervals
	return week
}

func available(start, end string) models.TimeInterval {
	return models.TimeInterval{Start: start, End: end}
}

func assigned(start, end, userID string) models.TimeInterval {
	return models.TimeInterval{Start: start, End: end, Assignment: models.NewAssignedRef(userID)}
}

func TestCommonAvailabilityQuantizesOverlap(t *testing.T) {
	a := weekWith(models.Monday, available("09:00", "11:00"))
	b := weekWith(models.Monday, available("10:00", "12:00"))

	got, err := CommonAvailability(a, b)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeRange{{Start: "10:00", End: "11:00"}}, got[models.Monday])
	assert.Empty(t, got[models.Tuesday])
	assert.Len(t, got, 7)
}

func TestCommonAvailabilityEmitsWholeSlotsOnly(t *testing.T) {
	a := weekWith(models.Friday, available("08:00", "11:00"))
	b := weekWith(models.Friday, available("08:15", "12:00"))

	got, err := CommonAvailability(a, b)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeRange{
		{Start: "08:15", End: "09:15"},
		{Start: "09:15", End: "10:15"},
	}, got[models.Friday])

	exact := weekWith(models.Friday, available("08:00", "10:00"))
	got, err = CommonAvailability(exact, exact)
	require.NoError(t, err)
	assert.Len(t, got[models.Friday], 2)
}

func TestCommonAvailabilityIgnoresAssignedTime(t *testing.T) {
	a := weekWith(models.Monday, available("09:00", "10:00"), assigned("10:00", "12:00", "user-x"))
	b := weekWith(models.Monday, available("09:00", "12:00"))

	got, err := CommonAvailability(a, b)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeRange{{Start: "09:00", End: "10:00"}}, got[models.Monday])
}

func TestCommonAvailabilityDropsShortOverlaps(t *testing.T) {
	a := weekWith(models.Monday, available("09:00", "10:30"))
	b := weekWith(models.Monday, available("10:00", "12:00"))

	got, err := CommonAvailability(a, b)
	require.NoError(t, err)
	assert.Empty(t, got[models.Monday])

	raw, err := CommonAvailabilityWithMinDuration(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeRange{{Start: "10:00", End: "10:30"}}, raw[models.Monday])

	raw, err = CommonAvailabilityWithMinDuration(a, b, 45)
	require.NoError(t, err)
	assert.Empty(t, raw[models.Monday])
}

func TestCommonAvailabilityWithMinDurationKeepsRawRanges(t *testing.T) {
	a := weekWith(models.Wednesday, available("13:00", "14:00"), available("08:00", "11:00"))
	b := weekWith(models.Wednesday, available("07:00", "17:00"))

	got, err := CommonAvailabilityWithMinDuration(a, b, 30)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeRange{
		{Start: "08:00", End: "11:00"},
		{Start: "13:00", End: "14:00"},
	}, got[models.Wednesday])

	_, err = CommonAvailabilityWithMinDuration(a, b, -1)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCommonAvailabilityRejectsMalformedInterval(t *testing.T) {
	a := weekWith(models.Monday, available("11:00", "09:00"))
	_, err := CommonAvailability(a, models.NewWeeklySchedule())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidInterval))
}

func randomWeek(r *rand.Rand) models.WeeklySchedule {
	week := models.NewWeeklySchedule()
	for _, day := range models.Weekdays {
		for i := 0; i < r.Intn(4); i++ {
			start := r.Intn(22 * 60)
			end := start + 15 + r.Intn(180)
			if end > minutesPerDay {
				end = minutesPerDay
			}
			interval := available(FormatClock(start), FormatClock(end))
			if r.Intn(4) == 0 {
				interval.Assignment = models.NewAssignedRef("user-z")
			}
			week[day] = append(week[day], interval)
		}
	}
	return week
}

func TestCommonAvailabilitySymmetric(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		x, y := randomWeek(r), randomWeek(r)

		xy, err := CommonAvailability(x, y)
		require.NoError(t, err)
		yx, err := CommonAvailability(y, x)
		require.NoError(t, err)
		assert.Equal(t, xy, yx)

		rawXY, err := CommonAvailabilityWithMinDuration(x, y, 0)
		require.NoError(t, err)
		rawYX, err := CommonAvailabilityWithMinDuration(y, x, 0)
		require.NoError(t, err)
		assert.Equal(t, rawXY, rawYX)
	}
}

func TestAvailabilityServiceCommonUsesCache(t *testing.T) {
	store := newScheduleStoreStub()
	store.schedules["user-a"] = weekWith(models.Monday, available("09:00", "11:00"))
	store.schedules["user-b"] = weekWith(models.Monday, available("10:00", "12:00"))
	cache := &memoryCacheStub{entries: map[string][]byte{}}
	svc := NewAvailabilityService(store, AvailabilityServiceConfig{Cache: cache})

	result, hit, err := svc.Common(context.Background(), "user-a", "user-b", AvailabilityOptions{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, AvailabilityModeSlots, result.Mode)
	assert.Equal(t, []models.TimeRange{{Start: "10:00", End: "11:00"}}, result.Days[models.Monday])
	assert.Equal(t, 2, store.loads)

	result, hit, err = svc.Common(context.Background(), "user-b", "user-a", AvailabilityOptions{Mode: AvailabilityModeSlots})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "user-b", result.UserA)
	assert.Equal(t, []models.TimeRange{{Start: "10:00", End: "11:00"}}, result.Days[models.Monday])
	assert.Equal(t, 2, store.loads)
}

func TestAvailabilityServiceCommonRawMode(t *testing.T) {
	store := newScheduleStoreStub()
	store.schedules["user-a"] = weekWith(models.Monday, available("09:00", "10:30"))
	store.schedules["user-b"] = weekWith(models.Monday, available("10:00", "12:00"))
	svc := NewAvailabilityService(store, AvailabilityServiceConfig{})

	result, _, err := svc.Common(context.Background(), "user-a", "user-b", AvailabilityOptions{Mode: AvailabilityModeRaw, MinMinutes: 15})
	require.NoError(t, err)
	assert.Equal(t, []models.TimeRange{{Start: "10:00", End: "10:30"}}, result.Days[models.Monday])
}

func TestAvailabilityServiceCommonErrors(t *testing.T) {
	store := newScheduleStoreStub()
	store.schedules["user-a"] = models.NewWeeklySchedule()
	svc := NewAvailabilityService(store, AvailabilityServiceConfig{})

	_, _, err := svc.Common(context.Background(), "user-a", "user-missing", AvailabilityOptions{})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, _, err = svc.Common(context.Background(), "user-a", "user-a", AvailabilityOptions{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.Common(context.Background(), "user-a", "user-b", AvailabilityOptions{Mode: "weekly"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAvailabilityInvalidationPatternMatchesKeys(t *testing.T) {
	key := AvailabilityCacheKey("user-b", "user-a", AvailabilityModeRaw, 30)
	assert.Equal(t, "availability:common:raw:30:user-a:user-b", key)

	matches := func(userID, key string) bool {
		for _, pattern := range AvailabilityInvalidationPatterns(userID) {
			if ok, _ := path.Match(pattern, key); ok {
				return true
			}
		}
		return false
	}
	assert.True(t, matches("user-a", key))
	assert.True(t, matches("user-b", key))
	assert.True(t, matches("u1", AvailabilityCacheKey("u1", "u2", AvailabilityModeSlots, 0)))
	assert.True(t, matches("u2", AvailabilityCacheKey("u1", "u2", AvailabilityModeSlots, 0)))
	assert.False(t, matches("u1", AvailabilityCacheKey("u10", "u2", AvailabilityModeSlots, 0)))
	assert.False(t, matches("u1", AvailabilityCacheKey("u2", "u10", AvailabilityModeSlots, 0)))
	assert.False(t, matches("30", key))
}
