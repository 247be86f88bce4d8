package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

type notifierStub struct {
	changed []string
}

func (n *notifierStub) ScheduleChanged(ctx context.Context, userIDs ...string) {
	n.changed = append(n.changed, userIDs...)
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

var adminClaims = &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}

func slotFixture() (*SlotAssignmentService, *scheduleStoreStub, *notifierStub, *auditStub) {
	store := newScheduleStoreStub()
	store.schedules["tutor-1"] = weekWith(models.Monday, available("09:00", "11:00"))
	store.schedules["student-1"] = weekWith(models.Monday, available("09:00", "11:00"))
	notifier := &notifierStub{}
	audit := &auditStub{}
	svc := NewSlotAssignmentService(store, notifier, audit, NewMetricsService(), nil, nil)
	return svc, store, notifier, audit
}

func slotRequest(start, end string) dto.SlotAssignmentRequest {
	return dto.SlotAssignmentRequest{UserA: "tutor-1", UserB: "student-1", Day: "monday", Start: start, End: end}
}

func TestAssignSlotSplitsAvailableTime(t *testing.T) {
	svc, store, notifier, audit := slotFixture()

	result, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	require.NoError(t, err)
	assert.False(t, result.Partial)
	assert.Len(t, result.Sides, 2)

	assert.Equal(t, []models.TimeInterval{
		available("09:00", "10:00"),
		assigned("10:00", "10:30", "student-1"),
		available("10:30", "11:00"),
	}, store.saved["tutor-1"][models.Monday])
	assert.Equal(t, []models.TimeInterval{
		available("09:00", "10:00"),
		assigned("10:00", "10:30", "tutor-1"),
		available("10:30", "11:00"),
	}, store.saved["student-1"][models.Monday])

	assert.ElementsMatch(t, []string{"tutor-1", "student-1"}, notifier.changed)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSlotAssign, audit.logs[0].Action)
}

func TestAssignSlotOutsideAvailabilityStillReserves(t *testing.T) {
	svc, store, _, _ := slotFixture()

	_, err := svc.AssignSlot(context.Background(), slotRequest("10:30", "12:00"), adminClaims)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeInterval{
		available("09:00", "10:30"),
		assigned("10:30", "12:00", "student-1"),
	}, store.saved["tutor-1"][models.Monday])
}

func TestAssignSlotMergesWithAdjacentReservationForSameUser(t *testing.T) {
	svc, store, _, _ := slotFixture()

	_, err := svc.AssignSlot(context.Background(), slotRequest("09:00", "09:30"), adminClaims)
	require.NoError(t, err)
	_, err = svc.AssignSlot(context.Background(), slotRequest("09:30", "10:00"), adminClaims)
	require.NoError(t, err)

	assert.Equal(t, []models.TimeInterval{
		assigned("09:00", "10:00", "student-1"),
		available("10:00", "11:00"),
	}, store.saved["tutor-1"][models.Monday])
}

func TestAssignSlotRejectsNonAdmin(t *testing.T) {
	svc, store, _, _ := slotFixture()

	_, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), &models.JWTClaims{UserID: "tutor-1", Role: models.RoleTutor})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.Empty(t, store.saved)
}

func TestAssignSlotValidation(t *testing.T) {
	svc, store, _, _ := slotFixture()

	cases := map[string]dto.SlotAssignmentRequest{
		"inverted":  slotRequest("11:00", "10:00"),
		"bad clock": slotRequest("9:00", "10:00"),
		"bad day":   {UserA: "tutor-1", UserB: "student-1", Day: "funday", Start: "09:00", End: "10:00"},
		"same user": {UserA: "tutor-1", UserB: "tutor-1", Day: "monday", Start: "09:00", End: "10:00"},
	}
	for name, req := range cases {
		_, err := svc.AssignSlot(context.Background(), req, adminClaims)
		require.Error(t, err, name)
		assert.Equal(t, 400, appErrors.FromError(err).Status, name)
	}
	assert.Empty(t, store.saved)
}

func TestAssignSlotConflictWithOtherReservation(t *testing.T) {
	svc, store, _, _ := slotFixture()
	store.schedules["student-1"] = weekWith(models.Monday, available("09:00", "10:00"), assigned("10:00", "11:00", "tutor-2"))

	_, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Empty(t, store.saved)
}

func TestAssignSlotMissingScheduleAborts(t *testing.T) {
	svc, store, _, _ := slotFixture()
	delete(store.schedules, "student-1")

	_, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, store.saved)
}

func TestAssignSlotPartialFailure(t *testing.T) {
	svc, store, notifier, _ := slotFixture()
	store.saveErr["student-1"] = errors.New("connection reset")

	result, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPartialFailure))
	require.NotNil(t, result)
	assert.True(t, result.Partial)
	assert.True(t, result.Sides[0].Saved)
	assert.False(t, result.Sides[1].Saved)
	assert.Contains(t, result.Sides[1].Error, "connection reset")

	assert.Contains(t, store.saved, "tutor-1")
	assert.NotContains(t, store.saved, "student-1")
	assert.Equal(t, []string{"tutor-1"}, notifier.changed)
}

func TestAssignSlotBothSidesFail(t *testing.T) {
	svc, store, notifier, audit := slotFixture()
	store.saveErr["tutor-1"] = errors.New("down")
	store.saveErr["student-1"] = errors.New("down")

	result, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.False(t, result.Partial)
	assert.True(t, result.Failed())
	assert.Empty(t, notifier.changed)
	assert.Empty(t, audit.logs)
}

func TestReleaseSlotRestoresAvailability(t *testing.T) {
	svc, store, _, audit := slotFixture()

	_, err := svc.AssignSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	require.NoError(t, err)

	_, err = svc.ReleaseSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	require.NoError(t, err)
	assert.Equal(t, []models.TimeInterval{available("09:00", "11:00")}, store.saved["tutor-1"][models.Monday])
	assert.Equal(t, []models.TimeInterval{available("09:00", "11:00")}, store.saved["student-1"][models.Monday])
	require.Len(t, audit.logs, 2)
	assert.Equal(t, models.AuditActionSlotRelease, audit.logs[1].Action)
}

func TestReleaseSlotWithoutReservation(t *testing.T) {
	svc, _, _, _ := slotFixture()

	_, err := svc.ReleaseSlot(context.Background(), slotRequest("10:00", "10:30"), adminClaims)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
