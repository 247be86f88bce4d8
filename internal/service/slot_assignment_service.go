package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

const slotResource = "schedule_slot"

// Slot write outcomes reported to metrics.
const (
	SlotOutcomeSuccess = "success"
	SlotOutcomePartial = "partial"
	SlotOutcomeFailed  = "failed"
)

type slotScheduleStore interface {
	GetByUser(ctx context.Context, userID string) (*models.UserSchedule, error)
	Upsert(ctx context.Context, userID string, week models.WeeklySchedule) error
}

type scheduleChangeNotifier interface {
	ScheduleChanged(ctx context.Context, userIDs ...string)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SlotAssignmentService writes reserved intervals into two users' schedules.
// The two writes are independent; a failure on one side is reported, never compensated.
type SlotAssignmentService struct {
	schedules slotScheduleStore
	events    scheduleChangeNotifier
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSlotAssignmentService builds the slot writer.
func NewSlotAssignmentService(schedules slotScheduleStore, events scheduleChangeNotifier, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SlotAssignmentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotAssignmentService{
		schedules: schedules,
		events:    events,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

type dayEdit func(intervals []models.TimeInterval, r span, counterpart string) ([]models.TimeInterval, error)

// AssignSlot reserves req's range on both schedules, each referencing the other user.
// Any length is accepted. Available time under the range is consumed and leftovers stay available.
func (s *SlotAssignmentService) AssignSlot(ctx context.Context, req dto.SlotAssignmentRequest, actor *models.JWTClaims) (*models.SlotAssignmentResult, error) {
	return s.apply(ctx, req, actor, assignOnDay, models.AuditActionSlotAssign)
}

// ReleaseSlot turns the range reserved between the two users back into available time.
func (s *SlotAssignmentService) ReleaseSlot(ctx context.Context, req dto.SlotAssignmentRequest, actor *models.JWTClaims) (*models.SlotAssignmentResult, error) {
	return s.apply(ctx, req, actor, releaseOnDay, models.AuditActionSlotRelease)
}

func (s *SlotAssignmentService) apply(ctx context.Context, req dto.SlotAssignmentRequest, actor *models.JWTClaims, edit dayEdit, action string) (*models.SlotAssignmentResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators can change slot assignments")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot assignment payload")
	}
	r, err := toSpan(models.TimeInterval{Start: req.Start, End: req.End})
	if err != nil {
		return nil, err
	}
	day := models.Weekday(req.Day)

	weekA, err := s.load(ctx, req.UserA)
	if err != nil {
		return nil, err
	}
	weekB, err := s.load(ctx, req.UserB)
	if err != nil {
		return nil, err
	}

	// Compute both sides before writing either.
	if weekA[day], err = edit(weekA[day], r, req.UserB); err != nil {
		return nil, err
	}
	if weekB[day], err = edit(weekB[day], r, req.UserA); err != nil {
		return nil, err
	}

	result := &models.SlotAssignmentResult{Day: day, Start: FormatClock(r.Start), End: FormatClock(r.End)}
	saved := make([]string, 0, 2)
	for _, side := range []struct {
		userID string
		week   models.WeeklySchedule
	}{{req.UserA, weekA}, {req.UserB, weekB}} {
		outcome := models.SlotSideResult{UserID: side.userID, Saved: true}
		if err := s.schedules.Upsert(ctx, side.userID, side.week); err != nil {
			outcome.Saved = false
			outcome.Error = err.Error()
			s.logger.Error("failed to persist slot change",
				zap.String("action", action),
				zap.String("user_id", side.userID),
				zap.String("day", string(day)),
				zap.Error(err))
		} else {
			saved = append(saved, side.userID)
		}
		result.Sides = append(result.Sides, outcome)
	}
	result.Partial = len(saved) == 1

	if len(saved) > 0 && s.events != nil {
		s.events.ScheduleChanged(ctx, saved...)
	}

	switch {
	case result.Failed():
		s.metrics.RecordSlotWrite(action, SlotOutcomeFailed)
		return result, appErrors.Clone(appErrors.ErrInternal, "failed to persist both schedules")
	case result.Partial:
		s.metrics.RecordSlotWrite(action, SlotOutcomePartial)
		s.emitAudit(ctx, actor, action, req, result)
		return result, appErrors.Clone(appErrors.ErrPartialFailure, "slot change saved for one user only")
	default:
		s.metrics.RecordSlotWrite(action, SlotOutcomeSuccess)
		s.emitAudit(ctx, actor, action, req, result)
		return result, nil
	}
}

func (s *SlotAssignmentService) load(ctx context.Context, userID string) (models.WeeklySchedule, error) {
	stored, err := s.schedules.GetByUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule for user %s not found", userID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	week := stored.Week.Clone()
	for _, day := range models.Weekdays {
		if week[day] == nil {
			week[day] = []models.TimeInterval{}
		}
	}
	return week, nil
}

// assignOnDay carves r out of available time and inserts one interval reserved for counterpart.
// Overlapping a reservation held by somebody else is a conflict.
func assignOnDay(intervals []models.TimeInterval, r span, counterpart string) ([]models.TimeInterval, error) {
	spans, err := toSpans(intervals)
	if err != nil {
		return nil, err
	}
	free, reserved := partitionSpans(spans)
	for _, existing := range reserved {
		if existing.Assignee == counterpart {
			continue
		}
		if _, overlaps := overlapSpan(existing, r); overlaps {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s-%s is already reserved", FormatClock(existing.Start), FormatClock(existing.End)))
		}
	}

	next := removeRange(free, r)
	next = append(next, reserved...)
	next = append(next, span{Start: r.Start, End: r.End, Assignee: counterpart})
	return fromSpans(mergeSpans(next)), nil
}

// releaseOnDay returns the part of r reserved for counterpart to available time.
func releaseOnDay(intervals []models.TimeInterval, r span, counterpart string) ([]models.TimeInterval, error) {
	spans, err := toSpans(intervals)
	if err != nil {
		return nil, err
	}
	next := make([]span, 0, len(spans)+2)
	released := false
	for _, s := range spans {
		if s.Assignee != counterpart {
			next = append(next, s)
			continue
		}
		overlap, ok := overlapSpan(s, r)
		if !ok {
			next = append(next, s)
			continue
		}
		released = true
		next = append(next, removeRange([]span{s}, r)...)
		next = append(next, overlap)
	}
	if !released {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no reservation with user %s in %s-%s", counterpart, FormatClock(r.Start), FormatClock(r.End)))
	}
	return fromSpans(mergeSpans(next)), nil
}

func (s *SlotAssignmentService) emitAudit(ctx context.Context, actor *models.JWTClaims, action string, req dto.SlotAssignmentRequest, result *models.SlotAssignmentResult) {
	if s.audit == nil {
		return
	}
	newValues, _ := json.Marshal(map[string]interface{}{
		"user_a":  req.UserA,
		"user_b":  req.UserB,
		"day":     result.Day,
		"start":   result.Start,
		"end":     result.End,
		"partial": result.Partial,
	})
	resourceID := fmt.Sprintf("%s:%s:%s", req.UserA, req.UserB, result.Day)
	log := &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     action,
		Resource:   slotResource,
		ResourceID: &resourceID,
		NewValues:  newValues,
		IPAddress:  "system",
		UserAgent:  "slot-assignment-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record slot audit", zap.Error(err))
	}
}
