package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

const scheduleResource = "user_schedule"

type scheduleStore interface {
	GetByUser(ctx context.Context, userID string) (*models.UserSchedule, error)
	GetWithAssignees(ctx context.Context, userID string) (*models.UserSchedule, error)
	Upsert(ctx context.Context, userID string, week models.WeeklySchedule) error
	Delete(ctx context.Context, userID string) error
}

// ScheduleService lets users maintain their own weekly availability.
type ScheduleService struct {
	store     scheduleStore
	events    scheduleChangeNotifier
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(store scheduleStore, events scheduleChangeNotifier, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{store: store, events: events, audit: audit, validator: validate, logger: logger}
}

// GetOwn returns the caller's schedule with reservations resolved to counterpart details.
// A user who never saved a schedule gets seven empty days.
func (s *ScheduleService) GetOwn(ctx context.Context, actor *models.JWTClaims) (*models.UserSchedule, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	schedule, err := s.store.GetWithAssignees(ctx, actor.UserID)
	if err != nil {
		if isNotFound(err) {
			return &models.UserSchedule{UserID: actor.UserID, Week: models.NewWeeklySchedule()}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	fillDays(schedule.Week)
	return schedule, nil
}

// GetForUser returns any user's schedule. Administrators only.
func (s *ScheduleService) GetForUser(ctx context.Context, actor *models.JWTClaims, userID string) (*models.UserSchedule, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Privileged() && actor.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another user's schedule")
	}
	schedule, err := s.store.GetWithAssignees(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule for user %s not found", userID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	fillDays(schedule.Week)
	return schedule, nil
}

// SaveOwn replaces the caller's available intervals. Reserved intervals are kept as stored
// and submitted availability underneath them is dropped.
func (s *ScheduleService) SaveOwn(ctx context.Context, actor *models.JWTClaims, req dto.UpdateScheduleRequest) (*models.UserSchedule, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := req.Days.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	current := models.NewWeeklySchedule()
	stored, err := s.store.GetByUser(ctx, actor.UserID)
	switch {
	case err == nil:
		current = stored.Week
	case !isNotFound(err):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	next := models.NewWeeklySchedule()
	for _, day := range models.Weekdays {
		submitted, err := toSpans(req.Days[day])
		if err != nil {
			return nil, err
		}
		for _, sp := range submitted {
			if sp.assigned() {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: reserved intervals can only be changed by an administrator", day))
			}
		}
		existing, err := toSpans(current[day])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule is malformed")
		}
		_, reserved := partitionSpans(existing)

		free := mergeSpans(submitted)
		for _, r := range reserved {
			free = removeRange(free, r)
		}
		next[day] = fromSpans(mergeSpans(append(free, reserved...)))
	}

	if err := s.store.Upsert(ctx, actor.UserID, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	if s.events != nil {
		s.events.ScheduleChanged(ctx, actor.UserID)
	}
	s.emitAudit(ctx, actor, models.AuditActionScheduleUpdate, next)

	return &models.UserSchedule{UserID: actor.UserID, Week: next, UpdatedAt: time.Now().UTC()}, nil
}

// DeleteOwn removes the caller's schedule. Schedules holding reservations must be released first
// so no counterpart is left pointing at a missing interval.
func (s *ScheduleService) DeleteOwn(ctx context.Context, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	stored, err := s.store.GetByUser(ctx, actor.UserID)
	if err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	for day, intervals := range stored.Week {
		for _, interval := range intervals {
			if interval.Assigned() {
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s %s-%s is reserved; release it before deleting the schedule", day, interval.Start, interval.End))
			}
		}
	}
	if err := s.store.Delete(ctx, actor.UserID); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	if s.events != nil {
		s.events.ScheduleChanged(ctx, actor.UserID)
	}
	s.emitAudit(ctx, actor, models.AuditActionScheduleDelete, nil)
	return nil
}

func fillDays(week models.WeeklySchedule) {
	for _, day := range models.Weekdays {
		if week[day] == nil {
			week[day] = []models.TimeInterval{}
		}
	}
}

func (s *ScheduleService) emitAudit(ctx context.Context, actor *models.JWTClaims, action string, week models.WeeklySchedule) {
	if s.audit == nil {
		return
	}
	var newValues []byte
	if week != nil {
		newValues, _ = json.Marshal(week)
	}
	log := &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     action,
		Resource:   scheduleResource,
		ResourceID: &actor.UserID,
		NewValues:  newValues,
		IPAddress:  "system",
		UserAgent:  "schedule-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record schedule audit", zap.String("action", action), zap.Error(err))
	}
}
