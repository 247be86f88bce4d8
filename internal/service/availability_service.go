package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

// Availability query modes.
const (
	AvailabilityModeSlots = "slots"
	AvailabilityModeRaw   = "raw"

	availabilityCachePrefix = "availability:common"
)

type availabilityScheduleReader interface {
	GetByUser(ctx context.Context, userID string) (*models.UserSchedule, error)
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CommonAvailability returns 60-minute slots both schedules have available, per day.
func CommonAvailability(a, b models.WeeklySchedule) (map[models.Weekday][]models.TimeRange, error) {
	return CommonAvailabilitySlots(a, b, DefaultSlotMinutes)
}

// CommonAvailabilitySlots quantizes each common overlap into consecutive slots of slotMinutes.
// An overlap of d minutes yields floor(d/slotMinutes) slots; shorter overlaps yield none.
func CommonAvailabilitySlots(a, b models.WeeklySchedule, slotMinutes int) (map[models.Weekday][]models.TimeRange, error) {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return commonByDay(a, b, func(overlap span) []span {
		count := overlap.duration() / slotMinutes
		slots := make([]span, 0, count)
		for i := 0; i < count; i++ {
			start := overlap.Start + i*slotMinutes
			slots = append(slots, span{Start: start, End: start + slotMinutes})
		}
		return slots
	})
}

// CommonAvailabilityWithMinDuration returns raw common overlaps lasting at least minMinutes.
// A zero minimum keeps every non-empty overlap.
func CommonAvailabilityWithMinDuration(a, b models.WeeklySchedule, minMinutes int) (map[models.Weekday][]models.TimeRange, error) {
	if minMinutes < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minimum duration must not be negative")
	}
	return commonByDay(a, b, func(overlap span) []span {
		if overlap.duration() < minMinutes {
			return nil
		}
		return []span{overlap}
	})
}

func commonByDay(a, b models.WeeklySchedule, emit func(span) []span) (map[models.Weekday][]models.TimeRange, error) {
	result := make(map[models.Weekday][]models.TimeRange, len(models.Weekdays))
	for _, day := range models.Weekdays {
		left, err := availableOn(a, day)
		if err != nil {
			return nil, err
		}
		right, err := availableOn(b, day)
		if err != nil {
			return nil, err
		}

		found := make([]span, 0)
		for _, x := range left {
			for _, y := range right {
				if overlap, ok := overlapSpan(x, y); ok {
					found = append(found, emit(overlap)...)
				}
			}
		}
		sortSpans(found)

		ranges := make([]models.TimeRange, 0, len(found))
		for _, s := range found {
			ranges = append(ranges, models.TimeRange{Start: FormatClock(s.Start), End: FormatClock(s.End)})
		}
		result[day] = ranges
	}
	return result, nil
}

// availableOn returns the merged available spans of a day; assigned time never counts.
func availableOn(schedule models.WeeklySchedule, day models.Weekday) ([]span, error) {
	spans, err := toSpans(schedule[day])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", day, err)
	}
	available, _ := partitionSpans(spans)
	return mergeSpans(available), nil
}

// AvailabilityOptions selects the availability variant.
type AvailabilityOptions struct {
	Mode       string
	MinMinutes int
}

// CommonAvailabilityResult is the payload returned for a pair of users.
type CommonAvailabilityResult struct {
	UserA      string                                `json:"user_a"`
	UserB      string                                `json:"user_b"`
	Mode       string                                `json:"mode"`
	MinMinutes int                                   `json:"min_minutes,omitempty"`
	Days       map[models.Weekday][]models.TimeRange `json:"days"`
}

// AvailabilityService loads two schedules and computes their common availability.
type AvailabilityService struct {
	schedules   availabilityScheduleReader
	cache       availabilityCache
	cacheTTL    time.Duration
	slotMinutes int
	logger      *zap.Logger
}

// AvailabilityServiceConfig wires the optional collaborators.
type AvailabilityServiceConfig struct {
	Cache       availabilityCache
	CacheTTL    time.Duration
	SlotMinutes int
	Logger      *zap.Logger
}

// NewAvailabilityService constructs the availability service.
func NewAvailabilityService(schedules availabilityScheduleReader, cfg AvailabilityServiceConfig) *AvailabilityService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = DefaultSlotMinutes
	}
	return &AvailabilityService{
		schedules:   schedules,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		slotMinutes: cfg.SlotMinutes,
		logger:      cfg.Logger,
	}
}

// AvailabilityCacheKey builds a key independent of argument order since the result is symmetric.
func AvailabilityCacheKey(userA, userB, mode string, minMinutes int) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%s:%s:%d:%s:%s", availabilityCachePrefix, mode, minMinutes, userA, userB)
}

// AvailabilityInvalidationPatterns match every cached pair involving userID, on either side of
// the key, without matching ids that merely contain userID.
func AvailabilityInvalidationPatterns(userID string) []string {
	return []string{
		fmt.Sprintf("%s:*:*:%s:*", availabilityCachePrefix, userID),
		fmt.Sprintf("%s:*:*:*:%s", availabilityCachePrefix, userID),
	}
}

// Common computes the common availability of two users.
func (s *AvailabilityService) Common(ctx context.Context, userA, userB string, opts AvailabilityOptions) (*CommonAvailabilityResult, bool, error) {
	if userA == "" || userB == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "both user ids are required")
	}
	if userA == userB {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "users must be different")
	}
	if opts.Mode == "" {
		opts.Mode = AvailabilityModeSlots
	}
	if opts.Mode != AvailabilityModeSlots && opts.Mode != AvailabilityModeRaw {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown availability mode %q", opts.Mode))
	}
	if opts.MinMinutes < 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "min_minutes must not be negative")
	}
	if opts.Mode == AvailabilityModeSlots {
		opts.MinMinutes = 0
	}

	key := AvailabilityCacheKey(userA, userB, opts.Mode, opts.MinMinutes)
	if s.cache != nil {
		var cached CommonAvailabilityResult
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("availability cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			cached.UserA, cached.UserB = userA, userB
			return &cached, true, nil
		}
	}

	scheduleA, err := s.load(ctx, userA)
	if err != nil {
		return nil, false, err
	}
	scheduleB, err := s.load(ctx, userB)
	if err != nil {
		return nil, false, err
	}

	var days map[models.Weekday][]models.TimeRange
	if opts.Mode == AvailabilityModeRaw {
		days, err = CommonAvailabilityWithMinDuration(scheduleA, scheduleB, opts.MinMinutes)
	} else {
		days, err = CommonAvailabilitySlots(scheduleA, scheduleB, s.slotMinutes)
	}
	if err != nil {
		return nil, false, err
	}

	result := &CommonAvailabilityResult{UserA: userA, UserB: userB, Mode: opts.Mode, MinMinutes: opts.MinMinutes, Days: days}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("availability cache store failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, false, nil
}

func (s *AvailabilityService) load(ctx context.Context, userID string) (models.WeeklySchedule, error) {
	stored, err := s.schedules.GetByUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule for user %s not found", userID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return stored.Week, nil
}

// isNotFound matches both raw driver misses and typed not-found errors.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound)
}
