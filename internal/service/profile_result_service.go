package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

type questionnaireReader interface {
	LatestAttempt(ctx context.Context, userID string, kind models.ProfileKind) (*models.QuestionnaireAttempt, error)
}

type participantDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ProfileResultService derives BFI and VARK scores from finished questionnaire attempts.
// Failures are reported in the result message rather than as errors so batch callers can continue.
type ProfileResultService struct {
	attempts questionnaireReader
	users    participantDirectory
	logger   *zap.Logger
}

// NewProfileResultService constructs the provider.
func NewProfileResultService(attempts questionnaireReader, users participantDirectory, logger *zap.Logger) *ProfileResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileResultService{attempts: attempts, users: users, logger: logger}
}

// GetBFIResult returns the participant's personality scores.
func (s *ProfileResultService) GetBFIResult(ctx context.Context, userID string) models.ProfileResult[models.BFIScores] {
	return fetchProfile[models.BFIScores](ctx, s, userID, models.ProfileBFI)
}

// GetVARKResult returns the participant's learning-style scores.
func (s *ProfileResultService) GetVARKResult(ctx context.Context, userID string) models.ProfileResult[models.VARKScores] {
	return fetchProfile[models.VARKScores](ctx, s, userID, models.ProfileVARK)
}

func fetchProfile[T any](ctx context.Context, s *ProfileResultService, userID string, kind models.ProfileKind) models.ProfileResult[T] {
	fail := func(format string, args ...interface{}) models.ProfileResult[T] {
		return models.ProfileResult[T]{Success: false, Message: fmt.Sprintf(format, args...)}
	}

	if s.users != nil {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			if isNotFound(err) {
				return fail("participant %s not found", userID)
			}
			s.logger.Error("failed to load participant", zap.String("user_id", userID), zap.Error(err))
			return fail("failed to load participant %s", userID)
		}
	}

	attempt, err := s.attempts.LatestAttempt(ctx, userID, kind)
	if err != nil {
		if isNotFound(err) {
			return fail("participant %s has not attempted the %s questionnaire", userID, kind)
		}
		s.logger.Error("failed to load questionnaire attempt", zap.String("user_id", userID), zap.String("kind", string(kind)), zap.Error(err))
		return fail("failed to load %s results for participant %s", kind, userID)
	}
	if !attempt.Finished {
		return fail("participant %s has not finished the %s questionnaire", userID, kind)
	}
	if len(attempt.Scores) == 0 || string(attempt.Scores) == "null" {
		return fail("%s results for participant %s are not scored yet", kind, userID)
	}

	var scores T
	if err := json.Unmarshal(attempt.Scores, &scores); err != nil {
		s.logger.Warn("malformed questionnaire scores", zap.String("attempt_id", attempt.ID), zap.Error(err))
		return fail("%s results for participant %s are malformed", kind, userID)
	}
	return models.ProfileResult[T]{Success: true, Data: &scores}
}

// Vector returns the enabled profile results of a participant with the vector they produce.
func (s *ProfileResultService) Vector(ctx context.Context, userID string, opts models.PairingOptions) (*dto.ProfileVectorResponse, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	if opts.BFI.Weight < 0 || opts.VARK.Weight < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "profile weights must not be negative")
	}
	resp := &dto.ProfileVectorResponse{UserID: userID, Options: opts}
	profile := models.ParticipantProfile{UserID: userID}
	if opts.BFI.Enabled {
		result := s.GetBFIResult(ctx, userID)
		resp.BFI = &result
		profile.BFI = result.Data
	}
	if opts.VARK.Enabled {
		result := s.GetVARKResult(ctx, userID)
		resp.VARK = &result
		profile.VARK = result.Data
	}
	resp.Vector = Vectorize(profile, opts)
	return resp, nil
}
