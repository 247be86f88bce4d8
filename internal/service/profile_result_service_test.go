package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

type attemptStoreStub struct {
	attempts map[string]*models.QuestionnaireAttempt
	err      error
}

func (s *attemptStoreStub) LatestAttempt(ctx context.Context, userID string, kind models.ProfileKind) (*models.QuestionnaireAttempt, error) {
	if s.err != nil {
		return nil, s.err
	}
	attempt, ok := s.attempts[userID+":"+string(kind)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return attempt, nil
}

type userDirectoryStub struct {
	users map[string]*models.User
}

func (s *userDirectoryStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newProfileFixture() (*ProfileResultService, *attemptStoreStub) {
	attempts := &attemptStoreStub{attempts: map[string]*models.QuestionnaireAttempt{
		"user-1:BFI":  {ID: "a1", Finished: true, Scores: []byte(`{"openness":3,"conscientiousness":4,"extroversion":2,"agreeableness":5,"neuroticism":1}`)},
		"user-1:VARK": {ID: "a2", Finished: true, Scores: []byte(`{"visual":1,"auditory":2,"read_write":3,"kinesthetic":4}`)},
		"user-2:BFI":  {ID: "a3", Finished: false},
		"user-3:BFI":  {ID: "a4", Finished: true, Scores: []byte("null")},
		"user-4:BFI":  {ID: "a5", Finished: true, Scores: []byte(`{"openness":"high"}`)},
	}}
	users := &userDirectoryStub{users: map[string]*models.User{
		"user-1": {ID: "user-1"}, "user-2": {ID: "user-2"}, "user-3": {ID: "user-3"}, "user-4": {ID: "user-4"}, "user-5": {ID: "user-5"},
	}}
	return NewProfileResultService(attempts, users, nil), attempts
}

func TestProfileResultServiceSuccess(t *testing.T) {
	svc, _ := newProfileFixture()

	bfi := svc.GetBFIResult(context.Background(), "user-1")
	require.True(t, bfi.Success)
	assert.Equal(t, models.BFIScores{Openness: 3, Conscientiousness: 4, Extroversion: 2, Agreeableness: 5, Neuroticism: 1}, *bfi.Data)

	vark := svc.GetVARKResult(context.Background(), "user-1")
	require.True(t, vark.Success)
	assert.Equal(t, 3.0, vark.Data.ReadWrite)
}

func TestProfileResultServiceFailureMessages(t *testing.T) {
	svc, _ := newProfileFixture()

	cases := map[string]string{
		"user-2":  "participant user-2 has not finished the BFI questionnaire",
		"user-3":  "BFI results for participant user-3 are not scored yet",
		"user-4":  "BFI results for participant user-4 are malformed",
		"user-5":  "participant user-5 has not attempted the BFI questionnaire",
		"missing": "participant missing not found",
	}
	for userID, message := range cases {
		result := svc.GetBFIResult(context.Background(), userID)
		assert.False(t, result.Success, userID)
		assert.Nil(t, result.Data, userID)
		assert.Equal(t, message, result.Message, userID)
	}
}

func TestProfileResultServiceStoreError(t *testing.T) {
	svc, attempts := newProfileFixture()
	attempts.err = errors.New("db down")

	result := svc.GetVARKResult(context.Background(), "user-1")
	assert.False(t, result.Success)
	assert.Equal(t, "failed to load VARK results for participant user-1", result.Message)
}

func TestProfileResultServiceVector(t *testing.T) {
	svc, _ := newProfileFixture()

	resp, err := svc.Vector(context.Background(), "user-1", models.DefaultPairingOptions())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 3, 4, 2, 5, 1}, resp.Vector)
	require.NotNil(t, resp.BFI)
	require.NotNil(t, resp.VARK)

	opts := models.DefaultPairingOptions()
	opts.VARK.Enabled = false
	resp, err = svc.Vector(context.Background(), "user-1", opts)
	require.NoError(t, err)
	assert.Nil(t, resp.VARK)
	assert.Len(t, resp.Vector, 5)
}

func TestProfileResultServiceVectorRejectsNegativeWeights(t *testing.T) {
	svc, _ := newProfileFixture()

	opts := models.DefaultPairingOptions()
	opts.BFI.Weight = -1
	_, err := svc.Vector(context.Background(), "user-1", opts)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Vector(context.Background(), "", models.DefaultPairingOptions())
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
