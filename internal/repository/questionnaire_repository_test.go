package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

func TestQuestionnaireRepositoryLatestAttempt(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionnaireRepository(db)

	finished := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "finished", "scores", "finished_at"}).
		AddRow("att-1", "student-1", "VARK", true, []byte(`{"visual":10,"auditory":5,"read_write":3,"kinesthetic":2}`), finished)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY finished DESC, finished_at DESC NULLS LAST LIMIT 1")).
		WithArgs("student-1", "VARK").
		WillReturnRows(rows)

	attempt, err := repo.LatestAttempt(context.Background(), "student-1", models.ProfileVARK)
	require.NoError(t, err)
	assert.True(t, attempt.Finished)
	assert.Equal(t, models.ProfileVARK, attempt.Kind)
	require.NotNil(t, attempt.FinishedAt)
	assert.JSONEq(t, `{"visual":10,"auditory":5,"read_write":3,"kinesthetic":2}`, string(attempt.Scores))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionnaireRepositoryLatestAttemptMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionnaireRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM questionnaire_attempts")).
		WithArgs("student-1", "BFI").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LatestAttempt(context.Background(), "student-1", models.ProfileBFI)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
