package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

// QuestionnaireRepository reads questionnaire attempts owned by the exam module.
type QuestionnaireRepository struct {
	db *sqlx.DB
}

// NewQuestionnaireRepository constructs the repository.
func NewQuestionnaireRepository(db *sqlx.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: db}
}

// LatestAttempt returns the most relevant attempt of a kind: finished ones first, newest first.
func (r *QuestionnaireRepository) LatestAttempt(ctx context.Context, userID string, kind models.ProfileKind) (*models.QuestionnaireAttempt, error) {
	const query = `SELECT id, user_id, kind, finished, scores, finished_at FROM questionnaire_attempts WHERE user_id = $1 AND kind = $2 ORDER BY finished DESC, finished_at DESC NULLS LAST LIMIT 1`
	var attempt models.QuestionnaireAttempt
	if err := r.db.GetContext(ctx, &attempt, query, userID, string(kind)); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("latest questionnaire attempt: %w", err)
	}
	return &attempt, nil
}
