package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

// ScheduleRepository persists weekly schedules as jsonb, one row per user.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetByUser loads a user's schedule with assignments in reference form.
func (r *ScheduleRepository) GetByUser(ctx context.Context, userID string) (*models.UserSchedule, error) {
	const query = `SELECT user_id, days, created_at, updated_at FROM user_schedules WHERE user_id = $1`
	var schedule models.UserSchedule
	if err := r.db.GetContext(ctx, &schedule, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	week := models.NewWeeklySchedule()
	if len(schedule.Days) > 0 {
		if err := json.Unmarshal(schedule.Days, &week); err != nil {
			return nil, fmt.Errorf("decode schedule for %s: %w", userID, err)
		}
	}
	schedule.Week = week
	return &schedule, nil
}

// GetWithAssignees loads a schedule and resolves each assignment to the counterpart's details.
func (r *ScheduleRepository) GetWithAssignees(ctx context.Context, userID string) (*models.UserSchedule, error) {
	schedule, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, intervals := range schedule.Week {
		for _, interval := range intervals {
			id := interval.AssigneeID()
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return schedule, nil
	}

	const query = `SELECT id, email, full_name, role FROM users WHERE id = ANY($1)`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("resolve schedule assignees: %w", err)
	}
	byID := make(map[string]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	for day, intervals := range schedule.Week {
		for i, interval := range intervals {
			user, ok := byID[interval.AssigneeID()]
			if !ok {
				continue
			}
			schedule.Week[day][i].Assignment = models.NewAssignedDetail(user.ID, user.FullName, user.Email, string(user.Role))
		}
	}
	return schedule, nil
}

// Upsert stores the schedule. Assignment details are dropped; only counterpart ids persist.
func (r *ScheduleRepository) Upsert(ctx context.Context, userID string, week models.WeeklySchedule) error {
	stored := week.Clone()
	for day, intervals := range stored {
		for i := range intervals {
			stored[day][i].Assignment = intervals[i].Assignment.Ref()
		}
	}
	days, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode schedule for %s: %w", userID, err)
	}

	now := time.Now().UTC()
	row := models.UserSchedule{UserID: userID, Days: days, CreatedAt: now, UpdatedAt: now}
	const query = `INSERT INTO user_schedules (user_id, days, created_at, updated_at)
		VALUES (:user_id, :days, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET days = EXCLUDED.days,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// Delete removes a user's schedule. A missing row yields sql.ErrNoRows.
func (r *ScheduleRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM user_schedules WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
