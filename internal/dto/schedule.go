package dto

import "github.com/noah-isme/tutor-pairing-api/internal/models"

// UpdateScheduleRequest replaces the caller's available intervals.
type UpdateScheduleRequest struct {
	Days models.WeeklySchedule `json:"days" validate:"required"`
}

// SlotAssignmentRequest reserves a range on one weekday for two users.
type SlotAssignmentRequest struct {
	UserA string `json:"user_a" validate:"required,nefield=UserB"`
	UserB string `json:"user_b" validate:"required"`
	Day   string `json:"day" validate:"required,weekday"`
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

// CommonAvailabilityQuery binds the availability query string.
type CommonAvailabilityQuery struct {
	UserA      string `form:"user_a" validate:"required"`
	UserB      string `form:"user_b" validate:"required"`
	Mode       string `form:"mode" validate:"omitempty,oneof=slots raw"`
	MinMinutes int    `form:"min_minutes" validate:"min=0"`
}
