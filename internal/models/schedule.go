package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Weekday names a bucket of a weekly schedule.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists every day in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether the weekday is one of the seven known names.
func (d Weekday) Valid() bool {
	for _, day := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// AssignmentVariant discriminates the shapes an assignment may take.
type AssignmentVariant int

const (
	// Unassigned marks an available interval.
	Unassigned AssignmentVariant = iota
	// AssignedRef carries only the counterpart id (persisted form).
	AssignedRef
	// AssignedDetail carries a denormalized snapshot of the counterpart for display.
	AssignedDetail
)

// Assignment references the counterpart of a reserved interval.
type Assignment struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Type   string `json:"type,omitempty"`
}

// NewAssignedRef builds the persisted reference form.
func NewAssignedRef(userID string) *Assignment {
	return &Assignment{UserID: userID}
}

// NewAssignedDetail builds the display form resolved from the users table.
func NewAssignedDetail(userID, name, email, kind string) *Assignment {
	return &Assignment{UserID: userID, Name: name, Email: email, Type: kind}
}

// Variant reports which shape the assignment holds. A nil assignment is Unassigned.
func (a *Assignment) Variant() AssignmentVariant {
	if a == nil || a.UserID == "" {
		return Unassigned
	}
	if a.Name == "" && a.Email == "" && a.Type == "" {
		return AssignedRef
	}
	return AssignedDetail
}

// Ref strips display fields so only the id is stored.
func (a *Assignment) Ref() *Assignment {
	if a.Variant() == Unassigned {
		return nil
	}
	return NewAssignedRef(a.UserID)
}

// TimeInterval is a half-open [start,end) range on one day, "HH:MM" zero-padded.
type TimeInterval struct {
	Start      string      `json:"start"`
	End        string      `json:"end"`
	Assignment *Assignment `json:"assignment,omitempty"`
}

// Assigned reports whether the interval is reserved.
func (t TimeInterval) Assigned() bool {
	return t.Assignment.Variant() != Unassigned
}

// AssigneeID returns the counterpart id, empty for available intervals.
func (t TimeInterval) AssigneeID() string {
	if !t.Assigned() {
		return ""
	}
	return t.Assignment.UserID
}

// TimeRange is a plain start/end pair produced by availability queries.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

var (
	clockPattern    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	clockEndPattern = regexp.MustCompile(`^(([01]\d|2[0-3]):[0-5]\d|24:00)$`)
)

// Validate checks clock format and ordering. Zero-padded clocks order lexically.
func (t TimeInterval) Validate() error {
	if !clockPattern.MatchString(t.Start) {
		return fmt.Errorf("invalid start time %q", t.Start)
	}
	if !clockEndPattern.MatchString(t.End) {
		return fmt.Errorf("invalid end time %q", t.End)
	}
	if t.Start >= t.End {
		return fmt.Errorf("interval %s-%s: start must be before end", t.Start, t.End)
	}
	return nil
}

// WeeklySchedule maps each weekday to its intervals.
type WeeklySchedule map[Weekday][]TimeInterval

// NewWeeklySchedule returns a schedule with all seven days present and empty.
func NewWeeklySchedule() WeeklySchedule {
	schedule := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		schedule[day] = []TimeInterval{}
	}
	return schedule
}

// Validate requires exactly the seven weekday keys and valid intervals.
func (w WeeklySchedule) Validate() error {
	for _, day := range Weekdays {
		if _, ok := w[day]; !ok {
			return fmt.Errorf("missing day %q", day)
		}
	}
	for day, intervals := range w {
		if !day.Valid() {
			return fmt.Errorf("unknown day %q", day)
		}
		for _, interval := range intervals {
			if err := interval.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
		}
	}
	return nil
}

// Clone deep-copies the schedule.
func (w WeeklySchedule) Clone() WeeklySchedule {
	out := make(WeeklySchedule, len(w))
	for day, intervals := range w {
		copied := make([]TimeInterval, len(intervals))
		for i, interval := range intervals {
			copied[i] = interval
			if interval.Assignment != nil {
				assignment := *interval.Assignment
				copied[i].Assignment = &assignment
			}
		}
		out[day] = copied
	}
	return out
}

// UserSchedule is the persisted weekly schedule of one user.
type UserSchedule struct {
	UserID    string         `db:"user_id" json:"user_id"`
	Days      types.JSONText `db:"days" json:"-"`
	Week      WeeklySchedule `db:"-" json:"days"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
