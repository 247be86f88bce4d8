package service

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

const (
	minutesPerDay = 24 * 60
	// DefaultSlotMinutes is the granularity of quantized common availability.
	DefaultSlotMinutes = 60
)

// span is a TimeInterval in minutes since midnight. Assignee is empty for available time.
type span struct {
	Start    int
	End      int
	Assignee string
}

func (s span) assigned() bool { return s.Assignee != "" }

func (s span) duration() int { return s.End - s.Start }

// ParseClock converts "HH:MM" into minutes since midnight. "24:00" is accepted and yields 1440.
func ParseClock(value string) (int, error) {
	invalid := appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time %q, expected HH:MM", value))
	if len(value) != 5 || value[2] != ':' || !isDigits(value[:2]) || !isDigits(value[3:]) {
		return 0, invalid
	}
	hours, err := strconv.Atoi(value[:2])
	if err != nil {
		return 0, invalid
	}
	minutes, err := strconv.Atoi(value[3:])
	if err != nil || minutes < 0 || minutes > 59 || hours < 0 {
		return 0, invalid
	}
	total := hours*60 + minutes
	if total > minutesPerDay {
		return 0, invalid
	}
	return total, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func toSpan(interval models.TimeInterval) (span, error) {
	start, err := ParseClock(interval.Start)
	if err != nil {
		return span{}, err
	}
	end, err := ParseClock(interval.End)
	if err != nil {
		return span{}, err
	}
	if start >= minutesPerDay || start >= end {
		return span{}, appErrors.Clone(appErrors.ErrInvalidInterval, fmt.Sprintf("interval %s-%s: start must be before end", interval.Start, interval.End))
	}
	return span{Start: start, End: end, Assignee: interval.AssigneeID()}, nil
}

func toSpans(intervals []models.TimeInterval) ([]span, error) {
	spans := make([]span, 0, len(intervals))
	for _, interval := range intervals {
		s, err := toSpan(interval)
		if err != nil {
			return nil, err
		}
		spans = append(spans, s)
	}
	return spans, nil
}

func (s span) interval() models.TimeInterval {
	interval := models.TimeInterval{Start: FormatClock(s.Start), End: FormatClock(s.End)}
	if s.assigned() {
		interval.Assignment = models.NewAssignedRef(s.Assignee)
	}
	return interval
}

func fromSpans(spans []span) []models.TimeInterval {
	intervals := make([]models.TimeInterval, 0, len(spans))
	for _, s := range spans {
		intervals = append(intervals, s.interval())
	}
	return intervals
}

func sortSpans(spans []span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		if spans[i].End != spans[j].End {
			return spans[i].End < spans[j].End
		}
		return spans[i].Assignee < spans[j].Assignee
	})
}

// mergeSpans coalesces overlapping or touching spans that share an assignment state.
// Assigned spans merge only when they reference the same counterpart; available and
// assigned spans may abut but are never merged together.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return []span{}
	}
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sortSpans(sorted)

	open := make(map[string]int)
	merged := make([]span, 0, len(sorted))
	for _, next := range sorted {
		if idx, ok := open[next.Assignee]; ok && merged[idx].End >= next.Start {
			if next.End > merged[idx].End {
				merged[idx].End = next.End
			}
			continue
		}
		open[next.Assignee] = len(merged)
		merged = append(merged, next)
	}
	sortSpans(merged)
	return merged
}

// removeRange cuts r out of every span it touches, keeping the remainders.
func removeRange(spans []span, r span) []span {
	out := make([]span, 0, len(spans)+1)
	for _, s := range spans {
		if s.End <= r.Start || r.End <= s.Start {
			out = append(out, s)
			continue
		}
		if s.Start < r.Start {
			out = append(out, span{Start: s.Start, End: r.Start, Assignee: s.Assignee})
		}
		if r.End < s.End {
			out = append(out, span{Start: r.End, End: s.End, Assignee: s.Assignee})
		}
	}
	return out
}

// overlapSpan returns the intersection of a and b when it is non-empty.
func overlapSpan(a, b span) (span, bool) {
	if !(a.Start < b.End && b.Start < a.End) {
		return span{}, false
	}
	start, end := a.Start, a.End
	if b.Start > start {
		start = b.Start
	}
	if b.End < end {
		end = b.End
	}
	return span{Start: start, End: end}, true
}

// partitionSpans splits spans into available and assigned sets.
func partitionSpans(spans []span) (available, assigned []span) {
	available = make([]span, 0, len(spans))
	assigned = make([]span, 0)
	for _, s := range spans {
		if s.assigned() {
			assigned = append(assigned, s)
		} else {
			available = append(available, s)
		}
	}
	return available, assigned
}

// NormalizeDay merges the intervals of one day into canonical form.
func NormalizeDay(intervals []models.TimeInterval) ([]models.TimeInterval, error) {
	spans, err := toSpans(intervals)
	if err != nil {
		return nil, err
	}
	return fromSpans(mergeSpans(spans)), nil
}
