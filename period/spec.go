/*
Package period implements the period-insert engine: it expands a recurring
daily pattern over a date range into concrete calendar days, validates the
whole batch against the host's business constraints, and persists one time
entry per valid day.

KEY CONCEPTS:
  - Spec: the transient command object describing one batch insert
  - Expander: weekday mask x work calendar x absence filtering
  - Validator: the admissibility pipeline producing field-level violations
  - Committer: atomic or best-effort persistence of the materialized entries

A Spec is created per submission, expanded and validated once, then either
committed or discarded. It is never stored.
*/
package period

import (
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/warp/period-engine/timesheet"
)

const secondsPerDay = 24 * 60 * 60

// =============================================================================
// SPEC - One batch-insert request
// =============================================================================

// Spec describes a recurring daily pattern: insert an entry of Duration
// seconds starting at the daily begin time, on every selected weekday between
// Begin and End, skipping non-working days and absences.
type Spec struct {
	Owner *timesheet.User

	Project  mo.Option[*timesheet.Project]
	Activity mo.Option[*timesheet.Activity]

	Description string
	Tags        []string

	FixedRate  mo.Option[decimal.Decimal]
	HourlyRate mo.Option[decimal.Decimal]

	BillableMode timesheet.BillableMode

	// Billable is derived from BillableMode during submission, never set
	// directly by the user when the mode is automatic.
	Billable bool

	Exported bool

	begin, end   time.Time
	hasRange     bool
	beginHour    int
	beginMinute  int
	hasBeginTime bool
	duration     int64

	// weekdays is indexed by time.Weekday (Sunday = 0).
	weekdays [7]bool

	// validDays is populated exactly once, during validation, and consumed
	// by the committer.
	validDays []time.Time
}

// NewSpec creates a spec for the given owner with every weekday selected.
func NewSpec(owner *timesheet.User) *Spec {
	s := &Spec{Owner: owner, BillableMode: timesheet.BillableAutomatic}
	for i := range s.weekdays {
		s.weekdays[i] = true
	}
	return s
}

// =============================================================================
// DATE RANGE
// =============================================================================

// SetDateRange sets the inclusive calendar-date range. Time-of-day components
// are dropped.
func (s *Spec) SetDateRange(begin, end time.Time) {
	s.begin = dateOf(begin)
	s.end = dateOf(end)
	s.hasRange = true
}

func (s *Spec) HasDateRange() bool { return s.hasRange }
func (s *Spec) Begin() time.Time   { return s.begin }
func (s *Spec) End() time.Time     { return s.end }

// SetBeginTime sets the time-of-day applied to every generated entry.
func (s *Spec) SetBeginTime(hour, minute int) {
	s.beginHour = hour
	s.beginMinute = minute
	s.hasBeginTime = true
}

func (s *Spec) HasBeginTime() bool { return s.hasBeginTime }

// BeginOn combines a calendar day with the daily begin time.
func (s *Spec) BeginOn(day time.Time) time.Time {
	d := dateOf(day)
	return time.Date(d.Year(), d.Month(), d.Day(), s.beginHour, s.beginMinute, 0, 0, d.Location())
}

// EndOn is BeginOn plus the per-day duration.
func (s *Spec) EndOn(day time.Time) time.Time {
	return s.BeginOn(day).Add(time.Duration(s.duration) * time.Second)
}

// =============================================================================
// DURATION
// =============================================================================

// SetDuration stores the per-day duration in seconds, reduced modulo 86400.
// An input of a full day or more silently wraps to its remainder (86400
// becomes 0); this matches the long-standing behavior of the host plugin.
// Negative input stays negative and is rejected during validation.
func (s *Spec) SetDuration(seconds int64) {
	s.duration = seconds % secondsPerDay
}

func (s *Spec) Duration() int64 { return s.duration }

// =============================================================================
// WEEKDAY MASK
// =============================================================================

// SetWeekday selects or deselects one weekday (Sunday = 0).
func (s *Spec) SetWeekday(day time.Weekday, selected bool) {
	s.weekdays[int(day)%7] = selected
}

// Weekday reports whether a weekday is selected. The index wraps modulo 7,
// so callers may pass raw offsets.
func (s *Spec) Weekday(day int) bool {
	day %= 7
	if day < 0 {
		day += 7
	}
	return s.weekdays[day]
}

// SetWeekdays replaces the whole mask (Sunday = index 0).
func (s *Spec) SetWeekdays(mask [7]bool) { s.weekdays = mask }

// =============================================================================
// VALID DAYS
// =============================================================================

// addValidDay appends a day to the valid-day list, de-duplicated by exact
// equality. The list stays ordered because expansion walks ascending.
func (s *Spec) addValidDay(day time.Time) {
	for _, d := range s.validDays {
		if d.Equal(day) {
			return
		}
	}
	s.validDays = append(s.validDays, day)
}

// ValidDays returns the ordered days produced by expansion, populated during
// validation.
func (s *Spec) ValidDays() []time.Time { return s.validDays }

// dateOf truncates a timestamp to midnight of its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
