package period

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/period-engine/timesheet"
)

// =============================================================================
// EXPANDER - Date range to ordered valid-day list
// =============================================================================

// Expander walks a spec's date range and keeps the days an entry should be
// created on. Expansion is deterministic: the same inputs always produce the
// same ordered list, and an empty result is valid output.
type Expander struct {
	Config   *timesheet.Config
	Calendar timesheet.WorkCalendar
	Absences timesheet.AbsenceSource
}

// Expand returns every day in [spec.Begin, spec.End] that passes the weekday
// mask, the working-day calendar and the absence filter. The absence set is
// fetched once for the whole range and passed through, so expansion holds no
// state between calls.
func (e *Expander) Expand(ctx context.Context, spec *Spec) ([]time.Time, error) {
	if !spec.HasDateRange() {
		return nil, nil
	}

	absent := map[string]bool{}
	if !e.Config.IncludeAbsences {
		var err error
		absent, err = e.Absences.AbsentDates(ctx, spec.Owner.ID, spec.Begin(), spec.End())
		if err != nil {
			return nil, fmt.Errorf("failed to load absences: %w", err)
		}
	}

	var days []time.Time
	for d := spec.Begin(); !d.After(spec.End()); d = d.AddDate(0, 0, 1) {
		if e.isValidDay(spec, d, absent) {
			days = append(days, d)
		}
	}
	return days, nil
}

func (e *Expander) isValidDay(spec *Spec, day time.Time, absent map[string]bool) bool {
	if !spec.Weekday(int(day.Weekday())) {
		return false
	}
	if !e.Config.IncludeNonWorkDays && !e.Calendar.IsWorkDay(spec.Owner.ID, day) {
		return false
	}
	if !e.Config.IncludeAbsences && absent[timesheet.DateKey(day)] {
		return false
	}
	return true
}
