package period

import (
	"time"

	"github.com/google/uuid"

	"github.com/warp/period-engine/timesheet"
)

// =============================================================================
// MATERIALIZER - Spec + day -> candidate entry
// =============================================================================

// Materialize builds the concrete time entry for one valid day. It is a pure
// function of its inputs apart from the generated ID: no I/O, and the spec is
// never mutated.
func Materialize(spec *Spec, day time.Time) *timesheet.Entry {
	entry := &timesheet.Entry{
		ID:           uuid.NewString(),
		User:         spec.Owner.ID,
		Begin:        spec.BeginOn(day),
		End:          spec.EndOn(day),
		Duration:     spec.Duration(),
		Description:  spec.Description,
		Tags:         append([]string(nil), spec.Tags...),
		FixedRate:    spec.FixedRate,
		HourlyRate:   spec.HourlyRate,
		Billable:     spec.Billable,
		BillableMode: spec.BillableMode,
		Exported:     spec.Exported,
	}

	if project, ok := spec.Project.Get(); ok {
		entry.Project = project
	}
	if activity, ok := spec.Activity.Get(); ok {
		entry.Activity = activity
	}

	return entry
}
