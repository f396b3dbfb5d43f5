package period

import (
	"github.com/samber/mo"

	"github.com/warp/period-engine/timesheet"
)

// =============================================================================
// BILLABILITY - Derive the billable flag from the tri-state mode
// =============================================================================

// ResolveBillability derives the billable flag for generated entries.
// Explicit modes win outright. Automatic mode is billable unless the
// activity, the project or the project's customer is non-billable, checked
// in that order with the first non-billable one deciding.
func ResolveBillability(mode timesheet.BillableMode, activity mo.Option[*timesheet.Activity], project mo.Option[*timesheet.Project]) bool {
	switch mode {
	case timesheet.BillableNo:
		return false
	case timesheet.BillableYes:
		return true
	}

	if a, ok := activity.Get(); ok && !a.Billable {
		return false
	}
	if p, ok := project.Get(); ok {
		if !p.Billable {
			return false
		}
		if p.Customer != nil && !p.Customer.Billable {
			return false
		}
	}
	return true
}
