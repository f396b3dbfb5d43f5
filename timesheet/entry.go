package timesheet

import (
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY - The generic time-entry record of the host application
// =============================================================================

// Entry is one concrete time record. The period-insert engine materializes
// one Entry per valid day and hands it to the EntrySink; it never reads
// entries back except through the overlap and budget lookups.
type Entry struct {
	ID   string
	User UserID

	Begin    time.Time
	End      time.Time
	Duration int64 // seconds, End - Begin

	Project  *Project
	Activity *Activity

	Description string
	Tags        []string

	// FixedRate and HourlyRate are user overrides. When absent, the rate
	// service decides.
	FixedRate  mo.Option[decimal.Decimal]
	HourlyRate mo.Option[decimal.Decimal]

	// Rate is the calculated money value of this entry.
	Rate decimal.Decimal

	Billable     bool
	BillableMode BillableMode
	Exported     bool
}

// CustomerOf returns the customer reached through the entry's project.
func (e *Entry) CustomerOf() *Customer {
	if e.Project == nil {
		return nil
	}
	return e.Project.Customer
}
