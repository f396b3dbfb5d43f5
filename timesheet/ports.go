/*
ports.go - Collaborator contracts consumed by the period-insert engine

PURPOSE:
  Defines the interfaces between the engine and the host application.
  Pure lookups (calendar, permissions, formatting) take no context and
  return no error; anything that can hit storage does both.

SEE ALSO:
  - store/sqlite: storage-backed implementations
  - defaults.go: simple in-process implementations
*/
package timesheet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALENDAR AND ABSENCES
// =============================================================================

// WorkCalendar answers whether a calendar date is a contractual working day
// for a user.
type WorkCalendar interface {
	IsWorkDay(user UserID, date time.Time) bool
}

// AbsenceSource lists the dates a user is absent (holidays, sickness, leave)
// within an inclusive date range. Keys use the DateKey format.
type AbsenceSource interface {
	AbsentDates(ctx context.Context, user UserID, from, to time.Time) (map[string]bool, error)
}

// DateKey is the canonical map key for a calendar date.
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

// =============================================================================
// EXISTING-ENTRY LOOKUPS
// =============================================================================

// OverlapLookup checks whether a candidate entry collides with an existing
// record of the same user.
type OverlapLookup interface {
	HasRecordForTime(ctx context.Context, entry *Entry) (bool, error)
}

// BudgetStatisticProvider returns the already-booked snapshot for one budget
// scope as of a given date.
type BudgetStatisticProvider interface {
	BudgetStatistic(ctx context.Context, scope BudgetScope, asOf time.Time) (BudgetStatistic, error)
}

// =============================================================================
// RATES, PERMISSIONS, FORMATTING
// =============================================================================

// RateCalculator computes the money value of one entry.
type RateCalculator interface {
	Calculate(entry *Entry) decimal.Decimal
}

// PermissionCheck answers capability questions, e.g. ("budget_money",
// "project"). Scope is the budget-scope kind the capability applies to.
type PermissionCheck interface {
	IsGranted(capability string, scope string) bool
}

// MoneyFormatter renders a money amount for violation messages.
type MoneyFormatter interface {
	Money(amount decimal.Decimal, currency string) string
}

// DurationFormatter renders a duration in seconds for violation messages.
type DurationFormatter interface {
	Duration(seconds int64) string
}

// =============================================================================
// ENTITY CATALOG
// =============================================================================

// Catalog resolves entity references coming in over the wire. The host's
// repositories back this in production; MemoryCatalog serves tests and
// single-binary deployments.
type Catalog interface {
	UserByID(id UserID) (*User, bool)
	ProjectByID(id ProjectID) (*Project, bool)
	ActivityByID(id ActivityID) (*Activity, bool)
}

// =============================================================================
// PERSISTENCE SINK
// =============================================================================

// EntrySink accepts fully-formed entries. Validate applies the host's generic
// entity constraints without persisting; SaveBatch is atomic.
type EntrySink interface {
	Validate(ctx context.Context, entry *Entry) error
	Save(ctx context.Context, entry *Entry) error
	SaveBatch(ctx context.Context, entries []*Entry) error
}
