/*
Package timesheet provides the host-application model consumed by the
period-insert engine.

PURPOSE:
  This package contains the entities of the surrounding time-tracking
  application (users, customers, projects, activities, time entries) and the
  abstract contracts the engine depends on (work calendar, absences, overlap
  lookup, budget statistics, rates, permissions, persistence).

KEY CONCEPTS IN THIS FILE (types.go):
  - User/Customer/Project/Activity: the entity graph an entry points into
  - Budgeted: money and time ceilings shared by activity, project, customer
  - BillableMode: tri-state policy (automatic / billable / not billable)

DESIGN PRINCIPLES:
  1. Explicit absence: optional references use mo.Option, never nil-chaining
  2. Precision: money uses decimal.Decimal to avoid floating-point errors
  3. Read-only collaborators: the engine never mutates host entities

SEE ALSO:
  - ports.go: collaborator interfaces consumed by the engine
  - entry.go: the generated time-entry record
  - budget.go: uniform budget-scope handling
*/
package timesheet

import (
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type CustomerID string
type ProjectID string
type ActivityID string

// =============================================================================
// BILLABLE MODE
// =============================================================================

// BillableMode controls how the billable flag of generated entries is derived.
type BillableMode string

const (
	// BillableAutomatic derives the flag from activity, project and customer.
	BillableAutomatic BillableMode = "automatic"
	// BillableYes forces every generated entry to be billable.
	BillableYes BillableMode = "billable"
	// BillableNo forces every generated entry to be non-billable.
	BillableNo BillableMode = "not_billable"
)

// =============================================================================
// BUDGETED - money and/or time ceilings carried by an entity
// =============================================================================

// Budgeted is embedded by every entity that can carry budget ceilings.
// A zero ceiling means "no budget configured" for that dimension.
type Budgeted struct {
	// MoneyBudget is the money ceiling in the customer's currency.
	MoneyBudget decimal.Decimal

	// TimeBudget is the time ceiling in seconds.
	TimeBudget int64

	// MonthlyBudget selects monthly semantics (the ceiling resets each
	// calendar month) instead of lifetime semantics.
	MonthlyBudget bool
}

func (b Budgeted) HasMoneyBudget() bool { return b.MoneyBudget.IsPositive() }
func (b Budgeted) HasTimeBudget() bool  { return b.TimeBudget > 0 }
func (b Budgeted) HasBudgets() bool     { return b.HasMoneyBudget() || b.HasTimeBudget() }

// =============================================================================
// ENTITIES
// =============================================================================

type User struct {
	ID     UserID
	Name   string
	Locale string
}

type Customer struct {
	ID       CustomerID
	Name     string
	Currency string
	Visible  bool
	Billable bool
	Budgeted
}

type Project struct {
	ID       ProjectID
	Name     string
	Customer *Customer
	Visible  bool
	Billable bool

	// GlobalActivities controls whether activities without a project of
	// their own may be booked on this project.
	GlobalActivities bool

	// Start and End bound the project lifetime. An absent bound is
	// unconstrained on that side.
	Start mo.Option[time.Time]
	End   mo.Option[time.Time]

	Budgeted
}

type Activity struct {
	ID       ActivityID
	Name     string
	Visible  bool
	Billable bool

	// Project binds the activity to a single project. A global activity
	// has no project of its own and can be booked anywhere.
	Project mo.Option[*Project]

	Budgeted
}

// IsGlobal reports whether the activity is not bound to a project.
func (a *Activity) IsGlobal() bool { return a.Project.IsAbsent() }
