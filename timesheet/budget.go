package timesheet

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BUDGET SCOPE - Uniform view over activity, project and customer budgets
// =============================================================================

// ScopeKind names the three entities that can carry budgets. The set is
// closed: budget checks iterate activity, then project, then customer.
type ScopeKind string

const (
	ScopeActivity ScopeKind = "activity"
	ScopeProject  ScopeKind = "project"
	ScopeCustomer ScopeKind = "customer"
)

// BudgetScope exposes one entity's budget configuration behind a uniform
// capability, so the validator never type-switches on the entity.
type BudgetScope struct {
	Kind     ScopeKind
	EntityID string
	budget   Budgeted
}

func ActivityScope(a *Activity) BudgetScope {
	return BudgetScope{Kind: ScopeActivity, EntityID: string(a.ID), budget: a.Budgeted}
}

func ProjectScope(p *Project) BudgetScope {
	return BudgetScope{Kind: ScopeProject, EntityID: string(p.ID), budget: p.Budgeted}
}

func CustomerScope(c *Customer) BudgetScope {
	return BudgetScope{Kind: ScopeCustomer, EntityID: string(c.ID), budget: c.Budgeted}
}

func (s BudgetScope) HasBudgets() bool               { return s.budget.HasBudgets() }
func (s BudgetScope) HasMoneyBudget() bool           { return s.budget.HasMoneyBudget() }
func (s BudgetScope) HasTimeBudget() bool            { return s.budget.HasTimeBudget() }
func (s BudgetScope) IsMonthly() bool                { return s.budget.MonthlyBudget }
func (s BudgetScope) MoneyBudget() decimal.Decimal   { return s.budget.MoneyBudget }
func (s BudgetScope) TimeBudget() int64              { return s.budget.TimeBudget }

// BudgetStatistic is a point-in-time snapshot of what has already been booked
// against one scope. For monthly scopes the snapshot covers the calendar month
// of the as-of date; for lifetime scopes it covers the entity's whole history.
type BudgetStatistic struct {
	MoneySpent decimal.Decimal
	TimeSpent  int64
}
