/*
validator.go - Admissibility pipeline for a period insert

PURPOSE:
  Runs every business constraint against one Spec and collects field-level
  violations. Checks are independent and all collected, except where a
  failure logically voids the remaining input:
    - a missing time range stops everything,
    - a negative duration voids day expansion,
    - an empty valid-day list skips all day-dependent checks.

PIPELINE:
  1. time range presence        (fatal)
  2. activity/project checks    (presence, mismatch, visibility)
  3. duration bounds            (negative fatal, zero per configuration)
  4. day expansion              (empty list skips 5-8)
  5. project lifetime window
  6. future-time restriction
  7. overlap detection          (every conflicting date in one violation)
  8. budget ceilings            (activity, project, customer; money and time)

SEE ALSO:
  - expander.go: step 4
  - violations.go: the failure taxonomy
*/
package period

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/period-engine/timesheet"
)

// Validator bundles the read-only collaborators the pipeline needs. Now is
// injectable so future-time checks are testable.
type Validator struct {
	Config      *timesheet.Config
	Expander    *Expander
	Overlaps    timesheet.OverlapLookup
	Budgets     timesheet.BudgetStatisticProvider
	Rates       timesheet.RateCalculator
	Permissions timesheet.PermissionCheck
	Money       timesheet.MoneyFormatter
	Durations   timesheet.DurationFormatter
	Now         func() time.Time
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate runs the whole pipeline. A non-nil error means an infrastructure
// failure (storage, lookups), not a business violation.
func (v *Validator) Validate(ctx context.Context, spec *Spec) (*Result, error) {
	res := NewResult()

	// 1. Without a time range nothing else can be checked.
	if !spec.HasDateRange() {
		res.Add(FieldDateRange, CodeMissingTimeRange)
		return res, nil
	}

	// 2. Activity and project.
	v.validateActivityAndProject(spec, res)

	// 3. Duration bounds. A negative span makes day semantics undefined.
	if spec.Duration() < 0 {
		res.Add(FieldDuration, CodeNegativeDuration)
		return res, nil
	}
	if spec.Duration() == 0 && !v.Config.AllowZeroDuration {
		res.Add(FieldDuration, CodeZeroDuration)
	}

	// 4. Day expansion.
	days, err := v.Expander.Expand(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		res.Add(FieldDateRange, CodeNoValidDay)
		return res, nil
	}
	for _, d := range days {
		spec.addValidDay(d)
	}

	// 5. Project lifetime window.
	v.validateProjectRange(spec, res)

	// 6. Future-time restriction.
	v.validateFutureTimes(spec, res)

	// 7. Overlaps with existing records.
	if err := v.validateOverlapping(ctx, spec, res); err != nil {
		return nil, err
	}

	// 8. Budget ceilings.
	if err := v.validateBudgets(ctx, spec, res); err != nil {
		return nil, err
	}

	return res, nil
}

// =============================================================================
// STEP 2: ACTIVITY AND PROJECT
// =============================================================================

func (v *Validator) validateActivityAndProject(spec *Spec, res *Result) {
	activity, hasActivity := spec.Activity.Get()

	if v.Config.RequireActivity && !hasActivity {
		res.Add(FieldActivity, CodeMissingActivity)
	}

	project, hasProject := spec.Project.Get()
	if !hasProject {
		res.Add(FieldProject, CodeMissingProject)
		return
	}

	if hasActivity {
		if owner, ok := activity.Project.Get(); ok && owner != project {
			res.Add(FieldProject, CodeActivityProjectMismatch)
		}
		if !project.GlobalActivities && activity.IsGlobal() {
			res.Add(FieldActivity, CodeProjectDisallowsGlobalActivity)
		}
		if !activity.Visible {
			res.Add(FieldActivity, CodeDisabledActivity)
		}
	}

	if !project.Visible {
		res.Add(FieldProject, CodeDisabledProject)
	}
	if project.Customer != nil && !project.Customer.Visible {
		res.Add(FieldCustomer, CodeDisabledCustomer)
	}
}

// =============================================================================
// STEP 5: PROJECT LIFETIME WINDOW
// =============================================================================

// validateProjectRange checks the first valid day's begin and the last valid
// day's end against the project's start and end dates. The end date is
// inclusive: an entry may run until midnight after it.
func (v *Validator) validateProjectRange(spec *Spec, res *Result) {
	project, ok := spec.Project.Get()
	if !ok {
		return
	}

	days := spec.ValidDays()
	firstBegin := spec.BeginOn(days[0])
	lastEnd := spec.EndOn(days[len(days)-1])

	if start, ok := project.Start.Get(); ok && firstBegin.Before(start) {
		res.AddMessage(FieldDateRange, CodeProjectNotStarted,
			fmt.Sprintf("%s The project begins on %s.", MessageFor(CodeProjectNotStarted), formatDate(start)))
	}
	if end, ok := project.End.Get(); ok {
		boundary := dateOf(end).AddDate(0, 0, 1)
		if lastEnd.After(boundary) {
			res.AddMessage(FieldDateRange, CodeProjectAlreadyEnded,
				fmt.Sprintf("%s The project ended on %s.", MessageFor(CodeProjectAlreadyEnded), formatDate(end)))
		}
	}
}

// =============================================================================
// STEP 6: FUTURE-TIME RESTRICTION
// =============================================================================

func (v *Validator) validateFutureTimes(spec *Spec, res *Result) {
	if v.Config.AllowFutureTimes {
		return
	}

	days := spec.ValidDays()
	last := days[len(days)-1]

	// Compare calendar days in the spec's own location: the server clock may
	// run in a different zone, and a raw instant comparison would shift the
	// day boundary.
	now := v.now().In(last.Location())
	today := dateOf(now)

	if last.After(today) {
		res.Add(FieldDateRange, CodeTimeRangeInFuture)
		return
	}
	if !last.Equal(today) {
		return
	}

	// The last day is today: compare the actual timestamps, allowing the
	// configured rounding tolerance plus one minute.
	begin := spec.BeginOn(last)
	end := spec.EndOn(last)
	nowBegin := now.Add(time.Duration(v.Config.RoundingBeginMinutes)*time.Minute + time.Minute)
	nowEnd := now.Add(time.Duration(v.Config.RoundingEndMinutes)*time.Minute + time.Minute)

	if begin.After(nowBegin) {
		res.Add(FieldBeginTime, CodeBeginInFuture)
	} else if end.After(nowEnd) {
		res.Add(FieldDuration, CodeEndInFuture)
	}
}

// =============================================================================
// STEP 7: OVERLAP DETECTION
// =============================================================================

// validateOverlapping collects every day whose candidate entry collides with
// an existing record and reports them all in one violation.
func (v *Validator) validateOverlapping(ctx context.Context, spec *Spec, res *Result) error {
	if v.Config.AllowOverlapping {
		return nil
	}

	var conflicts []string
	for _, day := range spec.ValidDays() {
		entry := Materialize(spec, day)
		overlaps, err := v.Overlaps.HasRecordForTime(ctx, entry)
		if err != nil {
			return fmt.Errorf("overlap lookup failed: %w", err)
		}
		if overlaps {
			conflicts = append(conflicts, formatDate(day))
		}
	}

	if len(conflicts) > 0 {
		res.AddMessage(FieldDateRange, CodeRecordOverlapping,
			fmt.Sprintf("You already have an entry on %s.", strings.Join(conflicts, ", ")))
	}
	return nil
}

// =============================================================================
// STEP 8: BUDGET CEILINGS
// =============================================================================

type monthBucket struct {
	start time.Time
	label string
	count int
}

// monthBuckets groups the valid days by calendar month, in order.
func monthBuckets(days []time.Time) []monthBucket {
	var buckets []monthBucket
	for _, d := range days {
		label := d.Format("January 2006")
		if n := len(buckets); n > 0 && buckets[n-1].label == label {
			buckets[n-1].count++
			continue
		}
		buckets = append(buckets, monthBucket{
			start: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()),
			label: label,
			count: 1,
		})
	}
	return buckets
}

// validateBudgets checks every configured budget scope. Monthly budgets are
// evaluated once per month present in the expansion, with the as-of date
// advanced to each month for a correct spent-so-far snapshot; lifetime
// budgets once against the total day count. Money and time ceilings are
// independent: both may fire for the same scope.
func (v *Validator) validateBudgets(ctx context.Context, spec *Spec, res *Result) error {
	if v.Config.AllowOverbooking || !spec.Billable {
		return nil
	}
	project, ok := spec.Project.Get()
	if !ok {
		return nil
	}

	var scopes []timesheet.BudgetScope
	if activity, ok := spec.Activity.Get(); ok && activity.HasBudgets() {
		scopes = append(scopes, timesheet.ActivityScope(activity))
	}
	if project.HasBudgets() {
		scopes = append(scopes, timesheet.ProjectScope(project))
	}
	if project.Customer != nil && project.Customer.HasBudgets() {
		scopes = append(scopes, timesheet.CustomerScope(project.Customer))
	}
	if len(scopes) == 0 {
		return nil
	}

	days := spec.ValidDays()
	buckets := monthBuckets(days)

	// One rate for the whole batch, computed from the first valid day.
	rate := v.Rates.Calculate(Materialize(spec, days[0]))
	now := v.now()

	for _, scope := range scopes {
		if scope.IsMonthly() {
			for _, bucket := range buckets {
				stat, err := v.Budgets.BudgetStatistic(ctx, scope, bucket.start)
				if err != nil {
					return fmt.Errorf("budget statistic failed for %s: %w", scope.Kind, err)
				}
				v.checkBudgets(spec, scope, stat, rate, bucket.count, bucket.label, res)
			}
			continue
		}

		stat, err := v.Budgets.BudgetStatistic(ctx, scope, now)
		if err != nil {
			return fmt.Errorf("budget statistic failed for %s: %w", scope.Kind, err)
		}
		v.checkBudgets(spec, scope, stat, rate, len(days), "", res)
	}
	return nil
}

// checkBudgets evaluates the money ceiling, then the time ceiling, for one
// scope and one month (or the whole lifetime when month is empty).
func (v *Validator) checkBudgets(spec *Spec, scope timesheet.BudgetScope, stat timesheet.BudgetStatistic, rate decimal.Decimal, validDays int, month string, res *Result) {
	if scope.HasMoneyBudget() {
		insert := rate.Mul(decimal.NewFromInt(int64(validDays)))
		if stat.MoneySpent.Add(insert).GreaterThan(scope.MoneyBudget()) {
			res.AddMessage(string(scope.Kind), CodeBudgetUsed,
				v.moneyBudgetMessage(spec, scope, stat, insert, month))
		}
	}

	if scope.HasTimeBudget() {
		insert := spec.Duration() * int64(validDays)
		if stat.TimeSpent+insert > scope.TimeBudget() {
			res.AddMessage(string(scope.Kind), CodeBudgetUsed,
				v.timeBudgetMessage(scope, stat, insert, month))
		}
	}
}

// moneyBudgetMessage renders the money violation. Exact figures are only
// shown to callers holding the budget_money capability for the scope.
func (v *Validator) moneyBudgetMessage(spec *Spec, scope timesheet.BudgetScope, stat timesheet.BudgetStatistic, insert decimal.Decimal, month string) string {
	if !v.Permissions.IsGranted("budget_money", string(scope.Kind)) {
		return MessageFor(CodeBudgetUsed)
	}

	currency := ""
	if project, ok := spec.Project.Get(); ok && project.Customer != nil {
		currency = project.Customer.Currency
	}

	free := scope.MoneyBudget().Sub(stat.MoneySpent)
	if free.IsNegative() {
		free = decimal.Zero
	}

	msg := fmt.Sprintf("The budget is used up. Of the available %s, %s has been booked so far, %s can still be used. The selected period insert would use %s",
		v.Money.Money(scope.MoneyBudget(), currency),
		v.Money.Money(stat.MoneySpent, currency),
		v.Money.Money(free, currency),
		v.Money.Money(insert, currency))
	return appendMonth(msg, month)
}

// timeBudgetMessage renders the time violation, gated on budget_time.
func (v *Validator) timeBudgetMessage(scope timesheet.BudgetScope, stat timesheet.BudgetStatistic, insert int64, month string) string {
	if !v.Permissions.IsGranted("budget_time", string(scope.Kind)) {
		return MessageFor(CodeBudgetUsed)
	}

	free := scope.TimeBudget() - stat.TimeSpent
	if free < 0 {
		free = 0
	}

	msg := fmt.Sprintf("The budget is used up. Of the available %s, %s has been booked so far, %s can still be used. The selected period insert would use %s",
		v.Durations.Duration(scope.TimeBudget()),
		v.Durations.Duration(stat.TimeSpent),
		v.Durations.Duration(free),
		v.Durations.Duration(insert))
	return appendMonth(msg, month)
}

func appendMonth(msg, month string) string {
	if month == "" {
		return msg + "."
	}
	return msg + " in " + month + "."
}

func formatDate(t time.Time) string { return t.Format("1/2/2006") }
