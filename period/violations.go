/*
violations.go - Stable failure taxonomy for period-insert validation

PURPOSE:
  Every admissibility problem surfaces as a (field, code, message) triple.
  The field tells the form layer which input to highlight, the code is a
  stable identifier usable for localization, and the message is the
  English default.

  Violations are data, not errors: the validator collects as many as it
  can in one pass so the user sees every problem in one round trip.
*/
package period

// =============================================================================
// FIELDS - Which input a violation points at
// =============================================================================

const (
	FieldDateRange = "daterange"
	FieldBeginTime = "begin_time"
	FieldDuration  = "duration"
	FieldProject   = "project"
	FieldActivity  = "activity"
	FieldCustomer  = "customer"
)

// =============================================================================
// CODES
// =============================================================================

const (
	CodeMissingTimeRange               = "missing_time_range"
	CodeMissingActivity                = "missing_activity"
	CodeMissingProject                 = "missing_project"
	CodeActivityProjectMismatch        = "activity_project_mismatch"
	CodeDisabledActivity               = "disabled_activity"
	CodeDisabledProject                = "disabled_project"
	CodeDisabledCustomer               = "disabled_customer"
	CodeProjectDisallowsGlobalActivity = "project_disallows_global_activity"
	CodeProjectNotStarted              = "project_not_started"
	CodeProjectAlreadyEnded            = "project_already_ended"
	CodeNegativeDuration               = "negative_duration"
	CodeZeroDuration                   = "zero_duration"
	CodeNoValidDay                     = "no_valid_day"
	CodeTimeRangeInFuture              = "time_range_in_future"
	CodeBeginInFuture                  = "begin_in_future"
	CodeEndInFuture                    = "end_in_future"
	CodeRecordOverlapping              = "record_overlapping"
	CodeBudgetUsed                     = "budget_used"
)

// defaultMessages holds the English default per code. Codes with dynamic
// messages (overlap, budget) are built by the validator instead.
var defaultMessages = map[string]string{
	CodeMissingTimeRange:               "You must submit a time range.",
	CodeMissingActivity:                "An activity needs to be selected.",
	CodeMissingProject:                 "A project needs to be selected.",
	CodeActivityProjectMismatch:        "Project mismatch, project specific activity and timesheet project are different.",
	CodeDisabledActivity:               "Cannot start a disabled activity.",
	CodeDisabledProject:                "Cannot start a disabled project.",
	CodeDisabledCustomer:               "Cannot start a disabled customer.",
	CodeProjectDisallowsGlobalActivity: "Global activities are forbidden for the selected project.",
	CodeProjectNotStarted:              "The project has not started at that time.",
	CodeProjectAlreadyEnded:            "The project is finished at that time.",
	CodeNegativeDuration:               "Duration cannot be negative.",
	CodeZeroDuration:                   "Duration cannot be zero.",
	CodeNoValidDay:                     "No valid day found in the selected time range.",
	CodeTimeRangeInFuture:              "The time range cannot be in the future.",
	CodeBeginInFuture:                  "The begin time cannot be in the future.",
	CodeEndInFuture:                    "The end time cannot be in the future.",
	CodeBudgetUsed:                     "The budget is used up.",
}

// MessageFor returns the English default for a code, or the code itself when
// no static message exists.
func MessageFor(code string) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return code
}

// =============================================================================
// RESULT
// =============================================================================

// Violation is one field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result collects the violations of one validation pass. Any violation means
// "do not commit".
type Result struct {
	violations []Violation
}

func NewResult() *Result { return &Result{} }

// Add records a violation with the default message for its code.
func (r *Result) Add(field, code string) {
	r.AddMessage(field, code, MessageFor(code))
}

// AddMessage records a violation with an explicit message.
func (r *Result) AddMessage(field, code, message string) {
	r.violations = append(r.violations, Violation{Field: field, Code: code, Message: message})
}

func (r *Result) HasViolations() bool     { return len(r.violations) > 0 }
func (r *Result) Violations() []Violation { return r.violations }

// HasCode reports whether any collected violation carries the given code.
func (r *Result) HasCode(code string) bool {
	for _, v := range r.violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
