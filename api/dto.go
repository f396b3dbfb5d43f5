package api

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/timesheet"
)

// =============================================================================
// REQUEST / RESPONSE DTOs
// =============================================================================

// PeriodInsertDTO is the submit payload. Weekday selection defaults to every
// day; dates use "2006-01-02", the begin time "15:04".
type PeriodInsertDTO struct {
	User      string `json:"user"`
	Begin     string `json:"begin"`
	End       string `json:"end"`
	BeginTime string `json:"begin_time,omitempty"`
	Duration  int64  `json:"duration"`

	Weekdays *[7]bool `json:"weekdays,omitempty"`

	Project  string `json:"project,omitempty"`
	Activity string `json:"activity,omitempty"`

	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	FixedRate  *string `json:"fixed_rate,omitempty"`
	HourlyRate *string `json:"hourly_rate,omitempty"`

	BillableMode string `json:"billable_mode,omitempty"`
	Exported     bool   `json:"exported,omitempty"`
}

// SubmitResponseDTO is returned on success.
type SubmitResponseDTO struct {
	ValidDays []string `json:"valid_days"`
	Entries   int      `json:"entries"`
}

// ViolationsResponseDTO is returned when validation fails.
type ViolationsResponseDTO struct {
	Violations []period.Violation `json:"violations"`
}

// PreviewResponseDTO lists the days an insert would materialize.
type PreviewResponseDTO struct {
	ValidDays []string `json:"valid_days"`
}

// ErrorResponse reports a non-validation failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DTO -> SPEC
// =============================================================================

// toSpec resolves references through the catalog and builds the command
// object. Unknown IDs and malformed fields are reported as errors, not
// violations: they indicate a broken client, not user input to re-check.
func toSpec(dto *PeriodInsertDTO, catalog timesheet.Catalog) (*period.Spec, error) {
	user, ok := catalog.UserByID(timesheet.UserID(dto.User))
	if !ok {
		return nil, fmt.Errorf("unknown user %q", dto.User)
	}

	spec := period.NewSpec(user)

	if dto.Begin != "" || dto.End != "" {
		begin, err := time.Parse("2006-01-02", dto.Begin)
		if err != nil {
			return nil, fmt.Errorf("invalid begin date %q", dto.Begin)
		}
		end, err := time.Parse("2006-01-02", dto.End)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q", dto.End)
		}
		spec.SetDateRange(begin, end)
	}

	if dto.BeginTime != "" {
		t, err := time.Parse("15:04", dto.BeginTime)
		if err != nil {
			return nil, fmt.Errorf("invalid begin time %q", dto.BeginTime)
		}
		spec.SetBeginTime(t.Hour(), t.Minute())
	}

	spec.SetDuration(dto.Duration)

	if dto.Weekdays != nil {
		spec.SetWeekdays(*dto.Weekdays)
	}

	if dto.Project != "" {
		project, ok := catalog.ProjectByID(timesheet.ProjectID(dto.Project))
		if !ok {
			return nil, fmt.Errorf("unknown project %q", dto.Project)
		}
		spec.Project = mo.Some(project)
	}
	if dto.Activity != "" {
		activity, ok := catalog.ActivityByID(timesheet.ActivityID(dto.Activity))
		if !ok {
			return nil, fmt.Errorf("unknown activity %q", dto.Activity)
		}
		spec.Activity = mo.Some(activity)
	}

	spec.Description = dto.Description
	spec.Tags = dto.Tags
	spec.Exported = dto.Exported

	if dto.FixedRate != nil {
		rate, err := decimal.NewFromString(*dto.FixedRate)
		if err != nil {
			return nil, fmt.Errorf("invalid fixed rate %q", *dto.FixedRate)
		}
		spec.FixedRate = mo.Some(rate)
	}
	if dto.HourlyRate != nil {
		rate, err := decimal.NewFromString(*dto.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("invalid hourly rate %q", *dto.HourlyRate)
		}
		spec.HourlyRate = mo.Some(rate)
	}

	switch dto.BillableMode {
	case "", string(timesheet.BillableAutomatic):
		spec.BillableMode = timesheet.BillableAutomatic
	case string(timesheet.BillableYes):
		spec.BillableMode = timesheet.BillableYes
	case string(timesheet.BillableNo):
		spec.BillableMode = timesheet.BillableNo
	default:
		return nil, fmt.Errorf("unknown billable mode %q", dto.BillableMode)
	}

	return spec, nil
}
