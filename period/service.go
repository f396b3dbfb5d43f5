package period

import (
	"context"

	"github.com/warp/period-engine/timesheet"
)

// =============================================================================
// SERVICE - The one call exposed to the controller layer
// =============================================================================

// Service ties the pipeline together: derive the billable flag, apply the
// ambient begin time when the tracking mode forbids editing it, validate,
// and commit on a clean result.
type Service struct {
	Config    *timesheet.Config
	Validator *Validator
	Committer *Committer
}

// Submit runs one period insert end to end. A result with violations means
// nothing was persisted; a nil error with a clean result means every valid
// day now has an entry.
func (s *Service) Submit(ctx context.Context, spec *Spec) (*Result, error) {
	if !s.Config.AllowEditBegin || !spec.HasBeginTime() {
		hour, minute, err := s.Config.ParseDefaultBeginTime()
		if err != nil {
			return nil, err
		}
		spec.SetBeginTime(hour, minute)
	}

	spec.Billable = ResolveBillability(spec.BillableMode, spec.Activity, spec.Project)

	res, err := s.Validator.Validate(ctx, spec)
	if err != nil {
		return nil, err
	}
	if res.HasViolations() {
		return res, nil
	}

	if err := s.Committer.Commit(ctx, spec); err != nil {
		return nil, err
	}
	return res, nil
}

// Preview expands the spec without validating or committing, for UIs that
// want to show the day list before submission.
func (s *Service) Preview(ctx context.Context, spec *Spec) ([]string, error) {
	days, err := s.Validator.Expander.Expand(ctx, spec)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, timesheet.DateKey(d))
	}
	return out, nil
}
