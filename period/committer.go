package period

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/warp/period-engine/timesheet"
)

// ErrCommitFailed wraps any persistence failure during commit.
var ErrCommitFailed = errors.New("period insert commit failed")

// =============================================================================
// COMMITTER - Persist one entry per valid day
// =============================================================================

// Committer materializes and persists the entries of a validated spec, in
// ascending day order. The atomic policy pre-validates every entry and writes
// them in a single batch; best-effort persists each entry independently and
// logs past failures.
type Committer struct {
	Sink   timesheet.EntrySink
	Rates  timesheet.RateCalculator
	Policy timesheet.CommitPolicy
}

// Commit persists the spec's valid days. The spec must have been validated:
// commit trusts ValidDays and the resolved billable flag.
func (c *Committer) Commit(ctx context.Context, spec *Spec) error {
	entries := make([]*timesheet.Entry, 0, len(spec.ValidDays()))
	for _, day := range spec.ValidDays() {
		entry := Materialize(spec, day)
		if c.Rates != nil {
			entry.Rate = c.Rates.Calculate(entry)
		}
		entries = append(entries, entry)
	}

	if c.Policy == timesheet.CommitBestEffort {
		return c.commitBestEffort(ctx, entries)
	}
	return c.commitAtomic(ctx, entries)
}

// commitAtomic validates every entry before saving any; a single failure
// aborts with zero side effects.
func (c *Committer) commitAtomic(ctx context.Context, entries []*timesheet.Entry) error {
	for _, entry := range entries {
		if err := c.Sink.Validate(ctx, entry); err != nil {
			return fmt.Errorf("%w: entry on %s rejected: %v", ErrCommitFailed, formatDate(entry.Begin), err)
		}
	}
	if err := c.Sink.SaveBatch(ctx, entries); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}

// commitBestEffort keeps going past per-entry failures, logging each one.
func (c *Committer) commitBestEffort(ctx context.Context, entries []*timesheet.Entry) error {
	for _, entry := range entries {
		if err := c.Sink.Validate(ctx, entry); err != nil {
			log.Printf("period insert: skipping entry on %s: %v", formatDate(entry.Begin), err)
			continue
		}
		if err := c.Sink.Save(ctx, entry); err != nil {
			log.Printf("period insert: failed to save entry on %s: %v", formatDate(entry.Begin), err)
		}
	}
	return nil
}
