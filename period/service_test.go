/*
service_test.go - End-to-end submission and commit-policy tests

Drives Submit through the real validator, expander and committer, with an
in-memory sink standing in for storage.
*/
package period_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/timesheet"
)

// fakeSink records what the committer hands it. Days listed in reject fail
// sink validation; days listed in failSave fail persistence.
type fakeSink struct {
	saved    []*timesheet.Entry
	batches  int
	reject   map[string]bool
	failSave map[string]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{reject: map[string]bool{}, failSave: map[string]bool{}}
}

func (s *fakeSink) Validate(ctx context.Context, entry *timesheet.Entry) error {
	if s.reject[timesheet.DateKey(entry.Begin)] {
		return errors.New("entity constraint violated")
	}
	return nil
}

func (s *fakeSink) Save(ctx context.Context, entry *timesheet.Entry) error {
	if s.failSave[timesheet.DateKey(entry.Begin)] {
		return errors.New("write failed")
	}
	s.saved = append(s.saved, entry)
	return nil
}

func (s *fakeSink) SaveBatch(ctx context.Context, entries []*timesheet.Entry) error {
	s.batches++
	s.saved = append(s.saved, entries...)
	return nil
}

func (e *env) service(sink timesheet.EntrySink, policy timesheet.CommitPolicy) *period.Service {
	return &period.Service{
		Config:    e.cfg,
		Validator: e.validator(),
		Committer: &period.Committer{Sink: sink, Rates: e.rates, Policy: policy},
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_WeekdayPatternCreatesOneEntryPerValidDay(t *testing.T) {
	// GIVEN a Monday-to-Sunday range with only weekdays selected
	e := newEnv()
	sink := newFakeSink()
	spec := testSpec()
	spec.SetDateRange(date(2024, time.June, 10), date(2024, time.June, 16))
	spec.SetWeekday(time.Saturday, false)
	spec.SetWeekday(time.Sunday, false)

	// WHEN submitting
	res, err := e.service(sink, timesheet.CommitAtomic).Submit(context.Background(), spec)
	require.NoError(t, err)
	require.False(t, res.HasViolations())

	// THEN five entries land in one batch, billable, one hour each
	assert.Equal(t, 1, sink.batches)
	require.Len(t, sink.saved, 5)
	for _, entry := range sink.saved {
		assert.True(t, entry.Billable)
		assert.Equal(t, int64(3600), entry.Duration)
		assert.Equal(t, timesheet.UserID("anna"), entry.User)
		assert.Equal(t, 9, entry.Begin.Hour())
		assert.Equal(t, entry.Begin.Add(time.Hour), entry.End)
	}
	assert.Equal(t, "2024-06-10", timesheet.DateKey(sink.saved[0].Begin))
	assert.Equal(t, "2024-06-14", timesheet.DateKey(sink.saved[4].Begin))
}

func TestSubmit_ViolationsPreventPersistence(t *testing.T) {
	e := newEnv()
	sink := newFakeSink()
	spec := testSpec()
	spec.SetDuration(0)

	res, err := e.service(sink, timesheet.CommitAtomic).Submit(context.Background(), spec)
	require.NoError(t, err)

	assert.True(t, res.HasCode(period.CodeZeroDuration))
	assert.Empty(t, sink.saved)
}

func TestSubmit_DefaultBeginTimeApplied(t *testing.T) {
	// GIVEN no begin time on the spec and a configured default of 08:00
	e := newEnv()
	sink := newFakeSink()
	spec := testSpec()
	specWithoutTime := period.NewSpec(testUser())
	specWithoutTime.SetDateRange(spec.Begin(), spec.End())
	specWithoutTime.SetDuration(3600)
	specWithoutTime.Project = spec.Project
	specWithoutTime.Activity = spec.Activity

	_, err := e.service(sink, timesheet.CommitAtomic).Submit(context.Background(), specWithoutTime)
	require.NoError(t, err)

	require.NotEmpty(t, sink.saved)
	assert.Equal(t, 8, sink.saved[0].Begin.Hour())
	assert.Equal(t, 0, sink.saved[0].Begin.Minute())
}

func TestSubmit_LockedBeginTimeOverridesUserChoice(t *testing.T) {
	// When the tracking mode forbids editing the begin time, the configured
	// default replaces whatever the user picked.
	e := newEnv()
	e.cfg.AllowEditBegin = false
	e.cfg.DefaultBeginTime = "07:30"
	sink := newFakeSink()
	spec := testSpec() // user picked 09:00

	_, err := e.service(sink, timesheet.CommitAtomic).Submit(context.Background(), spec)
	require.NoError(t, err)

	require.NotEmpty(t, sink.saved)
	assert.Equal(t, 7, sink.saved[0].Begin.Hour())
	assert.Equal(t, 30, sink.saved[0].Begin.Minute())
}

func TestSubmit_BillableModeNoProducesNonBillableEntries(t *testing.T) {
	e := newEnv()
	sink := newFakeSink()
	spec := testSpec()
	spec.BillableMode = timesheet.BillableNo
	spec.Billable = true // stale value, Submit must re-derive

	_, err := e.service(sink, timesheet.CommitAtomic).Submit(context.Background(), spec)
	require.NoError(t, err)

	require.NotEmpty(t, sink.saved)
	for _, entry := range sink.saved {
		assert.False(t, entry.Billable)
	}
}

// =============================================================================
// COMMIT POLICIES
// =============================================================================

func TestSubmit_AtomicCommitAbortsWithoutSideEffects(t *testing.T) {
	// GIVEN a sink that rejects the Wednesday entry
	e := newEnv()
	sink := newFakeSink()
	sink.reject["2024-06-12"] = true
	spec := testSpec()

	// WHEN submitting atomically
	_, err := e.service(sink, timesheet.CommitAtomic).Submit(context.Background(), spec)

	// THEN the commit fails and nothing was saved
	require.Error(t, err)
	assert.ErrorIs(t, err, period.ErrCommitFailed)
	assert.Empty(t, sink.saved)
	assert.Zero(t, sink.batches)
}

func TestSubmit_BestEffortKeepsGoingPastFailures(t *testing.T) {
	// GIVEN one rejected and one unsavable day out of five
	e := newEnv()
	sink := newFakeSink()
	sink.reject["2024-06-12"] = true
	sink.failSave["2024-06-13"] = true
	spec := testSpec()

	res, err := e.service(sink, timesheet.CommitBestEffort).Submit(context.Background(), spec)
	require.NoError(t, err)
	assert.False(t, res.HasViolations())

	// THEN the three remaining days were saved individually
	require.Len(t, sink.saved, 3)
	assert.Zero(t, sink.batches)
	for _, entry := range sink.saved {
		key := timesheet.DateKey(entry.Begin)
		assert.NotEqual(t, "2024-06-12", key)
		assert.NotEqual(t, "2024-06-13", key)
	}
}

// =============================================================================
// PREVIEW
// =============================================================================

func TestPreview_ListsDaysWithoutPersisting(t *testing.T) {
	e := newEnv()
	sink := newFakeSink()
	spec := testSpec()

	days, err := e.service(sink, timesheet.CommitAtomic).Preview(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14",
	}, days)
	assert.Empty(t, sink.saved)
}
