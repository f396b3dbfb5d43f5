package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
	"github.com/warp/period-engine/timesheet"
)

// newTestHandler wires the full stack against an in-memory database.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	catalog := timesheet.NewMemoryCatalog()
	customer := &timesheet.Customer{ID: "acme", Name: "ACME", Currency: "EUR", Visible: true, Billable: true}
	project := &timesheet.Project{ID: "website", Name: "Website", Customer: customer, Visible: true, Billable: true, GlobalActivities: true}
	activity := &timesheet.Activity{ID: "dev", Name: "Development", Visible: true, Billable: true, Project: mo.Some(project)}
	catalog.Users["anna"] = &timesheet.User{ID: "anna", Name: "Anna", Locale: "en"}
	catalog.Projects["website"] = project
	catalog.Activities["dev"] = activity

	cfg := timesheet.DefaultConfig()
	rates := timesheet.DefaultRateCalculator{}
	formatter := timesheet.PlainFormatter{}

	service := &period.Service{
		Config: cfg,
		Validator: &period.Validator{
			Config: cfg,
			Expander: &period.Expander{
				Config:   cfg,
				Calendar: timesheet.WeekdayCalendar{},
				Absences: store,
			},
			Overlaps:    store,
			Budgets:     store,
			Rates:       rates,
			Permissions: timesheet.AllowAllPermissions{},
			Money:       formatter,
			Durations:   formatter,
		},
		Committer: &period.Committer{Sink: store, Rates: rates, Policy: cfg.CommitPolicy},
	}

	return NewHandler(service, catalog)
}

func postJSON(t *testing.T, handler http.HandlerFunc, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSubmitPeriodInsert_CreatesEntries(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.SubmitPeriodInsert, PeriodInsertDTO{
		User:      "anna",
		Begin:     "2024-06-10",
		End:       "2024-06-16",
		BeginTime: "09:00",
		Duration:  3600,
		Project:   "website",
		Activity:  "dev",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SubmitResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Entries)
	assert.Equal(t, []string{
		"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14",
	}, resp.ValidDays)
}

func TestSubmitPeriodInsert_ReturnsViolations(t *testing.T) {
	h := newTestHandler(t)

	// No date range: validation fails before anything touches storage.
	rec := postJSON(t, h.SubmitPeriodInsert, PeriodInsertDTO{
		User:     "anna",
		Duration: 3600,
		Project:  "website",
		Activity: "dev",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ViolationsResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, period.CodeMissingTimeRange, resp.Violations[0].Code)
}

func TestSubmitPeriodInsert_UnknownUser(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.SubmitPeriodInsert, PeriodInsertDTO{
		User:  "nobody",
		Begin: "2024-06-10",
		End:   "2024-06-14",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown user")
}

func TestSubmitPeriodInsert_MalformedJSON(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.SubmitPeriodInsert(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewPeriodInsert_ListsDays(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.PreviewPeriodInsert, PeriodInsertDTO{
		User:     "anna",
		Begin:    "2024-06-10",
		End:      "2024-06-16",
		Duration: 3600,
		Project:  "website",
		Activity: "dev",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PreviewResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.ValidDays, 5)
}
