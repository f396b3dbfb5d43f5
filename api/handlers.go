/*
handlers.go - HTTP handlers for the period-insert engine

ENDPOINTS:
  POST /api/period-insert          Submit a period insert
  POST /api/period-insert/preview  Expand without validating or committing

ERROR HANDLING:
  - 201: batch committed
  - 400: malformed payload, or validation failed (violations in body)
  - 500: infrastructure failure (storage, lookups)

SEE ALSO:
  - dto.go: payloads and the DTO-to-Spec conversion
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/timesheet"
)

// Handler holds the dependencies of the HTTP layer.
type Handler struct {
	Service *period.Service
	Catalog timesheet.Catalog
}

func NewHandler(service *period.Service, catalog timesheet.Catalog) *Handler {
	return &Handler{Service: service, Catalog: catalog}
}

// SubmitPeriodInsert runs one period insert end to end.
func (h *Handler) SubmitPeriodInsert(w http.ResponseWriter, r *http.Request) {
	var dto PeriodInsertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", err)
		return
	}

	spec, err := toSpec(&dto, h.Catalog)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period insert", err)
		return
	}

	res, err := h.Service.Submit(r.Context(), spec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "period insert failed", err)
		return
	}
	if res.HasViolations() {
		writeJSON(w, http.StatusBadRequest, ViolationsResponseDTO{Violations: res.Violations()})
		return
	}

	days := make([]string, 0, len(spec.ValidDays()))
	for _, d := range spec.ValidDays() {
		days = append(days, timesheet.DateKey(d))
	}
	writeJSON(w, http.StatusCreated, SubmitResponseDTO{ValidDays: days, Entries: len(days)})
}

// PreviewPeriodInsert expands the pattern and returns the day list.
func (h *Handler) PreviewPeriodInsert(w http.ResponseWriter, r *http.Request) {
	var dto PeriodInsertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", err)
		return
	}

	spec, err := toSpec(&dto, h.Catalog)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period insert", err)
		return
	}

	days, err := h.Service.Preview(r.Context(), spec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "preview failed", err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponseDTO{ValidDays: days})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
