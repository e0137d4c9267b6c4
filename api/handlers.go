/*
handlers.go - HTTP handlers for the rotation and leave engine

ENDPOINTS:
  Working-day queries:
    GET    /api/employees/{id}/working-days?start=&end=
    GET    /api/employees/{id}/days-off?start=&end=

  Leave requests:
    POST   /api/employees/{id}/requests
    POST   /api/requests/{id}/approve
    POST   /api/requests/{id}/deny
    POST   /api/requests/{id}/cancel

  Absences:
    POST   /api/employees/{id}/absences
    DELETE /api/absences/{id}

  Shifts:
    POST   /api/shifts
    POST   /api/shifts/{id}/blocks
    POST   /api/shifts/{id}/regenerate?full=true|false

ERROR MAPPING:
  Validation errors      -> 400 with per-field details
  Illegal transitions    -> 409 naming the current status
  Missing entities       -> 404
  Integrity errors       -> 422 (bad shift configuration)
  Everything else        -> 500

SIDE EFFECTS:
  Mutating operations return post-commit hooks; handlers run them
  asynchronously after responding, so notification latency or failure
  never affects the request that triggered them.
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/leave"
	"github.com/warp/rota-engine/org"
	"github.com/warp/rota-engine/shift"
	"github.com/warp/rota-engine/workday"
)

// Handler holds the engine services the HTTP layer delegates to.
type Handler struct {
	Workdays  *workday.Service
	Leave     *leave.Service
	Generator *shift.Generator
	Shifts    shift.Store
	Log       *logrus.Logger
}

func NewHandler(workdays *workday.Service, leaveSvc *leave.Service, generator *shift.Generator, shifts shift.Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{Workdays: workdays, Leave: leaveSvc, Generator: generator, Shifts: shifts, Log: log}
}

// =============================================================================
// WORKING-DAY QUERIES
// =============================================================================

func (h *Handler) GetWorkingDays(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	dates, err := h.Workdays.WorkingDates(r.Context(), employeeID, period)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	schedule, err := h.Workdays.WorkingHours(r.Context(), employeeID, period)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	scheduleDTOs := make([]dayScheduleDTO, len(schedule))
	for i, s := range schedule {
		scheduleDTOs[i] = dayScheduleDTO{
			Date:  s.Date.String(),
			Start: s.Start,
			End:   s.End,
			Hours: s.Hours.String(),
		}
	}

	writeJSON(w, http.StatusOK, workingDaysDTO{
		EmployeeID: employeeID,
		Start:      period.Start.String(),
		End:        period.End.String(),
		Dates:      formatDates(dates),
		Count:      len(dates),
		Schedule:   scheduleDTOs,
	})
}

func (h *Handler) GetDaysOff(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	dates, err := h.Workdays.DaysOff(r.Context(), employeeID, period)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, daysOffDTO{
		EmployeeID: employeeID,
		Start:      period.Start.String(),
		End:        period.End.String(),
		Dates:      formatDates(dates),
		Count:      len(dates),
	})
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var dto createLeaveRequestDTO
	if !h.decode(w, r, &dto) {
		return
	}
	start, _ := calendar.ParseDate(dto.StartDate)
	end, _ := calendar.ParseDate(dto.EndDate)

	request, hooks, err := h.Leave.CreateRequest(r.Context(), employeeID, start, end, dto.Reason)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.runHooks(hooks)
	writeJSON(w, http.StatusCreated, requestToDTO(request))
}

func (h *Handler) TransitionRequest(action leave.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := chi.URLParam(r, "id")

		var dto transitionDTO
		if !h.decode(w, r, &dto) {
			return
		}

		request, hooks, err := h.Leave.Transition(r.Context(), requestID, action, dto.ActorID, dto.ReviewReason)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		h.runHooks(hooks)
		writeJSON(w, http.StatusOK, requestToDTO(request))
	}
}

// =============================================================================
// ABSENCES
// =============================================================================

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var dto createAbsenceDTO
	if !h.decode(w, r, &dto) {
		return
	}
	start, _ := calendar.ParseDate(dto.StartDate)
	end, _ := calendar.ParseDate(dto.EndDate)

	absence, err := h.Leave.RecordAbsence(r.Context(), employeeID, leave.AbsenceType(dto.Type), start, end, dto.Notes)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, absenceDTO{
		ID:            absence.ID,
		EmployeeID:    absence.EmployeeID,
		Type:          string(absence.Type),
		StartDate:     absence.Start.String(),
		EndDate:       absence.End.String(),
		Notes:         absence.Notes,
		DaysOfAbsence: absence.DaysOfAbsence,
	})
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.Leave.DeleteAbsence(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SHIFTS
// =============================================================================

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var dto createShiftDTO
	if !h.decode(w, r, &dto) {
		return
	}
	startDate, _ := calendar.ParseDate(dto.StartDate)

	sh := &shift.Shift{
		ID:            uuid.NewString(),
		CompanyID:     dto.CompanyID,
		Name:          dto.Name,
		Description:   dto.Description,
		StartDate:     startDate,
		RotationWeeks: dto.RotationWeeks,
	}
	if err := sh.Validate(); err != nil {
		h.writeDomainError(w, err)
		return
	}
	if err := h.Shifts.SaveShift(r.Context(), sh); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sh.ID})
}

func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")

	var dto createBlockDTO
	if !h.decode(w, r, &dto) {
		return
	}
	startMinute, err := parseClock(dto.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time")
		return
	}
	endMinute, err := parseClock(dto.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_time")
		return
	}

	block := &shift.Block{
		ID:          uuid.NewString(),
		ShiftID:     shiftID,
		Order:       dto.Order,
		WeekDays:    isoWeekdays(dto.WeekDays),
		DaysOn:      dto.DaysOn,
		DaysOff:     dto.DaysOff,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}
	// Mode exclusivity is enforced at save time, never silently resolved.
	if err := block.Normalize(); err != nil {
		h.writeDomainError(w, err)
		return
	}
	if err := h.Shifts.SaveBlock(r.Context(), block); err != nil {
		h.writeDomainError(w, err)
		return
	}

	// A block mutation invalidates the shift's materialized calendar;
	// rebuild it from the rotation start so the new cadence is queryable
	// immediately instead of waiting for the next scheduled run.
	if _, err := h.Generator.Generate(r.Context(), shiftID, true); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": block.ID})
}

func (h *Handler) RegenerateShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	full := r.URL.Query().Get("full") == "true"

	result, err := h.Generator.Generate(r.Context(), shiftID, full)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generationResultDTO{
		ShiftID:    result.ShiftID,
		From:       result.From.String(),
		To:         result.To.String(),
		DatesAdded: result.DatesAdded,
		Full:       result.Full,
	})
}

// =============================================================================
// PLUMBING
// =============================================================================

func (h *Handler) parsePeriod(w http.ResponseWriter, r *http.Request) (calendar.Period, bool) {
	start, err := calendar.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing start (want YYYY-MM-DD)")
		return calendar.Period{}, false
	}
	end, err := calendar.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing end (want YYYY-MM-DD)")
		return calendar.Period{}, false
	}
	period, err := calendar.NewPeriod(start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return calendar.Period{}, false
	}
	return period, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dto any) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dto); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]fieldErrorDTO, len(invalid))
			for i, fe := range invalid {
				fields[i] = fieldErrorDTO{
					Field:   strings.ToLower(fe.Field()),
					Rule:    fe.Tag(),
					Message: fe.Error(),
				}
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// runHooks executes post-commit side effects out-of-band. The response
// has already been decided; hook failures are logged inside the hooks.
func (h *Handler) runHooks(hooks []leave.Hook) {
	if len(hooks) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, hook := range hooks {
			hook(ctx)
		}
	}()
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var validationErrs leave.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]fieldErrorDTO, len(validationErrs))
		for i, v := range validationErrs {
			fields[i] = fieldErrorDTO{Field: v.Field, Rule: string(v.Rule), Message: v.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	var stateErr *leave.StateError
	if errors.As(err, &stateErr) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: stateErr.Error()})
		return
	}

	var integrityErr *shift.DataIntegrityError
	if errors.As(err, &integrityErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: integrityErr.Error()})
		return
	}

	if errors.Is(err, shift.ErrBlockModeConflict) || errors.Is(err, shift.ErrBlockModeMissing) ||
		errors.Is(err, shift.ErrRotationBounds) || errors.Is(err, calendar.ErrInvalidPeriod) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, shift.ErrShiftNotFound) || errors.Is(err, org.ErrNotFound) || errors.Is(err, leave.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.Log.WithError(err).Error("internal error")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func requestToDTO(r *leave.Request) leaveRequestDTO {
	return leaveRequestDTO{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		StartDate:     r.Start.String(),
		EndDate:       r.End.String(),
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewerID:    r.ReviewerID,
		ReviewedBy:    r.ReviewedBy,
		ReviewReason:  r.ReviewReason,
		DaysRequested: r.DaysRequested,
		Bucket:        string(r.Bucket),
	}
}

func isoWeekdays(iso []int) []time.Weekday {
	out := make([]time.Weekday, 0, len(iso))
	for _, n := range iso {
		// ISO Monday=1..Sunday=7 -> time.Weekday Sunday=0..Saturday=6
		out = append(out, time.Weekday(n%7))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
