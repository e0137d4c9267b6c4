package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/rota-engine/calendar"
)

// DTO validation uses go-playground/validator; struct tags carry the
// declarative rules, semantic validation stays in the domain packages.
var validate = validator.New()

// =============================================================================
// REQUESTS
// =============================================================================

type createLeaveRequestDTO struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=500"`
}

type transitionDTO struct {
	ActorID      string `json:"actor_id" validate:"required"`
	ReviewReason string `json:"review_reason" validate:"max=500"`
}

type createShiftDTO struct {
	CompanyID     string `json:"company_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=500"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	RotationWeeks int    `json:"rotation_weeks" validate:"required,min=1,max=52"`
}

type createBlockDTO struct {
	Order int `json:"order"`

	// ISO weekday numbers, Monday=1 .. Sunday=7. Mutually exclusive with
	// the cycle fields; the block save enforces that.
	WeekDays []int `json:"week_days" validate:"omitempty,dive,min=1,max=7"`

	DaysOn  int `json:"days_on" validate:"min=0"`
	DaysOff int `json:"days_off" validate:"min=0"`

	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type createAbsenceDTO struct {
	Type      string `json:"type" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Notes     string `json:"notes" validate:"max=500"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type workingDaysDTO struct {
	EmployeeID string           `json:"employee_id"`
	Start      string           `json:"start"`
	End        string           `json:"end"`
	Dates      []string         `json:"dates"`
	Count      int              `json:"count"`
	Schedule   []dayScheduleDTO `json:"schedule,omitempty"`
}

type dayScheduleDTO struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Hours string `json:"hours"`
}

type daysOffDTO struct {
	EmployeeID string   `json:"employee_id"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Dates      []string `json:"dates"`
	Count      int      `json:"count"`
}

type leaveRequestDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	ReviewerID    string `json:"reviewer_id,omitempty"`
	ReviewedBy    string `json:"reviewed_by,omitempty"`
	ReviewReason  string `json:"review_reason,omitempty"`
	DaysRequested int    `json:"days_requested"`
	Bucket        string `json:"bucket"`
}

type absenceDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	Type          string `json:"type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Notes         string `json:"notes,omitempty"`
	DaysOfAbsence int    `json:"days_of_absence"`
}

type generationResultDTO struct {
	ShiftID    string `json:"shift_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	DatesAdded int    `json:"dates_added"`
	Full       bool   `json:"full"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string          `json:"error"`
	Fields []fieldErrorDTO `json:"fields,omitempty"`
}

// =============================================================================
// HELPERS
// =============================================================================

func formatDates(dates []calendar.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
