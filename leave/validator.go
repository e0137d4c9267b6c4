package leave

import (
	"fmt"

	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/org"
)

// Creation-time validation, split into the independent rule groups of
// the request contract. Each function only appends violations; the
// service collects them so the caller sees every problem at once.

// validateDateShape checks the rules the others depend on: both dates
// present, correctly ordered, and inside the allowed window (no
// retroactive requests, nothing beyond next year).
func validateDateShape(today, start, end calendar.Date) ValidationErrors {
	var errs ValidationErrors

	if start.IsZero() {
		errs = append(errs, ValidationError{Field: "start_date", Rule: RuleDatesRequired, Message: "start date is required"})
	}
	if end.IsZero() {
		errs = append(errs, ValidationError{Field: "end_date", Rule: RuleDatesRequired, Message: "end date is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	if end.Before(start) {
		return ValidationErrors{{Field: "end_date", Rule: RuleDateOrder, Message: "end date is before start date"}}
	}

	horizon := today.AddYears(1)
	endHorizon := calendar.EndOfYear(today.Year() + 1)

	if start.Before(today) {
		errs = append(errs, ValidationError{Field: "start_date", Rule: RuleDateBounds, Message: "start date is in the past"})
	} else if start.After(horizon) {
		errs = append(errs, ValidationError{Field: "start_date", Rule: RuleDateBounds, Message: fmt.Sprintf("start date is more than a year ahead (after %s)", horizon)})
	}
	if end.Before(today) {
		errs = append(errs, ValidationError{Field: "end_date", Rule: RuleDateBounds, Message: "end date is in the past"})
	} else if end.After(endHorizon) {
		errs = append(errs, ValidationError{Field: "end_date", Rule: RuleDateBounds, Message: fmt.Sprintf("end date is beyond %s", endHorizon)})
	}
	return errs
}

// validateWorkingDays checks that the range contains working days at
// all, and that both endpoints are themselves working days for the
// requester.
func validateWorkingDays(p calendar.Period, workingDates []calendar.Date) ValidationErrors {
	var errs ValidationErrors

	if len(workingDates) == 0 {
		return ValidationErrors{{Field: "start_date", Rule: RuleNoWorkingDays, Message: "the selected range contains no working days"}}
	}

	onDay := make(map[calendar.Date]bool, len(workingDates))
	for _, d := range workingDates {
		onDay[d] = true
	}
	if !onDay[p.Start] {
		errs = append(errs, ValidationError{Field: "start_date", Rule: RuleNonWorkingDay, Message: fmt.Sprintf("%s is not a working day", p.Start)})
	}
	if !onDay[p.End] {
		errs = append(errs, ValidationError{Field: "end_date", Rule: RuleNonWorkingDay, Message: fmt.Sprintf("%s is not a working day", p.End)})
	}
	return errs
}

// validatePolicy enforces the company-level limits: per-request day cap
// and the minimum notice period.
func validatePolicy(company *org.Company, today, start calendar.Date, requestedDays int) ValidationErrors {
	var errs ValidationErrors

	if company.MaximumLeaveDaysPerRequest > 0 && requestedDays > company.MaximumLeaveDaysPerRequest {
		errs = append(errs, ValidationError{
			Field:   "end_date",
			Rule:    RuleMaxDaysPerRequest,
			Message: fmt.Sprintf("%d working days requested, at most %d allowed per request", requestedDays, company.MaximumLeaveDaysPerRequest),
		})
	}

	if company.MinimumLeaveNotice > 0 {
		earliest := today.AddDays(company.MinimumLeaveNotice)
		if start.Before(earliest) {
			errs = append(errs, ValidationError{
				Field:   "start_date",
				Rule:    RuleNoticePeriod,
				Message: fmt.Sprintf("requests need %d days notice (earliest start %s)", company.MinimumLeaveNotice, earliest),
			})
		}
	}
	return errs
}

// validateBalance checks the requested days against the bucket selected
// by the year split.
func validateBalance(e *org.Employee, bucket Bucket, requestedDays int) *ValidationError {
	available := e.RemainingLeaveDays
	label := "this year"
	if bucket == BucketNextYear {
		available = e.NextYearLeaveDays
		label = "next year"
	}
	if requestedDays > available {
		return &ValidationError{
			Field:   "start_date",
			Rule:    RuleInsufficientBalance,
			Message: fmt.Sprintf("%d working days requested but only %d remaining %s", requestedDays, available, label),
		}
	}
	return nil
}
