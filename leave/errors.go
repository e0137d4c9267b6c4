package leave

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by store implementations when a request or
// absence lookup misses; match with errors.Is.
var ErrNotFound = errors.New("not found")

// =============================================================================
// VALIDATION ERRORS - User-correctable, collected not short-circuited
// =============================================================================

// Rule identifies which validation rule a violation belongs to, so the
// rendering layer can attach it to the right form field.
type Rule string

const (
	RuleDatesRequired       Rule = "dates_required"
	RuleDateOrder           Rule = "date_order"
	RuleDateBounds          Rule = "date_bounds"
	RuleNoWorkingDays       Rule = "no_working_days"
	RuleOverlap             Rule = "overlap"
	RuleMaxDaysPerRequest   Rule = "max_days_per_request"
	RuleNonWorkingDay       Rule = "non_working_day"
	RuleNoticePeriod        Rule = "notice_period"
	RuleInsufficientBalance Rule = "insufficient_balance"
	RuleReviewReason        Rule = "review_reason_required"
	RuleActorCannotReview   Rule = "actor_cannot_review"
	RuleAbsenceType         Rule = "absence_type"
)

type ValidationError struct {
	Field   string
	Rule    Rule
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every independent violation found on one
// request so the caller can report them together.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a violation of the given rule was collected.
func (e ValidationErrors) Has(rule Rule) bool {
	for _, v := range e {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// =============================================================================
// STATE ERROR - Illegal status transition
// =============================================================================

type StateError struct {
	RequestID string
	Current   Status
	Action    Action
}

func (e *StateError) Error() string {
	return fmt.Sprintf("request %s: cannot %s a %s request", e.RequestID, e.Action, e.Current)
}
