/*
Package leave implements the request validator and balance engine.

A leave request is an approval-gated day-range debit against the
requester's annual balance. The lifecycle is a small state machine:

	pending --approve--> approved
	pending --deny-----> denied          (review reason mandatory)
	pending --cancel---> cancelled
	approved --cancel--> cancelled

denied and cancelled are terminal. The balance is debited at creation
(holding the days), and credited back when the request is denied or
cancelled.

YEAR SPLIT:
  Balances are split at the calendar-year boundary into a current and a
  next-year bucket. A request is charged wholly to the bucket selected
  by its start date's year. See DESIGN.md for the year-boundary note.

SIDE EFFECTS:
  Mutations return post-commit hooks instead of dispatching
  notifications themselves; the orchestrating layer runs the hooks after
  the transaction succeeds, and their failure never unwinds the core
  operation.
*/
package leave

import (
	"context"
	"time"

	"github.com/warp/rota-engine/calendar"
)

// =============================================================================
// STATUS / ACTION - The request state machine vocabulary
// =============================================================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusDenied || s == StatusCancelled
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
	ActionCancel  Action = "cancel"
)

// =============================================================================
// BALANCE BUCKET - Which year's balance a request is charged to
// =============================================================================

type Bucket string

const (
	BucketCurrentYear Bucket = "current_year"
	BucketNextYear    Bucket = "next_year"
)

// =============================================================================
// REQUEST
// =============================================================================

type Request struct {
	ID         string
	EmployeeID string
	CompanyID  string

	Start  calendar.Date
	End    calendar.Date
	Reason string

	Status Status

	// Reviewer is resolved at creation from the requester's
	// team → department → company approver chain. ReviewedBy records who
	// actually acted on the request.
	ReviewerID   string
	ReviewedBy   string
	ReviewReason string

	// DaysRequested is computed once at creation from the working-day
	// calendar and cached; Bucket records which balance it was debited
	// from so the credit on deny/cancel hits the same one.
	DaysRequested int
	Bucket        Bucket

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Request) Period() calendar.Period {
	return calendar.Period{Start: r.Start, End: r.End}
}

// Blocking reports whether this request occupies its date range for
// overlap detection. Denied and cancelled requests release their range.
func (r *Request) Blocking() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// =============================================================================
// ABSENCE - Retrospective record, no approval workflow
// =============================================================================

type AbsenceType string

const (
	AbsenceSick     AbsenceType = "sick"
	AbsencePersonal AbsenceType = "personal"
	AbsenceUnpaid   AbsenceType = "unpaid"
	AbsenceOther    AbsenceType = "other"
)

func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceSick, AbsencePersonal, AbsenceUnpaid, AbsenceOther:
		return true
	}
	return false
}

type Absence struct {
	ID         string
	EmployeeID string
	Type       AbsenceType
	Start      calendar.Date
	End        calendar.Date
	Notes      string

	// DaysOfAbsence is computed the same way as Request.DaysRequested.
	DaysOfAbsence int

	CreatedAt time.Time
}

// =============================================================================
// STORES - Persistence consumed by the leave engine
// =============================================================================

type RequestStore interface {
	CreateRequest(ctx context.Context, r *Request) error
	Request(ctx context.Context, id string) (*Request, error)
	UpdateRequest(ctx context.Context, r *Request) error

	// RequestsInRange returns the employee's requests whose [Start, End]
	// overlaps the period (inclusive test), regardless of status.
	RequestsInRange(ctx context.Context, employeeID string, p calendar.Period) ([]*Request, error)

	CreateAbsence(ctx context.Context, a *Absence) error
	Absence(ctx context.Context, id string) (*Absence, error)
	DeleteAbsence(ctx context.Context, id string) error
}

// BalanceStore applies balance deltas as atomic read-modify-writes at
// the storage layer, never read-then-write-separately, so concurrent
// requests for one employee cannot lose updates.
type BalanceStore interface {
	AdjustLeaveBalance(ctx context.Context, employeeID string, bucket Bucket, deltaDays int) error
}

// =============================================================================
// NOTIFICATIONS - Fire-and-forget side effects
// =============================================================================

type NotificationKind string

const (
	NotifyRequestCreated  NotificationKind = "request_created"
	NotifyRequestReviewed NotificationKind = "request_reviewed"
)

type Notification struct {
	Kind       NotificationKind
	EmployeeID string // recipient
	RequestID  string
	Status     Status
	Message    string
}

// Notifier delivers a notification. Implementations may be slow or
// flaky; the engine only ever invokes them through post-commit hooks.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Hook is a post-commit side effect. The caller runs hooks after the
// mutating operation has succeeded; hook failures are logged by the
// hook itself and never propagate.
type Hook func(ctx context.Context)
