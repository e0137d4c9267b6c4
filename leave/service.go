package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/org"
)

// WorkdaySource is the slice of the working-day query service the
// validator consumes (rules 3, 5, 6 and 8 all derive from it).
type WorkdaySource interface {
	WorkingDates(ctx context.Context, employeeID string, p calendar.Period) ([]calendar.Date, error)
}

// =============================================================================
// SERVICE - Request lifecycle and balance mutation
// =============================================================================

// Service orchestrates request creation, review transitions, balance
// debits/credits and absence records.
//
// CONCURRENCY:
//
//	Overlap detection plus balance debit form one logical transaction
//	per requester: a per-employee mutex serializes creations, so between
//	checking for overlaps and committing the new request no other
//	request for the same requester can slip in. Balance deltas
//	themselves are atomic increments at the storage layer.
type Service struct {
	Org      org.Directory
	Requests RequestStore
	Balances BalanceStore
	Workdays WorkdaySource
	Notifier Notifier
	Log      *logrus.Logger

	// Clock returns "today"; overridable in tests. Defaults to
	// calendar.Today.
	Clock func() calendar.Date

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(dir org.Directory, requests RequestStore, balances BalanceStore, workdays WorkdaySource, notifier Notifier, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		Org:      dir,
		Requests: requests,
		Balances: balances,
		Workdays: workdays,
		Notifier: notifier,
		Log:      log,
		Clock:    calendar.Today,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) employeeLock(employeeID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[employeeID] = l
	}
	return l
}

// bucketFor selects which year's balance a request starting on start is
// charged to. The whole request is charged to this one bucket, keyed by
// the start date's year.
func bucketFor(today, start calendar.Date) Bucket {
	if start.Year() > today.Year() {
		return BucketNextYear
	}
	return BucketCurrentYear
}

func (s *Service) notifyHook(n Notification) Hook {
	return func(ctx context.Context) {
		if s.Notifier == nil {
			return
		}
		if err := s.Notifier.Notify(ctx, n); err != nil {
			// Transient by taxonomy: logged, never propagated.
			s.Log.WithFields(logrus.Fields{
				"kind":    string(n.Kind),
				"request": n.RequestID,
				"to":      n.EmployeeID,
			}).WithError(err).Warn("notification dispatch failed")
		}
	}
}

// =============================================================================
// CREATION
// =============================================================================

// CreateRequest validates and records a new leave request for the
// requester, debiting the appropriate balance immediately.
//
// Violations of independent rules are collected into a single
// ValidationErrors value rather than reported one at a time.
//
// The returned hooks notify the requester and the resolved reviewer;
// the caller runs them after the operation has committed.
func (s *Service) CreateRequest(ctx context.Context, employeeID string, start, end calendar.Date, reason string) (*Request, []Hook, error) {
	employee, err := s.Org.Employee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.Org.Company(ctx, employee.CompanyID)
	if err != nil {
		return nil, nil, err
	}

	today := s.Clock()

	// Date-shape rules come first: the remaining rules all assume a
	// well-formed range and cannot be evaluated without one.
	if errs := validateDateShape(today, start, end); len(errs) > 0 {
		return nil, nil, errs
	}
	period := calendar.Period{Start: start, End: end}

	workingDates, err := s.Workdays.WorkingDates(ctx, employeeID, period)
	if err != nil {
		return nil, nil, err
	}
	requestedDays := len(workingDates)

	var errs ValidationErrors
	errs = append(errs, validateWorkingDays(period, workingDates)...)
	errs = append(errs, validatePolicy(company, today, start, requestedDays)...)

	bucket := bucketFor(today, start)

	// Overlap detection, the balance sufficiency check and the debit
	// share one per-requester critical section (see the type comment).
	// The balance is re-read under the lock: a snapshot from before it
	// could have been debited by a concurrent request.
	lock := s.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Org.Employee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if v := validateBalance(current, bucket, requestedDays); v != nil {
		errs = append(errs, *v)
	}

	existing, err := s.Requests.RequestsInRange(ctx, employeeID, period)
	if err != nil {
		return nil, nil, err
	}
	for _, other := range existing {
		if other.Blocking() {
			errs = append(errs, ValidationError{
				Field:   "start_date",
				Rule:    RuleOverlap,
				Message: fmt.Sprintf("overlaps existing request %s", other.Period()),
			})
			break
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	reviewerID, _, err := org.ApproverFor(ctx, s.Org, employee)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	request := &Request{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		CompanyID:     company.ID,
		Start:         start,
		End:           end,
		Reason:        reason,
		Status:        StatusPending,
		ReviewerID:    reviewerID,
		DaysRequested: requestedDays,
		Bucket:        bucket,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Debit on creation, not on approval: the requested days are held
	// the moment the request exists.
	if err := s.Balances.AdjustLeaveBalance(ctx, employeeID, bucket, -requestedDays); err != nil {
		return nil, nil, err
	}
	if err := s.Requests.CreateRequest(ctx, request); err != nil {
		// Undo the debit so a failed insert cannot leak held days.
		if rbErr := s.Balances.AdjustLeaveBalance(ctx, employeeID, bucket, requestedDays); rbErr != nil {
			s.Log.WithField("employee", employeeID).WithError(rbErr).Error("balance rollback failed after create error")
		}
		return nil, nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"request":  request.ID,
		"employee": employeeID,
		"period":   period.String(),
		"days":     requestedDays,
		"bucket":   string(bucket),
	}).Info("leave request created")

	hooks := []Hook{
		s.notifyHook(Notification{
			Kind:       NotifyRequestCreated,
			EmployeeID: employeeID,
			RequestID:  request.ID,
			Status:     StatusPending,
			Message:    fmt.Sprintf("leave request for %s submitted", period),
		}),
	}
	if reviewerID != "" {
		hooks = append(hooks, s.notifyHook(Notification{
			Kind:       NotifyRequestCreated,
			EmployeeID: reviewerID,
			RequestID:  request.ID,
			Status:     StatusPending,
			Message:    fmt.Sprintf("leave request from %s awaits review", employee.Name),
		}))
	}
	return request, hooks, nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Transition applies a review action to a request. The actor is always
// explicit - there is no ambient "current user".
//
// Denying requires a review reason. Denied and cancelled are terminal;
// acting on them yields a StateError naming the current status.
func (s *Service) Transition(ctx context.Context, requestID string, action Action, actorID, reviewReason string) (*Request, []Hook, error) {
	request, err := s.Requests.Request(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	lock := s.employeeLock(request.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: a concurrent transition may have landed.
	request, err = s.Requests.Request(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	// Approve and deny are review actions; the actor's role must allow
	// reviewing. Cancel is open to the requester, no role gate.
	if action == ActionApprove || action == ActionDeny {
		actor, err := s.Org.Employee(ctx, actorID)
		if err != nil {
			return nil, nil, err
		}
		if !actor.Role.CanReview() {
			return nil, nil, ValidationErrors{{
				Field:   "actor_id",
				Rule:    RuleActorCannotReview,
				Message: fmt.Sprintf("role %q cannot review requests", actor.Role),
			}}
		}
	}

	legal := false
	switch action {
	case ActionApprove, ActionDeny:
		legal = request.Status == StatusPending
	case ActionCancel:
		legal = request.Status == StatusPending || request.Status == StatusApproved
	default:
		return nil, nil, fmt.Errorf("unknown action %q", action)
	}
	if !legal {
		return nil, nil, &StateError{RequestID: requestID, Current: request.Status, Action: action}
	}

	if action == ActionDeny && reviewReason == "" {
		return nil, nil, ValidationErrors{{
			Field:   "review_reason",
			Rule:    RuleReviewReason,
			Message: "a review reason is required to deny a request",
		}}
	}

	// Deny and cancel release the held days back to the bucket they were
	// debited from.
	if action == ActionDeny || action == ActionCancel {
		if err := s.Balances.AdjustLeaveBalance(ctx, request.EmployeeID, request.Bucket, request.DaysRequested); err != nil {
			return nil, nil, err
		}
	}

	switch action {
	case ActionApprove:
		request.Status = StatusApproved
	case ActionDeny:
		request.Status = StatusDenied
		request.ReviewReason = reviewReason
	case ActionCancel:
		request.Status = StatusCancelled
		if reviewReason != "" {
			request.ReviewReason = reviewReason
		}
	}
	request.ReviewedBy = actorID
	request.UpdatedAt = time.Now().UTC()

	if err := s.Requests.UpdateRequest(ctx, request); err != nil {
		// Undo the credit so a failed update cannot hand back days twice
		// when the caller retries.
		if action == ActionDeny || action == ActionCancel {
			if rbErr := s.Balances.AdjustLeaveBalance(ctx, request.EmployeeID, request.Bucket, -request.DaysRequested); rbErr != nil {
				s.Log.WithField("request", request.ID).WithError(rbErr).Error("balance rollback failed after update error")
			}
		}
		return nil, nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"request": request.ID,
		"action":  string(action),
		"actor":   actorID,
		"status":  string(request.Status),
	}).Info("leave request transitioned")

	hooks := []Hook{
		s.notifyHook(Notification{
			Kind:       NotifyRequestReviewed,
			EmployeeID: request.EmployeeID,
			RequestID:  request.ID,
			Status:     request.Status,
			Message:    fmt.Sprintf("leave request for %s is now %s", request.Period(), request.Status),
		}),
	}
	return request, hooks, nil
}

// =============================================================================
// ABSENCES - Retrospective, no workflow, no balance impact
// =============================================================================

// RecordAbsence stores a retrospective absence. Days of absence are
// computed from the same working-day calendar as leave requests.
func (s *Service) RecordAbsence(ctx context.Context, employeeID string, typ AbsenceType, start, end calendar.Date, notes string) (*Absence, error) {
	if _, err := s.Org.Employee(ctx, employeeID); err != nil {
		return nil, err
	}

	var errs ValidationErrors
	if !typ.Valid() {
		errs = append(errs, ValidationError{Field: "type", Rule: RuleAbsenceType, Message: fmt.Sprintf("unknown absence type %q", typ)})
	}
	if start.IsZero() || end.IsZero() {
		errs = append(errs, ValidationError{Field: "start_date", Rule: RuleDatesRequired, Message: "start and end dates are required"})
	} else if end.Before(start) {
		errs = append(errs, ValidationError{Field: "end_date", Rule: RuleDateOrder, Message: "end date is before start date"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	period := calendar.Period{Start: start, End: end}
	workingDates, err := s.Workdays.WorkingDates(ctx, employeeID, period)
	if err != nil {
		return nil, err
	}

	absence := &Absence{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		Type:          typ,
		Start:         start,
		End:           end,
		Notes:         notes,
		DaysOfAbsence: len(workingDates),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Requests.CreateAbsence(ctx, absence); err != nil {
		return nil, err
	}
	return absence, nil
}

func (s *Service) DeleteAbsence(ctx context.Context, id string) error {
	return s.Requests.DeleteAbsence(ctx, id)
}

// =============================================================================
// LOG NOTIFIER - Default Notifier when no dispatcher is wired
// =============================================================================

// LogNotifier writes notifications to the structured log. The real
// dispatch mechanism (mail, chat) is an external collaborator.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n *LogNotifier) Notify(_ context.Context, notification Notification) error {
	log := n.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"kind":    string(notification.Kind),
		"to":      notification.EmployeeID,
		"request": notification.RequestID,
		"status":  string(notification.Status),
	}).Info(notification.Message)
	return nil
}
