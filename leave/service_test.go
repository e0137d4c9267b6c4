package leave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/leave"
	"github.com/warp/rota-engine/org"
	"github.com/warp/rota-engine/store/memory"
	"github.com/warp/rota-engine/workday"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// monday is the fixed "today" for every test: 2024-06-03.
var monday = calendar.NewDate(2024, time.June, 3)

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fixture struct {
	svc   *leave.Service
	store *memory.Store
}

// newFixture seeds one company and one employee without a shift, so the
// Mon-Fri fallback calendar applies. Policy knobs are overridable by
// mutating the seeded records before the first call.
func newFixture(t *testing.T, company org.Company, employee org.Employee) *fixture {
	t.Helper()
	store := memory.New()
	store.PutCompany(company)
	store.PutEmployee(employee)
	store.PutEmployee(org.Employee{ID: "mgr-1", CompanyID: company.ID, Name: "Grace", Role: org.RoleManager})

	workdays := workday.NewService(store, store)
	svc := leave.NewService(store, store, store, workdays, &leave.LogNotifier{Log: quietLogger()}, quietLogger())
	svc.Clock = func() calendar.Date { return monday }
	return &fixture{svc: svc, store: store}
}

func defaultCompany() org.Company {
	return org.Company{ID: "co-1", Name: "Acme", Country: "US", AnnualLeave: 25, ApproverID: "mgr-1"}
}

func defaultEmployee() org.Employee {
	return org.Employee{
		ID: "emp-1", CompanyID: "co-1", Name: "Ada",
		RemainingLeaveDays: 20, NextYearLeaveDays: 25,
	}
}

func (f *fixture) balance(t *testing.T) (current, next int) {
	t.Helper()
	e, err := f.store.Employee(context.Background(), "emp-1")
	require.NoError(t, err)
	return e.RemainingLeaveDays, e.NextYearLeaveDays
}

// =============================================================================
// CREATION
// =============================================================================

func TestCreateRequest_DebitsBalanceAndResolvesReviewer(t *testing.T) {
	// GIVEN: 20 days remaining, a 5 working-day request (Mon-Fri)
	// WHEN:  the request is created
	// THEN:  it is pending, 5 days are held, and hooks notify both
	//        the requester and the company approver

	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, hooks, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "holiday")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, request.Status)
	assert.Equal(t, 5, request.DaysRequested)
	assert.Equal(t, leave.BucketCurrentYear, request.Bucket)
	assert.Equal(t, "mgr-1", request.ReviewerID)
	assert.Len(t, hooks, 2)

	current, _ := f.balance(t)
	assert.Equal(t, 15, current)
}

func TestCreateRequest_NoticePeriodViolation(t *testing.T) {
	// GIVEN: company requires 5 days notice
	// WHEN:  a request starting today is submitted
	// THEN:  it is rejected and no balance is held

	company := defaultCompany()
	company.MinimumLeaveNotice = 5
	f := newFixture(t, company, defaultEmployee())

	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", monday, date(2024, time.June, 7), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleNoticePeriod))

	current, _ := f.balance(t)
	assert.Equal(t, 20, current)
}

func TestCreateRequest_InsufficientBalance(t *testing.T) {
	// GIVEN: 3 days remaining
	// WHEN:  a 4 working-day request is submitted
	// THEN:  it is rejected and the balance is untouched

	employee := defaultEmployee()
	employee.RemainingLeaveDays = 3
	f := newFixture(t, defaultCompany(), employee)

	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", monday, date(2024, time.June, 6), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleInsufficientBalance))

	current, _ := f.balance(t)
	assert.Equal(t, 3, current)
}

func TestCreateRequest_CollectsAllViolations(t *testing.T) {
	// Independent rule violations surface together, not one at a time.

	company := defaultCompany()
	company.MinimumLeaveNotice = 5
	employee := defaultEmployee()
	employee.RemainingLeaveDays = 1
	f := newFixture(t, company, employee)

	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", monday, date(2024, time.June, 7), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleNoticePeriod))
	assert.True(t, verrs.Has(leave.RuleInsufficientBalance))
	assert.Len(t, verrs, 2)
}

func TestCreateRequest_WeekendEndpointRejected(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())

	// 2024-06-08 is a Saturday; the range still contains working days.
	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", date(2024, time.June, 8), date(2024, time.June, 14), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleNonWorkingDay))
}

func TestCreateRequest_WeekendOnlyRangeRejected(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())

	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", date(2024, time.June, 8), date(2024, time.June, 9), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleNoWorkingDays))
}

func TestCreateRequest_OverlapWithBlockingRequest(t *testing.T) {
	// GIVEN: a pending request for June 10-14
	// WHEN:  a second request for June 12-18 arrives
	// THEN:  the second is rejected and only the first hold remains

	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	_, _, err := f.svc.CreateRequest(ctx, "emp-1", date(2024, time.June, 10), date(2024, time.June, 14), "")
	require.NoError(t, err)

	_, _, err = f.svc.CreateRequest(ctx, "emp-1", date(2024, time.June, 12), date(2024, time.June, 18), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleOverlap))

	current, _ := f.balance(t)
	assert.Equal(t, 15, current)
}

func TestCreateRequest_DeniedRequestDoesNotBlock(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	first, _, err := f.svc.CreateRequest(ctx, "emp-1", date(2024, time.June, 10), date(2024, time.June, 14), "")
	require.NoError(t, err)
	_, _, err = f.svc.Transition(ctx, first.ID, leave.ActionDeny, "mgr-1", "coverage gap")
	require.NoError(t, err)

	_, _, err = f.svc.CreateRequest(ctx, "emp-1", date(2024, time.June, 10), date(2024, time.June, 14), "")
	require.NoError(t, err)
}

func TestCreateRequest_NextYearStartChargesNextYearBucket(t *testing.T) {
	// A request starting in the following calendar year is charged
	// entirely against the next-year allowance.

	f := newFixture(t, defaultCompany(), defaultEmployee())

	request, _, err := f.svc.CreateRequest(context.Background(), "emp-1", date(2025, time.January, 6), date(2025, time.January, 7), "")
	require.NoError(t, err)
	assert.Equal(t, leave.BucketNextYear, request.Bucket)

	current, next := f.balance(t)
	assert.Equal(t, 20, current)
	assert.Equal(t, 23, next)
}

func TestCreateRequest_PastStartRejected(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())

	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", date(2024, time.May, 27), date(2024, time.May, 31), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleDateBounds))
}

func TestCreateRequest_MaxDaysPerRequest(t *testing.T) {
	company := defaultCompany()
	company.MaximumLeaveDaysPerRequest = 3
	f := newFixture(t, company, defaultEmployee())

	_, _, err := f.svc.CreateRequest(context.Background(), "emp-1", monday, date(2024, time.June, 7), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleMaxDaysPerRequest))
}

func TestCreateRequest_ConcurrentRequestsCannotOverdraw(t *testing.T) {
	// GIVEN: 5 days remaining and two non-overlapping 5 working-day ranges
	// WHEN:  both requests race
	// THEN:  exactly one is granted and the balance never goes negative

	employee := defaultEmployee()
	employee.RemainingLeaveDays = 5
	f := newFixture(t, defaultCompany(), employee)
	ctx := context.Background()

	periods := []calendar.Period{
		{Start: date(2024, time.June, 10), End: date(2024, time.June, 14)},
		{Start: date(2024, time.June, 17), End: date(2024, time.June, 21)},
	}
	results := make([]error, len(periods))
	var wg sync.WaitGroup
	for i, p := range periods {
		wg.Add(1)
		go func(i int, p calendar.Period) {
			defer wg.Done()
			_, _, results[i] = f.svc.CreateRequest(ctx, "emp-1", p.Start, p.End, "")
		}(i, p)
	}
	wg.Wait()

	granted := 0
	for _, err := range results {
		if err == nil {
			granted++
			continue
		}
		var verrs leave.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has(leave.RuleInsufficientBalance))
	}
	assert.Equal(t, 1, granted)

	current, _ := f.balance(t)
	assert.Equal(t, 0, current)
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func TestTransition_DenyReleasesHeldDays(t *testing.T) {
	// GIVEN: a pending 5-day request (balance 20 -> 15)
	// WHEN:  the reviewer denies it with a reason
	// THEN:  the 5 days return and the request records reviewer and reason

	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)

	denied, hooks, err := f.svc.Transition(ctx, request.ID, leave.ActionDeny, "mgr-1", "coverage gap")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusDenied, denied.Status)
	assert.Equal(t, "mgr-1", denied.ReviewedBy)
	assert.Equal(t, "coverage gap", denied.ReviewReason)
	assert.Len(t, hooks, 1)

	current, _ := f.balance(t)
	assert.Equal(t, 20, current)
}

func TestTransition_DenyWithoutReasonRejected(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)

	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionDeny, "mgr-1", "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleReviewReason))

	// The request is untouched and the hold stands.
	got, err := f.store.Request(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, got.Status)
	current, _ := f.balance(t)
	assert.Equal(t, 15, current)
}

func TestTransition_TerminalStateRejected(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)
	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionDeny, "mgr-1", "coverage gap")
	require.NoError(t, err)

	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionApprove, "mgr-1", "")
	var serr *leave.StateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, leave.StatusDenied, serr.Current)
	assert.Equal(t, leave.ActionApprove, serr.Action)

	// Releasing the hold happened once; denying again must not credit twice.
	current, _ := f.balance(t)
	assert.Equal(t, 20, current)
}

// failingUpdateStore rejects every UpdateRequest, exposing transition
// paths that mutate state before the request commits.
type failingUpdateStore struct {
	leave.RequestStore
}

func (s *failingUpdateStore) UpdateRequest(context.Context, *leave.Request) error {
	return errors.New("update rejected")
}

func TestTransition_DenyRollsBackCreditWhenUpdateFails(t *testing.T) {
	// GIVEN: a pending 5-day request and a store that refuses updates
	// WHEN:  a deny fails to commit
	// THEN:  the credit is undone, so a later retry cannot release the
	//        held days twice

	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)

	f.svc.Requests = &failingUpdateStore{RequestStore: f.store}
	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionDeny, "mgr-1", "coverage gap")
	require.Error(t, err)

	// The hold still stands.
	current, _ := f.balance(t)
	assert.Equal(t, 15, current)

	// A retry against a healthy store credits exactly once.
	f.svc.Requests = f.store
	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionDeny, "mgr-1", "coverage gap")
	require.NoError(t, err)
	current, _ = f.balance(t)
	assert.Equal(t, 20, current)
}

func TestTransition_NonReviewingRoleCannotApprove(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())
	f.store.PutEmployee(org.Employee{ID: "peer-1", CompanyID: "co-1", Name: "Bob", Role: org.RoleStaff})
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)

	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionApprove, "peer-1", "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleActorCannotReview))

	// Cancelling their own request needs no reviewing role.
	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionCancel, "emp-1", "")
	require.NoError(t, err)
}

func TestTransition_ApproveKeepsHold(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)

	approved, _, err := f.svc.Transition(ctx, request.ID, leave.ActionApprove, "mgr-1", "")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)

	current, _ := f.balance(t)
	assert.Equal(t, 15, current)
}

func TestTransition_CancelApprovedRequestRestoresBalance(t *testing.T) {
	// Create, approve, cancel: the net balance effect is zero.

	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)
	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionApprove, "mgr-1", "")
	require.NoError(t, err)

	cancelled, _, err := f.svc.Transition(ctx, request.ID, leave.ActionCancel, "emp-1", "")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)

	current, _ := f.balance(t)
	assert.Equal(t, 20, current)
}

func TestTransition_CancelPendingRestoresBalance(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())
	ctx := context.Background()

	request, _, err := f.svc.CreateRequest(ctx, "emp-1", monday, date(2024, time.June, 7), "")
	require.NoError(t, err)
	_, _, err = f.svc.Transition(ctx, request.ID, leave.ActionCancel, "emp-1", "")
	require.NoError(t, err)

	current, _ := f.balance(t)
	assert.Equal(t, 20, current)
}

// =============================================================================
// ABSENCES
// =============================================================================

func TestRecordAbsence_CountsWorkingDays(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())

	// Mon 2024-05-27 through Sun 2024-06-02: five working days. Absences
	// are retrospective, so past dates are fine.
	absence, err := f.svc.RecordAbsence(context.Background(), "emp-1", leave.AbsenceSick,
		date(2024, time.May, 27), date(2024, time.June, 2), "flu")
	require.NoError(t, err)
	assert.Equal(t, 5, absence.DaysOfAbsence)

	// No balance impact.
	current, _ := f.balance(t)
	assert.Equal(t, 20, current)
}

func TestRecordAbsence_UnknownTypeRejected(t *testing.T) {
	f := newFixture(t, defaultCompany(), defaultEmployee())

	_, err := f.svc.RecordAbsence(context.Background(), "emp-1", leave.AbsenceType("vacation"),
		date(2024, time.May, 27), date(2024, time.May, 27), "")
	var verrs leave.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(leave.RuleAbsenceType))
}
