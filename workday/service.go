/*
Package workday answers the questions the rest of the system asks about
an employee's schedule: which dates they work in a range, how many, for
which hours, and which dates they are off.

EFFECTIVE SHIFT:
  An employee's own shift wins; otherwise the team's shift applies; with
  neither, the generic Mon-Fri 09:00-17:00 rule is synthesized.

AGREEMENT INVARIANT:
  For any employee and range, every calendar date appears in exactly one
  of {working dates, days off}, and the count is the cardinality of the
  working-date set - there is no second code path that could drift.
*/
package workday

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/org"
	"github.com/warp/rota-engine/shift"
)

// Default window for employees without a shift.
const (
	defaultStartClock = "09:00"
	defaultEndClock   = "17:00"
)

var defaultHours = decimal.NewFromInt(8)

// ShiftSource is the slice of the shift store this service reads.
type ShiftSource interface {
	Shift(ctx context.Context, id string) (*shift.Shift, error)
	Blocks(ctx context.Context, shiftID string) ([]*shift.Block, error)
	WorkingDates(ctx context.Context, shiftID string, p calendar.Period) ([]shift.WorkingDate, error)
}

type Service struct {
	Org    org.Directory
	Shifts ShiftSource
}

func NewService(dir org.Directory, shifts ShiftSource) *Service {
	return &Service{Org: dir, Shifts: shifts}
}

// =============================================================================
// EFFECTIVE SHIFT RESOLUTION
// =============================================================================

// EffectiveShiftID resolves the shift governing an employee's calendar:
// own shift, else team shift, else "" (generic rule applies).
func (s *Service) EffectiveShiftID(ctx context.Context, e *org.Employee) (string, error) {
	if e.ShiftID != "" {
		return e.ShiftID, nil
	}
	if e.TeamID == "" {
		return "", nil
	}
	team, err := s.Org.Team(ctx, e.TeamID)
	if err != nil {
		return "", err
	}
	return team.ShiftID, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// WorkingDates lists the dates the employee works in [start, end],
// inclusive and ordered. Shift-backed employees read the materialized
// calendar; others get the synthesized Mon-Fri rule.
func (s *Service) WorkingDates(ctx context.Context, employeeID string, p calendar.Period) ([]calendar.Date, error) {
	if p.End.Before(p.Start) {
		return nil, calendar.ErrInvalidPeriod
	}
	e, err := s.Org.Employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	shiftID, err := s.EffectiveShiftID(ctx, e)
	if err != nil {
		return nil, err
	}
	if shiftID == "" {
		var dates []calendar.Date
		for _, d := range p.Days() {
			if d.IsMonToFri() {
				dates = append(dates, d)
			}
		}
		return dates, nil
	}

	assocs, err := s.Shifts.WorkingDates(ctx, shiftID, p)
	if err != nil {
		return nil, err
	}
	// Several blocks may cover the same date; the date set is deduped.
	var dates []calendar.Date
	for _, a := range assocs {
		if len(dates) == 0 || !dates[len(dates)-1].Equal(a.Date) {
			dates = append(dates, a.Date)
		}
	}
	return dates, nil
}

// WorkingDayCount is defined as the cardinality of WorkingDates.
func (s *Service) WorkingDayCount(ctx context.Context, employeeID string, p calendar.Period) (int, error) {
	dates, err := s.WorkingDates(ctx, employeeID, p)
	if err != nil {
		return 0, err
	}
	return len(dates), nil
}

// DaysOff is the set difference: all calendar dates in the range minus
// the working dates.
func (s *Service) DaysOff(ctx context.Context, employeeID string, p calendar.Period) ([]calendar.Date, error) {
	working, err := s.WorkingDates(ctx, employeeID, p)
	if err != nil {
		return nil, err
	}
	on := make(map[calendar.Date]bool, len(working))
	for _, d := range working {
		on[d] = true
	}

	var off []calendar.Date
	for _, d := range p.Days() {
		if !on[d] {
			off = append(off, d)
		}
	}
	return off, nil
}

// DaySchedule is the per-date working window.
type DaySchedule struct {
	Date  calendar.Date
	Start string // HH:MM
	End   string // HH:MM
	Hours decimal.Decimal
}

// WorkingHours returns the per-date window for each working date in the
// range. For shift-backed employees the window comes from the owning
// block; when several blocks cover a date, the latest by block order
// wins. Employees without a shift get the fixed default window.
func (s *Service) WorkingHours(ctx context.Context, employeeID string, p calendar.Period) ([]DaySchedule, error) {
	if p.End.Before(p.Start) {
		return nil, calendar.ErrInvalidPeriod
	}
	e, err := s.Org.Employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	shiftID, err := s.EffectiveShiftID(ctx, e)
	if err != nil {
		return nil, err
	}
	if shiftID == "" {
		var out []DaySchedule
		for _, d := range p.Days() {
			if d.IsMonToFri() {
				out = append(out, DaySchedule{Date: d, Start: defaultStartClock, End: defaultEndClock, Hours: defaultHours})
			}
		}
		return out, nil
	}

	blocks, err := s.Shifts.Blocks(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*shift.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	assocs, err := s.Shifts.WorkingDates(ctx, shiftID, p)
	if err != nil {
		return nil, err
	}

	var out []DaySchedule
	for _, a := range assocs {
		b, ok := byID[a.BlockID]
		if !ok {
			continue
		}
		sched := DaySchedule{Date: a.Date, Start: b.StartClock(), End: b.EndClock(), Hours: b.Hours()}
		// Associations arrive ordered by date then block order, so a
		// later block covering the same date replaces the earlier one.
		if len(out) > 0 && out[len(out)-1].Date.Equal(a.Date) {
			out[len(out)-1] = sched
			continue
		}
		out = append(out, sched)
	}
	return out, nil
}
