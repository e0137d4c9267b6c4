// Package memory provides an in-memory store implementing every
// persistence interface the engine consumes. It backs the test suites
// and the dev server's ephemeral mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/leave"
	"github.com/warp/rota-engine/org"
	"github.com/warp/rota-engine/shift"
)

// Store keeps everything behind a single RWMutex. Copies are returned
// on reads so callers cannot mutate shared state.
type Store struct {
	mu sync.RWMutex

	companies   map[string]org.Company
	departments map[string]org.Department
	teams       map[string]org.Team
	employees   map[string]org.Employee

	shifts map[string]shift.Shift
	blocks map[string][]shift.Block // keyed by shift ID, ordered by Order
	// materialized dates: shiftID -> date -> blockIDs
	dates map[string]map[calendar.Date]map[string]bool

	requests map[string]leave.Request
	absences map[string]leave.Absence
}

func New() *Store {
	return &Store{
		companies:   make(map[string]org.Company),
		departments: make(map[string]org.Department),
		teams:       make(map[string]org.Team),
		employees:   make(map[string]org.Employee),
		shifts:      make(map[string]shift.Shift),
		blocks:      make(map[string][]shift.Block),
		dates:       make(map[string]map[calendar.Date]map[string]bool),
		requests:    make(map[string]leave.Request),
		absences:    make(map[string]leave.Absence),
	}
}

// =============================================================================
// ORG DIRECTORY
// =============================================================================

func (s *Store) PutCompany(c org.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *Store) PutDepartment(d org.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[d.ID] = d
}

func (s *Store) PutTeam(t org.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

func (s *Store) PutEmployee(e org.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) Company(_ context.Context, id string) (*org.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", id, org.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) Department(_ context.Context, id string) (*org.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, fmt.Errorf("department %s: %w", id, org.ErrNotFound)
	}
	return &d, nil
}

func (s *Store) Team(_ context.Context, id string) (*org.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, org.ErrNotFound)
	}
	return &t, nil
}

func (s *Store) Employee(_ context.Context, id string) (*org.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", id, org.ErrNotFound)
	}
	return &e, nil
}

// AdjustLeaveBalance applies the delta in-place under the store lock,
// the in-memory analogue of an atomic column increment.
func (s *Store) AdjustLeaveBalance(_ context.Context, employeeID string, bucket leave.Bucket, deltaDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return fmt.Errorf("employee %s: %w", employeeID, org.ErrNotFound)
	}
	switch bucket {
	case leave.BucketNextYear:
		e.NextYearLeaveDays += deltaDays
	default:
		e.RemainingLeaveDays += deltaDays
	}
	s.employees[employeeID] = e
	return nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (s *Store) Shift(_ context.Context, id string) (*shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shifts[id]
	if !ok {
		return nil, shift.ErrShiftNotFound
	}
	return &sh, nil
}

func (s *Store) Shifts(_ context.Context) ([]*shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*shift.Shift, 0, len(s.shifts))
	for _, sh := range s.shifts {
		sh := sh
		out = append(out, &sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveShift(_ context.Context, sh *shift.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Name unique per company.
	for _, other := range s.shifts {
		if other.ID != sh.ID && other.CompanyID == sh.CompanyID && other.Name == sh.Name {
			return fmt.Errorf("shift name %q already used in company %s", sh.Name, sh.CompanyID)
		}
	}
	s.shifts[sh.ID] = *sh
	return nil
}

func (s *Store) Blocks(_ context.Context, shiftID string) ([]*shift.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.blocks[shiftID]
	out := make([]*shift.Block, len(stored))
	for i := range stored {
		b := stored[i]
		out[i] = &b
	}
	return out, nil
}

func (s *Store) SaveBlock(_ context.Context, b *shift.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := s.blocks[b.ShiftID]
	replaced := false
	for i := range blocks {
		if blocks[i].ID == b.ID {
			blocks[i] = *b
			replaced = true
			break
		}
	}
	if !replaced {
		blocks = append(blocks, *b)
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Order < blocks[j].Order })
	s.blocks[b.ShiftID] = blocks
	return nil
}

func (s *Store) SetLastGenerated(_ context.Context, shiftID string, d calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[shiftID]
	if !ok {
		return shift.ErrShiftNotFound
	}
	sh.LastGenerated = d
	s.shifts[shiftID] = sh
	return nil
}

// AddWorkingDate is an upsert: re-adding an existing association is a
// no-op, which keeps resumed generation idempotent.
func (s *Store) AddWorkingDate(_ context.Context, shiftID string, wd shift.WorkingDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDate, ok := s.dates[shiftID]
	if !ok {
		byDate = make(map[calendar.Date]map[string]bool)
		s.dates[shiftID] = byDate
	}
	blocks, ok := byDate[wd.Date]
	if !ok {
		blocks = make(map[string]bool)
		byDate[wd.Date] = blocks
	}
	blocks[wd.BlockID] = true
	return nil
}

func (s *Store) ClearWorkingDates(_ context.Context, shiftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dates, shiftID)
	return nil
}

func (s *Store) WorkingDates(_ context.Context, shiftID string, p calendar.Period) ([]shift.WorkingDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order := make(map[string]int)
	for i, b := range s.blocks[shiftID] {
		order[b.ID] = i
	}

	var out []shift.WorkingDate
	for d, blocks := range s.dates[shiftID] {
		if !p.Contains(d) {
			continue
		}
		for blockID := range blocks {
			out = append(out, shift.WorkingDate{Date: d, BlockID: blockID})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return order[out[i].BlockID] < order[out[j].BlockID]
	})
	return out, nil
}

// =============================================================================
// LEAVE STORE
// =============================================================================

func (s *Store) CreateRequest(_ context.Context, r *leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[r.ID]; exists {
		return fmt.Errorf("request %s already exists", r.ID)
	}
	s.requests[r.ID] = *r
	return nil
}

func (s *Store) Request(_ context.Context, id string) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return &r, nil
}

func (s *Store) UpdateRequest(_ context.Context, r *leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; !ok {
		return fmt.Errorf("request %s: %w", r.ID, leave.ErrNotFound)
	}
	s.requests[r.ID] = *r
	return nil
}

func (s *Store) RequestsInRange(_ context.Context, employeeID string, p calendar.Period) ([]*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*leave.Request
	for _, r := range s.requests {
		if r.EmployeeID != employeeID || !r.Period().Overlaps(p) {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Store) CreateAbsence(_ context.Context, a *leave.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.absences[a.ID] = *a
	return nil
}

func (s *Store) Absence(_ context.Context, id string) (*leave.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.absences[id]
	if !ok {
		return nil, fmt.Errorf("absence %s: %w", id, leave.ErrNotFound)
	}
	return &a, nil
}

func (s *Store) DeleteAbsence(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.absences[id]; !ok {
		return fmt.Errorf("absence %s: %w", id, leave.ErrNotFound)
	}
	delete(s.absences, id)
	return nil
}

// Compile-time interface checks.
var (
	_ org.Directory      = (*Store)(nil)
	_ shift.Store        = (*Store)(nil)
	_ leave.RequestStore = (*Store)(nil)
	_ leave.BalanceStore = (*Store)(nil)
)
