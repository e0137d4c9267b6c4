/*
Package sqlite provides the SQLite-backed implementation of every
persistence interface the engine consumes.

INTERFACES IMPLEMENTED:
  org.Directory:      company / department / team / employee reads
  leave.BalanceStore: atomic in-place balance increments
  leave.RequestStore: leave requests and absences
  shift.Store:        shifts, blocks, materialized working dates

IDEMPOTENT MATERIALIZATION:
  working_dates carries a UNIQUE(shift_id, block_id, date) constraint and
  AddWorkingDate uses INSERT OR IGNORE, so replaying a generation run
  converges on the same date set instead of double-writing.

ATOMIC BALANCE MUTATION:
  AdjustLeaveBalance issues UPDATE ... SET col = col + ? in one
  statement. There is no read-then-write window for concurrent requests
  to lose an update in.

WAL MODE:
  The database is opened with WAL so readers don't block during
  generation runs. Use ":memory:" for tests.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/leave"
	"github.com/warp/rota-engine/org"
	"github.com/warp/rota-engine/shift"
)

const dateFormat = "2006-01-02"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		annual_leave INTEGER NOT NULL DEFAULT 0,
		max_carryover_leave INTEGER NOT NULL DEFAULT 0,
		minimum_leave_notice INTEGER NOT NULL DEFAULT 0,
		maximum_leave_days_per_request INTEGER NOT NULL DEFAULT 0,
		working_on_local_holidays INTEGER NOT NULL DEFAULT 0,
		country TEXT NOT NULL DEFAULT '',
		approver_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS departments (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		approver_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL DEFAULT '',
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		shift_id TEXT NOT NULL DEFAULT '',
		approver_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		department_id TEXT NOT NULL DEFAULT '',
		team_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'staff',
		shift_id TEXT NOT NULL DEFAULT '',
		remaining_leave_days INTEGER NOT NULL DEFAULT 0,
		next_year_leave_days INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		rotation_weeks INTEGER NOT NULL DEFAULT 1,
		last_generated TEXT NOT NULL DEFAULT ''
	);

	-- Shift names are unique per company.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_company_name
		ON shifts(company_id, name);

	CREATE TABLE IF NOT EXISTS shift_blocks (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL,
		block_order INTEGER NOT NULL DEFAULT 0,
		week_days TEXT NOT NULL DEFAULT '',
		days_on INTEGER NOT NULL DEFAULT 0,
		days_off INTEGER NOT NULL DEFAULT 0,
		start_minute INTEGER NOT NULL DEFAULT 0,
		end_minute INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_blocks_shift
		ON shift_blocks(shift_id, block_order);

	CREATE TABLE IF NOT EXISTS working_dates (
		shift_id TEXT NOT NULL,
		block_id TEXT NOT NULL,
		date TEXT NOT NULL,
		UNIQUE(shift_id, block_id, date)
	);

	-- Range queries during workday lookups (hot path).
	CREATE INDEX IF NOT EXISTS idx_working_dates_shift_date
		ON working_dates(shift_id, date);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		reviewer_id TEXT NOT NULL DEFAULT '',
		reviewed_by TEXT NOT NULL DEFAULT '',
		review_reason TEXT NOT NULL DEFAULT '',
		days_requested INTEGER NOT NULL DEFAULT 0,
		bucket TEXT NOT NULL DEFAULT 'current_year',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Overlap detection per employee (hot path).
	CREATE INDEX IF NOT EXISTS idx_requests_employee_dates
		ON leave_requests(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		days_of_absence INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employee
		ON absences(employee_id, start_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

func encodeDate(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dateFormat)
}

func decodeDate(s string) (calendar.Date, error) {
	if s == "" {
		return calendar.Date{}, nil
	}
	return calendar.ParseDate(s)
}

func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]time.Weekday, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", p, err)
		}
		days[i] = time.Weekday(n)
	}
	return days, nil
}

// =============================================================================
// ORG DIRECTORY
// =============================================================================

func (s *Store) PutCompany(ctx context.Context, c org.Company) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO companies
		(id, name, annual_leave, max_carryover_leave, minimum_leave_notice,
		 maximum_leave_days_per_request, working_on_local_holidays, country, approver_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.AnnualLeave, c.MaxCarryoverLeave, c.MinimumLeaveNotice,
		c.MaximumLeaveDaysPerRequest, boolToInt(c.WorkingOnLocalHolidays), c.Country, c.ApproverID)
	return err
}

func (s *Store) Company(ctx context.Context, id string) (*org.Company, error) {
	var c org.Company
	var workingHolidays int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, annual_leave, max_carryover_leave, minimum_leave_notice,
		       maximum_leave_days_per_request, working_on_local_holidays, country, approver_id
		FROM companies WHERE id = ?`, id).Scan(
		&c.ID, &c.Name, &c.AnnualLeave, &c.MaxCarryoverLeave, &c.MinimumLeaveNotice,
		&c.MaximumLeaveDaysPerRequest, &workingHolidays, &c.Country, &c.ApproverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", id, org.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	c.WorkingOnLocalHolidays = workingHolidays != 0
	return &c, nil
}

func (s *Store) PutDepartment(ctx context.Context, d org.Department) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO departments (id, company_id, name, approver_id)
		VALUES (?, ?, ?, ?)`, d.ID, d.CompanyID, d.Name, d.ApproverID)
	return err
}

func (s *Store) Department(ctx context.Context, id string) (*org.Department, error) {
	var d org.Department
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, approver_id FROM departments WHERE id = ?`, id).
		Scan(&d.ID, &d.CompanyID, &d.Name, &d.ApproverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("department %s: %w", id, org.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) PutTeam(ctx context.Context, t org.Team) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO teams (id, department_id, company_id, name, shift_id, approver_id)
		VALUES (?, ?, ?, ?, ?, ?)`, t.ID, t.DepartmentID, t.CompanyID, t.Name, t.ShiftID, t.ApproverID)
	return err
}

func (s *Store) Team(ctx context.Context, id string) (*org.Team, error) {
	var t org.Team
	err := s.db.QueryRowContext(ctx, `
		SELECT id, department_id, company_id, name, shift_id, approver_id
		FROM teams WHERE id = ?`, id).
		Scan(&t.ID, &t.DepartmentID, &t.CompanyID, &t.Name, &t.ShiftID, &t.ApproverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, org.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) PutEmployee(ctx context.Context, e org.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees
		(id, company_id, department_id, team_id, name, email, role, shift_id,
		 remaining_leave_days, next_year_leave_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CompanyID, e.DepartmentID, e.TeamID, e.Name, e.Email, string(e.Role),
		e.ShiftID, e.RemainingLeaveDays, e.NextYearLeaveDays)
	return err
}

func (s *Store) Employee(ctx context.Context, id string) (*org.Employee, error) {
	var e org.Employee
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, department_id, team_id, name, email, role, shift_id,
		       remaining_leave_days, next_year_leave_days
		FROM employees WHERE id = ?`, id).Scan(
		&e.ID, &e.CompanyID, &e.DepartmentID, &e.TeamID, &e.Name, &e.Email, &role,
		&e.ShiftID, &e.RemainingLeaveDays, &e.NextYearLeaveDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee %s: %w", id, org.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	e.Role = org.Role(role)
	return &e, nil
}

// AdjustLeaveBalance is a single-statement in-place increment; there is
// no read-modify-write window.
func (s *Store) AdjustLeaveBalance(ctx context.Context, employeeID string, bucket leave.Bucket, deltaDays int) error {
	column := "remaining_leave_days"
	if bucket == leave.BucketNextYear {
		column = "next_year_leave_days"
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE employees SET "+column+" = "+column+" + ? WHERE id = ?",
		deltaDays, employeeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("employee %s: %w", employeeID, org.ErrNotFound)
	}
	return nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, sh *shift.Shift) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shifts
		(id, company_id, name, description, start_date, rotation_weeks, last_generated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.CompanyID, sh.Name, sh.Description, encodeDate(sh.StartDate),
		sh.RotationWeeks, encodeDate(sh.LastGenerated))
	return err
}

func (s *Store) Shift(ctx context.Context, id string) (*shift.Shift, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, description, start_date, rotation_weeks, last_generated
		FROM shifts WHERE id = ?`, id)
	sh, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shift.ErrShiftNotFound
	}
	return sh, err
}

func (s *Store) Shifts(ctx context.Context) ([]*shift.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, description, start_date, rotation_weeks, last_generated
		FROM shifts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*shift.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*shift.Shift, error) {
	var sh shift.Shift
	var start, generated string
	if err := row.Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.Description, &start, &sh.RotationWeeks, &generated); err != nil {
		return nil, err
	}
	var err error
	if sh.StartDate, err = decodeDate(start); err != nil {
		return nil, err
	}
	if sh.LastGenerated, err = decodeDate(generated); err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) SaveBlock(ctx context.Context, b *shift.Block) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shift_blocks
		(id, shift_id, block_order, week_days, days_on, days_off, start_minute, end_minute)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ShiftID, b.Order, encodeWeekdays(b.WeekDays), b.DaysOn, b.DaysOff,
		b.StartMinute, b.EndMinute)
	return err
}

func (s *Store) Blocks(ctx context.Context, shiftID string) ([]*shift.Block, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shift_id, block_order, week_days, days_on, days_off, start_minute, end_minute
		FROM shift_blocks WHERE shift_id = ? ORDER BY block_order`, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*shift.Block
	for rows.Next() {
		var b shift.Block
		var weekDays string
		if err := rows.Scan(&b.ID, &b.ShiftID, &b.Order, &weekDays, &b.DaysOn, &b.DaysOff,
			&b.StartMinute, &b.EndMinute); err != nil {
			return nil, err
		}
		if b.WeekDays, err = decodeWeekdays(weekDays); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *Store) SetLastGenerated(ctx context.Context, shiftID string, d calendar.Date) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shifts SET last_generated = ? WHERE id = ?", encodeDate(d), shiftID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (s *Store) AddWorkingDate(ctx context.Context, shiftID string, wd shift.WorkingDate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO working_dates (shift_id, block_id, date) VALUES (?, ?, ?)`,
		shiftID, wd.BlockID, encodeDate(wd.Date))
	return err
}

func (s *Store) ClearWorkingDates(ctx context.Context, shiftID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM working_dates WHERE shift_id = ?", shiftID)
	return err
}

func (s *Store) WorkingDates(ctx context.Context, shiftID string, p calendar.Period) ([]shift.WorkingDate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.date, w.block_id
		FROM working_dates w
		JOIN shift_blocks b ON b.id = w.block_id
		WHERE w.shift_id = ? AND w.date >= ? AND w.date <= ?
		ORDER BY w.date, b.block_order`,
		shiftID, encodeDate(p.Start), encodeDate(p.End))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []shift.WorkingDate
	for rows.Next() {
		var date string
		var wd shift.WorkingDate
		if err := rows.Scan(&date, &wd.BlockID); err != nil {
			return nil, err
		}
		if wd.Date, err = decodeDate(date); err != nil {
			return nil, err
		}
		out = append(out, wd)
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE STORE
// =============================================================================

func (s *Store) CreateRequest(ctx context.Context, r *leave.Request) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests
		(id, employee_id, company_id, start_date, end_date, reason, status,
		 reviewer_id, reviewed_by, review_reason, days_requested, bucket,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EmployeeID, r.CompanyID, encodeDate(r.Start), encodeDate(r.End),
		r.Reason, string(r.Status), r.ReviewerID, r.ReviewedBy, r.ReviewReason,
		r.DaysRequested, string(r.Bucket),
		r.CreatedAt.Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) Request(ctx context.Context, id string) (*leave.Request, error) {
	row := s.db.QueryRowContext(ctx, selectRequest+" WHERE id = ?", id)
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return r, err
}

func (s *Store) UpdateRequest(ctx context.Context, r *leave.Request) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE leave_requests
		SET status = ?, reviewed_by = ?, review_reason = ?, updated_at = ?
		WHERE id = ?`,
		string(r.Status), r.ReviewedBy, r.ReviewReason,
		r.UpdatedAt.Format(time.RFC3339), r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("request %s: %w", r.ID, leave.ErrNotFound)
	}
	return nil
}

const selectRequest = `
	SELECT id, employee_id, company_id, start_date, end_date, reason, status,
	       reviewer_id, reviewed_by, review_reason, days_requested, bucket,
	       created_at, updated_at
	FROM leave_requests`

func scanRequest(row rowScanner) (*leave.Request, error) {
	var r leave.Request
	var start, end, status, bucket, createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.EmployeeID, &r.CompanyID, &start, &end, &r.Reason,
		&status, &r.ReviewerID, &r.ReviewedBy, &r.ReviewReason, &r.DaysRequested,
		&bucket, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if r.Start, err = decodeDate(start); err != nil {
		return nil, err
	}
	if r.End, err = decodeDate(end); err != nil {
		return nil, err
	}
	r.Status = leave.Status(status)
	r.Bucket = leave.Bucket(bucket)
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) RequestsInRange(ctx context.Context, employeeID string, p calendar.Period) ([]*leave.Request, error) {
	// Inclusive overlap: existing.start <= range.end AND existing.end >= range.start.
	rows, err := s.db.QueryContext(ctx,
		selectRequest+` WHERE employee_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`,
		employeeID, encodeDate(p.End), encodeDate(p.Start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateAbsence(ctx context.Context, a *leave.Absence) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences
		(id, employee_id, type, start_date, end_date, notes, days_of_absence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.EmployeeID, string(a.Type), encodeDate(a.Start), encodeDate(a.End),
		a.Notes, a.DaysOfAbsence, a.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) Absence(ctx context.Context, id string) (*leave.Absence, error) {
	var a leave.Absence
	var typ, start, end, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, type, start_date, end_date, notes, days_of_absence, created_at
		FROM absences WHERE id = ?`, id).Scan(
		&a.ID, &a.EmployeeID, &typ, &start, &end, &a.Notes, &a.DaysOfAbsence, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("absence %s: %w", id, leave.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	a.Type = leave.AbsenceType(typ)
	if a.Start, err = decodeDate(start); err != nil {
		return nil, err
	}
	if a.End, err = decodeDate(end); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) DeleteAbsence(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM absences WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("absence %s: %w", id, leave.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time interface checks.
var (
	_ org.Directory      = (*Store)(nil)
	_ shift.Store        = (*Store)(nil)
	_ leave.RequestStore = (*Store)(nil)
	_ leave.BalanceStore = (*Store)(nil)
)
