/*
Package org models the company hierarchy the calendar engine operates on:
company → departments → teams → employees.

The types here are deliberately plain. Persistence, auth, and CRUD live
outside this module; org only carries the fields the rotation and leave
logic reads (leave policy on Company, shift ownership on Team/Employee,
approver chain links, leave balances).
*/
package org

import (
	"context"
	"errors"
)

// ErrNotFound is wrapped by store implementations when a directory
// lookup misses; match with errors.Is.
var ErrNotFound = errors.New("not found")

// =============================================================================
// ROLE - Closed variant, no runtime class dispatch
// =============================================================================

type Role string

const (
	RoleStaff      Role = "staff"
	RoleTeamLeader Role = "team_leader"
	RoleManager    Role = "manager"
	RoleHR         Role = "hr"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleTeamLeader, RoleManager, RoleHR:
		return true
	}
	return false
}

// CanReview reports whether the role is allowed to act on leave requests.
func (r Role) CanReview() bool {
	return r == RoleTeamLeader || r == RoleManager || r == RoleHR
}

// =============================================================================
// COMPANY - Owns the leave policy and the holiday country
// =============================================================================

type Company struct {
	ID   string
	Name string

	// Leave policy
	AnnualLeave                int // days granted per year
	MaxCarryoverLeave          int // days carried into next year at most
	MinimumLeaveNotice         int // days of notice before a request may start
	MaximumLeaveDaysPerRequest int

	// If false, public holidays are never working days, regardless of
	// how shift blocks are configured.
	WorkingOnLocalHolidays bool

	// ISO 3166-1 alpha-2 country code driving the holiday calendar.
	Country string

	ApproverID string
}

// Department groups teams and can carry its own approver.
type Department struct {
	ID         string
	CompanyID  string
	Name       string
	ApproverID string
}

// Team optionally owns a shift; members without a personal shift
// inherit it.
type Team struct {
	ID           string
	DepartmentID string
	CompanyID    string
	Name         string
	ShiftID      string
	ApproverID   string
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID           string
	CompanyID    string
	DepartmentID string
	TeamID       string
	Name         string
	Email        string
	Role         Role

	// Personal shift; overrides the team shift when set.
	ShiftID string

	// Leave balances, split at the calendar-year boundary.
	RemainingLeaveDays int
	NextYearLeaveDays  int
}

// Directory is the read side of the org store the engine consumes.
// Missing entities are reported as errors by implementations.
type Directory interface {
	Employee(ctx context.Context, id string) (*Employee, error)
	Team(ctx context.Context, id string) (*Team, error)
	Department(ctx context.Context, id string) (*Department, error)
	Company(ctx context.Context, id string) (*Company, error)
}
