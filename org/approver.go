package org

import "context"

// ApproverSource is implemented by any org unit that can name a leave
// approver. Team, Department and Company all qualify.
type ApproverSource interface {
	Approver() (employeeID string, ok bool)
}

func (t *Team) Approver() (string, bool) {
	if t == nil || t.ApproverID == "" {
		return "", false
	}
	return t.ApproverID, true
}

func (d *Department) Approver() (string, bool) {
	if d == nil || d.ApproverID == "" {
		return "", false
	}
	return d.ApproverID, true
}

func (c *Company) Approver() (string, bool) {
	if c == nil || c.ApproverID == "" {
		return "", false
	}
	return c.ApproverID, true
}

// ResolveApprover walks the sources in order and returns the first
// non-empty approver. Ordered fallback, never implicit.
func ResolveApprover(sources ...ApproverSource) (string, bool) {
	for _, s := range sources {
		if s == nil {
			continue
		}
		if id, ok := s.Approver(); ok {
			return id, true
		}
	}
	return "", false
}

// ApproverFor resolves the reviewer for an employee through the
// team → department → company chain.
func ApproverFor(ctx context.Context, dir Directory, e *Employee) (string, bool, error) {
	var sources []ApproverSource

	if e.TeamID != "" {
		team, err := dir.Team(ctx, e.TeamID)
		if err != nil {
			return "", false, err
		}
		sources = append(sources, team)
	}
	if e.DepartmentID != "" {
		dept, err := dir.Department(ctx, e.DepartmentID)
		if err != nil {
			return "", false, err
		}
		sources = append(sources, dept)
	}
	company, err := dir.Company(ctx, e.CompanyID)
	if err != nil {
		return "", false, err
	}
	sources = append(sources, company)

	id, ok := ResolveApprover(sources...)
	return id, ok, nil
}
