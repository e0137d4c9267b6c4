package org_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rota-engine/org"
	"github.com/warp/rota-engine/store/memory"
)

func seedOrg(teamApprover, deptApprover, companyApprover string) *memory.Store {
	store := memory.New()
	store.PutCompany(org.Company{ID: "co-1", Name: "Acme", ApproverID: companyApprover})
	store.PutDepartment(org.Department{ID: "dept-1", CompanyID: "co-1", Name: "eng", ApproverID: deptApprover})
	store.PutTeam(org.Team{ID: "team-1", CompanyID: "co-1", DepartmentID: "dept-1", Name: "ops", ApproverID: teamApprover})
	store.PutEmployee(org.Employee{ID: "emp-1", CompanyID: "co-1", DepartmentID: "dept-1", TeamID: "team-1", Name: "Ada"})
	return store
}

func approverFor(t *testing.T, store *memory.Store) (string, bool) {
	t.Helper()
	ctx := context.Background()
	e, err := store.Employee(ctx, "emp-1")
	require.NoError(t, err)
	id, ok, err := org.ApproverFor(ctx, store, e)
	require.NoError(t, err)
	return id, ok
}

func TestApproverFor_TeamWins(t *testing.T) {
	id, ok := approverFor(t, seedOrg("lead", "head", "ceo"))
	assert.True(t, ok)
	assert.Equal(t, "lead", id)
}

func TestApproverFor_FallsBackToDepartment(t *testing.T) {
	id, ok := approverFor(t, seedOrg("", "head", "ceo"))
	assert.True(t, ok)
	assert.Equal(t, "head", id)
}

func TestApproverFor_FallsBackToCompany(t *testing.T) {
	id, ok := approverFor(t, seedOrg("", "", "ceo"))
	assert.True(t, ok)
	assert.Equal(t, "ceo", id)
}

func TestApproverFor_NoneConfigured(t *testing.T) {
	id, ok := approverFor(t, seedOrg("", "", ""))
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestApproverFor_EmployeeOutsideTeamAndDepartment(t *testing.T) {
	store := memory.New()
	store.PutCompany(org.Company{ID: "co-1", Name: "Acme", ApproverID: "ceo"})
	store.PutEmployee(org.Employee{ID: "emp-1", CompanyID: "co-1", Name: "Solo"})

	ctx := context.Background()
	e, err := store.Employee(ctx, "emp-1")
	require.NoError(t, err)
	id, ok, err := org.ApproverFor(ctx, store, e)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ceo", id)
}

func TestResolveApprover_SkipsNilSources(t *testing.T) {
	id, ok := org.ResolveApprover(nil, (*org.Team)(nil), &org.Company{ApproverID: "ceo"})
	assert.True(t, ok)
	assert.Equal(t, "ceo", id)
}

func TestRole_CanReview(t *testing.T) {
	assert.False(t, org.RoleStaff.CanReview())
	assert.True(t, org.RoleTeamLeader.CanReview())
	assert.True(t, org.RoleManager.CanReview())
	assert.True(t, org.RoleHR.CanReview())
	assert.False(t, org.Role("unknown").Valid())
}
