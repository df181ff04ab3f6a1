package service

import (
	"context"
	"testing"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFunnelTest(t *testing.T) (*conflictTestEnv, FunnelService, repository.EmployeeRepository) {
	env := setupConflictTest(t)
	employeeRepo := repository.NewEmployeeRepository(env.db)
	svc := NewFunnelService(env.businessRepo, employeeRepo)
	return env, svc, employeeRepo
}

func TestFunnelService_ResolveSlug_Business(t *testing.T) {
	env, svc, _ := setupFunnelTest(t)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	target, err := svc.ResolveSlug(context.Background(), business.FunnelSlug)
	require.NoError(t, err)
	assert.Equal(t, urlPlaceA, target)

	// scans fall back to a direct DB increment when Redis is disabled
	assert.Equal(t, int64(1), env.reload(t, business.ID).ScanCount)

	_, err = svc.ResolveSlug(context.Background(), business.FunnelSlug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), env.reload(t, business.ID).ScanCount)
}

func TestFunnelService_ResolveSlug_Employee(t *testing.T) {
	env, svc, employeeRepo := setupFunnelTest(t)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	employee := &model.Employee{
		BusinessID: business.ID,
		Name:       "Barista",
		FunnelSlug: "barista-slug",
	}
	require.NoError(t, employeeRepo.Create(employee))

	target, err := svc.ResolveSlug(context.Background(), employee.FunnelSlug)
	require.NoError(t, err)
	assert.Equal(t, urlPlaceA, target)

	// the scan is attributed to the employee, not the business
	updated, err := employeeRepo.FindByID(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ScanCount)
	assert.Equal(t, int64(0), env.reload(t, business.ID).ScanCount)
}

func TestFunnelService_ResolveSlug_OnlyActiveRedirects(t *testing.T) {
	env, svc, employeeRepo := setupFunnelTest(t)

	for _, status := range []model.BusinessStatus{
		model.StatusPendingConnect,
		model.StatusSoftDeleted,
		model.StatusArchived,
	} {
		business := env.createBusiness(t, env.owner1, "biz-"+string(status), urlPlaceA, status)

		_, err := svc.ResolveSlug(context.Background(), business.FunnelSlug)
		assert.ErrorIs(t, err, ErrFunnelNotFound, "status %s", status)

		// an employee slug inherits the parent's fate
		employee := &model.Employee{
			BusinessID: business.ID,
			Name:       "Staff",
			FunnelSlug: "staff-" + string(status),
		}
		require.NoError(t, employeeRepo.Create(employee))

		_, err = svc.ResolveSlug(context.Background(), employee.FunnelSlug)
		assert.ErrorIs(t, err, ErrFunnelNotFound, "employee of status %s", status)
	}
}

func TestFunnelService_ResolveSlug_UnknownSlug(t *testing.T) {
	_, svc, _ := setupFunnelTest(t)

	_, err := svc.ResolveSlug(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, ErrFunnelNotFound)
}

func TestFunnelService_FlushScanCounts_RedisDisabled(t *testing.T) {
	_, svc, _ := setupFunnelTest(t)

	// without Redis there is nothing to drain; flushing must not fail
	assert.NoError(t, svc.FlushScanCounts(context.Background()))
}
