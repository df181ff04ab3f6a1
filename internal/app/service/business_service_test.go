package service

import (
	"testing"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBusinessServiceTest(t *testing.T) (*conflictTestEnv, BusinessService) {
	env := setupConflictTest(t)

	userRepo := repository.NewUserRepository(env.db)
	activity := NewActivityService(env.activityRepo, nil)
	svc := NewBusinessService(env.db, env.businessRepo, userRepo, env.resolver, activity)
	return env, svc
}

// loadActor refetches a user with their plan preloaded, the shape the API
// layer hands to the service
func loadActor(t *testing.T, env *conflictTestEnv, id uint) *model.User {
	t.Helper()
	user, err := repository.NewUserRepository(env.db).FindByID(id)
	require.NoError(t, err)
	return user
}

func TestBusinessService_Create_Success(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner1.ID)

	result, err := svc.Create(actor, BusinessInput{
		Name:      "Blue Bottle Cafe",
		Category:  "cafe",
		Phone:     "+12025550123",
		ReviewURL: urlPlaceA,
	})
	require.NoError(t, err)

	assert.Equal(t, BranchURLFree, result.Resolution.Branch)
	assert.Equal(t, model.StatusActive, result.Business.Status)
	assert.Equal(t, actor.ID, result.Business.UserID)
	assert.NotEmpty(t, result.Business.FunnelSlug)
	assert.NotEmpty(t, result.Business.NormalizedURL)
	assert.Equal(t, "+12025550123", result.Business.Phone)

	created, err := env.activityRepo.CountByAction(model.ActionBusinessCreated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
}

func TestBusinessService_Create_InvalidURL(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner1.ID)

	_, err := svc.Create(actor, BusinessInput{Name: "Cafe", ReviewURL: "https://yelp.com/biz/cafe"})
	assert.ErrorIs(t, err, ErrInvalidReviewURL)
}

func TestBusinessService_Create_InvalidPhone(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner1.ID)

	_, err := svc.Create(actor, BusinessInput{Name: "Cafe", Phone: "not-a-number", ReviewURL: urlPlaceA})
	assert.ErrorIs(t, err, ErrInvalidBusinessPhone)
}

func TestBusinessService_Create_SelfConflictRejected(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner1.ID)

	env.createBusiness(t, env.owner1, "first", urlPlaceA, model.StatusActive)

	_, err := svc.Create(actor, BusinessInput{Name: "second", ReviewURL: urlPlaceAVariant})
	assert.ErrorIs(t, err, ErrDuplicateOwnURL)

	var count int64
	env.db.Model(&model.Business{}).Where("name = ?", "second").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBusinessService_Create_ForeignConflictParksNewRecord(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner2.ID)

	holder := env.createBusiness(t, env.owner1, "holder", urlPlaceA, model.StatusActive)

	result, err := svc.Create(actor, BusinessInput{Name: "claimant", ReviewURL: urlPlaceA})
	require.NoError(t, err)

	// the losing holder went to admin custody, the new claim is parked
	assert.Equal(t, BranchForeignArchived, result.Resolution.Branch)
	assert.Equal(t, model.StatusPendingConnect, result.Business.Status)

	archivedHolder := env.reload(t, holder.ID)
	assert.Equal(t, model.StatusArchived, archivedHolder.Status)
	assert.Equal(t, env.adminAccount.ID, archivedHolder.UserID)
	require.NotNil(t, archivedHolder.PreviousState)

	// nobody actively holds the URL until an admin intervenes
	assert.Equal(t, int64(0), env.countActiveHolders(t, urlPlaceA))

	parked, err := env.activityRepo.CountByAction(model.ActionBusinessParked)
	require.NoError(t, err)
	assert.Equal(t, int64(1), parked)
}

func TestBusinessService_Create_AdminTakeoverCompletesActive(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	operator := loadActor(t, env, env.operator.ID)

	holder := env.createBusiness(t, env.owner1, "holder", urlPlaceA, model.StatusActive)

	result, err := svc.Create(operator, BusinessInput{Name: "takeover", ReviewURL: urlPlaceA})
	require.NoError(t, err)

	// a controlled admin takeover finishes active instead of parked
	assert.Equal(t, model.StatusActive, result.Business.Status)
	assert.Equal(t, model.StatusArchived, env.reload(t, holder.ID).Status)
	assert.Equal(t, int64(1), env.countActiveHolders(t, urlPlaceA))
}

func TestBusinessService_Create_PlanLimit(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)

	// free plan allows one business
	env.createBusiness(t, env.owner1, "first", urlPlaceA, model.StatusActive)
	actor := loadActor(t, env, env.owner1.ID)

	_, err := svc.Create(actor, BusinessInput{Name: "second", ReviewURL: urlPlaceB})
	assert.ErrorIs(t, err, ErrBusinessLimitReached)
}

func TestBusinessService_Update_ForeignURLRejectedForOwner(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner2.ID)

	holder := env.createBusiness(t, env.owner1, "holder", urlPlaceA, model.StatusActive)
	mine := env.createBusiness(t, env.owner2, "mine", urlPlaceB, model.StatusActive)

	_, err := svc.Update(actor, mine.ID, BusinessInput{ReviewURL: urlPlaceA})
	assert.ErrorIs(t, err, ErrDuplicateForeignURL)

	// no state change on either side
	assert.Equal(t, model.StatusActive, env.reload(t, holder.ID).Status)
	after := env.reload(t, mine.ID)
	assert.Equal(t, urlPlaceB, after.ReviewURL)
	assert.Equal(t, model.StatusActive, after.Status)
}

func TestBusinessService_Update_AdminTakeoverArchivesHolder(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	operator := loadActor(t, env, env.operator.ID)

	holder := env.createBusiness(t, env.owner1, "holder", urlPlaceA, model.StatusActive)
	target := env.createBusiness(t, env.operator, "target", urlPlaceB, model.StatusActive)

	updated, err := svc.Update(operator, target.ID, BusinessInput{ReviewURL: urlPlaceA})
	require.NoError(t, err)

	assert.Equal(t, urlPlaceA, updated.ReviewURL)
	assert.Equal(t, model.StatusArchived, env.reload(t, holder.ID).Status)
	assert.Equal(t, int64(1), env.countActiveHolders(t, urlPlaceA))
}

func TestBusinessService_Update_FreeURL(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner1.ID)

	mine := env.createBusiness(t, env.owner1, "mine", urlPlaceA, model.StatusActive)

	updated, err := svc.Update(actor, mine.ID, BusinessInput{Name: "renamed", ReviewURL: urlPlaceB})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, urlPlaceB, updated.ReviewURL)
}

func TestBusinessService_Update_AccessDenied(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner2.ID)

	theirs := env.createBusiness(t, env.owner1, "theirs", urlPlaceA, model.StatusActive)

	_, err := svc.Update(actor, theirs.ID, BusinessInput{Name: "hijack"})
	assert.ErrorIs(t, err, ErrBusinessAccessDenied)
}

func TestBusinessService_CheckURL_IsSideEffectFree(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner2.ID)

	holder := env.createBusiness(t, env.owner1, "holder", urlPlaceA, model.StatusActive)

	res, err := svc.CheckURL(actor, nil, urlPlaceA)
	require.NoError(t, err)
	assert.Equal(t, BranchForeignArchived, res.Branch)

	// a dry run never archives anything
	assert.Equal(t, model.StatusActive, env.reload(t, holder.ID).Status)
}

func TestBusinessService_SoftDelete(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	actor := loadActor(t, env, env.owner1.ID)

	mine := env.createBusiness(t, env.owner1, "mine", urlPlaceA, model.StatusActive)

	require.NoError(t, svc.SoftDelete(actor, mine.ID))

	after := env.reload(t, mine.ID)
	assert.Equal(t, model.StatusSoftDeleted, after.Status)
	assert.NotNil(t, after.DeletedAt)
	// no snapshot: a soft delete is not restorable through the archive flow
	assert.Nil(t, after.PreviousState)

	// the URL is free again
	assert.Equal(t, int64(0), env.countActiveHolders(t, urlPlaceA))
	res, err := svc.CheckURL(loadActor(t, env, env.owner2.ID), nil, urlPlaceA)
	require.NoError(t, err)
	assert.Equal(t, BranchURLFree, res.Branch)
}

func TestBusinessService_HardDelete(t *testing.T) {
	env, svc := setupBusinessServiceTest(t)
	operator := loadActor(t, env, env.operator.ID)

	mine := env.createBusiness(t, env.owner1, "mine", urlPlaceA, model.StatusActive)

	require.NoError(t, svc.HardDelete(operator, mine.ID))

	var count int64
	env.db.Model(&model.Business{}).Where("id = ?", mine.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
