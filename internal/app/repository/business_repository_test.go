package repository

import (
	"testing"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const repoTestURL = "https://search.google.com/local/writereview?placeid=REPO_TEST"

func setupBusinessRepoTest(t *testing.T) (BusinessRepository, *gorm.DB, *model.User) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	owner := &model.User{Email: "repo@example.com", PasswordHash: "hash", Name: "Repo Owner", Role: model.RoleUser}
	require.NoError(t, testDB.Create(owner).Error)

	return NewBusinessRepository(testDB), testDB, owner
}

func seedBusiness(t *testing.T, testDB *gorm.DB, owner *model.User, name string, status model.BusinessStatus) *model.Business {
	t.Helper()
	business := &model.Business{
		UserID:        owner.ID,
		Name:          name,
		ReviewURL:     repoTestURL,
		NormalizedURL: "search.google.com/local/writereview?placeid=REPO_TEST",
		FunnelSlug:    name + "-slug",
		Status:        status,
	}
	require.NoError(t, testDB.Create(business).Error)
	return business
}

func TestBusinessRepository_FindActiveByRawURL_SkipsInactive(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	seedBusiness(t, testDB, owner, "archived", model.StatusArchived)
	seedBusiness(t, testDB, owner, "deleted", model.StatusSoftDeleted)
	seedBusiness(t, testDB, owner, "parked", model.StatusPendingConnect)

	_, err := repo.FindActiveByRawURL(nil, repoTestURL)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	active := seedBusiness(t, testDB, owner, "active", model.StatusActive)
	found, err := repo.FindActiveByRawURL(nil, repoTestURL)
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)
	// the owner is preloaded so callers can name the holder in responses
	assert.Equal(t, owner.Email, found.User.Email)
}

func TestBusinessRepository_FindActiveByNormalizedURL_SkipsInactive(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	seedBusiness(t, testDB, owner, "archived", model.StatusArchived)

	_, err := repo.FindActiveByNormalizedURL(nil, "search.google.com/local/writereview?placeid=REPO_TEST")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	active := seedBusiness(t, testDB, owner, "active", model.StatusActive)
	found, err := repo.FindActiveByNormalizedURL(nil, "search.google.com/local/writereview?placeid=REPO_TEST")
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)
}

// Update must write cleared snapshot and timestamp fields back as NULL;
// restore depends on this to wipe the undo log after consuming it.
func TestBusinessRepository_Update_WritesNulls(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	business := seedBusiness(t, testDB, owner, "biz", model.StatusArchived)
	now := time.Now()
	business.ArchivedAt = &now
	business.PreviousState = business.Snapshot()
	require.NoError(t, repo.Update(nil, business))

	var stored model.Business
	require.NoError(t, testDB.First(&stored, business.ID).Error)
	require.NotNil(t, stored.PreviousState)
	require.NotNil(t, stored.ArchivedAt)

	stored.Status = model.StatusActive
	stored.PreviousState = nil
	stored.ArchivedAt = nil
	require.NoError(t, repo.Update(nil, &stored))

	var restored model.Business
	require.NoError(t, testDB.First(&restored, business.ID).Error)
	assert.Equal(t, model.StatusActive, restored.Status)
	assert.Nil(t, restored.PreviousState)
	assert.Nil(t, restored.ArchivedAt)
}

func TestBusinessRepository_FindByOwner_ExcludesSoftDeleted(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	seedBusiness(t, testDB, owner, "active", model.StatusActive)
	seedBusiness(t, testDB, owner, "parked", model.StatusPendingConnect)
	seedBusiness(t, testDB, owner, "deleted", model.StatusSoftDeleted)

	businesses, err := repo.FindByOwner(owner.ID)
	require.NoError(t, err)
	require.Len(t, businesses, 2)
	for _, b := range businesses {
		assert.NotEqual(t, model.StatusSoftDeleted, b.Status)
	}
}

func TestBusinessRepository_FindAll_Filters(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)

	seedBusiness(t, testDB, owner, "Sunrise Cafe", model.StatusActive)
	seedBusiness(t, testDB, owner, "Archived Diner", model.StatusArchived)
	seedBusiness(t, testDB, other, "Other Cafe", model.StatusActive)

	byStatus, err := repo.FindAll(BusinessFilter{Status: model.StatusArchived})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Archived Diner", byStatus[0].Name)

	byOwner, err := repo.FindAll(BusinessFilter{OwnerID: &other.ID})
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.Equal(t, "Other Cafe", byOwner[0].Name)

	bySearch, err := repo.FindAll(BusinessFilter{Search: "Cafe"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 2)
}

func TestBusinessRepository_IncrementScanCount(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	business := seedBusiness(t, testDB, owner, "biz", model.StatusActive)
	require.NoError(t, repo.IncrementScanCount(business.FunnelSlug, 3))
	require.NoError(t, repo.IncrementScanCount(business.FunnelSlug, 2))

	var stored model.Business
	require.NoError(t, testDB.First(&stored, business.ID).Error)
	assert.Equal(t, int64(5), stored.ScanCount)

	// unknown slugs are a silent no-op; the flush loop probes both tables
	assert.NoError(t, repo.IncrementScanCount("missing-slug", 1))
}

func TestBusinessRepository_HardDelete_Cascades(t *testing.T) {
	repo, testDB, owner := setupBusinessRepoTest(t)

	business := seedBusiness(t, testDB, owner, "biz", model.StatusActive)
	employee := &model.Employee{BusinessID: business.ID, Name: "Staff", FunnelSlug: "staff-slug"}
	require.NoError(t, testDB.Create(employee).Error)
	template := &model.ReviewTemplate{BusinessID: business.ID, Content: "Great service"}
	require.NoError(t, testDB.Create(template).Error)

	require.NoError(t, repo.HardDelete(business.ID))

	var count int64
	testDB.Model(&model.Business{}).Where("id = ?", business.ID).Count(&count)
	assert.Zero(t, count)
	testDB.Model(&model.Employee{}).Where("business_id = ?", business.ID).Count(&count)
	assert.Zero(t, count)
	testDB.Model(&model.ReviewTemplate{}).Where("business_id = ?", business.ID).Count(&count)
	assert.Zero(t, count)
}
