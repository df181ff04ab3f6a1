package repository

import (
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessFilter struct {
	Search   string
	Status   model.BusinessStatus
	OwnerID  *uint
	Category string
}

// BusinessRepository persists business records. Methods taking a *gorm.DB
// run against the caller's transaction; the conflict resolver relies on this
// to keep its read-then-write sequence inside one serializable unit.
type BusinessRepository interface {
	Create(tx *gorm.DB, business *model.Business) error
	Update(tx *gorm.DB, business *model.Business) error
	FindByID(id uint) (*model.Business, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Business, error)
	FindByOwner(ownerID uint) ([]model.Business, error)
	FindAll(filter BusinessFilter) ([]model.Business, error)
	FindActiveByRawURL(tx *gorm.DB, rawURL string) (*model.Business, error)
	FindActiveByNormalizedURL(tx *gorm.DB, normalizedURL string) (*model.Business, error)
	FindByFunnelSlug(slug string) (*model.Business, error)
	IncrementScanCount(slug string, delta int64) error
	HardDelete(id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(tx *gorm.DB, business *model.Business) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name":    business.Name,
			"user_id": business.UserID,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"status":      business.Status,
	})
	return nil
}

func (r *businessRepository) Update(tx *gorm.DB, business *model.Business) error {
	if tx == nil {
		tx = r.db
	}
	// Save with Select("*") so nil snapshot and nil timestamps are written
	// back as NULL on restore
	if err := tx.Model(business).Select("*").Omit("created_at").Updates(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *businessRepository) FindByIDTx(tx *gorm.DB, id uint) (*model.Business, error) {
	var business model.Business
	if err := tx.Preload("User").First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByOwner(ownerID uint) ([]model.Business, error) {
	var businesses []model.Business
	err := r.db.
		Where("user_id = ? AND status <> ?", ownerID, model.StatusSoftDeleted).
		Order("created_at ASC").
		Find(&businesses).Error
	if err != nil {
		logger.Error("Failed to list businesses by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindAll(filter BusinessFilter) ([]model.Business, error) {
	query := r.db.Model(&model.Business{}).Preload("User")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR review_url LIKE ?", like, like)
	}

	var businesses []model.Business
	if err := query.Order("created_at DESC").Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses", err)
		return nil, err
	}
	return businesses, nil
}

// FindActiveByRawURL is the first phase of the conflict lookup: exact string
// match over active records only.
func (r *businessRepository) FindActiveByRawURL(tx *gorm.DB, rawURL string) (*model.Business, error) {
	if tx == nil {
		tx = r.db
	}
	var business model.Business
	err := tx.Preload("User").
		Where("review_url = ? AND status = ?", rawURL, model.StatusActive).
		First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// FindActiveByNormalizedURL is the authoritative second phase: normalized
// equality across all active records.
func (r *businessRepository) FindActiveByNormalizedURL(tx *gorm.DB, normalizedURL string) (*model.Business, error) {
	if tx == nil {
		tx = r.db
	}
	var business model.Business
	err := tx.Preload("User").
		Where("normalized_url = ? AND status = ?", normalizedURL, model.StatusActive).
		First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByFunnelSlug(slug string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("funnel_slug = ?", slug).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) IncrementScanCount(slug string, delta int64) error {
	return r.db.Model(&model.Business{}).
		Where("funnel_slug = ?", slug).
		UpdateColumn("scan_count", gorm.Expr("scan_count + ?", delta)).Error
}

// HardDelete permanently removes a business; employees and templates cascade
func (r *businessRepository) HardDelete(id uint) error {
	if err := r.db.Select("Employees", "Templates").Delete(&model.Business{ID: id}).Error; err != nil {
		logger.Error("Failed to hard delete business", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	return nil
}
