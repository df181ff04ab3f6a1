package repository

import (
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(search string) ([]model.User, error)
	CountBusinesses(userID uint) (int64, error)
	FindExpiredPlans() ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Plan").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Plan").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(search string) ([]model.User, error) {
	query := r.db.Model(&model.User{}).Preload("Plan")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var users []model.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountBusinesses(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Business{}).
		Where("user_id = ? AND status = ?", userID, model.StatusActive).
		Count(&count).Error
	return count, err
}

// FindExpiredPlans returns paying users whose plan expiry has passed
func (r *userRepository) FindExpiredPlans() ([]model.User, error) {
	var users []model.User
	err := r.db.Preload("Plan").
		Where("plan_expires IS NOT NULL AND plan_expires < CURRENT_TIMESTAMP").
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to find users with expired plans", err)
		return nil, err
	}
	return users, nil
}
