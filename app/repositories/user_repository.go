package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// NewUserRepositoryWith binds the repository to an explicit connection
// (used in tests).
func NewUserRepositoryWith(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) q() *orm.Query {
	if r.db != nil {
		return orm.With(r.db)
	}
	return orm.DB()
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.q().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.q().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// EmailExistsExcluding reports whether another user already owns email.
// The record with excludeID is ignored so a user can keep their own address.
func (r *UserRepository) EmailExistsExcluding(email string, excludeID uint) (bool, error) {
	var n int64
	err := r.q().Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&n)
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.q().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.q().Save(user)
}

// Delete removes a user record permanently.
func (r *UserRepository) Delete(user *models.User) error {
	return r.q().Delete(user)
}

// All returns one page of users in insertion order.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := r.q().Model(&models.User{}).GetWithPagination(&users, page, limit)
	return users, pagination, err
}
