package repository

import (
	"github.com/openacademy/messaging-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository read access to the platform user table.
// Account lifecycle belongs to the main platform backend; this service
// only resolves identity and messaging eligibility.
type UserRepository interface {
	FindByID(id string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
