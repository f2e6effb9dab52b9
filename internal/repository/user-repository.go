package repository

import (
	"errors"

	"github.com/ComplyTrail/audit_service/internal/apperr"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByID(id uint) (*domain.User, error)
	UpdateUser(id uint, fields map[string]any) error
	DeleteUser(id uint) error
	ListUsers(limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewUserRepository(db *gorm.DB, log logrus.FieldLogger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, apperr.New(apperr.Persistence, "nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.Conflict, "Email already registered")
		}
		r.log.WithError(err).Error("create user failed")
		return nil, apperr.New(apperr.Persistence, "failed to create user")
	}
	return user, nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		r.log.WithError(err).Error("find user by email failed")
		return nil, apperr.New(apperr.Persistence, "failed to find user by email")
	}
	return user, nil
}

func (r *userRepository) FindByID(id uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		r.log.WithError(err).Error("find user by id failed")
		return nil, apperr.New(apperr.Persistence, "failed to find user by id")
	}
	return user, nil
}

var userUpdatable = map[string]bool{
	"username": true,
	"email":    true,
	"role":     true,
	"password": true,
}

func (r *userRepository) UpdateUser(id uint, fields map[string]any) error {
	filtered := filterAllowed(fields, userUpdatable)
	if len(filtered) == 0 {
		return apperr.New(apperr.Persistence, "failed to update user")
	}

	res := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(filtered)
	if res.Error != nil {
		r.log.WithError(res.Error).Error("update user failed")
		return apperr.New(apperr.Persistence, "failed to update user")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

func (r *userRepository) DeleteUser(id uint) error {
	if err := r.db.Delete(&domain.User{}, id).Error; err != nil {
		r.log.WithError(err).Error("delete user failed")
		return apperr.New(apperr.Persistence, "failed to delete user")
	}
	return nil
}

func (r *userRepository) ListUsers(limit, offset int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		r.log.WithError(err).Error("list users failed")
		return []domain.User{}, apperr.New(apperr.Persistence, "failed to list users")
	}
	return users, nil
}

// filterAllowed keeps only allow-listed keys; unknown keys are silently
// dropped.
func filterAllowed(fields map[string]any, allowed map[string]bool) map[string]any {
	filtered := map[string]any{}
	for k, v := range fields {
		if allowed[k] {
			filtered[k] = v
		}
	}
	return filtered
}
