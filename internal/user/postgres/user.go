package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(u *user.User) error {
	if err := r.db.Create(u).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

func (r *UserRepository) Update(id int64, fields map[string]interface{}) (*user.User, error) {
	fields["updated_at"] = time.Now()

	result := r.db.Model(&user.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translateDuplicate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrUserNotFound
	}

	return r.GetByID(id)
}

func (r *UserRepository) Delete(id int64) error {
	result := r.db.Delete(&user.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetCredentials(email string) (int64, string, string, error) {
	u, err := r.GetByEmail(email)
	if err != nil {
		return 0, "", "", err
	}
	return u.ID, u.PasswordHash, u.Role, nil
}

func (r *UserRepository) UpdatePassword(email, passwordHash string) error {
	result := r.db.Model(&user.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// translateDuplicate maps unique constraint violations on the email
// column to the field-specific duplicate error.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
		return internal.ErrDuplicateEmail
	}
	return err
}
