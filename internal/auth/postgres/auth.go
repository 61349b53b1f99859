package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/auth"
)

// Repository implements auth.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail returns the user regardless of status; the session needs the
// status to distinguish invalid credentials from a suspended account.
func (r *Repository) FindByEmail(email string) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Model(&auth.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"updated_at":    time.Now(),
		}).Error
}

// CreateUser inserts a new account record, typically in pending status
// until an account approval activates it.
func (r *Repository) CreateUser(user *auth.User) error {
	return r.db.Create(user).Error
}

// UpdateStatus moves the account to a new status. Deactivation goes through
// here as well; user rows are never deleted.
func (r *Repository) UpdateStatus(userID int64, status string) error {
	res := r.db.Model(&auth.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) ListUsers(limit, offset int) ([]*auth.User, error) {
	var users []*auth.User
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}
