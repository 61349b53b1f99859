package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccountTypeCouncilOfficer    = "council_officer"
	AccountTypePraesidiumOfficer = "praesidium_officer"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
	StatusInactive  = "inactive"
)

// User is the identity record. Accounts are never hard-deleted; the status
// moves to inactive instead.
type User struct {
	ID           int64        `json:"id" gorm:"primaryKey"`
	Email        string       `json:"email" gorm:"not null;uniqueIndex"`
	Name         string       `json:"name" gorm:"not null"`
	PasswordHash string       `json:"-" gorm:"column:password_hash"`
	AccountType  string       `json:"account_type" gorm:"column:account_type;not null"`
	Poste        string       `json:"poste" gorm:"not null"`
	PraesidiumID *int64       `json:"praesidium_id,omitempty" gorm:"column:praesidium_id"`
	Status       string       `json:"status" gorm:"default:pending"`
	Permissions  []Permission `json:"permissions,omitempty" gorm:"-"`
	CreatedAt    time.Time    `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"column:updated_at;default:now()"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsCouncilOfficer() bool {
	return u.AccountType == AccountTypeCouncilOfficer
}

func (u *User) HasPermission(permission Permission) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []Permission) bool {
	for _, userPerm := range u.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
	Logout()
}

type RepositoryAPI interface {
	FindByEmail(email string) (*User, error)
	GetUserByID(userID int64) (*User, error)
	UpdateLastLogin(userID int64, at time.Time) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
