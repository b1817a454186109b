package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stafflow.com/stafflow/model"
)

// UserService covers the admin-facing employee records. Users are soft
// deactivated, never deleted.
type UserService struct {
	db *Database
}

func NewUserService(db *Database) *UserService {
	return &UserService{db: db}
}

type CreateUserInput struct {
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Role         model.Role
	JoinDate     *time.Time
	DeviceTag    string
}

// Create inserts the user and its current-year leave balance together, so a
// freshly created employee can apply for leave immediately.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleEmployee
	}
	user := model.User{
		EmployeeCode: in.EmployeeCode,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       model.UserActive,
		JoinDate:     in.JoinDate,
		DeviceTag:    in.DeviceTag,
	}

	err = s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).
			Where("email = ? OR employee_code = ?", in.Email, in.EmployeeCode).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user uniqueness: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("user %s: %w", in.EmployeeCode, ErrConflict)
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		_, err := getBalanceLocked(tx, user.ID, time.Now().UTC().Year())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Deactivate is the soft delete: the user keeps its history but can no
// longer log in or appear in biometric reconciliation.
func (s *UserService) Deactivate(ctx context.Context, id uint, endDate *time.Time) error {
	res := s.db.DB(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   model.UserInactive,
			"end_date": endDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.DB(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.DB(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, includeInactive bool) ([]model.User, error) {
	q := s.db.DB(ctx).Order("employee_code")
	if !includeInactive {
		q = q.Where("status = ?", model.UserActive)
	}
	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Authenticate verifies the bcrypt hash for the login endpoint.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Status != model.UserActive {
		return nil, fmt.Errorf("user %s is inactive: %w", email, ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("bad credentials for %s: %w", email, ErrForbidden)
	}
	return user, nil
}
