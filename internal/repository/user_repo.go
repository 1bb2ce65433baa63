package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"venuebooking/internal/domain"
)

// RoleNormalizer maps a raw stored role to a canonical role.
type RoleNormalizer interface {
	Normalize(raw string) (domain.Role, bool)
}

type UserRepository struct {
	db    *gorm.DB
	roles RoleNormalizer
}

func NewUserRepository(db *gorm.DB, roles RoleNormalizer) *UserRepository {
	return &UserRepository{db: db, roles: roles}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := userModel{
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Name:         u.Name,
		Active:       u.Active,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", domain.ErrValidation, m.Email)
		}
		return translate(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

// GetRole returns the canonical role of an active user. Inactive users and
// users whose stored role maps to nothing are reported as requesters.
func (r *UserRepository) GetRole(ctx context.Context, id int64) (domain.Role, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !u.Active {
		return domain.RoleRequester, nil
	}
	if role, ok := r.roles.Normalize(u.Role); ok {
		return role, nil
	}
	return domain.RoleRequester, nil
}

// ListActiveAdmins returns active users whose role normalizes to admin.
func (r *UserRepository) ListActiveAdmins(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	var out []domain.User
	for _, row := range rows {
		if role, ok := r.roles.Normalize(row.Role); ok && role == domain.RoleAdmin {
			out = append(out, *toDomainUser(row))
		}
	}
	return out, nil
}

func (r *UserRepository) Contact(ctx context.Context, id int64) (domain.Contact, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Contact{}, err
	}
	return domain.Contact{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}
