package identity

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

//go:generate mockgen -source=identity_repo.go -destination=mock/identity_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByUID(ctx context.Context, uid string) (*Account, error)
	Delete(ctx context.Context, uid string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetByUID(ctx context.Context, uid string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).First(&account, "uid = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) Delete(ctx context.Context, uid string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Account{}, "uid = ?", uid)
	return res.RowsAffected > 0, res.Error
}
