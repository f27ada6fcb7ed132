package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Merge column sets for Upsert. Join leaves the stored email alone.
var (
	MergeOnCreate = []string{"user_name", "company_id", "role", "email", "updated_at"}
	MergeOnJoin   = []string{"user_name", "company_id", "role", "updated_at"}
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindByUID(ctx context.Context, uid string) (*User, error)
	// FindByUIDForUpdate locks the row until the surrounding transaction ends.
	FindByUIDForUpdate(ctx context.Context, uid string) (*User, error)
	// Upsert inserts u, or overwrites only mergeColumns on an existing row.
	Upsert(ctx context.Context, u *User, mergeColumns []string) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]User, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	Delete(ctx context.Context, uid string) (bool, error)
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUID(ctx context.Context, uid string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "uid = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByUIDForUpdate(ctx context.Context, uid string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&u, "uid = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Upsert(ctx context.Context, u *User, mergeColumns []string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns(mergeColumns),
		}).
		Create(u).Error
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("role ASC, user_name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *repository) Delete(ctx context.Context, uid string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&User{}, "uid = ?", uid)
	return res.RowsAffected > 0, res.Error
}
