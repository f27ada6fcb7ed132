package attendance

import (
	"context"

	"go-attendance/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *Attendance) error
	// LastForUser returns gorm.ErrRecordNotFound when the user has no records.
	LastForUser(ctx context.Context, companyID uuid.UUID, uid string) (*Attendance, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]Attendance, error)
	ListByUser(ctx context.Context, companyID uuid.UUID, uid string, limit int) ([]Attendance, error)
	ListIDsByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) LastForUser(ctx context.Context, companyID uuid.UUID, uid string) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("uid = ?", uid).
		Order("timestamp DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByUser(ctx context.Context, companyID uuid.UUID, uid string, limit int) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("uid = ?", uid).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListIDsByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Scopes(tenant.Scope(companyID)).
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Attendance{})
	return res.RowsAffected, res.Error
}
