package user

import (
	"time"

	"go-attendance/internal/domain"

	"github.com/google/uuid"
)

// User is the profile record keyed by the identity subject id. A nil
// CompanyID means the user has not created or joined a company yet.
type User struct {
	UID       string      `gorm:"column:uid;type:text;primaryKey"`
	UserName  string      `gorm:"column:user_name;type:varchar(255)"`
	CompanyID *uuid.UUID  `gorm:"column:company_id;type:uuid;index:idx_users_company_id"`
	Role      domain.Role `gorm:"column:role;type:varchar(20)"`
	Email     string      `gorm:"column:email;type:text"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasCompany() bool {
	return u != nil && u.CompanyID != nil && *u.CompanyID != uuid.Nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == domain.RoleAdmin
}

// InCompany reports whether u belongs to companyID.
func (u *User) InCompany(companyID uuid.UUID) bool {
	return u.HasCompany() && *u.CompanyID == companyID
}
