package company

import (
	"time"

	"github.com/google/uuid"
)

const InviteCodeConstraint = "uq_companies_invite_code"

type Company struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"type:varchar(150);not null"`
	OwnerID    string    `gorm:"column:owner_id;type:text;not null"`
	InviteCode string    `gorm:"column:invite_code;type:varchar(6);not null;uniqueIndex:uq_companies_invite_code"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	UpdatedAt  time.Time `gorm:"not null;default:now()"`
}

func (Company) TableName() string {
	return "companies"
}
