package identity

import "time"

const EmailConstraint = "uq_identity_accounts_email"

// Account is a password identity. UID is the subject id every other table keys on.
type Account struct {
	UID          string    `gorm:"column:uid;type:text;primaryKey"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_identity_accounts_email"`
	Name         string    `gorm:"column:name;type:varchar(255)"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "identity_accounts"
}
