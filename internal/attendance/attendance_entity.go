package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeClockIn  Type = "clock_in"
	TypeClockOut Type = "clock_out"
)

func (t Type) Valid() bool {
	return t == TypeClockIn || t == TypeClockOut
}

// Attendance rows are append-only. CreatedAtISO mirrors Timestamp as an
// RFC 3339 string for clients that read it verbatim.
type Attendance struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID    uuid.UUID `gorm:"column:company_id;type:uuid;not null;index:idx_attendance_company_uid_ts,priority:1"`
	UID          string    `gorm:"column:uid;type:text;not null;index:idx_attendance_company_uid_ts,priority:2"`
	UserName     string    `gorm:"column:user_name;type:text;not null"`
	Type         Type      `gorm:"column:type;type:varchar(20);not null"`
	Timestamp    time.Time `gorm:"column:timestamp;type:timestamptz;not null;index:idx_attendance_company_uid_ts,priority:3"`
	CreatedAtISO string    `gorm:"column:created_at;type:text;not null"`
}

func (Attendance) TableName() string {
	return "attendance"
}
