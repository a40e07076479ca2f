package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one user's record for one local day.
type Attendance struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_attendance_user_date"`
	WorkDate  time.Time      `gorm:"column:work_date;type:date;not null;uniqueIndex:idx_attendance_user_date"`
	ClockIn   time.Time      `gorm:"column:clock_in;type:timestamptz;not null"`
	ClockOut  *time.Time     `gorm:"column:clock_out;type:timestamptz"`
	Status    string         `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	User      *UserRef       `gorm:"foreignKey:UserID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type UserRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (UserRef) TableName() string {
	return "users"
}
