package student

import (
	"time"

	"github.com/google/uuid"
)

// Quota identifies one of the two independent per-student counters.
type Quota string

const (
	QuotaOuting Quota = "remaining_outings"
	QuotaLeave  Quota = "remaining_leaves"
)

type Student struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	Name        string `gorm:"type:varchar(100);not null"`
	PhoneNumber string `gorm:"type:varchar(10);not null"`
	Year        string `gorm:"type:varchar(2);not null;index:idx_students_year"`
	Branch      string `gorm:"type:varchar(50);not null"`
	RoomNo      string `gorm:"type:varchar(10);not null"`
	Address     string `gorm:"type:text;not null"`
	Image       string `gorm:"type:varchar(255);not null;default:'default.jpg'"`

	ParentName        string `gorm:"type:varchar(100);not null"`
	ParentPhoneNumber string `gorm:"type:varchar(10);not null"`

	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_students_email"`
	HostelBlock  string `gorm:"type:varchar(20);not null;index:idx_students_block"`
	PasswordHash string `gorm:"type:varchar(100);not null;column:password_hash"`

	RemainingOutings int `gorm:"type:int;not null;default:4"`
	RemainingLeaves  int `gorm:"type:int;not null;default:10"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
