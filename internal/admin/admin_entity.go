package admin

import (
	"time"

	"github.com/google/uuid"

	"hostelpass/internal/config"
)

// Admin is a staff member in the approval chain. ReportsTo is informational
// only; the decision ladder comes from the role hierarchy, not from this
// back-reference.
type Admin struct {
	ID   uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string      `gorm:"type:varchar(100);not null"`
	Role config.Role `gorm:"type:varchar(20);not null;index:idx_admins_role"`

	Position    string `gorm:"type:varchar(100)"`
	PhoneNumber string `gorm:"type:varchar(10);not null"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null"`

	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	ReportsTo   *uuid.UUID `gorm:"type:uuid"`
	HostelBlock string     `gorm:"type:varchar(10)"`
	Gender      string     `gorm:"type:varchar(10)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
