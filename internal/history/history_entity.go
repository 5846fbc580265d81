package history

import (
	"time"

	"github.com/google/uuid"

	"hostelpass/internal/pass"
)

// Record is one completed round trip. History rows are written exactly once,
// when the return is recorded, and never updated or deleted afterwards.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_history_student"`

	ScheduledOut time.Time `gorm:"not null"`
	ScheduledIn  time.Time `gorm:"not null"`
	ActualOut    time.Time `gorm:"not null"`
	ActualIn     time.Time `gorm:"not null"`

	Reason      string `gorm:"type:text;not null"`
	Destination string `gorm:"type:varchar(255);not null"`
	Remarks     string `gorm:"type:text"`

	CreatedAt time.Time
}

func tableFor(kind pass.Kind) string {
	if kind == pass.KindOuting {
		return "outing_history"
	}
	return "leave_history"
}
