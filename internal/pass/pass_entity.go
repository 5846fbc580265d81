package pass

import (
	"time"

	"github.com/google/uuid"

	"hostelpass/internal/student"
)

// Kind selects the request variant. Leaves span dates (semester quota),
// outings span hours within a day (monthly quota). Both run the same state
// machine and differ only in table, quota counter and time granularity.
type Kind string

const (
	KindLeave  Kind = "leave"
	KindOuting Kind = "outing"
)

// Table returns the backing table for the kind; the two variants live in
// separate collections.
func (k Kind) Table() string {
	if k == KindOuting {
		return "outing_requests"
	}
	return "leave_requests"
}

// Quota returns the student counter this kind consumes.
func (k Kind) Quota() student.Quota {
	if k == KindOuting {
		return student.QuotaOuting
	}
	return student.QuotaLeave
}

// timeLayout returns the wire format of the scheduling window.
func (k Kind) timeLayout() string {
	if k == KindOuting {
		return time.RFC3339
	}
	return "2006-01-02"
}

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusForwarded = "forwarded"
)

// Pass is one leave or outing request. The actual-out/actual-in fields act
// as implicit terminal sub-states on top of Status: a pass with ActualIn set
// has completed its round trip and has been archived.
type Pass struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_passes_student"`

	AcceptedBy *uuid.UUID `gorm:"type:uuid"`

	ScheduledOut time.Time  `gorm:"not null"`
	ScheduledIn  time.Time  `gorm:"not null"`
	ActualOut    *time.Time `gorm:""`
	ActualIn     *time.Time `gorm:""`

	Status      string `gorm:"type:varchar(20);not null;default:'pending';index:idx_passes_status"`
	Remarks     string `gorm:"type:text"`
	PhoneNumber string `gorm:"type:varchar(10);not null"`
	Reason      string `gorm:"type:text;not null"`
	Destination string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
