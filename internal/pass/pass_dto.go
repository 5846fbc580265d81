package pass

// CreateInput is the kind-neutral shape the service consumes; the handler
// DTOs below normalize into it.
type CreateInput struct {
	OutAt       string
	InAt        string
	PhoneNumber string
	Reason      string
	Destination string
}

// StudentUpdateInput is the statically-typed subset a student may edit while
// the request is still pending. Anything else (status, remarks, actual
// times) is not representable here, so it is rejected at the boundary rather
// than silently dropped.
type StudentUpdateInput struct {
	OutAt       *string
	InAt        *string
	PhoneNumber *string
	Reason      *string
	Destination *string
}

// DecideInput carries an admin decision.
type DecideInput struct {
	Status  string
	Remarks string
}

type CreateLeaveRequest struct {
	OutDate     string `json:"out_date" binding:"required"`
	InDate      string `json:"in_date" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required,len=10,numeric"`
	Reason      string `json:"reason" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

func (r CreateLeaveRequest) toInput() CreateInput {
	return CreateInput{
		OutAt:       r.OutDate,
		InAt:        r.InDate,
		PhoneNumber: r.PhoneNumber,
		Reason:      r.Reason,
		Destination: r.Destination,
	}
}

type CreateOutingRequest struct {
	OutTime     string `json:"out_time" binding:"required"`
	InTime      string `json:"in_time" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required,len=10,numeric"`
	Purpose     string `json:"purpose" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

func (r CreateOutingRequest) toInput() CreateInput {
	return CreateInput{
		OutAt:       r.OutTime,
		InAt:        r.InTime,
		PhoneNumber: r.PhoneNumber,
		Reason:      r.Purpose,
		Destination: r.Destination,
	}
}

type UpdateLeaveRequest struct {
	OutDate     *string `json:"out_date"`
	InDate      *string `json:"in_date"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,len=10,numeric"`
	Reason      *string `json:"reason"`
	Destination *string `json:"destination"`
}

func (r UpdateLeaveRequest) toInput() StudentUpdateInput {
	return StudentUpdateInput{
		OutAt:       r.OutDate,
		InAt:        r.InDate,
		PhoneNumber: r.PhoneNumber,
		Reason:      r.Reason,
		Destination: r.Destination,
	}
}

type UpdateOutingRequest struct {
	OutTime     *string `json:"out_time"`
	InTime      *string `json:"in_time"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,len=10,numeric"`
	Purpose     *string `json:"purpose"`
	Destination *string `json:"destination"`
}

func (r UpdateOutingRequest) toInput() StudentUpdateInput {
	return StudentUpdateInput{
		OutAt:       r.OutTime,
		InAt:        r.InTime,
		PhoneNumber: r.PhoneNumber,
		Reason:      r.Purpose,
		Destination: r.Destination,
	}
}

type DecideRequest struct {
	Status  string `json:"status" binding:"required,oneof=accepted rejected forwarded"`
	Remarks string `json:"remarks"`
}

type PassResponse struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	StudentID    string  `json:"student_id"`
	AcceptedBy   *string `json:"accepted_by,omitempty"`
	ScheduledOut string  `json:"scheduled_out"`
	ScheduledIn  string  `json:"scheduled_in"`
	ActualOut    *string `json:"actual_out,omitempty"`
	ActualIn     *string `json:"actual_in,omitempty"`
	Status       string  `json:"status"`
	Remarks      string  `json:"remarks,omitempty"`
	PhoneNumber  string  `json:"phone_number"`
	Reason       string  `json:"reason,omitempty"`
	Purpose      string  `json:"purpose,omitempty"`
	Destination  string  `json:"destination"`
	CreatedAt    string  `json:"created_at"`
}
