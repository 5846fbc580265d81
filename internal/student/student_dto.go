package student

type CreateStudentRequest struct {
	Name              string `json:"name" binding:"required"`
	PhoneNumber       string `json:"phone_number" binding:"required,len=10,numeric"`
	Year              string `json:"year" binding:"required"`
	Branch            string `json:"branch" binding:"required"`
	RoomNo            string `json:"room_no" binding:"required"`
	Address           string `json:"address" binding:"required"`
	ParentName        string `json:"parent_name" binding:"required"`
	ParentPhoneNumber string `json:"parent_phone_number" binding:"required,len=10,numeric"`
	Email             string `json:"email" binding:"required,email"`
	HostelBlock       string `json:"hostel_block" binding:"required"`
	Password          string `json:"password" binding:"required,min=6"`
	Image             string `json:"image"`
}

type BulkCreateStudentsRequest struct {
	Students []CreateStudentRequest `json:"students" binding:"required,min=1,dive"`
}

// UpdateStudentRequest is the admin-side update: every mutable field,
// including the academic year and the quota counters.
type UpdateStudentRequest struct {
	Name              *string `json:"name"`
	PhoneNumber       *string `json:"phone_number" binding:"omitempty,len=10,numeric"`
	Year              *string `json:"year"`
	Branch            *string `json:"branch"`
	RoomNo            *string `json:"room_no"`
	Address           *string `json:"address"`
	ParentName        *string `json:"parent_name"`
	ParentPhoneNumber *string `json:"parent_phone_number" binding:"omitempty,len=10,numeric"`
	HostelBlock       *string `json:"hostel_block"`
	Image             *string `json:"image"`
	RemainingOutings  *int    `json:"remaining_outings" binding:"omitempty,min=0"`
	RemainingLeaves   *int    `json:"remaining_leaves" binding:"omitempty,min=0"`
}

// SelfUpdateRequest is the statically-typed subset a student may edit on
// their own profile. Year and quota counters are deliberately absent so a
// payload carrying them fails binding instead of being silently dropped.
type SelfUpdateRequest struct {
	PhoneNumber       *string `json:"phone_number" binding:"omitempty,len=10,numeric"`
	RoomNo            *string `json:"room_no"`
	Address           *string `json:"address"`
	ParentName        *string `json:"parent_name"`
	ParentPhoneNumber *string `json:"parent_phone_number" binding:"omitempty,len=10,numeric"`
	Image             *string `json:"image"`
}

type BulkUpgradeYearRequest struct {
	Year string `json:"year" binding:"required"`
}

type StudentResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	PhoneNumber       string `json:"phone_number"`
	Year              string `json:"year"`
	Branch            string `json:"branch"`
	RoomNo            string `json:"room_no"`
	Address           string `json:"address"`
	Image             string `json:"image"`
	ParentName        string `json:"parent_name"`
	ParentPhoneNumber string `json:"parent_phone_number"`
	Email             string `json:"email"`
	HostelBlock       string `json:"hostel_block"`
	RemainingOutings  int    `json:"remaining_outings"`
	RemainingLeaves   int    `json:"remaining_leaves"`
	CreatedAt         string `json:"created_at"`
}

type BulkResultResponse struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}
