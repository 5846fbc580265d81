package admin

type CreateAdminRequest struct {
	Name        string  `json:"name" binding:"required"`
	Role        string  `json:"role" binding:"required"`
	Position    string  `json:"position"`
	PhoneNumber string  `json:"phone_number" binding:"required,len=10,numeric"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	ReportsTo   *string `json:"reports_to" binding:"omitempty,uuid"`
	HostelBlock string  `json:"hostel_block"`
	Gender      string  `json:"gender" binding:"omitempty,oneof=male female other"`
}

type UpdateAdminRequest struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	Position    *string `json:"position"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,len=10,numeric"`
	Email       *string `json:"email" binding:"omitempty,email"`
	ReportsTo   *string `json:"reports_to" binding:"omitempty,uuid"`
	HostelBlock *string `json:"hostel_block"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
}

type AdminResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Position    string  `json:"position,omitempty"`
	PhoneNumber string  `json:"phone_number"`
	Email       string  `json:"email"`
	ReportsTo   *string `json:"reports_to,omitempty"`
	HostelBlock string  `json:"hostel_block,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
