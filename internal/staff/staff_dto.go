package staff

type CreateStaffRequest struct {
	FullName       string `json:"full_name" binding:"required,max=150"`
	Classification string `json:"classification" binding:"required,max=80"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
}

type UpdateStaffRequest struct {
	FullName       string `json:"full_name" binding:"required,max=150"`
	Classification string `json:"classification" binding:"required,max=80"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
}

type StaffResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	FullName       string `json:"full_name"`
	Classification string `json:"classification"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// StaffOption is the slim shape used by schedule pickers.
type StaffOption struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Classification string `json:"classification"`
}
