package leave

type CreateLeaveRequest struct {
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"omitempty,oneof=Vacation Sick Emergency Maternity Paternity Bereavement Other"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Notes     string `json:"notes" binding:"max=1000"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required,max=500"`
}

// ListFilter narrows GetAll. A nil WeekOffset means no week window.
type ListFilter struct {
	WeekOffset *int
	StaffID    string
	Status     string
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	ReferenceNo     string  `json:"reference_no"`
	StaffID         string  `json:"staff_id"`
	FullName        string  `json:"full_name"`
	Classification  string  `json:"classification"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Notes           *string `json:"notes,omitempty"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type WeekWindowResponse struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type ListResult struct {
	Items  []LeaveResponse     `json:"items"`
	Window *WeekWindowResponse `json:"window,omitempty"`
}

type BalanceResponse struct {
	StaffID  string `json:"staff_id"`
	FullName string `json:"full_name"`
	Balance
	Tier BalanceTier `json:"tier"`
}

type UnavailableStaff struct {
	StaffID        string `json:"staff_id"`
	FullName       string `json:"full_name"`
	Classification string `json:"classification"`
	LeaveID        string `json:"leave_id"`
	LeaveType      string `json:"leave_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

type UnavailableResponse struct {
	Date  string             `json:"date"`
	Count int                `json:"count"`
	Staff []UnavailableStaff `json:"staff"`
}
