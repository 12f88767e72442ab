package schedule

type CreateScheduleRequest struct {
	Date     string   `json:"date" binding:"required"`
	Shift    string   `json:"shift" binding:"required,oneof=MORNING AFTERNOON NIGHT morning afternoon night"`
	StaffIDs []string `json:"staff_ids" binding:"required,min=1,dive,uuid"`
	Notes    string   `json:"notes" binding:"max=500"`
}

type ScheduleResponse struct {
	ID             string  `json:"id"`
	StaffID        string  `json:"staff_id"`
	FullName       string  `json:"full_name,omitempty"`
	Classification string  `json:"classification,omitempty"`
	Date           string  `json:"date"`
	Shift          string  `json:"shift"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	CreatedBy      string  `json:"created_by"`
}

type CreateScheduleResult struct {
	Created             []ScheduleResponse `json:"created"`
	UnavailableStaffIDs []string           `json:"unavailable_staff_ids"`
}

type WeekResponse struct {
	Label string             `json:"label"`
	Start string             `json:"start"`
	End   string             `json:"end"`
	Items []ScheduleResponse `json:"items"`
}

type AvailableStaff struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Classification string `json:"classification"`
	OnLeave        bool   `json:"on_leave"`
	LeaveType      string `json:"leave_type,omitempty"`
}

type AvailabilityResponse struct {
	Date             string           `json:"date"`
	Staff            []AvailableStaff `json:"staff"`
	UnavailableCount int              `json:"unavailable_count"`
}
