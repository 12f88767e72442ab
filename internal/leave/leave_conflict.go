package leave

import (
	"time"

	"github.com/google/uuid"
)

// BuildLeaveMapForDate indexes the approved requests covering date by staff.
// Pending and rejected requests never appear. If one staff member has several
// overlapping approved requests the last one in iteration order wins.
func BuildLeaveMapForDate(requests []LeaveRequest, date time.Time) map[uuid.UUID]LeaveRequest {
	onLeave := make(map[uuid.UUID]LeaveRequest)
	for _, r := range requests {
		if r.Status != StatusApproved || !r.Covers(date) {
			continue
		}
		onLeave[r.StaffID] = r
	}
	return onLeave
}

func IsStaffOnLeave(leaveMap map[uuid.UUID]LeaveRequest, staffID uuid.UUID) bool {
	_, ok := leaveMap[staffID]
	return ok
}
