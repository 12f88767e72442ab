package leave

import (
	"time"

	"github.com/google/uuid"
)

// MinNoticeDays is how many calendar days ahead of today a leave must start.
const MinNoticeDays = 7

type RejectReason string

const (
	ReasonNone                RejectReason = ""
	ReasonActiveRequestExists RejectReason = "active_request_exists"
	ReasonInvalidDateRange    RejectReason = "invalid_date_range"
	ReasonInsufficientNotice  RejectReason = "insufficient_notice"
	ReasonInsufficientBalance RejectReason = "insufficient_balance"
)

type EligibilityInput struct {
	StaffID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

type Eligibility struct {
	Allowed bool
	Reason  RejectReason
	Days    int
	Balance Balance
}

// CheckEligibility applies the submission rules in order and stops at the
// first failure:
//  1. the staff member has no pending or approved request,
//  2. the end date is not before the start date,
//  3. the start date is at least MinNoticeDays after today,
//  4. the working days fit in the remaining balance.
func CheckEligibility(in EligibilityInput, requests []LeaveRequest, now time.Time) Eligibility {
	res := Eligibility{Balance: CalculateLeaveBalance(in.StaffID, requests, now)}

	if HasActiveRequest(in.StaffID, requests) {
		res.Reason = ReasonActiveRequestExists
		return res
	}

	start, end := DateOnly(in.StartDate), DateOnly(in.EndDate)
	if end.Before(start) {
		res.Reason = ReasonInvalidDateRange
		return res
	}

	earliest := DateOnly(now).AddDate(0, 0, MinNoticeDays)
	if start.Before(earliest) {
		res.Reason = ReasonInsufficientNotice
		return res
	}

	res.Days = CalculateLeaveDays(start, end)
	if !HasEnoughBalance(res.Balance, res.Days) {
		res.Reason = ReasonInsufficientBalance
		return res
	}

	res.Allowed = true
	return res
}

func HasActiveRequest(staffID uuid.UUID, requests []LeaveRequest) bool {
	for _, r := range requests {
		if r.StaffID == staffID && r.Status.IsActive() {
			return true
		}
	}
	return false
}
