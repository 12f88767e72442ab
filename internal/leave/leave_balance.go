package leave

import (
	"time"

	"github.com/google/uuid"
)

// AnnualEntitlement is the yearly working-day allowance of every staff member.
const AnnualEntitlement = 25

type Balance struct {
	TotalEntitlement int `json:"total_entitlement"`
	Used             int `json:"used"`
	Pending          int `json:"pending"`
	Remaining        int `json:"remaining"`
	Year             int `json:"year"`
}

// CalculateLeaveBalance derives the staff member's balance for now's calendar
// year from the full, unfiltered request collection. Requests are attributed
// to the year of their start date. Remaining never goes below zero.
func CalculateLeaveBalance(staffID uuid.UUID, requests []LeaveRequest, now time.Time) Balance {
	b := Balance{
		TotalEntitlement: AnnualEntitlement,
		Year:             now.Year(),
	}

	for _, r := range requests {
		if r.StaffID != staffID || r.StartDate.Year() != b.Year {
			continue
		}
		switch r.Status {
		case StatusApproved:
			b.Used += r.WorkingDays()
		case StatusPending:
			b.Pending += r.WorkingDays()
		}
	}

	b.Remaining = b.TotalEntitlement - b.Used - b.Pending
	if b.Remaining < 0 {
		b.Remaining = 0
	}
	return b
}

// HasEnoughBalance reports whether days fit in what is left.
func HasEnoughBalance(b Balance, days int) bool {
	return days <= b.Remaining
}

type BalanceTier string

const (
	TierCritical BalanceTier = "critical"
	TierLow      BalanceTier = "low"
	TierModerate BalanceTier = "moderate"
	TierHealthy  BalanceTier = "healthy"
)

// TierFor buckets remaining days: <=0 critical, 1..5 low, 6..10 moderate,
// above 10 healthy.
func TierFor(remaining int) BalanceTier {
	switch {
	case remaining <= 0:
		return TierCritical
	case remaining <= 5:
		return TierLow
	case remaining <= 10:
		return TierModerate
	default:
		return TierHealthy
	}
}
