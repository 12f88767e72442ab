package leave

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	requestsSheet = "Requests"
	balancesSheet = "Balances"
)

var (
	requestHeader = []interface{}{
		"Reference", "Staff", "Classification", "Leave Type", "Start Date", "End Date", "Working Days", "Status", "Notes",
	}
	balanceHeader = []interface{}{
		"Staff", "Classification", "Entitlement", "Used", "Pending", "Remaining", "Tier",
	}
)

// BuildWorkbook renders requests on one sheet and the balance of every staff
// member appearing in requests on another. Balances are computed from all.
func BuildWorkbook(title string, requests, all []LeaveRequest, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", requestsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(balancesSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return nil, err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(requestsSheet, "A1", "Leave Requests: "+title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(requestsSheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	if err := writeRow(f, requestsSheet, 3, requestHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(requestsSheet, "A3", "I3", headerStyle); err != nil {
		return nil, err
	}

	row := 4
	for _, r := range requests {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		values := []interface{}{
			r.ReferenceNo,
			r.FullName,
			r.Classification,
			string(r.LeaveType),
			r.StartDate.Format(DateLayout),
			r.EndDate.Format(DateLayout),
			r.WorkingDays(),
			string(r.Status),
			notes,
		}
		if err := writeRow(f, requestsSheet, row, values); err != nil {
			return nil, err
		}
		row++
	}
	_ = f.SetColWidth(requestsSheet, "A", "A", 14)
	_ = f.SetColWidth(requestsSheet, "B", "C", 28)
	_ = f.SetColWidth(requestsSheet, "D", "H", 14)
	_ = f.SetColWidth(requestsSheet, "I", "I", 40)

	if err := writeRow(f, balancesSheet, 1, balanceHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(balancesSheet, "A1", "G1", headerStyle); err != nil {
		return nil, err
	}

	row = 2
	for _, member := range distinctStaff(requests) {
		b := CalculateLeaveBalance(member.StaffID, all, now)
		values := []interface{}{
			member.FullName,
			member.Classification,
			b.TotalEntitlement,
			b.Used,
			b.Pending,
			b.Remaining,
			string(TierFor(b.Remaining)),
		}
		if err := writeRow(f, balancesSheet, row, values); err != nil {
			return nil, err
		}
		row++
	}
	_ = f.SetColWidth(balancesSheet, "A", "B", 28)
	_ = f.SetColWidth(balancesSheet, "C", "G", 12)

	return f.WriteToBuffer()
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// distinctStaff keeps the first snapshot seen per staff, ordered by name.
func distinctStaff(requests []LeaveRequest) []LeaveRequest {
	seen := make(map[uuid.UUID]bool, len(requests))
	out := make([]LeaveRequest, 0, len(requests))
	for _, r := range requests {
		if seen[r.StaffID] {
			continue
		}
		seen[r.StaffID] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FullName < out[j].FullName
	})
	return out
}
