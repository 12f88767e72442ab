package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go-hotel-staff/internal/config"
	"go-hotel-staff/internal/leave"
	"go-hotel-staff/internal/schedule"

	"github.com/stretchr/testify/assert"
)

type fakeBackend struct {
	gotCompany string
	gotDate    string
	gotOffset  int
	gotFilter  leave.ListFilter
	err        error
}

func (f *fakeBackend) GetBalance(ctx context.Context, companyID, staffID string) (leave.BalanceResponse, error) {
	f.gotCompany = companyID
	return leave.BalanceResponse{
		StaffID:  staffID,
		FullName: "Amy Pond",
		Balance:  leave.Balance{TotalEntitlement: 25, Used: 5, Pending: 2, Remaining: 18, Year: 2025},
		Tier:     leave.TierHealthy,
	}, f.err
}

func (f *fakeBackend) GetUnavailableStaff(ctx context.Context, companyID, date string) (leave.UnavailableResponse, error) {
	f.gotDate = date
	return leave.UnavailableResponse{
		Date:  "2025-03-03",
		Count: 1,
		Staff: []leave.UnavailableStaff{{FullName: "Bob Smith", Classification: "Housekeeping", LeaveType: "Sick"}},
	}, f.err
}

func (f *fakeBackend) Export(ctx context.Context, companyID string, filter leave.ListFilter) ([]byte, error) {
	f.gotFilter = filter
	return []byte("PK-fake"), f.err
}

func (f *fakeBackend) GetWeek(ctx context.Context, companyID string, offset int) (schedule.WeekResponse, error) {
	f.gotOffset = offset
	return schedule.WeekResponse{
		Label: "Next Week",
		Start: "2025-03-10",
		End:   "2025-03-16",
		Items: []schedule.ScheduleResponse{{Date: "2025-03-10", Shift: "NIGHT", FullName: "Amy Pond", Status: "SCHEDULED"}},
	}, f.err
}

func run(t *testing.T, b *fakeBackend, args ...string) (string, error) {
	t.Helper()
	closed := false
	factory := func(ctx context.Context, cfg config.Config) (Backend, func(), error) {
		return b, func() { closed = true }, nil
	}

	cmd := NewRootCommand(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		assert.True(t, closed, "backend not released")
	}
	return out.String(), err
}

func TestBalanceCmd(t *testing.T) {
	b := &fakeBackend{}
	out, err := run(t, b, "balance", "staff-1", "--company", "hotel-1")

	assert.NoError(t, err)
	assert.Equal(t, "hotel-1", b.gotCompany)
	assert.Contains(t, out, "Amy Pond")
	assert.Contains(t, out, "18")
	assert.Contains(t, out, "healthy")
}

func TestBalanceCmd_JSON(t *testing.T) {
	out, err := run(t, &fakeBackend{}, "balance", "staff-1", "-c", "hotel-1", "--json")

	assert.NoError(t, err)
	assert.Contains(t, out, `"remaining": 18`)
}

func TestCompanyFromEnv(t *testing.T) {
	t.Setenv("LEAVECTL_COMPANY", "hotel-env")
	b := &fakeBackend{}

	_, err := run(t, b, "balance", "staff-1")

	assert.NoError(t, err)
	assert.Equal(t, "hotel-env", b.gotCompany)
}

func TestCompanyRequired(t *testing.T) {
	t.Setenv("LEAVECTL_COMPANY", "")
	_, err := run(t, &fakeBackend{}, "week")
	assert.ErrorContains(t, err, "--company")
}

func TestUnavailableCmd(t *testing.T) {
	b := &fakeBackend{}
	out, err := run(t, b, "unavailable", "-c", "hotel-1", "--date", "2025-03-03")

	assert.NoError(t, err)
	assert.Equal(t, "2025-03-03", b.gotDate)
	assert.Contains(t, out, "Bob Smith")
	assert.Contains(t, out, "Sick")
}

func TestWeekCmd(t *testing.T) {
	b := &fakeBackend{}
	out, err := run(t, b, "week", "-c", "hotel-1", "--offset", "1")

	assert.NoError(t, err)
	assert.Equal(t, 1, b.gotOffset)
	assert.Contains(t, out, "Next Week")
	assert.Contains(t, out, "NIGHT")
}

func TestExportCmd(t *testing.T) {
	b := &fakeBackend{}
	path := filepath.Join(t.TempDir(), "march.xlsx")

	out, err := run(t, b, "export", "-c", "hotel-1", "-o", path, "--week", "2", "--status", "approved")

	assert.NoError(t, err)
	assert.Contains(t, out, path)
	if assert.NotNil(t, b.gotFilter.WeekOffset) {
		assert.Equal(t, 2, *b.gotFilter.WeekOffset)
	}
	assert.Equal(t, "approved", b.gotFilter.Status)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "PK-fake", string(data))
}

func TestExportCmd_NoWeekFilter(t *testing.T) {
	b := &fakeBackend{}
	_, err := run(t, b, "export", "-c", "hotel-1", "-o", filepath.Join(t.TempDir(), "all.xlsx"))

	assert.NoError(t, err)
	assert.Nil(t, b.gotFilter.WeekOffset)
}

func TestBackendError(t *testing.T) {
	_, err := run(t, &fakeBackend{err: errors.New("db down")}, "week", "-c", "hotel-1")
	assert.ErrorContains(t, err, "db down")
}
