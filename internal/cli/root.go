// Package cli holds the leavectl command tree. Commands talk to a Backend so
// they can run against the database or a fake.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go-hotel-staff/internal/config"
	"go-hotel-staff/internal/leave"
	"go-hotel-staff/internal/schedule"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "LEAVECTL"

// Backend is the read side of the leave and schedule services.
type Backend interface {
	GetBalance(ctx context.Context, companyID, staffID string) (leave.BalanceResponse, error)
	GetUnavailableStaff(ctx context.Context, companyID, date string) (leave.UnavailableResponse, error)
	Export(ctx context.Context, companyID string, filter leave.ListFilter) ([]byte, error)
	GetWeek(ctx context.Context, companyID string, offset int) (schedule.WeekResponse, error)
}

// BackendFactory opens a Backend for cfg. The returned func releases it.
type BackendFactory func(ctx context.Context, cfg config.Config) (Backend, func(), error)

type rootOptions struct {
	v       *viper.Viper
	factory BackendFactory
}

func NewRootCommand(factory BackendFactory) *cobra.Command {
	opts := &rootOptions{v: viper.New(), factory: factory}

	root := &cobra.Command{
		Use:   "leavectl",
		Short: "Inspect staff leave and shift schedules",
		Long: `leavectl reads leave balances, who is off on a given day, the weekly
shift schedule, and exports leave requests to xlsx.

Every flag can also be set through the environment, e.g. LEAVECTL_COMPANY.
Database settings come from the same DB_* variables as the API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.v.GetString("company") == "" {
				return fmt.Errorf("--company (or %s_COMPANY) is required", EnvPrefix)
			}
			return nil
		},
	}

	opts.v.SetEnvPrefix(EnvPrefix)
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()

	root.PersistentFlags().StringP("company", "c", "", "company (hotel) id")
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().String("timezone", "", "calendar time zone (overrides LEAVE_CALENDAR_TZ)")
	_ = opts.v.BindPFlag("company", root.PersistentFlags().Lookup("company"))
	_ = opts.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = opts.v.BindPFlag("timezone", root.PersistentFlags().Lookup("timezone"))

	root.AddCommand(
		balanceCmd(opts),
		unavailableCmd(opts),
		weekCmd(opts),
		exportCmd(opts),
	)
	return root
}

func (o *rootOptions) config() config.Config {
	cfg := config.Load()
	if tz := o.v.GetString("timezone"); tz != "" {
		cfg.CalendarTimezone = tz
	}
	return cfg
}

func (o *rootOptions) companyID() string {
	return o.v.GetString("company")
}

func (o *rootOptions) withBackend(ctx context.Context, fn func(b Backend) error) error {
	b, closeFn, err := o.factory(ctx, o.config())
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(b)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
