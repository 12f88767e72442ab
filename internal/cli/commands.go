package cli

import (
	"fmt"
	"os"

	"go-hotel-staff/internal/leave"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func balanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <staff-id>",
		Short: "Show a staff member's leave balance for the current year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				res, err := b.GetBalance(cmd.Context(), opts.companyID(), args[0])
				if err != nil {
					return err
				}
				if opts.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), res)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"Staff", "Year", "Entitlement", "Used", "Pending", "Remaining", "Tier"})
				tw.AppendRow(table.Row{res.FullName, res.Year, res.TotalEntitlement, res.Used, res.Pending, res.Remaining, res.Tier})
				tw.Render()
				return nil
			})
		},
	}
}

func unavailableCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "unavailable",
		Short: "List staff on approved leave on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				res, err := b.GetUnavailableStaff(cmd.Context(), opts.companyID(), date)
				if err != nil {
					return err
				}
				if opts.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), res)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.SetTitle(fmt.Sprintf("Unavailable on %s", res.Date))
				tw.AppendHeader(table.Row{"Staff", "Classification", "Leave Type", "From", "To"})
				for _, s := range res.Staff {
					tw.AppendRow(table.Row{s.FullName, s.Classification, s.LeaveType, s.StartDate, s.EndDate})
				}
				tw.AppendFooter(table.Row{"Total", res.Count})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (default today)")
	return cmd
}

func weekCmd(opts *rootOptions) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the shift schedule for a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				res, err := b.GetWeek(cmd.Context(), opts.companyID(), offset)
				if err != nil {
					return err
				}
				if opts.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), res)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.SetTitle(fmt.Sprintf("%s (%s to %s)", res.Label, res.Start, res.End))
				tw.AppendHeader(table.Row{"Date", "Shift", "Staff", "Status"})
				for _, s := range res.Items {
					tw.AppendRow(table.Row{s.Date, s.Shift, s.FullName, s.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks from the current one (0-4)")
	return cmd
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		out    string
		week   int
		staff  string
		status string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leave requests to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := leave.ListFilter{StaffID: staff, Status: status}
			if cmd.Flags().Changed("week") {
				filter.WeekOffset = &week
			}

			return opts.withBackend(cmd.Context(), func(b Backend) error {
				data, err := b.Export(cmd.Context(), opts.companyID(), filter)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "leave-requests.xlsx", "output file")
	cmd.Flags().IntVar(&week, "week", 0, "only requests overlapping this week offset")
	cmd.Flags().StringVar(&staff, "staff", "", "staff id filter")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	return cmd
}
