package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wildguard/console/internal/core/domain"
)

func (a *app) reportsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reports", Short: "Field reports"}
	cmd.AddCommand(
		a.pageCmd("show", "Show a report", domain.RoleUser, "reports", map[string]string{
			"days": "days",
			"type": "report_type",
		}),
		a.reportPDFCmd(),
	)
	return cmd
}

func (a *app) reportPDFCmd() *cobra.Command {
	var (
		q    domain.ReportQuery
		file string
	)
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Download a report as PDF",
		Args:  cobra.NoArgs,
		RunE: a.guarded(domain.RoleUser, func(ctx context.Context, _ *cobra.Command, _ []string) error {
			if file == "" {
				file = defaultReportFile(q)
			}
			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("creating %s: %w", file, err)
			}
			n, err := a.handle.Backend.ExportReportPDF(ctx, q, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(file)
				return err
			}
			fmt.Fprintf(a.out, "Saved %s (%d bytes).\n", file, n)
			return nil
		}),
	}
	f := cmd.Flags()
	f.IntVar(&q.Days, "days", 0, "period in days (backend default 7)")
	f.StringVar(&q.ReportType, "type", "", "detections, animals, humans, alerts or camera-status")
	f.StringVarP(&file, "file", "f", "", "output path")
	return cmd
}

func defaultReportFile(q domain.ReportQuery) string {
	kind := q.ReportType
	if kind == "" {
		kind = domain.ReportDetections
	}
	days := "7"
	if q.Days > 0 {
		days = strconv.Itoa(q.Days)
	}
	return "wildguard-report-" + kind + "-" + days + "d.pdf"
}

func (a *app) evidenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evidence <detection-id>",
		Short: "Show the evidence behind a detection",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(domain.RoleUser, func(ctx context.Context, _ *cobra.Command, args []string) error {
			ev, err := a.handle.Backend.GetEvidence(ctx, domain.ID(args[0]))
			if err != nil {
				return err
			}
			return a.render(ev)
		}),
	}
}
