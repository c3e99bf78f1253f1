package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/bootstrap"
	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/internal/models"
	"github.com/noah-isme/siap-guru-api/pkg/config"
	"github.com/noah-isme/siap-guru-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	app     *bootstrap.Container
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	state := &cli{}
	root := &cobra.Command{
		Use:           "siapctl",
		Short:         "Maintenance commands for the SIAP GURU record store",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			app, err := bootstrap.New(cfg, logr)
			if err != nil {
				return err
			}
			state.app = app
			if state.timeout <= 0 {
				state.timeout = cfg.RecordStore.Timeout
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if state.app != nil {
				state.app.Close()
				_ = state.app.Logger.Sync()
			}
		},
	}
	root.PersistentFlags().DurationVar(&state.timeout, "timeout", 0, "Overall timeout (defaults to RECORD_STORE_TIMEOUT)")

	root.AddCommand(
		newSyncCmd(state),
		newRestoreCmd(state),
		newPermitCmd(state),
		newReportCmd(state),
	)
	return root
}

func (s *cli) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// load pulls the current dataset so commands act on live data instead of the seed.
func (s *cli) load(ctx context.Context) error {
	status, err := s.app.Sync.Refresh(ctx)
	if err != nil {
		return err
	}
	s.app.Logger.Info("record store loaded", zap.Uint64("version", status.Version), zap.Any("counts", status.Counts))
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSyncCmd(s *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch every table from the record store and print the sync status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := s.context()
			defer cancel()
			status, err := s.app.Sync.Refresh(ctx)
			if perr := printJSON(cmd.OutOrStdout(), status); perr != nil {
				return perr
			}
			return err
		},
	}
}

func newRestoreCmd(s *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-defaults",
		Short: "Overwrite teachers, timetable and settings with the built-in master data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := s.context()
			defer cancel()
			if err := s.load(ctx); err != nil {
				return err
			}
			res, err := s.app.MasterData.RestoreDefaults(ctx)
			if res != nil {
				if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func newPermitCmd(s *cli) *cobra.Command {
	var (
		req     dto.IssuePermitRequest
		scope   string
		status  string
		periods []string
	)
	cmd := &cobra.Command{
		Use:   "permit",
		Short: "Issue a leave or sick permit for a teacher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Scope = dto.PermitScope(strings.ToUpper(scope))
			req.Status = models.AttendanceStatus(status)
			req.Periods = periods
			ctx, cancel := s.context()
			defer cancel()
			if err := s.load(ctx); err != nil {
				return err
			}
			res, err := s.app.Permits.Issue(ctx, req)
			if res != nil {
				if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&req.TeacherID, "teacher", "", "Teacher ID")
	cmd.Flags().StringVar(&req.Date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&scope, "scope", string(dto.PermitScopeFullDay), "FULL_DAY or SPECIFIC_HOURS")
	cmd.Flags().StringSliceVar(&periods, "periods", nil, "Periods for SPECIFIC_HOURS, e.g. 1,2,3")
	cmd.Flags().StringVar(&status, "status", string(models.AttendanceStatusLeave), "Izin or Sakit")
	cmd.Flags().StringVar(&req.Note, "note", "", "Note stored on every record")
	_ = cmd.MarkFlagRequired("teacher")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newReportCmd(s *cli) *cobra.Command {
	var (
		format string
		q      dto.DashboardQuery
		out    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the attendance recap as csv, pdf or xlsx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := s.context()
			defer cancel()
			if s.app.Sync.Configured() {
				if err := s.load(ctx); err != nil {
					return err
				}
			}
			file, err := s.app.Export.AttendanceReport(ctx, format, q)
			if err != nil {
				return err
			}
			if out == "" {
				out = file.Filename
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(file.Payload)
				return err
			}
			if err := os.WriteFile(out, file.Payload, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(file.Payload))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv, pdf or xlsx")
	cmd.Flags().StringVar(&q.Filter, "filter", "DAILY", "DAILY, WEEKLY, MONTHLY or SEMESTER")
	cmd.Flags().StringVar(&q.Date, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&q.Month, "month", "", "Month 01-12 for MONTHLY")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path, - for stdout (defaults to the generated file name)")
	return cmd
}
