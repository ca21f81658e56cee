package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	generateSlotsUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/generate_slots"
)

func newGenerateCmd(configPath *string) *cobra.Command {
	var scheduleIDs []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one synchronous slot generation pass and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Кэш живет в процессе serve, отсюда сбрасывать нечего
			report, err := a.newGenerator(nil).Execute(ctx, &generateSlotsUC.Request{ScheduleIDs: scheduleIDs})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "horizon:       %s (%d days)\n", report.Horizon, report.Horizon.Days())
			fmt.Fprintf(out, "schedules:     %d\n", report.Schedules)
			fmt.Fprintf(out, "slots created: %d\n", report.SlotsCreated)
			fmt.Fprintf(out, "slots skipped: %d\n", report.SlotsSkipped)
			for _, f := range report.Failures {
				fmt.Fprintf(out, "failed:        %s\n", f.Error())
			}

			return report.Err()
		},
	}
	cmd.Flags().StringSliceVar(&scheduleIDs, "schedule", nil, "schedule ID to generate (repeatable, default all)")
	return cmd
}
