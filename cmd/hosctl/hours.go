package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haulplan/eld-backend/internal/hos"
	"github.com/haulplan/eld-backend/internal/models"
)

var (
	hoursFile string
	hoursMode string
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Summarize weekly-cycle usage from a duty history YAML",
	Long: `Reads day-by-day on-duty history from a YAML file and reports hours used
and hours still available inside the trailing 70/8 or 60/7 window.`,
	RunE: runHours,
}

func init() {
	hoursCmd.Flags().StringVarP(&hoursFile, "file", "f", "", "Path to the duty history YAML file (required)")
	hoursCmd.Flags().StringVar(&hoursMode, "mode", "", "Weekly cycle to evaluate: 70/8 or 60/7 (overrides the file)")
	_ = hoursCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(hoursCmd)
}

func runHours(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(hoursFile)
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}

	var req models.RollingHoursRequest
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("failed to parse history file: %w", err)
	}
	if hoursMode != "" {
		req.WeeklyMode = hoursMode
	}
	if err := req.Validate(); err != nil {
		return err
	}

	summary, err := hos.RollingHours(req.History, models.WeeklyMode(req.WeeklyMode))
	if err != nil {
		return err
	}

	printRollingHours(cmd.OutOrStdout(), summary)
	return nil
}

func printRollingHours(w io.Writer, summary *models.RollingHoursSummary) {
	fmt.Fprintf(w, "Rolling hours (%s cycle)\n", summary.WeeklyMode)
	fmt.Fprintf(w, "  Window:     last %d days\n", summary.WindowDays)
	fmt.Fprintf(w, "  Used:       %.2f h\n", summary.HoursUsed)
	fmt.Fprintf(w, "  Available:  %.2f h\n", summary.HoursAvailable)

	fmt.Fprintf(w, "\n  %-10s  %8s\n", "DATE", "ON-DUTY")
	for _, day := range summary.Breakdown {
		fmt.Fprintf(w, "  %-10s  %8.2f\n", day.Date, day.OnDutyHours)
	}
}
