package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haulplan/eld-backend/internal/hos"
	"github.com/haulplan/eld-backend/internal/models"
	"github.com/haulplan/eld-backend/pkg/maps"
	"github.com/haulplan/eld-backend/pkg/validator"
)

var (
	planFile    string
	planJSON    bool
	planCurrent string
	planPickup  string
	planDropoff string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute an HOS-compliant trip schedule from a YAML request",
	Long: `Reads a trip request from a YAML file and prints the planned schedule:
duty events, daily log totals and the compliance verdict.

When the file carries explicit leg figures those are used as-is; otherwise
both legs are estimated from the coordinates along a great circle.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "", "Path to the trip request YAML file (required)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the full plan as JSON instead of a table")
	planCmd.Flags().StringVar(&planCurrent, "current", "", "Override the current location as 'lat,lon'")
	planCmd.Flags().StringVar(&planPickup, "pickup", "", "Override the pickup location as 'lat,lon'")
	planCmd.Flags().StringVar(&planDropoff, "dropoff", "", "Override the dropoff location as 'lat,lon'")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(planFile)
	if err != nil {
		return fmt.Errorf("failed to read trip file: %w", err)
	}

	var req models.PlanTripRequest
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("failed to parse trip file: %w", err)
	}

	if err := applyCoordinateOverrides(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	plan, provider, err := computePlan(cmd.Context(), &req)
	if err != nil {
		return err
	}

	if planJSON {
		out, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	printPlan(cmd.OutOrStdout(), plan, provider)
	return nil
}

// applyCoordinateOverrides replaces waypoints from the file with any
// 'lat,lon' values given on the command line.
func applyCoordinateOverrides(req *models.PlanTripRequest) error {
	cv := validator.NewCoordinateValidator()
	for _, o := range []struct {
		flag  string
		value string
		dest  *models.Coordinate
	}{
		{"current", planCurrent, &req.CurrentLocation},
		{"pickup", planPickup, &req.PickupLocation},
		{"dropoff", planDropoff, &req.DropoffLocation},
	} {
		if o.value == "" {
			continue
		}
		lat, lon, err := cv.Parse(o.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
		o.dest.Latitude = lat
		o.dest.Longitude = lon
		o.dest.Address = ""
	}
	return nil
}

// computePlan runs the offline planning pipeline and reports which routing
// source supplied the leg figures.
func computePlan(ctx context.Context, req *models.PlanTripRequest) (*models.TripPlan, string, error) {
	startTime := time.Now().UTC()
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
	}

	figures := req.Legs
	provider := "explicit leg figures"
	if len(figures) == 0 {
		route, err := maps.FallbackRouter{}.MultiLegRoute(ctx, req.CurrentLocation, req.PickupLocation, req.DropoffLocation)
		if err != nil {
			return nil, "", err
		}
		figures = route.Legs
		provider = "great-circle estimate"
	}

	legs, err := hos.BuildLegs(req.CurrentLocation, req.PickupLocation, req.DropoffLocation, figures)
	if err != nil {
		return nil, "", err
	}

	events, err := hos.NewSimulator(nil).Simulate(ctx, legs, startTime, hos.Config{
		CurrentCycleUsed:  req.CurrentCycleUsed,
		WeeklyMode:        req.Mode(),
		UseSplitSleeper:   req.UseSplitSleeper,
		AdverseConditions: req.AdverseConditions,
		AirMileException:  req.AirMileException,
	})
	if err != nil {
		return nil, "", err
	}

	var totalDistance, nominalDriving float64
	for _, leg := range legs {
		totalDistance += leg.DistanceMiles
		nominalDriving += leg.DurationHours
	}

	summary := hos.Summarize(events, startTime)
	plan := &models.TripPlan{
		TripID:              uuid.New().String(),
		TotalDistanceMiles:  round1(totalDistance),
		TotalDrivingHours:   round1(nominalDriving),
		EstimatedTotalHours: summary.TotalDurationHours,
		WeeklyMode:          req.Mode(),
		SplitSleeperUsed:    req.UseSplitSleeper,
		AdverseConditions:   req.AdverseConditions,
		AirMileException:    req.AirMileException,
		Legs:                legs,
		Schedule:            events,
		DailyLogs:           hos.AggregateDailyLogs(events),
		Compliance:          hos.CheckCompliance(events),
		Summary:             summary,
	}
	return plan, provider, nil
}

func printPlan(w io.Writer, plan *models.TripPlan, provider string) {
	fmt.Fprintf(w, "Trip plan %s\n", plan.TripID)
	fmt.Fprintf(w, "  Routing:         %s\n", provider)
	fmt.Fprintf(w, "  Total distance:  %.1f mi\n", plan.TotalDistanceMiles)
	fmt.Fprintf(w, "  Driving time:    %.1f h nominal\n", plan.TotalDrivingHours)
	fmt.Fprintf(w, "  Elapsed time:    %.2f h (%s to %s)\n",
		plan.Summary.TotalDurationHours,
		plan.Summary.StartTime.Format("2006-01-02 15:04"),
		plan.Summary.EndTime.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Weekly mode:     %s\n", plan.WeeklyMode)
	if plan.SplitSleeperUsed {
		fmt.Fprintf(w, "  Split sleeper:   enabled\n")
	}
	if plan.AdverseConditions {
		fmt.Fprintf(w, "  Adverse driving: enabled\n")
	}
	if plan.Compliance.Compliant {
		fmt.Fprintf(w, "  Compliant:       yes (%d shifts)\n", plan.Compliance.TotalShifts)
	} else {
		fmt.Fprintf(w, "  Compliant:       NO\n")
		for _, v := range plan.Compliance.Violations {
			fmt.Fprintf(w, "    - %s\n", v)
		}
	}

	fmt.Fprintf(w, "\nSchedule:\n")
	fmt.Fprintf(w, "  %-16s  %-19s  %-28s  %7s  %8s\n", "START", "STATUS", "ACTIVITY", "HOURS", "MILES")
	for _, ev := range plan.Schedule {
		miles := ""
		if ev.DistanceMiles > 0 {
			miles = fmt.Sprintf("%.1f", ev.DistanceMiles)
		}
		fmt.Fprintf(w, "  %-16s  %-19s  %-28s  %7.2f  %8s\n",
			ev.StartTime.Format("2006-01-02 15:04"), ev.Status, truncate(ev.Activity, 28), ev.DurationHours, miles)
	}

	fmt.Fprintf(w, "\nDaily logs:\n")
	fmt.Fprintf(w, "  %-10s  %7s  %8s  %7s  %8s  %8s\n", "DATE", "DRIVE", "ON-DUTY", "OFF", "SLEEPER", "MILES")
	for _, day := range plan.DailyLogs {
		fmt.Fprintf(w, "  %-10s  %7.2f  %8.2f  %7.2f  %8.2f  %8.1f\n",
			day.Date.Format("2006-01-02"), day.TotalDrivingHours, day.TotalOnDutyHours,
			day.TotalOffDutyHours, day.TotalSleeperHours, day.TotalDrivingMiles)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
