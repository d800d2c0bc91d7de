package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "hosctl",
	Short: "Plan hours-of-service compliant trips from the terminal",
	Long: `hosctl runs the property-carrying driver trip planner without the API
server. It reads trip requests and duty history from YAML files, computes
the schedule offline (70/8 or 60/7 cycles, split sleeper, adverse driving
conditions) and prints the resulting plan.

Routing uses explicit leg figures from the input file when present, or a
great-circle estimate when not. No network access is required.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
