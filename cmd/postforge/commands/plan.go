package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/errors"
)

// PlanCmd generates a weekly content plan
var PlanCmd = &cobra.Command{
	Use:   "plan [business plan description]",
	Short: "Generate a weekly content plan from a business plan",
	Long: `Generate a weekly content plan tailored to a business. The business
plan is given as arguments or read from a file with --file.

Example:
  postforge plan "Artisanal cheese subscriptions for remote teams"
  postforge plan --file business_plan.txt -o weekly_content_plan.txt`,
	RunE: runPlan,
}

var (
	planFile string
	planOut  string
)

func init() {
	PlanCmd.Flags().StringVarP(&planFile, "file", "f", "", "Read the business plan from this file instead of arguments")
	PlanCmd.Flags().StringVarP(&planOut, "out", "o", "", "Write the plan to this file as well")
}

func runPlan(cmd *cobra.Command, args []string) error {
	businessPlan := strings.Join(args, " ")
	if planFile != "" {
		raw, err := os.ReadFile(planFile)
		if err != nil {
			return errors.Wrap(err, "failed to read business plan file")
		}
		businessPlan = string(raw)
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")

	st, err := buildStack(verbosity)
	if err != nil {
		return err
	}

	plan, err := st.agent.Plan(cmd.Context(), businessPlan)
	if err != nil {
		return err
	}

	fmt.Println(plan)

	if planOut != "" {
		if err := os.WriteFile(planOut, []byte(plan), config.DefaultFilePermissions); err != nil {
			return errors.Wrap(err, "failed to write plan file")
		}
		pterm.Info.Printf("Saved to %s\n", planOut)
	}

	return nil
}
