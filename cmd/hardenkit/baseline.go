package hardenkit

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/baseline"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/workspace"
)

// `baseline` subcommand: run or manage baselines
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Run or manage baselines (ordered sets of controls)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var baselineRunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a baseline and write one package per step",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		file, _ := cmd.Flags().GetString("file")
		if file == "" && len(args) == 1 {
			file = args[0]
		}

		b, err := loadBaseline(name, file)
		if err != nil {
			return err
		}

		appCtx, err := createAppContext()
		if err != nil {
			return err
		}

		report, err := baseline.Execute(appCtx, b, cmd.OutOrStdout())
		if report != nil {
			pterm.Info.Printfln("Completed: %d, failed: %d, skipped: %d",
				report.CompletedSteps, report.FailedSteps, report.SkippedSteps)
			if report.ReportPath != "" {
				pterm.Info.Printfln("Report: %s", report.ReportPath)
			}
		}
		return err
	},
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List predefined baselines",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available baselines:")
		for _, name := range baseline.ListPredefined() {
			if b, ok := baseline.GetPredefined(name); ok {
				fmt.Fprintf(out, "  %s - %s (%d steps)\n", name, b.Description, len(b.Steps))
			}
		}
	},
}

var baselineExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a predefined baseline as YAML into the workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBaseline(args[0], "")
		if err != nil {
			return err
		}
		appCtx, err := createAppContext()
		if err != nil {
			return err
		}
		path := appCtx.Workspace.Path(workspace.BaselinesDir, args[0]+".yaml")
		if err := baseline.Save(b, path); err != nil {
			return err
		}
		pterm.Success.Printfln("Baseline written: %s", path)
		return nil
	},
}

func loadBaseline(name, file string) (*baseline.Baseline, error) {
	switch {
	case file != "":
		b, err := baseline.Load(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline: %w", err)
		}
		return b, nil
	case name != "":
		b, ok := baseline.GetPredefined(name)
		if !ok {
			return nil, fmt.Errorf("unknown baseline: %s (available: %s)", name, strings.Join(baseline.ListPredefined(), ", "))
		}
		return b, nil
	}
	return nil, fmt.Errorf("baseline name or file is required")
}

func init() {
	baselineRunCmd.Flags().String("name", "", "Predefined baseline name")
	baselineRunCmd.Flags().String("file", "", "Path to baseline YAML file")

	baselineCmd.AddCommand(baselineRunCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineExportCmd)
}
