package hardenkit

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type controlRow struct {
	Name        string   `json:"name"`
	SafeName    string   `json:"safe_name"`
	RiskLevel   string   `json:"risk_level"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Generators  []string `json:"generators"`
}

// `list` subcommand: registered controls, optionally filtered by a glob.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available security controls",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices()
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		asJSON, _ := cmd.Flags().GetBool("json")

		names, err := controls.Filter(svc.Controls.Names(), filter)
		if err != nil {
			return err
		}

		rows := make([]controlRow, 0, len(names))
		for _, name := range names {
			c, err := svc.Controls.Create(name)
			if err != nil {
				return err
			}
			meta := c.Metadata()
			row := controlRow{
				Name:        meta.Name,
				SafeName:    c.SafeName(),
				RiskLevel:   meta.RiskLevel.String(),
				Category:    meta.Category,
				Description: meta.Description,
				Generators:  []string{},
			}
			for _, e := range svc.Generators.CompatibleWith(c.DefaultSettings()) {
				row.Generators = append(row.Generators, e.Name)
			}
			rows = append(rows, row)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		if len(rows) == 0 {
			pterm.Warning.Printfln("No controls match %q", filter)
			return nil
		}
		data := pterm.TableData{{"Name", "Risk", "Category", "Generators (defaults)"}}
		for _, r := range rows {
			data = append(data, []string{r.Name, r.RiskLevel, r.Category, strings.Join(r.Generators, ", ")})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render()
	},
}

func init() {
	listCmd.Flags().String("filter", "", "Glob on control name, e.g. '*network*'")
	listCmd.Flags().Bool("json", false, "Print JSON instead of a table")
}

// `describe` subcommand: metadata, schema and default settings of a control.
var describeCmd = &cobra.Command{
	Use:   "describe <control>",
	Short: "Show a control's metadata, options and defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices()
		if err != nil {
			return err
		}
		c, err := newControl(svc, args[0], "", "")
		if err != nil {
			return err
		}
		meta := c.Metadata()
		out := cmd.OutOrStdout()

		pterm.DefaultSection.WithWriter(out).Println(meta.Name)
		fmt.Fprintf(out, "Risk level:  %s\n", meta.RiskLevel)
		fmt.Fprintf(out, "Category:    %s\n", meta.Category)
		fmt.Fprintf(out, "Purpose:     %s\n", meta.Purpose)
		if len(meta.CommonTargets) > 0 {
			fmt.Fprintf(out, "Targets:     %s\n", strings.Join(meta.CommonTargets, ", "))
		}
		if _, ok := svc.Controls.Renderer(meta.Name); ok {
			fmt.Fprintln(out, "Form:        yes")
		}

		schema, err := yaml.Marshal(map[string]any(c.Schema()))
		if err != nil {
			return err
		}
		pterm.DefaultSection.WithWriter(out).WithLevel(2).Println("Options")
		fmt.Fprint(out, string(schema))

		defaults, err := settings.Marshal(c.DefaultSettings())
		if err != nil {
			return err
		}
		pterm.DefaultSection.WithWriter(out).WithLevel(2).Println("Default settings")
		fmt.Fprint(out, string(defaults))
		return nil
	},
}

// `defaults` subcommand: default settings as YAML, ready for generate --settings.
var defaultsCmd = &cobra.Command{
	Use:   "defaults <control>",
	Short: "Print a control's default settings as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices()
		if err != nil {
			return err
		}
		c, err := newControl(svc, args[0], "", "")
		if err != nil {
			return err
		}
		data, err := settings.Marshal(c.DefaultSettings())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
