package hardenkit

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/workspace"
)

// `generate` subcommand: configure one control and write its package.
var generateCmd = &cobra.Command{
	Use:   "generate [control]",
	Short: "Generate artifacts and a package for a control",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		control, _ := cmd.Flags().GetString("control")
		if control == "" && len(args) == 1 {
			control = args[0]
		}
		if control == "" {
			return fmt.Errorf("control is required (--control or argument)")
		}
		settingsFile, _ := cmd.Flags().GetString("settings")
		useDefaults, _ := cmd.Flags().GetBool("defaults")
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		toStdout, _ := cmd.Flags().GetBool("stdout")
		loose, _ := cmd.Flags().GetBool("artifacts")

		if settingsFile == "" && !useDefaults {
			return fmt.Errorf("either --settings or --defaults is required")
		}

		appCtx, err := createAppContext()
		if err != nil {
			return err
		}
		svc := appCtx.Services

		c, err := newControl(svc, control, name, description)
		if err != nil {
			return err
		}
		st := c.DefaultSettings()
		if settingsFile != "" {
			if st, err = settings.Load(settingsFile); err != nil {
				return err
			}
		}
		if err := c.SetSettings(st); err != nil {
			return err
		}

		res, err := svc.Build(c)
		if err != nil {
			return err
		}

		if toStdout {
			out := cmd.OutOrStdout()
			for _, e := range svc.Generators.ListAll() {
				text, ok := res.Artifacts[e.Name]
				if !ok {
					continue
				}
				fmt.Fprintf(out, "===== %s =====\n%s\n", e.Name, text)
			}
			return nil
		}

		path, err := appCtx.Workspace.WritePackage(app.PackageFileName(c), res.Package)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Package written: %s", path)

		if loose {
			ws, ok := appCtx.Workspace.(workspace.Handle)
			if !ok {
				return errors.New("workspace does not support loose artifacts")
			}
			paths, err := ws.WriteArtifacts(c.SafeName(), res.Artifacts, svc.Generators)
			if err != nil {
				return err
			}
			for _, p := range paths {
				pterm.Info.Printfln("Artifact: %s", p)
			}
		}

		appCtx.Logger.Info().
			Str("control", c.Metadata().Name).
			Strs("generators", res.Artifacts.Names()).
			Int("bytes", len(res.Package)).
			Msg("package generated")
		return nil
	},
}

func init() {
	generateCmd.Flags().String("control", "", "Control name (exact, safe or case-insensitive)")
	generateCmd.Flags().String("settings", "", "YAML or JSON settings file")
	generateCmd.Flags().Bool("defaults", false, "Use the control's default settings")
	generateCmd.Flags().String("name", "", "Name for a custom control")
	generateCmd.Flags().String("description", "", "Description for a custom control")
	generateCmd.Flags().Bool("stdout", false, "Print artifacts to stdout instead of writing a package")
	generateCmd.Flags().Bool("artifacts", false, "Also write each artifact under artifacts/<control>/")
}
