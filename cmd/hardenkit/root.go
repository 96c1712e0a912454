package hardenkit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/custom"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/tui"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/workspace"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/version"
)

var cfgFile string

// server.addr is read from HARDENKIT_SERVER_ADDR.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

var rootCmd = &cobra.Command{
	Use:   "hardenkit",
	Short: "hardenkit: Windows security control packages (CLI/TUI/API)",
	Long: "hardenkit turns security-hardening controls into deployable artifacts " +
		"(GPO XML, PowerShell, .reg and batch scripts) and zips them into packages. " +
		"Use CLI subcommands, the TUI with --tui, or the HTTP API with serve.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("tui") {
			return runTUI()
		}
		return cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all subcommands).
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().String("workspace", "./work", "Path to workspace root")
	rootCmd.PersistentFlags().Bool("tui", false, "Run in TUI mode")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console|json)")
	rootCmd.PersistentFlags().String("gpo-domain", "", "Domain stamped into GPO XML")

	// Bind flags to Viper.
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("tui", rootCmd.PersistentFlags().Lookup("tui"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("gpo_domain", rootCmd.PersistentFlags().Lookup("gpo-domain"))

	// Env support: HARDENKIT_WORKSPACE, HARDENKIT_SERVER_ADDR, etc.
	app.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("HARDENKIT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Register subcommands.
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the --config file when one is given.
func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. It always writes to stderr so
// generated artifacts can be piped from stdout.
func newLogger(cfg app.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		TimeFormat: time.RFC3339,
	})
}

// Helper to create app context
func createAppContext() (app.Context, error) {
	cfg, err := app.LoadConfig(viper.GetViper())
	if err != nil {
		return app.Context{}, err
	}
	ws, err := workspace.Ensure(cfg.Workspace)
	if err != nil {
		return app.Context{}, err
	}
	log := newLogger(cfg)
	return app.Context{
		Ctx:       context.Background(),
		Config:    cfg,
		Workspace: ws,
		Services:  app.Bootstrap(cfg, log),
		Logger:    log,
		Now:       time.Now(),
	}, nil
}

// newServices wires the registries without touching the workspace. Used by
// read-only commands.
func newServices() (*app.Services, error) {
	cfg, err := app.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return app.Bootstrap(cfg, newLogger(cfg)), nil
}

// newControl resolves name and returns a fresh control. The custom control
// is built under displayName when one is given.
func newControl(svc *app.Services, name, displayName, description string) (controls.Control, error) {
	canonical, err := svc.Controls.Resolve(name)
	if err != nil {
		return nil, err
	}
	if canonical == custom.Name {
		return custom.NewNamed(displayName, description), nil
	}
	return svc.Controls.Create(canonical)
}

func runTUI() error {
	appCtx, err := createAppContext()
	if err != nil {
		return err
	}
	return tui.Run(appCtx)
}

// `init` subcommand to initialize/ensure workspace structure.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize workspace structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		ws, err := workspace.Ensure(cfg.Workspace)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workspace ready at: %s\n", ws.Root)
		return nil
	},
}

// `tui` subcommand, same as --tui.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// `version` subcommand.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
