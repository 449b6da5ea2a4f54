package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"keyswap/config"
	"keyswap/logging"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg       *config.Config
	cfgPath   string
	cfgExists bool
	logger    *slog.Logger
	// logWriter replaces stderr as the log destination when set.
	logWriter io.Writer
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "keyswap",
		Short: "Swap chroma-keyed footage from an FCPXML project into an MLT composite",
		Long: `keyswap reads a Final Cut Pro XML project, finds every clip of the keyed
source asset, and writes a Shotcut/melt MLT project that lays those clips
end to end over replacement textures with a chroma key applied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipConfig(cmd) {
				return nil
			}
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newConvertCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newDoctorCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))
	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func skipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skip-config"] == "true" {
			return true
		}
	}
	return false
}

func (a *app) load() error {
	cfg, path, exists, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Finalize(); err != nil {
			return err
		}
	}
	a.cfg, a.cfgPath, a.cfgExists = cfg, path, exists

	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: a.logWriter,
	}
	if cfg.Logging.File != "" {
		opts.OutputPaths = []string{"stderr", cfg.Logging.File}
	}
	logger, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.logger = logging.WithComponent(logger, "cmd")
	a.logger.Debug("configuration loaded", slog.String("path", path), slog.Bool("exists", exists))
	return nil
}
