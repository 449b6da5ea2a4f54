package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"keyswap/config"
	"keyswap/deps"
)

func newDoctorCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that ffmpeg and melt are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.CheckBinaries(deps.Default(a.cfg.Textures.FFmpeg, a.cfg.Render.Melt))
			color := false
			if f, ok := cmd.OutOrStdout().(*os.File); ok {
				color = isatty.IsTerminal(f.Fd())
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				detail := s.Path
				if !s.Available {
					state = "missing"
					detail = s.Detail
					if s.Optional {
						state = "optional"
					}
				}
				if color {
					switch state {
					case "ok":
						state = text.FgGreen.Sprint(state)
					case "optional":
						state = text.FgYellow.Sprint(state)
					default:
						state = text.FgRed.Sprint(state)
					}
				}
				rows = append(rows, []string{s.Name, state, detail, s.Description})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Tool", "Status", "Detail", "Used for"}, rows, nil, nil))
			if a.cfgExists {
				fmt.Fprintf(out, "Config: %s\n", a.cfgPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no config file found)")
			}
			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the keyswap configuration file",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(a))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skip-config": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				target = p
			} else {
				p, err := config.ExpandPath(target)
				if err != nil {
					return err
				}
				target = p
			}
			if err := config.CreateSample(target, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Destination path (default ~/.config/keyswap/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := toml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			out := cmd.OutOrStdout()
			if a.cfgExists {
				fmt.Fprintf(out, "# loaded from %s\n", a.cfgPath)
			} else {
				fmt.Fprintln(out, "# built-in defaults")
			}
			_, err = out.Write(data)
			return err
		},
	}
}
