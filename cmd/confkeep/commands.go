package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/lc/confkeep/internal/buildinfo"
	"github.com/lc/confkeep/internal/config"
	"github.com/lc/confkeep/pkg/editor"
	"github.com/lc/confkeep/pkg/manager"
)

// app is the state shared by every command.
type app struct {
	path string
	out  io.Writer
}

func (a *app) manager() *manager.Manager[*config.Config] {
	mgr := manager.New[*config.Config](config.NewSerializer(a.path))
	color.NoColor = color.NoColor || !mgr.Config().Display.Color
	return mgr
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "confkeep",
		Short: "Inspect and edit confkeep settings",
		Long: `confkeep keeps a settings file that is always complete: it is written with
defaults on first use and rewritten with defaults when it is found corrupted.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.out = cmd.OutOrStdout()
		},
	}
	root.PersistentFlags().StringVarP(&a.path, "config", "c", "", "settings file (default ~/"+config.DefaultConfigPath+")")

	root.AddCommand(
		newShowCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newResetCmd(a),
		newPathCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return root
}

// ---- show command ----
func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Show every setting",
		Example: "confkeep show",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr := a.manager()
			s := editor.Open(mgr, config.Options)
			defer s.Close()

			table := tablewriter.NewWriter(a.out)
			table.SetHeader([]string{"Key", "Value", "Description"})
			table.SetHeaderColor(
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
			)
			table.SetBorder(mgr.Config().Display.Border)
			table.SetAutoWrapText(false)
			for _, o := range s.Options() {
				table.Append([]string{o.Key, o.Get(), o.Description})
			}

			color.New(color.Bold).Fprintln(a.out, "SETTINGS:")
			table.Render()
			return nil
		},
	}
}

// ---- get command ----
func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one setting",
		Example: "confkeep get display.color",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s := editor.Open(a.manager(), config.Options)
			defer s.Close()

			v, err := s.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, v)
			return nil
		},
	}
}

// ---- set command ----
func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key>=<value>...",
		Short: "Change settings and save",
		Long: `Change one or more settings. Assignments are applied in order and the
file is saved once all of them succeed; a bad assignment leaves the file as it was.`,
		Example: "confkeep set display.border=true profile.name=ada",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr := a.manager()
			s := editor.Open(mgr, config.Options)
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q: want key=value", arg)
				}
				if err := s.Set(key, value); err != nil {
					return err
				}
			}
			if err := s.Close(); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Fprintf(a.out, "✓ Saved %d setting(s) to %s\n", len(args), a.resolvedPath())
			return nil
		},
	}
}

// ---- reset command ----
func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   "Overwrite the settings file with defaults",
		Example: "confkeep reset",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s := config.NewSerializer(a.path)
			if err := s.Serialize(config.Default()); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Fprintf(a.out, "✓ Reset %s\n", s.Path())
			return nil
		},
	}
}

// ---- path command ----
func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(a.out, a.resolvedPath())
		},
	}
}

// ---- status command ----
func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load the settings file and report problems",
		Long: `Load the settings file once and report whether defaults had to be used.
A corrupted or missing file is healed as a side effect.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr := a.manager()
			err := mgr.LoadErr()
			stats := mgr.Stats()
			fmt.Fprintf(a.out, "file:     %s\n", a.resolvedPath())
			if info, statErr := os.Stat(a.resolvedPath()); statErr == nil {
				fmt.Fprintf(a.out, "modified: %s\n", info.ModTime().Format(mgr.Config().Display.TimeFormat))
			}
			fmt.Fprintf(a.out, "loads:    %d\n", stats.Loads)
			fmt.Fprintf(a.out, "failures: %d\n", stats.Failures)
			if err == nil {
				color.New(color.FgGreen).Fprintln(a.out, "status:   ok")
				return nil
			}
			color.New(color.FgYellow).Fprintln(a.out, "status:   defaults in use")
			for _, e := range multierr.Errors(err) {
				fmt.Fprintf(a.out, "  - %v\n", e)
			}
			return nil
		},
	}
}

// ---- version command ----
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\n", buildinfo.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", buildinfo.Commit)
		},
	}
}

func (a *app) resolvedPath() string {
	return config.NewSerializer(a.path).Path()
}
