package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "vpatch",
		Short: "Diff and patch retained-mode trees",
		Long: `vpatch diffs virtual trees, applies the patches to a live tree and
records the resulting patch frames.

Trees are read from YAML or JSON documents. Commands:

  • diff     print the patch set between two documents
  • apply    patch a tree built from one document into another
  • serve    replay documents against a live tree with an inspector
  • replay   print recorded patch frames`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to vpatch.json (default: search from the working directory)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from vpatch.json)")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		diffCmd(g),
		applyCmd(g),
		serveCmd(g),
		replayCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig loads the file named by --config, or searches from the
// working directory.
func (g *globals) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		return config.LoadFile(g.configPath)
	}
	return config.LoadFromWorkingDir()
}

// logger builds a text logger on w at the --log-level or configured level.
func (g *globals) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level := cfg.LogLevel()
	if g.logLevel != "" {
		var err error
		if level, err = config.ParseLevel(g.logLevel); err != nil {
			return nil, err
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, args...))
}
