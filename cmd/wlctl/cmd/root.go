package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/voi.go/pkg/config"
	"github.com/jpfielding/voi.go/pkg/logging"
	"github.com/jpfielding/voi.go/pkg/voi"
	"github.com/spf13/cobra"
)

// settings is shared by every subcommand once the root has parsed flags
type settings struct {
	cfg     *config.Config
	logFile io.Closer
}

func (s *settings) viewer() *voi.Viewer {
	return voi.NewViewer(
		voi.WithLogger(slog.Default()),
		voi.WithPipelineOptions(voi.WithWorkers(s.cfg.Render.Workers)),
	)
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	s := &settings{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:          "wlctl",
		Short:        "window/level rendering for medical images",
		Long:         "wlctl maps DICOM and raster images to 8-bit grayscale through a VOI window",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(ctx, cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logFile != nil {
				s.logFile.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewRenderCmd(ctx, s),
		NewInspectCmd(ctx, s),
		NewPresetsCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "write logs to a rotating file instead of stderr")
	pf.Bool("log-json", false, "emit JSON logs")
	return cmd
}

// setup loads the config file, applies flag overrides and installs the logger
func (s *settings) setup(ctx context.Context, cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}
	s.cfg = cfg

	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f := logging.RotatingFile(logging.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
		s.logFile, w = f, f
	}
	level, lvlErr := cfg.SlogLevel()
	slog.SetDefault(logging.Logger(w, cfg.Log.JSON, level))
	if lvlErr != nil {
		slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", cfg.Log.Level, "error", lvlErr)
	}
	return nil
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
