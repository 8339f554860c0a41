package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/jpfielding/voi.go/pkg/render"
	"github.com/jpfielding/voi.go/pkg/source"
	"github.com/jpfielding/voi.go/pkg/voi"
	"github.com/spf13/cobra"
)

// Pseudo-preset names accepted by --preset
const (
	presetAuto     = "auto"
	presetModality = "modality"
)

type renderOptions struct {
	in      string
	out     string
	preset  string
	window  *float32
	level   *float32
	format  string
	aspect  bool
	quality int
}

// NewRenderCmd renders an image through a window to an 8-bit file
func NewRenderCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "render an image through a window/level",
		Long: "Loads a DICOM or raster image, applies the declared, preset, modality or explicit " +
			"window and writes the 8-bit result. --window/--level are applied after --preset.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts := renderOptions{in: args[0]}
			opts.out, _ = flags.GetString("out")
			opts.preset, _ = flags.GetString("preset")
			opts.format, _ = flags.GetString("format")
			if flags.Changed("window") {
				w, _ := flags.GetFloat32("window")
				opts.window = &w
			}
			if flags.Changed("level") {
				c, _ := flags.GetFloat32("level")
				opts.level = &c
			}
			opts.aspect = s.cfg.Render.CorrectAspect
			if flags.Changed("aspect") {
				opts.aspect, _ = flags.GetBool("aspect")
			}
			opts.quality = s.cfg.Render.JPEGQuality
			if flags.Changed("quality") {
				opts.quality, _ = flags.GetInt("quality")
			}
			_, err := s.render(ctx, opts)
			return err
		},
	}
	pf := cmd.Flags()
	pf.StringP("out", "o", "", "output image path")
	pf.StringP("preset", "p", "", "preset name, 'auto' or 'modality'")
	pf.Float32P("window", "w", 0, "window width")
	pf.Float32P("level", "l", 0, "window center")
	pf.StringP("format", "f", "", "output format (png|jpeg|tiff|bmp), defaults to the --out extension")
	pf.Bool("aspect", true, "correct non-square pixel spacing")
	pf.Int("quality", 0, "JPEG quality (1-100)")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (s *settings) render(ctx context.Context, opts renderOptions) (voi.WindowState, error) {
	format, err := s.outputFormat(opts)
	if err != nil {
		return voi.WindowState{}, err
	}

	src, err := source.Open(opts.in)
	if err != nil {
		return voi.WindowState{}, err
	}
	v := s.viewer()
	if err := v.Load(src); err != nil {
		return voi.WindowState{}, fmt.Errorf("loading %s: %w", opts.in, err)
	}
	if err := applyPreset(v, opts.preset); err != nil {
		return voi.WindowState{}, err
	}
	if opts.window != nil {
		v.SetWindow(*opts.window)
	}
	if opts.level != nil {
		v.SetLevel(*opts.level)
	}

	ws, display := v.View()
	var img image.Image = display.Image()
	if opts.aspect {
		img = render.CorrectAspect(img, v.AspectRatio())
	}
	if err := render.WriteFile(opts.out, img, render.Options{Format: format, JPEGQuality: opts.quality}); err != nil {
		return voi.WindowState{}, err
	}
	slog.InfoContext(ctx, "rendered",
		slog.String("in", opts.in),
		slog.String("out", opts.out),
		slog.String("format", string(format)),
		slog.Float64("window", float64(ws.Width)),
		slog.Float64("level", float64(ws.Center)),
		slog.String("viewer", v.ID()))
	return ws, nil
}

// outputFormat prefers --format, then the output extension, then config
func (s *settings) outputFormat(opts renderOptions) (render.Format, error) {
	if opts.format != "" {
		return render.ParseFormat(opts.format)
	}
	if ext := filepath.Ext(opts.out); ext != "" {
		return render.ParseFormat(ext)
	}
	return render.ParseFormat(s.cfg.Render.Format)
}

func applyPreset(v *voi.Viewer, preset string) error {
	switch preset {
	case "":
	case presetAuto:
		v.ApplyAuto()
	case presetModality:
		v.ApplyByModality(v.Modality())
	default:
		return v.ApplyPreset(preset)
	}
	return nil
}
