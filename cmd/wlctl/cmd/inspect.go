package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jpfielding/voi.go/pkg/source"
	"github.com/jpfielding/voi.go/pkg/voi"
	"github.com/spf13/cobra"
)

type report struct {
	Path           string          `json:"path"`
	Viewer         string          `json:"viewer"`
	Metadata       voi.Metadata    `json:"metadata"`
	Window         voi.WindowState `json:"window"`
	Stats          voi.Stats       `json:"stats"`
	ModalityWindow *voi.VOI        `json:"modality_window,omitempty"`
}

// NewInspectCmd prints what the pipeline sees in a file
func NewInspectCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "show image metadata, resolved window and sample statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.inspect(args[0])
			if err != nil {
				return err
			}
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			case "text":
				writeReport(cmd.OutOrStdout(), r)
				return nil
			default:
				return fmt.Errorf("unsupported format: %q", format)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text|json)")
	return cmd
}

func (s *settings) inspect(path string) (*report, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	v := s.viewer()
	if err := v.Load(src); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	stats, err := voi.Describe(v.Physical())
	if err != nil {
		return nil, err
	}
	r := &report{
		Path:     path,
		Viewer:   v.ID(),
		Metadata: v.Metadata(),
		Window:   v.State(),
		Stats:    stats,
	}
	if w, c, ok := voi.ModalityWindow(v.Modality()); ok {
		r.ModalityWindow = &voi.VOI{Center: float64(c), Width: float64(w)}
	}
	return r, nil
}

func writeReport(w io.Writer, r *report) {
	md := r.Metadata
	fmt.Fprintf(w, "File: %s\n\n", r.Path)
	fmt.Fprintln(w, "=== Image ===")
	fmt.Fprintf(w, "Dimensions: %dx%d\n", md.Width, md.Height)
	fmt.Fprintf(w, "Representation: %s (allocated %d, stored %d)\n", md.Representation, md.BitsAllocated, md.BitsStored)
	fmt.Fprintf(w, "Frames: %d (rendering frame 0)\n", md.Frames)
	fmt.Fprintf(w, "Modality: %s\n", md.Modality)
	if md.TransferSyntax != "" {
		fmt.Fprintf(w, "TransferSyntax: %s\n", md.TransferSyntax)
	}
	fmt.Fprintf(w, "Rescale: slope %g, intercept %g\n", md.Rescale.Slope, md.Rescale.Intercept)
	if md.PixelSpacing != nil {
		fmt.Fprintf(w, "PixelSpacing: %g\\%g mm\n", md.PixelSpacing.Row, md.PixelSpacing.Col)
	}
	fmt.Fprintf(w, "AspectRatio: %g\n", md.AspectRatio)
	fmt.Fprintf(w, "ContentID: %s\n\n", md.ContentID)

	fmt.Fprintln(w, "=== Window ===")
	if md.DeclaredVOI != nil {
		fmt.Fprintf(w, "Declared: W %g L %g\n", md.DeclaredVOI.Width, md.DeclaredVOI.Center)
	} else {
		fmt.Fprintln(w, "Declared: none")
	}
	fmt.Fprintf(w, "Resolved: W %g L %g (from VOI: %v)\n", r.Window.Width, r.Window.Center, r.Window.HasOriginalVOI)
	if r.ModalityWindow != nil {
		fmt.Fprintf(w, "Modality window: W %g L %g\n", r.ModalityWindow.Width, r.ModalityWindow.Center)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Physical values ===")
	fmt.Fprintf(w, "Min: %g\nMax: %g\nMean: %.3f\nStdDev: %.3f\n", r.Stats.Min, r.Stats.Max, r.Stats.Mean, r.Stats.StdDev)
}
