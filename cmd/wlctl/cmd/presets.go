package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/jpfielding/voi.go/pkg/voi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type modalityEntry struct {
	Modality string  `json:"modality" yaml:"modality"`
	Preset   string  `json:"preset" yaml:"preset"`
	Width    float32 `json:"width" yaml:"width"`
	Center   float32 `json:"center" yaml:"center"`
}

type catalog struct {
	Presets    []voi.Preset    `json:"presets" yaml:"presets"`
	Modalities []modalityEntry `json:"modalities" yaml:"modalities"`
}

func newCatalog() catalog {
	codes := voi.ModalityCodes()
	keys := make([]string, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	c := catalog{Presets: voi.Presets()}
	for _, k := range keys {
		p := codes[k]
		c.Modalities = append(c.Modalities, modalityEntry{Modality: k, Preset: p.Name, Width: p.Width, Center: p.Center})
	}
	return c
}

// NewPresetsCmd lists the preset catalog and the modality dispatch table
func NewPresetsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "list window presets and modality defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCatalog()
			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(c)
			case "text":
				writeCatalog(out, c)
				return nil
			default:
				return fmt.Errorf("unsupported format: %q", format)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text|json|yaml)")
	return cmd
}

func writeCatalog(w io.Writer, c catalog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tWIDTH\tCENTER")
	for _, p := range c.Presets {
		fmt.Fprintf(tw, "%s\t%g\t%g\n", p.Name, p.Width, p.Center)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MODALITY\tPRESET\tWIDTH\tCENTER")
	for _, m := range c.Modalities {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\n", m.Modality, m.Preset, m.Width, m.Center)
	}
	fmt.Fprintf(tw, "other\t%s\t\t\n", presetAuto)
	tw.Flush()
}
