package voi

import "strings"

// Preset is a named window/level pair.
type Preset struct {
	Name   string  `json:"name" yaml:"name"`
	Width  float32 `json:"width" yaml:"width"`
	Center float32 `json:"center" yaml:"center"`
}

// Preset names
const (
	SoftTissue  = "soft_tissue"
	Lung        = "lung"
	Bone        = "bone"
	BrainT1     = "brain_t1"
	BrainT2     = "brain_t2"
	Mammography = "mammography"
)

var presets = []Preset{
	{Name: SoftTissue, Width: 400, Center: 40},
	{Name: Lung, Width: 1500, Center: -600},
	{Name: Bone, Width: 1800, Center: 400},
	{Name: BrainT1, Width: 80, Center: 40},
	{Name: BrainT2, Width: 160, Center: 80},
	{Name: Mammography, Width: 4000, Center: 2000},
}

// Projection radiography (CR, DX) has no named preset, only this pair.
var projectionWindow = Preset{Name: "projection", Width: 2000, Center: 1000}

// modalityPresets is the modality dispatch table. Codes not listed fall back
// to the resolved load-time window.
var modalityPresets = map[string]Preset{
	"CT": mustPreset(SoftTissue),
	"MR": mustPreset(BrainT1),
	"MG": mustPreset(Mammography),
	"CR": projectionWindow,
	"DX": projectionWindow,
}

// Presets returns the catalog in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a catalog entry by name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ModalityWindow returns the window for a DICOM modality code. ok is false
// for empty or unrecognized codes, which callers treat as "auto".
func ModalityWindow(modality string) (width, center float32, ok bool) {
	p, ok := modalityPresets[strings.TrimSpace(modality)]
	return p.Width, p.Center, ok
}

// ModalityCodes lists the codes with a dedicated window, for help output.
func ModalityCodes() map[string]Preset {
	out := make(map[string]Preset, len(modalityPresets))
	for k, v := range modalityPresets {
		out[k] = v
	}
	return out
}

func mustPreset(name string) Preset {
	p, ok := LookupPreset(name)
	if !ok {
		panic("voi: missing preset " + name)
	}
	return p
}
