package voi

import "fmt"

// Source is what a decoder hands the pipeline for one image.
type Source struct {
	Raw            []byte
	Width          uint32
	Height         uint32
	Representation Representation
	BitsAllocated  int
	BitsStored     int

	RescaleSlope     float64
	RescaleIntercept float64
	// RescaleDeclared marks slope and intercept as read from the source, to be
	// applied as given even when the slope is 0.
	RescaleDeclared bool

	VOI          *VOI
	PixelSpacing *Spacing
	Modality     string

	// Frames is the frame count of the source; only the first is ingested.
	Frames int

	TransferSyntax string
	Compressed     bool
	DecodeOK       bool
}

// Rescale returns the rescale to apply. Without RescaleDeclared a zero slope
// is taken as unset and reads as 1.
func (s Source) Rescale() Rescale {
	if !s.RescaleDeclared && s.RescaleSlope == 0 {
		return Rescale{Slope: 1, Intercept: s.RescaleIntercept}
	}
	return Rescale{Slope: s.RescaleSlope, Intercept: s.RescaleIntercept}
}

// validate reports whether the pipeline may proceed with this source.
func (s Source) validate() error {
	if !s.DecodeOK {
		if s.TransferSyntax != "" {
			return fmt.Errorf("%w: transfer syntax %s", ErrSourceDecodeFailed, s.TransferSyntax)
		}
		return ErrSourceDecodeFailed
	}
	if s.Width == 0 || s.Height == 0 {
		return fmt.Errorf("%w: zero dimensions %dx%d", ErrSourceDecodeFailed, s.Width, s.Height)
	}
	return nil
}

// Metadata is a read-only summary of the loaded image.
type Metadata struct {
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Representation string   `json:"representation"`
	BitsAllocated  int      `json:"bits_allocated"`
	BitsStored     int      `json:"bits_stored"`
	Rescale        Rescale  `json:"rescale"`
	Frames         int      `json:"frames"`
	DeclaredVOI    *VOI     `json:"declared_voi,omitempty"`
	PixelSpacing   *Spacing `json:"pixel_spacing,omitempty"`
	AspectRatio    float32  `json:"aspect_ratio"`
	Modality       string   `json:"modality"`
	TransferSyntax string   `json:"transfer_syntax,omitempty"`
	Compressed     bool     `json:"compressed"`
	ContentID      string   `json:"content_id"`
}
