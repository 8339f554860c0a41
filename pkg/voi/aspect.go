package voi

// Spacing is the physical distance between pixel centers in mm, as declared
// by Pixel Spacing (0028,0030) or Imager Pixel Spacing (0018,1164).
type Spacing struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// AspectRatio returns row/col spacing, or 1 when spacing is missing or the
// column spacing is not positive. It only affects display geometry.
func AspectRatio(spacing *Spacing) float32 {
	if spacing == nil || !(spacing.Col > 0) {
		return 1
	}
	return float32(spacing.Row / spacing.Col)
}
