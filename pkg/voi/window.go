package voi

import "fmt"

// VOI is a declared window from the source metadata (0028,1050)/(0028,1051).
type VOI struct {
	Center float64 `json:"center"`
	Width  float64 `json:"width"`
}

// WindowState is the current window plus the pair resolved at load time.
// The Original* fields and HasOriginalVOI are set once by Resolve.
type WindowState struct {
	Width  float32 `json:"width"`
	Center float32 `json:"center"`

	OriginalWidth  float32 `json:"original_width"`
	OriginalCenter float32 `json:"original_center"`
	HasOriginalVOI bool    `json:"has_original_voi"`
}

// Default window before anything is loaded (CT soft tissue)
const (
	DefaultWidth  float32 = 400
	DefaultCenter float32 = 40
)

// Resolve picks the initial window. A declared VOI with positive width wins
// outright; otherwise the window spans the buffer's range, with a width of
// 1 when every sample is equal.
func Resolve(declared *VOI, buf *PhysicalBuffer) (WindowState, error) {
	if declared != nil && declared.Width > 0 {
		w, c := float32(declared.Width), float32(declared.Center)
		return WindowState{
			Width:          w,
			Center:         c,
			OriginalWidth:  w,
			OriginalCenter: c,
			HasOriginalVOI: true,
		}, nil
	}

	min, max, err := MinMax(buf)
	if err != nil {
		return WindowState{}, fmt.Errorf("resolving window from range: %w", err)
	}
	c := float32((min + max) * 0.5)
	w := float32(max - min)
	if w <= 0 {
		w = 1
	}
	return WindowState{
		Width:          w,
		Center:         c,
		OriginalWidth:  w,
		OriginalCenter: c,
	}, nil
}

// With returns a copy carrying a new current window; originals are kept.
func (ws WindowState) With(width, center float32) WindowState {
	ws.Width = width
	ws.Center = center
	return ws
}

// Auto returns a copy with the current window reset to the resolved pair.
func (ws WindowState) Auto() WindowState {
	return ws.With(ws.OriginalWidth, ws.OriginalCenter)
}
