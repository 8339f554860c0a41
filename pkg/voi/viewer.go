package voi

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jpfielding/voi.go/pkg/util"
)

// Viewer is one viewing session over a single loaded image. State changes
// are expected from one goroutine at a time (they are serialized anyway);
// readers may call the getters concurrently and always see a window together
// with the display rendered for it.
type Viewer struct {
	id   string
	log  *slog.Logger
	opts []Option

	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[snapshot]
}

type loadedImage struct {
	physical *PhysicalBuffer
	aspect   float32
	meta     Metadata
}

// snapshot is immutable once stored.
type snapshot struct {
	img     *loadedImage
	window  WindowState
	display *DisplayBuffer
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithLogger sets the session logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) ViewerOption {
	return func(v *Viewer) {
		v.log = l
	}
}

// WithPipelineOptions passes options to every Ingest and Map call.
func WithPipelineOptions(opts ...Option) ViewerOption {
	return func(v *Viewer) {
		v.opts = append(v.opts, opts...)
	}
}

// NewViewer creates an empty session with the default soft tissue window.
func NewViewer(opts ...ViewerOption) *Viewer {
	v := &Viewer{id: util.NewID()}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = slog.Default()
	}
	v.log = v.log.With(slog.String("session", v.id))
	v.cur.Store(&snapshot{
		window: WindowState{
			Width:          DefaultWidth,
			Center:         DefaultCenter,
			OriginalWidth:  DefaultWidth,
			OriginalCenter: DefaultCenter,
		},
	})
	return v
}

// ID returns the session id used in log records.
func (v *Viewer) ID() string {
	return v.id
}

// Load ingests src, resolves its window and renders it. On any error the
// previously loaded image, window and display are left exactly as they were.
func (v *Viewer) Load(src Source) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := src.validate(); err != nil {
		v.log.Warn("Rejected source", slog.Any("error", err))
		return err
	}

	rescale := src.Rescale()
	buf, err := Ingest(src.Raw, src.Representation, int(src.Width), int(src.Height), rescale, v.opts...)
	if err != nil {
		v.log.Warn("Ingest failed", slog.Any("error", err))
		return fmt.Errorf("ingesting samples: %w", err)
	}
	window, err := Resolve(src.VOI, buf)
	if err != nil {
		v.log.Warn("Window resolution failed", slog.Any("error", err))
		return err
	}

	img := &loadedImage{
		physical: buf,
		aspect:   AspectRatio(src.PixelSpacing),
	}
	img.meta = Metadata{
		Width:          buf.Width(),
		Height:         buf.Height(),
		Representation: src.Representation.String(),
		BitsAllocated:  src.BitsAllocated,
		BitsStored:     src.BitsStored,
		Rescale:        rescale,
		Frames:         max(src.Frames, 1),
		DeclaredVOI:    copyVOI(src.VOI),
		PixelSpacing:   copySpacing(src.PixelSpacing),
		AspectRatio:    img.aspect,
		Modality:       src.Modality,
		TransferSyntax: src.TransferSyntax,
		Compressed:     src.Compressed,
		ContentID:      util.ContentUUID(src.Raw),
	}

	v.cur.Store(&snapshot{
		img:     img,
		window:  window,
		display: Map(buf, window, v.opts...),
	})

	v.log.Debug("Loaded image",
		slog.String("content", img.meta.ContentID),
		slog.Int("width", buf.Width()),
		slog.Int("height", buf.Height()),
		slog.String("modality", src.Modality),
		slog.Bool("declaredVOI", window.HasOriginalVOI),
		slog.Float64("window", float64(window.Width)),
		slog.Float64("center", float64(window.Center)))
	return nil
}

// SetWindowLevel sets both window width and level (center) and re-renders.
func (v *Viewer) SetWindowLevel(window, level float32) {
	v.update(func(ws WindowState) WindowState {
		return ws.With(window, level)
	})
}

// SetWindow changes only the width.
func (v *Viewer) SetWindow(window float32) {
	v.update(func(ws WindowState) WindowState {
		return ws.With(window, ws.Center)
	})
}

// SetLevel changes only the center.
func (v *Viewer) SetLevel(level float32) {
	v.update(func(ws WindowState) WindowState {
		return ws.With(ws.Width, level)
	})
}

// ApplyPreset switches to a named catalog window.
func (v *Viewer) ApplyPreset(name string) error {
	p, ok := LookupPreset(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	v.SetWindowLevel(p.Width, p.Center)
	return nil
}

// ApplyAuto restores the window resolved at load time.
func (v *Viewer) ApplyAuto() {
	v.update(WindowState.Auto)
}

// ApplyByModality picks the window for a modality code, falling back to
// ApplyAuto for anything without a dedicated window.
func (v *Viewer) ApplyByModality(modality string) {
	if w, c, ok := ModalityWindow(modality); ok {
		v.SetWindowLevel(w, c)
		return
	}
	v.ApplyAuto()
}

func (v *Viewer) update(fn func(WindowState) WindowState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	prev := v.cur.Load()
	next := &snapshot{img: prev.img, window: fn(prev.window)}
	if prev.img != nil {
		next.display = Map(prev.img.physical, next.window, v.opts...)
	}
	v.cur.Store(next)
}

// Loaded reports whether an image has been loaded successfully.
func (v *Viewer) Loaded() bool {
	return v.cur.Load().img != nil
}

// State returns the current window state.
func (v *Viewer) State() WindowState {
	return v.cur.Load().window
}

// Window returns the current window width.
func (v *Viewer) Window() float32 {
	return v.cur.Load().window.Width
}

// Center returns the current window center (level).
func (v *Viewer) Center() float32 {
	return v.cur.Load().window.Center
}

// Display returns the current rendering, nil before the first load. The
// session never writes to a buffer after returning it.
func (v *Viewer) Display() *DisplayBuffer {
	return v.cur.Load().display
}

// View returns the window and the display rendered for it from the same
// snapshot.
func (v *Viewer) View() (WindowState, *DisplayBuffer) {
	s := v.cur.Load()
	return s.window, s.display
}

// DisplayBuffer returns the current pixels with their dimensions.
func (v *Viewer) DisplayBuffer() (pix []byte, width, height int) {
	d := v.Display()
	if d == nil {
		return nil, 0, 0
	}
	return d.Pix, d.Width, d.Height
}

// Physical returns the loaded physical buffer, nil before the first load.
func (v *Viewer) Physical() *PhysicalBuffer {
	if img := v.cur.Load().img; img != nil {
		return img.physical
	}
	return nil
}

// AspectRatio returns row/col pixel spacing of the loaded image, 1 if none.
func (v *Viewer) AspectRatio() float32 {
	if img := v.cur.Load().img; img != nil {
		return img.aspect
	}
	return 1
}

// Modality returns the loaded modality code, empty if undeclared.
func (v *Viewer) Modality() string {
	if img := v.cur.Load().img; img != nil {
		return img.meta.Modality
	}
	return ""
}

// Metadata describes the loaded image.
func (v *Viewer) Metadata() Metadata {
	if img := v.cur.Load().img; img != nil {
		return img.meta
	}
	return Metadata{AspectRatio: 1}
}

func copyVOI(in *VOI) *VOI {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func copySpacing(in *Spacing) *Spacing {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
