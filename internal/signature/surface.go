package signature

import (
	"bytes"
	"image"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/fogleman/gg"
)

// ErrEmptySignature is returned by Export when nothing was drawn since the last clear
var ErrEmptySignature = ierr.NewError("signature is empty").
	WithHint("Please sign before continuing").
	Mark(ierr.ErrValidation)

// Point is a position on the surface in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one pen-down to pen-up gesture
type Stroke []Point

// Style is the fixed pen used for every segment
type Style struct {
	LineWidth float64
	Color     string
}

var DefaultStyle = Style{LineWidth: 2.5, Color: "#1a1a2e"}

// State of the surface
type State int

const (
	StateIdle State = iota
	StateDrawing
)

func (s State) String() string {
	if s == StateDrawing {
		return "drawing"
	}
	return "idle"
}

// Listener receives the exported data URL after each finished stroke and ""
// after a clear.
type Listener func(dataURL string)

type Option func(*Surface)

func WithStyle(style Style) Option {
	return func(s *Surface) {
		if style.LineWidth > 0 {
			s.style.LineWidth = style.LineWidth
		}
		if style.Color != "" {
			s.style.Color = style.Color
		}
	}
}

func WithListener(l Listener) Option {
	return func(s *Surface) {
		s.listeners = append(s.listeners, l)
	}
}

// Surface accumulates freehand strokes and keeps a raster of them.
// A Surface is not safe for concurrent use.
type Surface struct {
	width, height int
	style         Style
	dc            *gg.Context
	strokes       []Stroke
	state         State
	hasContent    bool
	listeners     []Listener
}

// NewSurface returns an empty, idle surface
func NewSurface(width, height int, opts ...Option) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ierr.NewErrorf("invalid surface size %dx%d", width, height).
			WithHint("Signature area must have a positive size").
			Mark(ierr.ErrValidation)
	}

	s := &Surface{
		width:  width,
		height: height,
		style:  DefaultStyle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s, nil
}

func (s *Surface) reset() {
	s.dc = gg.NewContext(s.width, s.height)
	s.dc.SetLineWidth(s.style.LineWidth)
	s.dc.SetLineCapRound()
	s.dc.SetLineJoinRound()
	s.dc.SetHexColor(s.style.Color)
	s.strokes = nil
	s.hasContent = false
}

func (s *Surface) State() State { return s.state }

// IsEmpty reports whether nothing was drawn since the last clear
func (s *Surface) IsEmpty() bool { return !s.hasContent }

// Strokes returns a copy of the recorded strokes
func (s *Surface) Strokes() []Stroke {
	out := make([]Stroke, len(s.strokes))
	for i, st := range s.strokes {
		out[i] = append(Stroke(nil), st...)
	}
	return out
}

// Begin starts a new stroke at p. Beginning while a stroke is active closes
// the active one first.
func (s *Surface) Begin(p Point) {
	if s.state == StateDrawing {
		s.End()
	}
	s.strokes = append(s.strokes, Stroke{p})
	s.state = StateDrawing
	s.hasContent = true

	// a tap leaves a dot
	s.dc.DrawCircle(p.X, p.Y, s.style.LineWidth/2)
	s.dc.Fill()
}

// Extend draws a segment from the previous point to p. It does nothing when idle.
func (s *Surface) Extend(p Point) {
	if s.state != StateDrawing {
		return
	}
	current := &s.strokes[len(s.strokes)-1]
	prev := (*current)[len(*current)-1]
	*current = append(*current, p)

	s.dc.DrawLine(prev.X, prev.Y, p.X, p.Y)
	s.dc.Stroke()
	s.hasContent = true
}

// End closes the current stroke and notifies listeners. It does nothing when idle.
func (s *Surface) End() {
	if s.state != StateDrawing {
		return
	}
	s.state = StateIdle

	if len(s.listeners) == 0 {
		return
	}
	dataURL, err := s.Export()
	if err != nil {
		return
	}
	s.notify(dataURL)
}

// Clear discards every stroke. It is refused while a stroke is in progress.
func (s *Surface) Clear() error {
	if s.state == StateDrawing {
		return ierr.NewError("cannot clear while drawing").
			WithHint("Finish the current stroke before clearing").
			Mark(ierr.ErrInvalidOperation)
	}
	s.reset()
	s.notify("")
	return nil
}

// Export returns the raster as a PNG data URL
func (s *Surface) Export() (string, error) {
	data, err := s.PNG()
	if err != nil {
		return "", err
	}
	return EncodeDataURL(MimePNG, data), nil
}

// PNG returns the raster encoded as PNG
func (s *Surface) PNG() ([]byte, error) {
	if !s.hasContent {
		return nil, ErrEmptySignature
	}
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode signature").
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}

// Image returns the live raster
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

func (s *Surface) notify(dataURL string) {
	for _, l := range s.listeners {
		l(dataURL)
	}
}

// Render replays strokes on a fresh surface and exports the result
func Render(width, height int, strokes []Stroke, opts ...Option) (string, error) {
	s, err := NewSurface(width, height, opts...)
	if err != nil {
		return "", err
	}
	for _, stroke := range strokes {
		if len(stroke) == 0 {
			continue
		}
		s.Begin(stroke[0])
		for _, p := range stroke[1:] {
			s.Extend(p)
		}
		s.End()
	}
	return s.Export()
}
