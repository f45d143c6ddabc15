package signature

// PointerKind is the phase of a pointer event
type PointerKind string

const (
	PointerDown   PointerKind = "down"
	PointerMove   PointerKind = "move"
	PointerUp     PointerKind = "up"
	PointerCancel PointerKind = "cancel"
)

// PointerSource is the input device that produced an event
type PointerSource string

const (
	SourceMouse PointerSource = "mouse"
	SourceTouch PointerSource = "touch"
)

// PointerEvent is a device event in surface coordinates
type PointerEvent struct {
	Kind   PointerKind   `json:"kind"`
	Source PointerSource `json:"source"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
}

// Handle maps a pointer event onto Begin, Extend and End. The result tells
// the caller to suppress the platform default (page scrolling); that is the
// case for touch events that start or continue a stroke.
func (s *Surface) Handle(ev PointerEvent) bool {
	touch := ev.Source == SourceTouch
	p := Point{X: ev.X, Y: ev.Y}

	switch ev.Kind {
	case PointerDown:
		s.Begin(p)
		return touch
	case PointerMove:
		if s.state != StateDrawing {
			return false
		}
		s.Extend(p)
		return touch
	case PointerUp:
		active := s.state == StateDrawing
		s.End()
		return touch && active
	case PointerCancel:
		if !touch {
			return false
		}
		active := s.state == StateDrawing
		s.End()
		return active
	}
	return false
}
