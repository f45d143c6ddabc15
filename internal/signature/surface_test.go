package signature

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SurfaceSuite struct {
	suite.Suite
	surface  *Surface
	received []string
}

func TestSurface(t *testing.T) {
	suite.Run(t, new(SurfaceSuite))
}

func (s *SurfaceSuite) SetupTest() {
	s.received = nil
	surface, err := NewSurface(100, 50, WithListener(func(dataURL string) {
		s.received = append(s.received, dataURL)
	}))
	s.Require().NoError(err)
	s.surface = surface
}

func (s *SurfaceSuite) TestExportEmptyFails() {
	_, err := s.surface.Export()
	s.ErrorIs(err, ErrEmptySignature)
	s.True(ierr.IsValidation(err))
}

func (s *SurfaceSuite) TestExportAfterClearFails() {
	s.surface.Begin(Point{10, 10})
	s.surface.Extend(Point{20, 20})
	s.surface.End()
	s.Require().NoError(s.surface.Clear())

	_, err := s.surface.Export()
	s.ErrorIs(err, ErrEmptySignature)
	s.True(s.surface.IsEmpty())
	s.Equal("", s.received[len(s.received)-1])
}

func (s *SurfaceSuite) TestBeginExtendExportsPNG() {
	s.surface.Begin(Point{10, 10})
	s.surface.Extend(Point{20, 20})

	dataURL, err := s.surface.Export()
	s.Require().NoError(err)
	s.True(strings.HasPrefix(dataURL, "data:image/png;base64,"))

	data, mime, err := DecodeDataURL(dataURL)
	s.Require().NoError(err)
	s.Equal(MimePNG, mime)

	img, err := png.Decode(bytes.NewReader(data))
	s.Require().NoError(err)
	s.Equal(100, img.Bounds().Dx())
	s.Equal(50, img.Bounds().Dy())

	_, _, _, inked := img.At(15, 15).RGBA()
	s.Greater(inked, uint32(0))
	_, _, _, blank := img.At(90, 45).RGBA()
	s.Equal(uint32(0), blank)
}

func (s *SurfaceSuite) TestExtendWhileIdleIsNoop() {
	s.surface.Extend(Point{5, 5})
	s.True(s.surface.IsEmpty())
	s.Equal(StateIdle, s.surface.State())
	s.Empty(s.surface.Strokes())
}

func (s *SurfaceSuite) TestClearWhileDrawingIsRefused() {
	s.surface.Begin(Point{1, 1})

	err := s.surface.Clear()
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(StateDrawing, s.surface.State())
	s.False(s.surface.IsEmpty())
}

func (s *SurfaceSuite) TestListenerNotifiedOnEnd() {
	s.surface.Begin(Point{10, 10})
	s.surface.Extend(Point{30, 20})
	s.Empty(s.received)

	s.surface.End()
	s.Require().Len(s.received, 1)
	s.True(strings.HasPrefix(s.received[0], "data:image/png;base64,"))

	// ending again is a no-op
	s.surface.End()
	s.Len(s.received, 1)
}

func (s *SurfaceSuite) TestTouchSequence() {
	s.True(s.surface.Handle(PointerEvent{Kind: PointerDown, Source: SourceTouch, X: 10, Y: 10}))
	s.True(s.surface.Handle(PointerEvent{Kind: PointerMove, Source: SourceTouch, X: 20, Y: 20}))
	s.True(s.surface.Handle(PointerEvent{Kind: PointerUp, Source: SourceTouch, X: 20, Y: 20}))

	dataURL, err := s.surface.Export()
	s.Require().NoError(err)
	s.True(strings.HasPrefix(dataURL, "data:image/png;base64,"))
	s.Equal([]Stroke{{{10, 10}, {20, 20}}}, s.surface.Strokes())
}

func (s *SurfaceSuite) TestHandleSuppression() {
	// moves without an active stroke keep the default behavior
	s.False(s.surface.Handle(PointerEvent{Kind: PointerMove, Source: SourceTouch, X: 1, Y: 1}))
	// mouse never needs suppression
	s.False(s.surface.Handle(PointerEvent{Kind: PointerDown, Source: SourceMouse, X: 1, Y: 1}))
	s.False(s.surface.Handle(PointerEvent{Kind: PointerMove, Source: SourceMouse, X: 2, Y: 2}))
	s.False(s.surface.Handle(PointerEvent{Kind: PointerUp, Source: SourceMouse, X: 2, Y: 2}))

	s.True(s.surface.Handle(PointerEvent{Kind: PointerDown, Source: SourceTouch, X: 3, Y: 3}))
	s.True(s.surface.Handle(PointerEvent{Kind: PointerCancel, Source: SourceTouch}))
	s.Equal(StateIdle, s.surface.State())
	s.False(s.surface.Handle(PointerEvent{Kind: PointerCancel, Source: SourceTouch}))
}

func TestNewSurfaceRejectsInvalidSize(t *testing.T) {
	_, err := NewSurface(0, 10)
	assert.True(t, ierr.IsValidation(err))
}

func TestRender(t *testing.T) {
	dataURL, err := Render(60, 30, []Stroke{{{5, 5}, {25, 10}, {40, 20}}, {}}, WithStyle(Style{LineWidth: 3}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	_, err = Render(60, 30, nil)
	assert.ErrorIs(t, err, ErrEmptySignature)
}

func TestDecodeDataURL(t *testing.T) {
	dataURL, err := Render(10, 10, []Stroke{{{2, 2}, {8, 8}}})
	require.NoError(t, err)

	// the declared type is ignored in favor of the payload
	relabeled := strings.Replace(dataURL, "image/png", "image/jpeg", 1)
	_, mime, err := DecodeDataURL(relabeled)
	require.NoError(t, err)
	assert.Equal(t, MimePNG, mime)

	tests := []struct {
		name  string
		input string
	}{
		{"no scheme", "image/png;base64,AAAA"},
		{"not base64 encoded", "data:image/png,hello"},
		{"bad base64", "data:image/png;base64,***"},
		{"text payload", EncodeDataURL("image/png", []byte("definitely not an image"))},
		{"gif payload", EncodeDataURL("image/gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeDataURL(tt.input)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
