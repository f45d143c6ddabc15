package pdf

import (
	"strings"
	"testing"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawnText struct {
	page int
	x, y float64
	text string
}

// recordingCanvas keeps pages like fpdf does: AddPage appends after the
// current page and makes it current.
type recordingCanvas struct {
	page  int
	pages int
	drawn []drawnText
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{page: 1, pages: 1}
}

func (c *recordingCanvas) AddPage() {
	c.pages++
	c.page = c.pages
}

func (c *recordingCanvas) SetPage(n int) {
	if n >= 1 && n <= c.pages {
		c.page = n
	}
}

func (c *recordingCanvas) PageNo() int    { return c.page }
func (c *recordingCanvas) PageCount() int { return c.pages }

func (c *recordingCanvas) Text(x, y float64, s string) {
	c.drawn = append(c.drawn, drawnText{page: c.page, x: x, y: y, text: s})
}

// SplitText breaks on spaces, one word per line
func (c *recordingCanvas) SplitText(s string, _ float64) []string {
	return strings.Fields(s)
}

func testLayout() *Layout {
	return &Layout{
		Kind:         types.DocumentTypeRentalAgreement,
		PageWidth:    A4Width,
		PageHeight:   A4Height,
		LineHeight:   20,
		TopMargin:    60,
		BottomMargin: 60,
		Fields: map[string]Field{
			"name":  {X: 100, Y: 100},
			"date":  {X: 300, Y: 100},
			"notes": {X: 60, Y: 740, MaxWidth: 200},
		},
	}
}

func TestComposeSkipsMissingFields(t *testing.T) {
	c := newRecordingCanvas()
	compose(c, testLayout(), map[string]string{"name": "Ahmet Yılmaz", "unknown": "x"})

	require.Len(t, c.drawn, 1)
	assert.Equal(t, drawnText{page: 1, x: 100, y: 100, text: "Ahmet Yılmaz"}, c.drawn[0])
	assert.Equal(t, 1, c.PageCount())
}

func TestComposeSkipsBlankValues(t *testing.T) {
	c := newRecordingCanvas()
	compose(c, testLayout(), map[string]string{"name": "  ", "date": ""})
	assert.Empty(t, c.drawn)
}

func TestComposeDrawsUTF8Verbatim(t *testing.T) {
	c := newRecordingCanvas()
	compose(c, testLayout(), map[string]string{"name": "İsmail Şığ"})
	require.Len(t, c.drawn, 1)
	assert.Equal(t, "İsmail Şığ", c.drawn[0].text)
}

func TestComposeRetargetsOverflowToNewPage(t *testing.T) {
	c := newRecordingCanvas()
	layout := testLayout()
	// limit is 781.89: baselines 740, 760, 780 fit, the fourth line does not
	compose(c, layout, map[string]string{"notes": "one two three four five"})

	require.Len(t, c.drawn, 5)
	assert.Equal(t, 2, c.PageCount())

	for i, y := range []float64{740, 760, 780} {
		assert.Equal(t, 1, c.drawn[i].page)
		assert.Equal(t, y, c.drawn[i].y)
	}

	assert.Equal(t, drawnText{page: 2, x: 60, y: layout.TopMargin, text: "four"}, c.drawn[3])
	assert.Equal(t, drawnText{page: 2, x: 60, y: layout.TopMargin + layout.LineHeight, text: "five"}, c.drawn[4])
}

func TestComposeSharesOverflowPage(t *testing.T) {
	c := newRecordingCanvas()
	layout := testLayout()
	layout.Fields["reason"] = Field{X: 300, Y: 770, MaxWidth: 200}

	compose(c, layout, map[string]string{
		"notes":  "a b c d",
		"reason": "x y",
	})

	// notes overflows first, reason continues below it on the same page
	assert.Equal(t, 2, c.PageCount())
	last := c.drawn[len(c.drawn)-1]
	assert.Equal(t, drawnText{page: 2, x: 300, y: layout.TopMargin + layout.LineHeight, text: "y"}, last)
}

func TestLayoutFor(t *testing.T) {
	for _, kind := range []types.DocumentType{
		types.DocumentTypeRentalAgreement,
		types.DocumentTypeShowingForm,
		types.DocumentTypeEvictionNotice,
	} {
		l, err := LayoutFor(kind)
		require.NoError(t, err, kind)
		assert.NoError(t, l.Validate())
		assert.NotEmpty(t, l.Fields)
	}

	_, err := LayoutFor(types.DocumentTypeOther)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	// copies are independent
	a, _ := LayoutFor(types.DocumentTypeShowingForm)
	delete(a.Overlays, OverlayCustomerSignature)
	b, _ := LayoutFor(types.DocumentTypeShowingForm)
	assert.Contains(t, b.Overlays, OverlayCustomerSignature)
}
