package pdf

import (
	"sort"
	"strings"
)

// canvas is the part of the PDF writer that text composition needs.
// *fpdf.Fpdf satisfies it.
type canvas interface {
	AddPage()
	SetPage(pageNum int)
	PageNo() int
	PageCount() int
	Text(x, y float64, txt string)
	SplitText(txt string, w float64) []string
}

// composer writes field values onto page one. Lines that would cross the
// bottom margin continue on appended pages starting at the top margin.
type composer struct {
	c      canvas
	layout *Layout

	// overflow cursor, zero page means no overflow page yet
	overflowPage int
	overflowY    float64
}

func compose(c canvas, layout *Layout, values map[string]string) {
	cp := &composer{c: c, layout: layout}

	for _, name := range orderedFields(layout.Fields) {
		value, ok := values[name]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		cp.drawField(layout.Fields[name], value)
	}
}

// orderedFields sorts top to bottom, then left to right, so overflow pages
// read in the same order as page one.
func orderedFields(fields map[string]Field) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := fields[names[i]], fields[names[j]]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return names[i] < names[j]
	})
	return names
}

func (cp *composer) drawField(f Field, value string) {
	lines := []string{value}
	if f.MaxWidth > 0 {
		lines = cp.c.SplitText(value, f.MaxWidth)
	}

	page, y := 1, f.Y
	cp.c.SetPage(page)

	for i, line := range lines {
		if i > 0 {
			y += cp.layout.LineHeight
		}
		if y > cp.layout.limit() {
			page, y = cp.retarget(page)
		}
		cp.c.Text(f.X, y, line)
		if page != 1 {
			cp.overflowPage, cp.overflowY = page, y+cp.layout.LineHeight
		}
	}
}

// retarget moves drawing to the overflow cursor, appending a page when the
// cursor is unset or full.
func (cp *composer) retarget(current int) (int, float64) {
	if current == 1 && cp.overflowPage != 0 && cp.overflowY <= cp.layout.limit() {
		cp.c.SetPage(cp.overflowPage)
		return cp.overflowPage, cp.overflowY
	}

	// fpdf appends after the current page, so move to the last one first
	cp.c.SetPage(cp.c.PageCount())
	cp.c.AddPage()
	page := cp.c.PageNo()
	cp.overflowPage, cp.overflowY = page, cp.layout.TopMargin
	return page, cp.layout.TopMargin
}
