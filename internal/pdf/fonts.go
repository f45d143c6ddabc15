package pdf

import (
	_ "embed"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/samber/lo"
)

// bodyFont is the family fields are drawn in. It is a UTF-8 TrueType font so
// Turkish letters (ı, ş, ğ, İ) are embedded as their own glyphs.
const bodyFont = "DejaVuSansCondensed"

//go:embed fonts/DejaVuSansCondensed.ttf
var dejaVuSansCondensed []byte

// useBodyFont registers the embedded font on doc and selects it
func useBodyFont(doc *fpdf.Fpdf, size float64) {
	doc.AddUTF8FontFromBytes(bodyFont, "", dejaVuSansCondensed)
	doc.SetFont(bodyFont, "", size)
}

// bodyValues replaces runes outside the basic multilingual plane, which the
// font width table does not cover, with U+FFFD.
func bodyValues(values map[string]string) map[string]string {
	return lo.MapValues(values, func(v string, _ string) string {
		return strings.Map(func(r rune) rune {
			if r > 0xFFFF {
				return utf8.RuneError
			}
			return r
		}, v)
	})
}
