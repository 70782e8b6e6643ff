package renderer

import (
	"fmt"
	"image/color"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ByLCY/paginate/layout"
)

const pageKey = "%s - Page %d"

func init() {
	_ = message.SetString(language.Chinese, pageKey, "%s - 第 %d 页")
	_ = message.SetString(language.German, pageKey, "%s - Seite %d")
	_ = message.SetString(language.French, pageKey, "%s - Page %d")
}

// headerBand 是每页顶部的页眉：灰色底框，第一行为标题与日期页码，
// 第二行为副标题与版本、主机信息。页眉占用内容区上方 3 个字高。
type headerBand struct {
	title, subtitle string

	printer *message.Printer
	date    string
	version string
	host    string

	width      int
	fontHeight int
	lineWidth  int
	lineGutter int
	left, top  int
}

func newHeaderBand(opts Options) headerBand {
	return headerBand{
		printer:    message.NewPrinter(opts.Locale),
		date:       opts.Date.Format("2006-01-02 15:04"),
		version:    opts.Version,
		host:       opts.Host,
		width:      opts.Width,
		fontHeight: opts.FontHeight,
		lineWidth:  opts.LineWidth,
		lineGutter: opts.LineGutter,
		left:       opts.Left,
		top:        opts.Top,
	}
}

// pageLabel 返回本地化的 "日期 - 页码" 文本。
func (h *headerBand) pageLabel(page int) string {
	return h.printer.Sprintf(pageKey, h.date, page)
}

func (h *headerBand) draw(cells *cellLayout, page int) {
	s := cells.surface
	if s == nil {
		return
	}
	cells.origin = [layout.NumAxes]int{h.left, h.top}
	fh := h.fontHeight
	y := -3 * fh
	x0 := fh / 2
	x1 := h.width - fh/2

	bx0, by0 := cells.point(0, y)
	bx1, by1 := cells.point(h.width, y+2*(fh+h.lineWidth+h.lineGutter))
	s.Save()
	s.SetColor(color.Gray{Y: 0xe6})
	s.FillRect(bx0, by0, bx1-bx0, by1-by0)
	s.SetColor(color.Black)
	s.SetLineWidth(layout.ToPt(h.lineWidth))
	s.StrokeLine(bx0, by0, bx1, by0)
	s.StrokeLine(bx1, by0, bx1, by1)
	s.StrokeLine(bx1, by1, bx0, by1)
	s.StrokeLine(bx0, by1, bx0, by0)
	s.Restore()

	y += h.lineWidth + h.lineGutter
	h.line(cells, h.title, h.pageLabel(page), x0, x1, y)
	y += fh
	h.line(cells, h.subtitle, fmt.Sprintf("%s - %s", h.version, h.host), x0, x1, y)
}

// line 在 x0..x1 内左对齐绘制 left、右对齐绘制 right，二者之间留半个字高。
func (h *headerBand) line(cells *cellLayout, left, right string, x0, x1, y int) {
	rightWidth := 0
	if right != "" {
		rightWidth = h.text(cells, right, x0, y, x1-x0, layout.AlignRight) + h.fontHeight/2
	}
	if left != "" {
		h.text(cells, left, x0, y, x1-x0-rightWidth, layout.AlignLeft)
	}
}

// text 在单行高度内绘制文本，超出部分被裁掉，返回实际宽度。
func (h *headerBand) text(cells *cellLayout, s string, x, y, maxWidth int, align layout.Alignment) int {
	bb := layout.NewBox(x, y, x+max(maxWidth, 0), y+h.fontHeight)
	p := cells.show(layout.Cell{Text: s, Align: align}, bb, bb)
	return p.width
}
