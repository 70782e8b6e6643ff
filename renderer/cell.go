package renderer

import (
	"image/color"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ByLCY/paginate/layout"
)

const paragraphCacheSize = 4096

// cellLayout 把 Shaper 适配为 layout.Device：测量单元格、绘制文本与边框。
// origin 为当前表格左上角在页面上的位置（设备单位），随写入游标变化。
type cellLayout struct {
	shaper       Shaper
	surface      Surface
	origin       [layout.NumAxes]int
	lineWidth    float64 // pt
	doubleOffset int
	cache        *lru.Cache[paragraphKey, *paragraph]
}

var _ layout.Device = (*cellLayout)(nil)

type paragraphKey struct {
	font  layout.FontVariant
	text  string
	width int
}

// paragraph 是按给定宽度折行后的文本。
type paragraph struct {
	lines      []paragraphLine
	width      int // 最宽一行
	height     int
	lineHeight int
}

type paragraphLine struct {
	text  string
	width int
}

func newCellLayout(shaper Shaper, surface Surface, lineWidth float64, doubleOffset int) *cellLayout {
	cache, _ := lru.New[paragraphKey, *paragraph](paragraphCacheSize)
	return &cellLayout{
		shaper:       shaper,
		surface:      surface,
		lineWidth:    lineWidth,
		doubleOffset: doubleOffset,
		cache:        cache,
	}
}

// layoutText 在 width 宽度内折行；width 为 layout.Unbounded 时只按显式换行分行。
func (l *cellLayout) layoutText(font layout.FontVariant, text string, width int) *paragraph {
	key := paragraphKey{font: font, text: text, width: width}
	if p, ok := l.cache.Get(key); ok {
		return p
	}
	m := l.shaper.Metrics(font)
	p := &paragraph{lineHeight: layout.FromPt(m.LineHeight)}
	p.lines = wrapWords(text, width, func(s string) int {
		return layout.FromPt(l.shaper.TextWidth(font, s))
	})
	for _, ln := range p.lines {
		p.width = max(p.width, ln.width)
	}
	p.height = len(p.lines) * p.lineHeight
	l.cache.Add(key, p)
	return p
}

// MeasureCellWidth 返回在宽度 1 下折行的最宽行（最长单词）与不折行时的宽度。
func (l *cellLayout) MeasureCellWidth(cell layout.Cell) (int, int) {
	lo := l.layoutText(cell.Font, cell.Text, 1).width
	hi := l.layoutText(cell.Font, cell.Text, layout.Unbounded).width
	return lo, hi
}

func (l *cellLayout) MeasureCellHeight(cell layout.Cell, width int) int {
	return l.layoutText(cell.Font, cell.Text, width).height
}

func (l *cellLayout) DrawCell(cell layout.Cell, bb, clip layout.Box) {
	l.show(cell, bb, clip)
}

// show 绘制单元格并返回排版结果；clip 为空时不裁剪。
func (l *cellLayout) show(cell layout.Cell, bb, clip layout.Box) *paragraph {
	p := l.layoutText(cell.Font, cell.Text, bb.Size(layout.H))
	if l.surface == nil {
		return p
	}
	s := l.surface
	s.Save()
	defer s.Restore()
	if !clip.NoClip() {
		x0, y0 := l.point(clip[layout.H][0], clip[layout.V][0])
		x1, y1 := l.point(clip[layout.H][1], clip[layout.V][1])
		s.ClipRect(x0, y0, x1-x0, y1-y0)
	}
	s.SetColor(color.Black)
	for i, ln := range p.lines {
		x := bb[layout.H][0]
		switch cell.Align {
		case layout.AlignRight:
			x = bb[layout.H][1] - ln.width
		case layout.AlignCenter:
			x = (bb[layout.H][0] + bb[layout.H][1] - ln.width) / 2
		}
		px, py := l.point(x, bb[layout.V][0]+i*p.lineHeight)
		s.ShowText(cell.Font, px, py, ln.text)
	}
	return p
}

func (l *cellLayout) DrawLine(bb layout.Box, arms layout.Arms) {
	if l.surface == nil {
		return
	}
	s := l.surface
	s.SetColor(color.Black)
	s.SetLineWidth(l.lineWidth)
	for _, seg := range layout.ResolveRules(bb, arms, l.doubleOffset) {
		x0, y0 := l.point(seg.X0, seg.Y0)
		x1, y1 := l.point(seg.X1, seg.Y1)
		s.StrokeLine(x0, y0, x1, y1)
	}
}

// point 把相对表格的设备单位坐标转换为页面上的 pt 坐标。
func (l *cellLayout) point(x, y int) (float64, float64) {
	return layout.ToPt(x + l.origin[layout.H]), layout.ToPt(y + l.origin[layout.V])
}

// charSize 返回比例字体下一个数字字符的宽度与行高。
func (l *cellLayout) charSize() [layout.NumAxes]int {
	m := l.shaper.Metrics(layout.FontProportional)
	return [layout.NumAxes]int{
		layout.FromPt(l.shaper.TextWidth(layout.FontProportional, "0")),
		layout.FromPt(m.LineHeight),
	}
}

// wrapWords 贪心折行：在空白处断行，单词本身超过 limit 时整体保留在一行。
// 行首与行尾的空白不计入宽度。
func wrapWords(content string, limit int, width func(string) int) []paragraphLine {
	var (
		lines   []paragraphLine
		builder strings.Builder
		current int
		pending string
	)
	emit := func() {
		lines = append(lines, paragraphLine{text: builder.String(), width: current})
		builder.Reset()
		current = 0
		pending = ""
	}
	for _, token := range tokenizeContent(content) {
		switch {
		case token == "\n":
			emit()
		case isSpaceToken(token):
			if builder.Len() > 0 {
				pending += token
			}
		default:
			tokenWidth := width(token)
			if builder.Len() > 0 && limit != layout.Unbounded &&
				current+width(pending)+tokenWidth > limit {
				emit()
			}
			if pending != "" {
				builder.WriteString(pending)
				current += width(pending)
				pending = ""
			}
			builder.WriteString(token)
			current += tokenWidth
		}
	}
	emit()
	return lines
}

// tokenizeContent 把文本切分为交替的空白与非空白片段，显式换行单独成为 "\n"。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func isSpaceToken(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return s != ""
}
