// Package record 提供记录型输出后端：不产生文件，只按页记录全部绘制指令，
// 用于输出排版计划（JSON）以及测试。
package record

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
)

// Op 是一条绘制指令，坐标为页面坐标（pt）。
type Op struct {
	Kind   string        `json:"op"`
	X0     float64       `json:"x0,omitempty"`
	Y0     float64       `json:"y0,omitempty"`
	X1     float64       `json:"x1,omitempty"`
	Y1     float64       `json:"y1,omitempty"`
	Width  float64       `json:"width,omitempty"`
	Color  string        `json:"color,omitempty"`
	Font   string        `json:"font,omitempty"`
	Text   string        `json:"text,omitempty"`
	Points []chart.Point `json:"points,omitempty"`
}

// 指令类型。
const (
	OpLine    = "line"
	OpRect    = "rect"
	OpPolygon = "polygon"
	OpText    = "text"
)

// Page 为一页上的全部指令。
type Page struct {
	Number int  `json:"number"`
	Ops    []Op `json:"ops"`
}

// Surface 实现 renderer.Backend，文本度量委托给内部 Shaper。
type Surface struct {
	renderer.StateStack
	shaper   renderer.Shaper
	pages    []Page
	current  []Op
	finished bool
	// FailOn 非零时，第 FailOn 次 ShowPage 返回错误，用于模拟输出失败。
	FailOn int
}

var _ renderer.Backend = (*Surface)(nil)

// New 创建记录后端。
func New(shaper renderer.Shaper) *Surface {
	return &Surface{StateStack: renderer.NewStateStack(), shaper: shaper}
}

func (s *Surface) TextWidth(font layout.FontVariant, text string) float64 {
	return s.shaper.TextWidth(font, text)
}

func (s *Surface) Metrics(font layout.FontVariant) renderer.Metrics {
	return s.shaper.Metrics(font)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64) {
	st := s.Current()
	ax, ay := s.Apply(x0, y0)
	bx, by := s.Apply(x1, y1)
	s.current = append(s.current, Op{Kind: OpLine, X0: ax, Y0: ay, X1: bx, Y1: by,
		Width: s.ApplyLength(st.LineWidth), Color: hex(st.Color)})
}

func (s *Surface) FillRect(x, y, w, h float64) {
	ax, ay := s.Apply(x, y)
	bx, by := s.Apply(x+w, y+h)
	s.current = append(s.current, Op{Kind: OpRect, X0: ax, Y0: ay, X1: bx, Y1: by, Color: hex(s.Current().Color)})
}

func (s *Surface) FillPolygon(pts []chart.Point) {
	out := make([]chart.Point, len(pts))
	for i, p := range pts {
		out[i].X, out[i].Y = s.Apply(p.X, p.Y)
	}
	s.current = append(s.current, Op{Kind: OpPolygon, Points: out, Color: hex(s.Current().Color)})
}

func (s *Surface) ShowText(font layout.FontVariant, x, y float64, text string) {
	ax, ay := s.Apply(x, y)
	w := s.ApplyLength(s.shaper.TextWidth(font, text))
	h := s.ApplyLength(s.shaper.Metrics(font).LineHeight)
	if !s.Visible(renderer.Rect{X0: ax, Y0: ay, X1: ax + w, Y1: ay + h}) {
		return
	}
	s.current = append(s.current, Op{Kind: OpText, X0: ax, Y0: ay, X1: ax + w, Y1: ay + h,
		Font: font.String(), Text: text})
}

func (s *Surface) ShowPage() error {
	if s.finished {
		return fmt.Errorf("record: 输出已关闭")
	}
	if s.FailOn > 0 && len(s.pages)+1 == s.FailOn {
		return fmt.Errorf("record: 模拟第 %d 页写入失败", s.FailOn)
	}
	s.pages = append(s.pages, Page{Number: len(s.pages) + 1, Ops: s.current})
	s.current = nil
	return nil
}

func (s *Surface) Finish() error {
	if s.finished {
		return fmt.Errorf("record: 重复关闭")
	}
	s.finished = true
	return nil
}

// Pages 返回已结束的页面。
func (s *Surface) Pages() []Page { return s.pages }

// Pending 返回当前页尚未结束的指令。
func (s *Surface) Pending() []Op { return s.current }

// Texts 返回第 i 页（从 0 开始）上的全部文本。
func (s *Surface) Texts(i int) []string {
	if i < 0 || i >= len(s.pages) {
		return nil
	}
	var out []string
	for _, op := range s.pages[i].Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

func hex(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
