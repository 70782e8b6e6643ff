// Package mono 提供基于字符宽度的等宽文本度量，结果与字体文件无关，便于测试与排版预览。
package mono

import (
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
)

// Shaper 假设每个半角字符宽度为 Size/2，全角字符加倍，行高等于 Size（pt）。
type Shaper struct {
	Size float64
	cond *runewidth.Condition
}

var _ renderer.Shaper = (*Shaper)(nil)

// New 返回字号为 size（pt）的等宽度量器。
func New(size float64) *Shaper {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &Shaper{Size: size, cond: cond}
}

// Columns 返回字符串占用的列数。
func (s *Shaper) Columns(text string) int { return s.cond.StringWidth(text) }

func (s *Shaper) TextWidth(_ layout.FontVariant, text string) float64 {
	return float64(s.Columns(text)) * s.Size / 2
}

func (s *Shaper) Metrics(layout.FontVariant) renderer.Metrics {
	return renderer.Metrics{Ascent: s.Size * 0.8, LineHeight: s.Size}
}
