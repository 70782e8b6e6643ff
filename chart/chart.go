// Package chart 定义图表条目与绘制约定：按图表类型注册绘制函数，
// 在给定区域内以数据坐标（y 轴向上）作图。
package chart

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/ByLCY/paginate/layout"
)

// Point 为画布坐标（pt，y 轴向下）。
type Point struct {
	X, Y float64
}

// Canvas 是图表绘制所需的最小画布能力，renderer.Surface 满足该接口。
type Canvas interface {
	SetColor(c color.Color)
	SetLineWidth(w float64)
	StrokeLine(x0, y0, x1, y1 float64)
	FillRect(x, y, w, h float64)
	FillPolygon(pts []Point)
	// ShowText 以 (x, y) 为行框左上角绘制一行文本。
	ShowText(font layout.FontVariant, x, y float64, s string)
	TextWidth(font layout.FontVariant, s string) float64
}

// Chart 是一条待绘制的图表。
type Chart struct {
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// DrawFunc 在 g 描述的区域内绘制图表。
type DrawFunc func(c Canvas, ch *Chart, g *Geometry) error

var (
	mu       sync.RWMutex
	registry = map[string]DrawFunc{
		"piechart": drawPie,
		"barchart": drawBar,
		"scree":    drawScree,
	}
)

// Register 注册（或替换）某种图表的绘制函数。
func Register(kind string, fn DrawFunc) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(kind)] = fn
}

// Kinds 返回已注册的图表类型，按名称排序。
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Draw 在画布上 (x, y, w, h) 区域内绘制图表。
func Draw(c Canvas, ch *Chart, x, y, w, h float64) error {
	if ch == nil {
		return fmt.Errorf("chart: 图表为空")
	}
	mu.RLock()
	fn, ok := registry[strings.ToLower(ch.Kind)]
	mu.RUnlock()
	if !ok {
		return fmt.Errorf("chart: 未知的图表类型 %q", ch.Kind)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("chart: 绘图区域无效 %.1fx%.1f", w, h)
	}
	return fn(c, ch, NewGeometry(x, y, w, h))
}

// PNGFileName 把模板中的第一个 '#' 替换为编号；没有 '#' 时原样返回。
func PNGFileName(template string, number int) string {
	i := strings.IndexByte(template, '#')
	if i < 0 {
		return template
	}
	return fmt.Sprintf("%s%d%s", template[:i], number, template[i+1:])
}
