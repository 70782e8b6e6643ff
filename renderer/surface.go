package renderer

import (
	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/layout"
)

// Metrics 为某个字体的纵向度量，单位 pt。
type Metrics struct {
	Ascent     float64
	LineHeight float64
}

// Shaper 是外部文本排版服务：给出字符串宽度与字体度量（pt）。
type Shaper interface {
	TextWidth(font layout.FontVariant, s string) float64
	Metrics(font layout.FontVariant) Metrics
}

// Surface 是绘制目标。坐标单位为 pt，原点在页面左上角，y 轴向下。
// 绘制状态（变换、裁剪、颜色、线宽）随 Save/Restore 入栈出栈。
type Surface interface {
	chart.Canvas

	Save()
	Restore()
	Translate(dx, dy float64)
	Scale(sx, sy float64)
	ClipRect(x, y, w, h float64)

	// ShowPage 结束当前页并开始新的一页。
	ShowPage() error
	// Finish 刷新并关闭输出，之后不得再绘制。
	Finish() error
}

// Backend 同时提供绘制与文本度量能力，各输出格式各自实现。
type Backend interface {
	Surface
	Shaper
}
