package renderer

// Renderer 为可以独立测量并绘制的单个条目，例如嵌入到其他文档中的表格或图表。
// Measure 返回以像素（pt）为单位的自然尺寸。
type Renderer interface {
	Measure() (w, h int)
	Draw() error
}

var _ Renderer = (*Rendering)(nil)
