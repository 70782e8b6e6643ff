package layout

// Params 配置 RenderPage 所需的依赖：绘制后端、页面尺寸与线宽。
type Params struct {
	Device Device
	// Size 为每个方向上可用的页面尺寸（设备单位）。
	Size [NumAxes]int
	// FontSize 为每个方向上的字符尺寸，用于估算默认间距。
	FontSize [NumAxes]int
	// LineWidths 为每个方向、每种边框样式所占用的宽度（含线两侧留白）。
	LineWidths [NumAxes][NumBorderStyles]int
}

// RuleWidths 按 gutter/space/width 计算三种边框样式的占用宽度：
// 单线 = 2·gutter + width，双线 = 2·gutter + space + 2·width。
func RuleWidths(gutter, space, width int) [NumBorderStyles]int {
	var w [NumBorderStyles]int
	w[BorderNone] = 0
	w[BorderSingle] = 2*gutter + width
	w[BorderDouble] = 2*gutter + space + 2*width
	return w
}

// Device 是表格排版算法依赖的绘制能力接口。
// 所有坐标为设备单位，Y 相对于当前页面写入位置。
type Device interface {
	// MeasureCellWidth 返回单元格的最小宽度（最长不可断词）与自然宽度。
	MeasureCellWidth(cell Cell) (min, max int)
	// MeasureCellHeight 返回单元格在给定宽度下的高度。
	MeasureCellHeight(cell Cell, width int) int
	// DrawCell 在 bb 内绘制单元格文本，并裁剪到 clip。
	DrawCell(cell Cell, bb, clip Box)
	// DrawLine 绘制区域 bb 中相交的边框臂。
	DrawLine(bb Box, arms Arms)
}
