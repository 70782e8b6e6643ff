package chart

// Geometry 描述图表区域的划分：数据区、图例区与标题位置。
// 数据坐标以区域左下角为原点、y 轴向上，To 负责翻转到画布坐标。
type Geometry struct {
	X, Y          float64 // 区域左上角（画布坐标）
	Width, Height float64

	DataLeft, DataRight float64 // 数据区横向范围（相对区域左侧）
	DataBottom, DataTop float64 // 数据区纵向范围（相对区域底部，向上）
	LegendLeft          float64
	TitleBottom         float64
}

// NewGeometry 按固定比例划分 (x, y, w, h) 区域。
func NewGeometry(x, y, w, h float64) *Geometry {
	return &Geometry{
		X: x, Y: y, Width: w, Height: h,
		DataLeft:    0.1 * w,
		DataRight:   0.75 * w,
		DataBottom:  0.1 * h,
		DataTop:     0.8 * h,
		LegendLeft:  0.8 * w,
		TitleBottom: 0.83 * h,
	}
}

// To 把数据坐标转换为画布坐标。
func (g *Geometry) To(x, y float64) (float64, float64) {
	return g.X + x, g.Y + g.Height - y
}

// DataWidth 返回数据区宽度。
func (g *Geometry) DataWidth() float64 { return g.DataRight - g.DataLeft }

// DataHeight 返回数据区高度。
func (g *Geometry) DataHeight() float64 { return g.DataTop - g.DataBottom }
