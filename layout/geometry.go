package layout

// Geometry 记录物理页面上的写入状态：内容区尺寸、当前纵向游标与页码。
// 只有编排器在提交内容时修改它；翻页时游标归零。
type Geometry struct {
	Width  int `json:"width"`  // 扣除边距后的内容宽度
	Length int `json:"length"` // 扣除边距与页眉后的内容高度
	Y      int `json:"y"`      // 当前纵向写入位置
	Page   int `json:"page"`   // 当前页码，从 1 开始
}

// NewGeometry 创建位于第 1 页顶部的页面状态。
func NewGeometry(width, length int) *Geometry {
	return &Geometry{Width: width, Length: length, Page: 1}
}

// Remaining 返回当前页剩余的纵向空间。
func (g Geometry) Remaining() int { return g.Length - g.Y }

// Room 报告当前页是否还能放下 n 个单位。
func (g Geometry) Room(n int) bool { return n <= g.Remaining() }

// Fresh 报告当前页是否尚未写入任何内容。
func (g Geometry) Fresh() bool { return g.Y == 0 }

// Advance 把游标下移 n 个单位。
func (g *Geometry) Advance(n int) { g.Y += n }

// Turn 翻到下一页。
func (g *Geometry) Turn() {
	g.Page++
	g.Y = 0
}
