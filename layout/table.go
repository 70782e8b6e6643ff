package layout

import "fmt"

// Table 是尚未测量的表格：nc×nr 的单元格网格以及两组边框网格。
// 水平边框 hr 共 (nr+1)×nc 条，hr[r][c] 位于第 r 行上方；
// 竖直边框 vr 共 nr×(nc+1) 条，vr[r][c] 位于第 c 列左侧。
type Table struct {
	n     [NumAxes]int
	cells []tableCell
	slots []int // 每个网格位置对应的 cells 下标，-1 表示空
	hr    [][]BorderStyle
	vr    [][]BorderStyle
}

// tableCell 记录一个（可能跨行列的）单元格及其在网格中的范围。
type tableCell struct {
	cell Cell
	r    [NumAxes][2]int
}

// NewTable 创建 nc 列、nr 行的空表格，所有边框为 none。
func NewTable(nc, nr int) *Table {
	if nc < 0 {
		nc = 0
	}
	if nr < 0 {
		nr = 0
	}
	t := &Table{n: [NumAxes]int{nc, nr}}
	t.slots = make([]int, nc*nr)
	for i := range t.slots {
		t.slots[i] = -1
	}
	t.hr = make([][]BorderStyle, nr+1)
	for r := range t.hr {
		t.hr[r] = make([]BorderStyle, nc)
	}
	t.vr = make([][]BorderStyle, nr)
	for r := range t.vr {
		t.vr[r] = make([]BorderStyle, nc+1)
	}
	return t
}

// TableFromString 把一段文本包装成 1×1、无边框的表格。
func TableFromString(text string) *Table {
	t := NewTable(1, 1)
	_ = t.SetCell(0, 0, Cell{Text: text, Align: AlignLeft})
	return t
}

// N 返回某轴上的单元格数量（H 为列数，V 为行数）。
func (t *Table) N(a Axis) int { return t.n[a] }

// SetCell 把 cell 放在 (c, r)，按 cell.Span 占据多个网格位置，
// 并将 cell.Borders 合并进边框网格。
func (t *Table) SetCell(c, r int, cell Cell) error {
	c1 := c + cell.span(H)
	r1 := r + cell.span(V)
	if c < 0 || r < 0 || c1 > t.n[H] || r1 > t.n[V] {
		return fmt.Errorf("单元格 (%d,%d) 跨越 %dx%d 超出表格范围 %dx%d", c, r, cell.span(H), cell.span(V), t.n[H], t.n[V])
	}
	for y := r; y < r1; y++ {
		for x := c; x < c1; x++ {
			if t.slots[y*t.n[H]+x] != -1 {
				return fmt.Errorf("单元格 (%d,%d) 与已有单元格重叠", x, y)
			}
		}
	}
	idx := len(t.cells)
	t.cells = append(t.cells, tableCell{cell: cell, r: [NumAxes][2]int{{c, c1}, {r, r1}}})
	for y := r; y < r1; y++ {
		for x := c; x < c1; x++ {
			t.slots[y*t.n[H]+x] = idx
		}
	}
	b := cell.Borders
	for x := c; x < c1; x++ {
		t.hr[r][x] = MaxBorder(t.hr[r][x], b.Top)
		t.hr[r1][x] = MaxBorder(t.hr[r1][x], b.Bottom)
	}
	for y := r; y < r1; y++ {
		t.vr[y][c] = MaxBorder(t.vr[y][c], b.Left)
		t.vr[y][c1] = MaxBorder(t.vr[y][c1], b.Right)
	}
	return nil
}

// HLine 在第 r 行上方、列 c0..c1（含）处设置水平边框。
func (t *Table) HLine(style BorderStyle, c0, c1, r int) {
	if r < 0 || r > t.n[V] {
		return
	}
	for c := max(c0, 0); c <= c1 && c < t.n[H]; c++ {
		t.hr[r][c] = style
	}
}

// VLine 在第 c 列左侧、行 r0..r1（含）处设置竖直边框。
func (t *Table) VLine(style BorderStyle, c, r0, r1 int) {
	if c < 0 || c > t.n[H] {
		return
	}
	for r := max(r0, 0); r <= r1 && r < t.n[V]; r++ {
		t.vr[r][c] = style
	}
}

// Box 给区域 (c0,r0)-(c1,r1)（含）加上外框 outline 与内部分隔线 inner。
// 传入 BorderNone 表示保持原样。
func (t *Table) Box(outline, inner BorderStyle, c0, r0, c1, r1 int) {
	if outline != BorderNone {
		t.HLine(outline, c0, c1, r0)
		t.HLine(outline, c0, c1, r1+1)
		t.VLine(outline, c0, r0, r1)
		t.VLine(outline, c1+1, r0, r1)
	}
	if inner != BorderNone {
		for r := r0 + 1; r <= r1; r++ {
			t.HLine(inner, c0, c1, r)
		}
		for c := c0 + 1; c <= c1; c++ {
			t.VLine(inner, c, r0, r1)
		}
	}
}

// slot 返回 (c, r) 处单元格的下标，越界或为空时返回 -1。
func (t *Table) slot(c, r int) int {
	if c < 0 || r < 0 || c >= t.n[H] || r >= t.n[V] {
		return -1
	}
	return t.slots[r*t.n[H]+c]
}

// joined 报告 (c0,r0) 与 (c1,r1) 是否属于同一个跨行列单元格。
func (t *Table) joined(c0, r0, c1, r1 int) bool {
	a := t.slot(c0, r0)
	return a != -1 && a == t.slot(c1, r1)
}

// HRule 返回第 r 行上方、第 c 列处的水平边框；合并单元格内部恒为 none。
func (t *Table) HRule(c, r int) BorderStyle {
	if c < 0 || c >= t.n[H] || r < 0 || r > t.n[V] {
		return BorderNone
	}
	if t.joined(c, r-1, c, r) {
		return BorderNone
	}
	return t.hr[r][c]
}

// VRule 返回第 c 列左侧、第 r 行处的竖直边框；合并单元格内部恒为 none。
func (t *Table) VRule(c, r int) BorderStyle {
	if r < 0 || r >= t.n[V] || c < 0 || c > t.n[H] {
		return BorderNone
	}
	if t.joined(c-1, r, c, r) {
		return BorderNone
	}
	return t.vr[r][c]
}

// Cell 返回覆盖 (c, r) 的单元格及其范围；空位置返回 ok=false。
func (t *Table) Cell(c, r int) (Cell, [NumAxes][2]int, bool) {
	idx := t.slot(c, r)
	if idx == -1 {
		return Cell{}, [NumAxes][2]int{{c, c + 1}, {r, r + 1}}, false
	}
	tc := t.cells[idx]
	return tc.cell, tc.r, true
}

// rule 返回 a 轴上第 i 条分隔线在正交位置 j 处的样式：
// a == H 时为第 i 列左侧的竖线（第 j 行），a == V 时为第 i 行上方的横线（第 j 列）。
func (t *Table) rule(a Axis, i, j int) BorderStyle {
	if a == H {
		return t.VRule(i, j)
	}
	return t.HRule(j, i)
}
