package layout

import "fmt"

// RenderPage 是测量完成、不可变的表格布局。切片（Select）与原页面共享同一份
// 布局数据，只记录各轴上的窗口，因此任意多个 Break 可以同时遍历同一页面。
type RenderPage struct {
	d *pageData
	// w 为各轴上的单元格窗口 [z0, z1)。
	w [NumAxes][2]int
}

// pageData 在构建后不再修改。
type pageData struct {
	params Params
	table  *Table
	// cp[a] 依次记录分隔线与单元格的累计位置：
	// cp[2i]..cp[2i+1] 为第 i 条分隔线，cp[2i+1]..cp[2i+2] 为第 i 个单元格，
	// cp[2n]..cp[2n+1] 为最后一条分隔线。
	cp [NumAxes][]int
}

// NewRenderPage 测量表格中的全部单元格，计算列宽与行高。
func NewRenderPage(params Params, t *Table) (*RenderPage, error) {
	if params.Device == nil {
		return nil, fmt.Errorf("layout: 缺少绘制后端 Device")
	}
	if t == nil {
		return nil, fmt.Errorf("layout: 表格为空")
	}
	d := &pageData{params: params, table: t}

	ruleW := [NumAxes][]int{d.ruleWidths(H), d.ruleWidths(V)}
	widths := d.columnWidths(ruleW[H])
	d.cp[H] = accumulate(ruleW[H], widths)
	heights := d.rowHeights(ruleW[H], ruleW[V], widths)
	d.cp[V] = accumulate(ruleW[V], heights)

	return &RenderPage{d: d, w: [NumAxes][2]int{{0, t.n[H]}, {0, t.n[V]}}}, nil
}

// ruleWidths 返回 a 轴上 n+1 条分隔线各自的最大占用宽度。
func (d *pageData) ruleWidths(a Axis) []int {
	t := d.table
	out := make([]int, t.n[a]+1)
	for i := range out {
		for j := 0; j < t.n[a.Other()]; j++ {
			if w := d.params.LineWidths[a][t.rule(a, i, j)]; w > out[i] {
				out[i] = w
			}
		}
	}
	return out
}

// columnWidths 依据最小/自然宽度把列宽分配进 Size[H]。
func (d *pageData) columnWidths(rules []int) []int {
	t := d.table
	nc := t.n[H]
	minW := make([]int, nc)
	maxW := make([]int, nc)
	type measured struct {
		r      [2]int
		lo, hi int
	}
	var spanned []measured
	for _, tc := range t.cells {
		lo, hi := d.params.Device.MeasureCellWidth(tc.cell)
		if tc.r[H][1]-tc.r[H][0] > 1 {
			spanned = append(spanned, measured{r: tc.r[H], lo: lo, hi: hi})
			continue
		}
		c := tc.r[H][0]
		minW[c] = max(minW[c], lo)
		maxW[c] = max(maxW[c], hi)
	}
	for _, m := range spanned {
		inner := innerRules(rules, m.r)
		distribute(minW, m.r, m.lo-inner)
		distribute(maxW, m.r, m.hi-inner)
	}

	avail := d.params.Size[H]
	for _, w := range rules {
		avail -= w
	}
	sumMin, sumMax := 0, 0
	for c := 0; c < nc; c++ {
		if maxW[c] < minW[c] {
			maxW[c] = minW[c]
		}
		sumMin += minW[c]
		sumMax += maxW[c]
	}
	switch {
	case sumMax <= avail:
		return maxW
	case sumMin >= avail:
		return minW
	}
	out := make([]int, nc)
	for c := 0; c < nc; c++ {
		extra := int64(maxW[c]-minW[c]) * int64(avail-sumMin) / int64(sumMax-sumMin)
		out[c] = minW[c] + int(extra)
	}
	return out
}

// rowHeights 在已确定的列宽下测量每一行的高度。
func (d *pageData) rowHeights(rules, vrules, widths []int) []int {
	t := d.table
	heights := make([]int, t.n[V])
	type measured struct {
		r [2]int
		h int
	}
	var spanned []measured
	for _, tc := range t.cells {
		w := innerRules(rules, tc.r[H])
		for c := tc.r[H][0]; c < tc.r[H][1]; c++ {
			w += widths[c]
		}
		h := d.params.Device.MeasureCellHeight(tc.cell, w)
		if tc.r[V][1]-tc.r[V][0] > 1 {
			spanned = append(spanned, measured{r: tc.r[V], h: h})
			continue
		}
		r := tc.r[V][0]
		heights[r] = max(heights[r], h)
	}
	for _, m := range spanned {
		distribute(heights, m.r, m.h-innerRules(vrules, m.r))
	}
	return heights
}

// innerRules 返回跨越范围 r 内部分隔线的总宽度。
func innerRules(rules []int, r [2]int) int {
	sum := 0
	for i := r[0] + 1; i < r[1]; i++ {
		sum += rules[i]
	}
	return sum
}

// distribute 在 sizes[r[0]:r[1]] 的总和不足 need 时平均补齐，余数给最后一项。
func distribute(sizes []int, r [2]int, need int) {
	have := 0
	for i := r[0]; i < r[1]; i++ {
		have += sizes[i]
	}
	if have >= need {
		return
	}
	n := r[1] - r[0]
	deficit := need - have
	for i := r[0]; i < r[1]; i++ {
		sizes[i] += deficit / n
	}
	sizes[r[1]-1] += deficit % n
}

// accumulate 把分隔线宽度与单元格尺寸交错累加成位置数组。
func accumulate(rules, sizes []int) []int {
	cp := make([]int, 2*len(sizes)+2)
	for i, s := range sizes {
		cp[2*i+1] = cp[2*i] + rules[i]
		cp[2*i+2] = cp[2*i+1] + s
	}
	n := len(sizes)
	cp[2*n+1] = cp[2*n] + rules[n]
	return cp
}

// extent 返回 a 轴上单元格范围 [z0, z1) 占用的尺寸：包含 z0 前的分隔线，
// 仅当 z1 为表格末尾时才包含最后一条分隔线。相邻切片因此恰好划分整个页面。
func (d *pageData) extent(a Axis, z0, z1 int) int {
	cp := d.cp[a]
	size := cp[2*z1] - cp[2*z0]
	if z1 == d.table.n[a] {
		size += cp[2*z1+1] - cp[2*z1]
	}
	return size
}

// trailing 返回窗口止于 z1 时其后那条分隔线的宽度。z1 为表格末尾时该线已计入 extent。
func (d *pageData) trailing(a Axis, z1 int) int {
	if z1 >= d.table.n[a] {
		return 0
	}
	return d.cp[a][2*z1+1] - d.cp[a][2*z1]
}

// Size 返回页面在 a 轴上的尺寸。
func (p *RenderPage) Size(a Axis) int { return p.d.extent(a, p.w[a][0], p.w[a][1]) }

// Window 返回页面在 a 轴上覆盖的单元格范围 [z0, z1)。
func (p *RenderPage) Window(a Axis) (int, int) { return p.w[a][0], p.w[a][1] }

// Footprint 返回页面在 a 轴上实际绘制占用的尺寸：非末尾的切片还会画出
// 其后的分隔线，因此可能比 Size 多出一条线宽。
func (p *RenderPage) Footprint(a Axis) int { return p.Size(a) + p.d.trailing(a, p.w[a][1]) }

// N 返回页面在 a 轴上覆盖的单元格数量。
func (p *RenderPage) N(a Axis) int { return p.w[a][1] - p.w[a][0] }

// Select 返回 a 轴上单元格范围 [z0, z1) 的子页面（相对本页面的下标）。
// 子页面与原页面共享布局数据。
func (p *RenderPage) Select(a Axis, z0, z1 int) *RenderPage {
	z0 = min(max(z0, 0), p.N(a))
	z1 = min(max(z1, z0), p.N(a))
	sub := &RenderPage{d: p.d, w: p.w}
	sub.w[a] = [2]int{p.w[a][0] + z0, p.w[a][0] + z1}
	return sub
}

// Draw 先绘制全部边框、再绘制单元格文本，坐标相对于本页面左上角。
func (p *RenderPage) Draw() {
	p.drawRules()
	p.drawCells()
}

// span 返回页面在 a 轴上的双倍坐标范围 [s, e)：偶数为分隔线，奇数为单元格。
// 窗口两端的分隔线都包含在内。
func (p *RenderPage) span(a Axis) (int, int) {
	return 2 * p.w[a][0], 2*p.w[a][1] + 1
}

func (p *RenderPage) origin(a Axis) int { return p.d.cp[a][2*p.w[a][0]] }

func (p *RenderPage) drawRules() {
	t := p.d.table
	xs, xe := p.span(H)
	ys, ye := p.span(V)
	for y := ys; y < ye; y++ {
		for x := xs; x < xe; x++ {
			if x%2 == 1 && y%2 == 1 {
				continue
			}
			var arms Arms
			c, r := x/2, y/2
			switch {
			case x%2 == 0 && y%2 == 0:
				if c-1 >= p.w[H][0] {
					arms.Left = t.HRule(c-1, r)
				}
				if c < p.w[H][1] {
					arms.Right = t.HRule(c, r)
				}
				if r-1 >= p.w[V][0] {
					arms.Top = t.VRule(c, r-1)
				}
				if r < p.w[V][1] {
					arms.Bottom = t.VRule(c, r)
				}
			case x%2 == 0:
				arms.Top = t.VRule(c, r)
				arms.Bottom = arms.Top
			default:
				arms.Left = t.HRule(c, r)
				arms.Right = arms.Left
			}
			if arms == (Arms{}) {
				continue
			}
			bb := NewBox(
				p.d.cp[H][x]-p.origin(H), p.d.cp[V][y]-p.origin(V),
				p.d.cp[H][x+1]-p.origin(H), p.d.cp[V][y+1]-p.origin(V))
			p.d.params.Device.DrawLine(bb, arms)
		}
	}
}

func (p *RenderPage) drawCells() {
	t := p.d.table
	clip := NewBox(0, 0, p.Size(H), p.Size(V))
	for r := p.w[V][0]; r < p.w[V][1]; r++ {
		for c := p.w[H][0]; c < p.w[H][1]; c++ {
			cell, rng, ok := t.Cell(c, r)
			if !ok {
				continue
			}
			// 跨行列单元格只在其在窗口内的第一个位置绘制一次。
			if c != max(rng[H][0], p.w[H][0]) || r != max(rng[V][0], p.w[V][0]) {
				continue
			}
			var bb Box
			for _, a := range []Axis{H, V} {
				bb[a][0] = p.d.cp[a][2*rng[a][0]+1] - p.origin(a)
				bb[a][1] = p.d.cp[a][2*rng[a][1]] - p.origin(a)
			}
			cellClip := bb
			for _, a := range []Axis{H, V} {
				cellClip[a][0] = max(cellClip[a][0], clip[a][0])
				cellClip[a][1] = min(cellClip[a][1], clip[a][1])
			}
			p.d.params.Device.DrawCell(cell, bb, cellClip)
		}
	}
}
