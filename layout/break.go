package layout

// Break 沿一条轴把 RenderPage 切成不超过给定尺寸的连续切片。
// 游标只前进不回退；切片之间连续且不重叠，尺寸之和等于页面尺寸。
type Break struct {
	page *RenderPage
	axis Axis
	z    int // 下一个切片的起始单元格（绝对下标）
}

// NewBreak 在 page 的 axis 轴上创建位于起点的游标。
func NewBreak(page *RenderPage, axis Axis) *Break {
	return &Break{page: page, axis: axis, z: page.w[axis][0]}
}

// HasNext 报告是否还有剩余切片。
func (b *Break) HasNext() bool { return b.z < b.page.w[b.axis][1] }

// Offset 返回已消费的尺寸。
func (b *Break) Offset() int { return b.page.d.extent(b.axis, b.page.w[b.axis][0], b.z) }

// Remaining 返回尚未消费的尺寸。
func (b *Break) Remaining() int { return b.page.Size(b.axis) - b.Offset() }

// MinNextSize 返回下一个不可分割单元（单个单元格或被合并单元格绑定的一组）
// 需要的空间，包括紧随其后的分隔线。
func (b *Break) MinNextSize() int {
	if !b.HasNext() {
		return 0
	}
	return b.footprint(b.boundaryAfter(b.z))
}

// footprint 返回切片 [b.z, end) 连同其后分隔线一起占用的尺寸。
func (b *Break) footprint(end int) int {
	return b.page.d.extent(b.axis, b.z, end) + b.page.d.trailing(b.axis, end)
}

// NextSize 返回以 limit 为上限时下一个切片的尺寸（即切片的 Size），但不消费它。
// limit 约束的是切片连同其后分隔线的占用；若单个不可分割单元已经超过 limit，
// 则照常返回该单元的尺寸。
func (b *Break) NextSize(limit int) int {
	if !b.HasNext() {
		return 0
	}
	return b.page.d.extent(b.axis, b.z, b.end(limit))
}

// Next 消费并返回下一个切片。单个单元超过 limit 时仍整体输出（超尺寸），保证迭代终止。
func (b *Break) Next(limit int) *RenderPage {
	if !b.HasNext() {
		return nil
	}
	end := b.end(limit)
	base := b.page.w[b.axis][0]
	slice := b.page.Select(b.axis, b.z-base, end-base)
	b.z = end
	return slice
}

// end 计算从当前位置出发、尺寸不超过 limit 的最远自然断点。
func (b *Break) end(limit int) int {
	last := b.page.w[b.axis][1]
	end := b.boundaryAfter(b.z)
	for end < last {
		next := b.boundaryAfter(end)
		if b.footprint(next) > limit {
			break
		}
		end = next
	}
	return end
}

// boundaryAfter 返回 z 之后第一个不会切断任何合并单元格的边界。
func (b *Break) boundaryAfter(z int) int {
	last := b.page.w[b.axis][1]
	end := z + 1
	for end < last && b.cutsSpan(end) {
		end++
	}
	return end
}

// cutsSpan 报告在边界 z 处切开是否会穿过窗口内某个合并单元格。
func (b *Break) cutsSpan(z int) bool {
	t := b.page.d.table
	other := b.axis.Other()
	for j := b.page.w[other][0]; j < b.page.w[other][1]; j++ {
		var prev, cur int
		if b.axis == H {
			prev, cur = t.slot(z-1, j), t.slot(z, j)
		} else {
			prev, cur = t.slot(j, z-1), t.slot(j, z)
		}
		if prev != -1 && prev == cur {
			return true
		}
	}
	return false
}
