package layout

// DoubleLineOffset 返回双线中每条线相对中心的偏移量。
func DoubleLineOffset(lineSpace, lineWidth int) int {
	return (lineSpace + lineWidth) / 2
}

// ResolveRules 计算区域 bb 内四条臂相交时需要描边的线段集合。
//
// 沿 x 轴额外取三个坐标：xc 为 x0 与 x3 的中点；x1、x2 为竖线位置，
// 单竖线时二者都等于 xc，双竖线时分别为左右两条线。y 轴上的 yc、y1、y2 同理。
// 双线相交时需要把线段“缩短”到相邻的偏移线上，这样交叉处形成干净的格子，
// 而不是一条横穿的实线：
//
//	           x0       x1     x2      x3
//	         y0 ________________________
//	            |        #     #       |
//	         y1 |#########     ########|
//	            |                      |
//	         y2 |######################|
//	         y3 |______________________|
//
// 以上为顶部双线、左右双线、底部无线时的输出。
// 结果只取决于 bb、arms 与 doubleOffset。
func ResolveRules(bb Box, arms Arms, doubleOffset int) []Segment {
	x0, x3 := bb[H][0], bb[H][1]
	y0, y3 := bb[V][0], bb[V][1]

	// 同一轴上混用单线和双线没有意义，这里不做特殊处理。
	doubleVert := arms.Top == BorderDouble || arms.Bottom == BorderDouble
	doubleHorz := arms.Left == BorderDouble || arms.Right == BorderDouble

	shortenY1 := arms.Top == BorderDouble
	shortenY2 := arms.Bottom == BorderDouble
	shortenYC := shortenY1 && shortenY2
	horzOfs := 0
	if doubleVert {
		horzOfs = doubleOffset
	}
	xc := (x0 + x3) / 2
	x1 := xc - horzOfs
	x2 := xc + horzOfs

	shortenX1 := arms.Left == BorderDouble
	shortenX2 := arms.Right == BorderDouble
	shortenXC := shortenX1 && shortenX2
	vertOfs := 0
	if doubleHorz {
		vertOfs = doubleOffset
	}
	yc := (y0 + y3) / 2
	y1 := yc - vertOfs
	y2 := yc + vertOfs

	var out []Segment
	if !doubleHorz {
		out = horzLine(out, x0, x1, x2, x3, yc, arms.Left, arms.Right, shortenYC)
	} else {
		out = horzLine(out, x0, x1, x2, x3, y1, arms.Left, arms.Right, shortenY1)
		out = horzLine(out, x0, x1, x2, x3, y2, arms.Left, arms.Right, shortenY2)
	}
	if !doubleVert {
		out = vertLine(out, y0, y1, y2, y3, xc, arms.Top, arms.Bottom, shortenXC)
	} else {
		out = vertLine(out, y0, y1, y2, y3, x1, arms.Top, arms.Bottom, shortenX1)
		out = vertLine(out, y0, y1, y2, y3, x2, arms.Top, arms.Bottom, shortenX2)
	}
	return out
}

// horzLine 在 y 处绘制 x0..x2（left 存在时）与 x1..x3（right 存在时），
// shorten 时分别缩短为 x0..x1 与 x2..x3。
func horzLine(out []Segment, x0, x1, x2, x3, y int, left, right BorderStyle, shorten bool) []Segment {
	if left != BorderNone && right != BorderNone && !shorten {
		return appendSegment(out, Segment{X0: x0, Y0: y, X1: x3, Y1: y})
	}
	if left != BorderNone {
		end := x2
		if shorten {
			end = x1
		}
		out = appendSegment(out, Segment{X0: x0, Y0: y, X1: end, Y1: y})
	}
	if right != BorderNone {
		start := x1
		if shorten {
			start = x2
		}
		out = appendSegment(out, Segment{X0: start, Y0: y, X1: x3, Y1: y})
	}
	return out
}

// vertLine 为 horzLine 的竖直版本。
func vertLine(out []Segment, y0, y1, y2, y3, x int, top, bottom BorderStyle, shorten bool) []Segment {
	if top != BorderNone && bottom != BorderNone && !shorten {
		return appendSegment(out, Segment{X0: x, Y0: y0, X1: x, Y1: y3})
	}
	if top != BorderNone {
		end := y2
		if shorten {
			end = y1
		}
		out = appendSegment(out, Segment{X0: x, Y0: y0, X1: x, Y1: end})
	}
	if bottom != BorderNone {
		start := y1
		if shorten {
			start = y2
		}
		out = appendSegment(out, Segment{X0: x, Y0: start, X1: x, Y1: y3})
	}
	return out
}

// appendSegment 丢弃零长度线段，避免在交点处重复落墨。
func appendSegment(out []Segment, s Segment) []Segment {
	if s.X0 == s.X1 && s.Y0 == s.Y1 {
		return out
	}
	return append(out, s)
}
