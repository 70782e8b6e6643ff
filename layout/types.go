package layout

import (
	"fmt"
	"strings"
)

// 该文件定义分页排版引擎共用的基础数据模型：坐标轴、边框样式、区间框与单元格。

// Axis 表示两个相互独立的排版维度，所有测量与分页算法都按轴参数化。
type Axis int

const (
	H Axis = iota // 水平方向（列）
	V             // 垂直方向（行）
)

// NumAxes 为坐标轴数量，便于声明 [NumAxes] 数组。
const NumAxes = 2

// Other 返回另一条轴。
func (a Axis) Other() Axis { return 1 - a }

func (a Axis) String() string {
	if a == H {
		return "horizontal"
	}
	return "vertical"
}

// BorderStyle 为单侧边框样式。
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
)

// NumBorderStyles 为边框样式数量。
const NumBorderStyles = 3

func (s BorderStyle) String() string {
	switch s {
	case BorderSingle:
		return "single"
	case BorderDouble:
		return "double"
	default:
		return "none"
	}
}

// ParseBorderStyle 解析 none/single/double（大小写不敏感）。
func ParseBorderStyle(v string) (BorderStyle, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none":
		return BorderNone, nil
	case "single", "solid":
		return BorderSingle, nil
	case "double":
		return BorderDouble, nil
	default:
		return BorderNone, fmt.Errorf("未知的边框样式 %q", v)
	}
}

// MaxBorder 返回两种样式中更“重”的一个，用于合并相邻单元格的边框。
func MaxBorder(a, b BorderStyle) BorderStyle {
	if a > b {
		return a
	}
	return b
}

// Box 为两轴上的半开区间 [start, end)，单位为设备单位。
// end == Unbounded 表示无上限，仅在测量阶段使用。
type Box [NumAxes][2]int

// NewBox 以左上角与右下角构造 Box。
func NewBox(x0, y0, x1, y1 int) Box {
	var b Box
	b[H] = [2]int{x0, x1}
	b[V] = [2]int{y0, y1}
	return b
}

// Size 返回某轴上的长度；无上限时返回 Unbounded。
func (b Box) Size(a Axis) int {
	if b[a][1] == Unbounded {
		return Unbounded
	}
	return b[a][1] - b[a][0]
}

// Bounded 报告该轴是否有上限。
func (b Box) Bounded(a Axis) bool { return b[a][1] != Unbounded }

// NoClip 报告作为裁剪框的 Box 是否表示“不裁剪”。约定只看水平区间：
// 水平方向为空区间即视为没有裁剪框。
func (b Box) NoClip() bool { return b[H][0] == b[H][1] }

// Alignment 为单元格的水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "left"
	}
}

// FontVariant 选择单元格使用的字体。
type FontVariant int

const (
	FontProportional FontVariant = iota
	FontEmphasis
	FontFixed
	NumFonts
)

func (f FontVariant) String() string {
	switch f {
	case FontEmphasis:
		return "emphasis"
	case FontFixed:
		return "fixed"
	default:
		return "proportional"
	}
}

// Borders 为单元格四边的边框样式。
type Borders struct {
	Top    BorderStyle `json:"top"`
	Bottom BorderStyle `json:"bottom"`
	Left   BorderStyle `json:"left"`
	Right  BorderStyle `json:"right"`
}

// Cell 是一次测量或绘制调用所需的单元格描述。
// 调用方拥有 Cell，渲染器不会在调用结束后继续持有它。
type Cell struct {
	Text    string      `json:"text"`
	Align   Alignment   `json:"align"`
	Font    FontVariant `json:"font"`
	Borders Borders     `json:"borders"`
	// Span 为跨越的列数与行数（<=1 视为 1）。
	Span [NumAxes]int `json:"span"`
}

// span 返回规范化后的跨越数。
func (c Cell) span(a Axis) int {
	if c.Span[a] < 1 {
		return 1
	}
	return c.Span[a]
}

// Segment 为一条需要描边的直线段（设备单位）。
type Segment struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Horizontal 报告线段是否水平。
func (s Segment) Horizontal() bool { return s.Y0 == s.Y1 }

// Length 返回线段长度。
func (s Segment) Length() int {
	if s.Horizontal() {
		return abs(s.X1 - s.X0)
	}
	return abs(s.Y1 - s.Y0)
}

// Arms 描述在一个区域中相交的四条“臂”：
// Left/Right 为从左右进入的水平线，Top/Bottom 为从上下进入的竖线。
type Arms struct {
	Left   BorderStyle `json:"left"`
	Right  BorderStyle `json:"right"`
	Top    BorderStyle `json:"top"`
	Bottom BorderStyle `json:"bottom"`
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
