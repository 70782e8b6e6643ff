package renderer

import (
	"image/color"
	"math"
)

// Rect 为设备坐标下的矩形 [X0,X1)×[Y0,Y1)。
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Empty 报告矩形是否没有面积。
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Intersect 返回两个矩形的交集。
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X0: math.Max(r.X0, o.X0), Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1), Y1: math.Min(r.Y1, o.Y1),
	}
}

// State 为一层绘制状态。
type State struct {
	TX, TY    float64
	SX, SY    float64
	Clip      Rect
	Clipped   bool
	Color     color.Color
	LineWidth float64
}

// StateStack 为没有原生变换栈的后端提供 Save/Restore、平移缩放与矩形裁剪。
type StateStack struct {
	cur   State
	saved []State
}

// NewStateStack 返回单位变换、黑色、1pt 线宽的初始状态。
func NewStateStack() StateStack {
	return StateStack{cur: State{SX: 1, SY: 1, Color: color.Black, LineWidth: 1}}
}

func (s *StateStack) Save() { s.saved = append(s.saved, s.cur) }

func (s *StateStack) Restore() {
	if n := len(s.saved); n > 0 {
		s.cur = s.saved[n-1]
		s.saved = s.saved[:n-1]
	}
}

func (s *StateStack) Translate(dx, dy float64) {
	s.cur.TX += dx * s.cur.SX
	s.cur.TY += dy * s.cur.SY
}

func (s *StateStack) Scale(sx, sy float64) {
	s.cur.SX *= sx
	s.cur.SY *= sy
}

// ClipRect 把 (x, y, w, h)（用户坐标）与当前裁剪区求交。
func (s *StateStack) ClipRect(x, y, w, h float64) {
	x0, y0 := s.Apply(x, y)
	x1, y1 := s.Apply(x+w, y+h)
	r := Rect{X0: math.Min(x0, x1), Y0: math.Min(y0, y1), X1: math.Max(x0, x1), Y1: math.Max(y0, y1)}
	if s.cur.Clipped {
		r = r.Intersect(s.cur.Clip)
	}
	s.cur.Clip = r
	s.cur.Clipped = true
}

func (s *StateStack) SetColor(c color.Color) { s.cur.Color = c }

func (s *StateStack) SetLineWidth(w float64) { s.cur.LineWidth = w }

// Current 返回当前绘制状态。
func (s *StateStack) Current() State { return s.cur }

// Apply 把用户坐标转换为设备坐标。
func (s *StateStack) Apply(x, y float64) (float64, float64) {
	return s.cur.TX + x*s.cur.SX, s.cur.TY + y*s.cur.SY
}

// ApplyLength 把用户坐标下的长度换算为设备坐标（取两轴缩放的平均值）。
func (s *StateStack) ApplyLength(v float64) float64 {
	return v * (math.Abs(s.cur.SX) + math.Abs(s.cur.SY)) / 2
}

// Visible 报告设备坐标下的文本行框是否应当绘制：
// 行的纵向中点落在裁剪区内且横向与裁剪区相交。
func (s *StateStack) Visible(r Rect) bool {
	if !s.cur.Clipped {
		return true
	}
	c := s.cur.Clip
	mid := (r.Y0 + r.Y1) / 2
	return mid >= c.Y0 && mid < c.Y1 && r.X1 > c.X0 && r.X0 < c.X1
}
