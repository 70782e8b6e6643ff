package chart

import (
	"image/color"
	"testing"

	"github.com/ByLCY/paginate/layout"
)

// fakeCanvas 统计各类绘制调用并记录所有坐标。
type fakeCanvas struct {
	lines, rects, polygons, texts int
	points                        []Point
}

func (c *fakeCanvas) SetColor(color.Color)  {}
func (c *fakeCanvas) SetLineWidth(float64)  {}
func (c *fakeCanvas) TextWidth(_ layout.FontVariant, s string) float64 {
	return float64(len(s)) * 5
}

func (c *fakeCanvas) StrokeLine(x0, y0, x1, y1 float64) {
	c.lines++
	c.points = append(c.points, Point{x0, y0}, Point{x1, y1})
}

func (c *fakeCanvas) FillRect(x, y, w, h float64) {
	c.rects++
	c.points = append(c.points, Point{x, y}, Point{x + w, y + h})
}

func (c *fakeCanvas) FillPolygon(pts []Point) {
	c.polygons++
	c.points = append(c.points, pts...)
}

func (c *fakeCanvas) ShowText(_ layout.FontVariant, x, y float64, _ string) {
	c.texts++
	c.points = append(c.points, Point{x, y})
}

func TestDrawUnknownKind(t *testing.T) {
	if err := Draw(&fakeCanvas{}, &Chart{Kind: "radar"}, 0, 0, 100, 100); err == nil {
		t.Fatalf("未知图表类型应返回错误")
	}
	if err := Draw(&fakeCanvas{}, nil, 0, 0, 100, 100); err == nil {
		t.Fatalf("空图表应返回错误")
	}
}

func TestPieChartStaysInsideArea(t *testing.T) {
	c := &fakeCanvas{}
	ch := &Chart{Kind: "PieChart", Title: "Share", Labels: []string{"a", "b", "c"}, Values: []float64{1, 2, 3}}
	if err := Draw(c, ch, 10, 20, 400, 300); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if c.polygons != 3 {
		t.Fatalf("应绘制 3 个扇区, got %d", c.polygons)
	}
	for _, p := range c.points {
		if p.X < 10 || p.X > 410 || p.Y < 20 || p.Y > 320 {
			t.Fatalf("坐标 %+v 超出绘图区域", p)
		}
	}
	if err := Draw(c, &Chart{Kind: "piechart", Values: []float64{-1}}, 0, 0, 10, 10); err == nil {
		t.Fatalf("饼图负值应返回错误")
	}
}

func TestBarChartFlipsYAxis(t *testing.T) {
	c := &fakeCanvas{}
	ch := &Chart{Kind: "barchart", Values: []float64{1, 4}}
	if err := Draw(c, ch, 0, 0, 200, 100); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if c.rects != 2 || c.lines != 2 {
		t.Fatalf("应绘制 2 根柱与 2 条坐标轴, rects=%d lines=%d", c.rects, c.lines)
	}
	// 数据值越大，柱顶在画布上越靠上。
	g := NewGeometry(0, 0, 200, 100)
	_, low := g.To(0, g.DataBottom)
	_, high := g.To(0, g.DataTop)
	if high >= low {
		t.Fatalf("数据坐标应翻转: top=%g bottom=%g", high, low)
	}
}

func TestRegisterAndKinds(t *testing.T) {
	called := false
	Register("custom", func(Canvas, *Chart, *Geometry) error {
		called = true
		return nil
	})
	if err := Draw(&fakeCanvas{}, &Chart{Kind: "custom"}, 0, 0, 1, 1); err != nil || !called {
		t.Fatalf("注册的绘制函数应被调用: %v", err)
	}
	found := false
	for _, k := range Kinds() {
		if k == "custom" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Kinds 应包含 custom: %v", Kinds())
	}
}

func TestPNGFileName(t *testing.T) {
	cases := map[string]string{
		"chart-#.png": "chart-3.png",
		"plain.png":   "plain.png",
		"#-#.png":     "3-#.png",
	}
	for in, want := range cases {
		if got := PNGFileName(in, 3); got != want {
			t.Fatalf("PNGFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
