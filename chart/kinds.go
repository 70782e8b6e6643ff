package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ByLCY/paginate/layout"
)

var palette = []color.Color{
	color.RGBA{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
	color.RGBA{R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
	color.RGBA{R: 0xe1, G: 0x57, B: 0x59, A: 0xff},
	color.RGBA{R: 0x76, G: 0xb7, B: 0xb2, A: 0xff},
	color.RGBA{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
	color.RGBA{R: 0xed, G: 0xc9, B: 0x48, A: 0xff},
	color.RGBA{R: 0xb0, G: 0x7a, B: 0xa1, A: 0xff},
	color.RGBA{R: 0x9c, G: 0x75, B: 0x5f, A: 0xff},
}

// drawTitle 在数据区上方居中绘制标题。
func drawTitle(c Canvas, ch *Chart, g *Geometry) {
	if ch.Title == "" {
		return
	}
	c.SetColor(color.Black)
	w := c.TextWidth(layout.FontProportional, ch.Title)
	x, y := g.To(g.DataLeft+(g.DataWidth()-w)/2, g.TitleBottom+g.Height*0.08)
	c.ShowText(layout.FontProportional, x, y, ch.Title)
}

// drawAxes 绘制数据区的横轴与纵轴。
func drawAxes(c Canvas, g *Geometry) {
	c.SetColor(color.Black)
	c.SetLineWidth(1)
	x0, y0 := g.To(g.DataLeft, g.DataBottom)
	x1, _ := g.To(g.DataRight, g.DataBottom)
	_, y1 := g.To(g.DataLeft, g.DataTop)
	c.StrokeLine(x0, y0, x1, y0)
	c.StrokeLine(x0, y0, x0, y1)
}

// drawLegend 在图例区逐行绘制色块与标签。
func drawLegend(c Canvas, ch *Chart, g *Geometry) {
	const swatch = 8.0
	for i, label := range ch.Labels {
		x, y := g.To(g.LegendLeft, g.DataTop-float64(i)*swatch*2)
		c.SetColor(palette[i%len(palette)])
		c.FillRect(x, y, swatch, swatch)
		c.SetColor(color.Black)
		c.ShowText(layout.FontProportional, x+swatch*1.5, y, label)
	}
}

func valueRange(values []float64) (lo, hi float64) {
	lo, hi = 0, 0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func drawPie(c Canvas, ch *Chart, g *Geometry) error {
	total := 0.0
	for _, v := range ch.Values {
		if v < 0 {
			return fmt.Errorf("chart: 饼图不接受负值 %g", v)
		}
		total += v
	}
	drawTitle(c, ch, g)
	if total == 0 {
		return nil
	}
	cx := g.DataLeft + g.DataWidth()/2
	cy := g.DataBottom + g.DataHeight()/2
	radius := math.Min(g.DataWidth(), g.DataHeight()) / 2

	angle := math.Pi / 2
	for i, v := range ch.Values {
		sweep := 2 * math.Pi * v / total
		steps := max(int(sweep*16), 1)
		pts := make([]Point, 0, steps+2)
		px, py := g.To(cx, cy)
		pts = append(pts, Point{X: px, Y: py})
		for s := 0; s <= steps; s++ {
			a := angle - sweep*float64(s)/float64(steps)
			x, y := g.To(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
			pts = append(pts, Point{X: x, Y: y})
		}
		c.SetColor(palette[i%len(palette)])
		c.FillPolygon(pts)
		angle -= sweep
	}
	drawLegend(c, ch, g)
	return nil
}

func drawBar(c Canvas, ch *Chart, g *Geometry) error {
	drawTitle(c, ch, g)
	drawAxes(c, g)
	if len(ch.Values) == 0 {
		return nil
	}
	lo, hi := valueRange(ch.Values)
	slot := g.DataWidth() / float64(len(ch.Values))
	scale := g.DataHeight() / (hi - lo)
	zero := g.DataBottom - lo*scale
	for i, v := range ch.Values {
		left := g.DataLeft + slot*float64(i) + slot*0.15
		top := zero + v*scale
		bottom := zero
		if v < 0 {
			top, bottom = bottom, top
		}
		x, y := g.To(left, top)
		c.SetColor(palette[i%len(palette)])
		c.FillRect(x, y, slot*0.7, top-bottom)
		if i < len(ch.Labels) {
			c.SetColor(color.Black)
			lx, ly := g.To(left, g.DataBottom)
			c.ShowText(layout.FontProportional, lx, ly+2, ch.Labels[i])
		}
	}
	return nil
}

// drawScree 绘制按序号排列的折线图（碎石图）。
func drawScree(c Canvas, ch *Chart, g *Geometry) error {
	drawTitle(c, ch, g)
	drawAxes(c, g)
	if len(ch.Values) == 0 {
		return nil
	}
	lo, hi := valueRange(ch.Values)
	step := g.DataWidth() / float64(max(len(ch.Values)-1, 1))
	scale := g.DataHeight() / (hi - lo)
	const mark = 2.0
	var prev *Point
	c.SetColor(color.Black)
	c.SetLineWidth(1)
	for i, v := range ch.Values {
		x, y := g.To(g.DataLeft+step*float64(i), g.DataBottom+(v-lo)*scale)
		if prev != nil {
			c.StrokeLine(prev.X, prev.Y, x, y)
		}
		c.FillRect(x-mark, y-mark, 2*mark, 2*mark)
		prev = &Point{X: x, Y: y}
	}
	return nil
}
