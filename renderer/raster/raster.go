// Package raster 通过 github.com/gogpu/gg 把页面绘制为 PNG 图像，每页一张。
package raster

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/fonts"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
)

// Options 配置栅格后端。
type Options struct {
	// Width/Height 为页面尺寸（pt）。
	Width, Height float64
	// Scale 为每 pt 对应的像素数，默认为 1。
	Scale float64
	// Background 为页面底色，默认白色。
	Background color.Color
	Fonts      [layout.NumFonts]fonts.Spec
	// PageOutput 为每一页打开 PNG 输出，page 从 1 开始。
	PageOutput func(page int) (io.WriteCloser, error)
}

// Surface 实现 renderer.Backend。坐标变换与裁剪由 StateStack 维护，落在裁剪区外的文本行被丢弃。
type Surface struct {
	renderer.StateStack

	opts   Options
	scale  float64
	w, h   int
	faces  [layout.NumFonts]text.Face
	dc     *gg.Context
	pageNo int
	err    error
}

var _ renderer.Backend = (*Surface)(nil)

// New 加载字体并创建第一页画布。
func New(opts Options) (*Surface, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	w := int(math.Ceil(opts.Width * opts.Scale))
	h := int(math.Ceil(opts.Height * opts.Scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: 图像尺寸无效 %dx%d", renderer.ErrConfiguration, w, h)
	}
	s := &Surface{StateStack: renderer.NewStateStack(), opts: opts, scale: opts.Scale, w: w, h: h}
	for i, spec := range opts.Fonts {
		data, err := fonts.Load(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", renderer.ErrFontLoad, spec, err)
		}
		src, err := text.NewFontSource(data)
		if err != nil {
			return nil, fmt.Errorf("%w: 解析字体 %s 失败: %w", renderer.ErrFontLoad, spec, err)
		}
		size := spec.Size
		if size <= 0 {
			size = 10
		}
		s.faces[i] = src.Face(size * s.scale)
	}
	s.newPage()
	return s, nil
}

func (s *Surface) newPage() {
	s.dc = gg.NewContext(s.w, s.h)
	s.dc.SetColor(s.opts.Background)
	s.dc.DrawRectangle(0, 0, float64(s.w), float64(s.h))
	s.fail(s.dc.Fill())
}

func (s *Surface) fail(err error) {
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("栅格绘制失败: %w", err)
	}
}

// px 把用户坐标（pt）转换为像素坐标。
func (s *Surface) px(x, y float64) (float64, float64) {
	dx, dy := s.Apply(x, y)
	return dx * s.scale, dy * s.scale
}

func (s *Surface) TextWidth(font layout.FontVariant, str string) float64 {
	return s.faces[font].Advance(str) / s.scale
}

func (s *Surface) Metrics(font layout.FontVariant) renderer.Metrics {
	m := s.faces[font].Metrics()
	return renderer.Metrics{
		Ascent:     m.Ascent / s.scale,
		LineHeight: (m.Ascent + m.Descent + m.LineGap) / s.scale,
	}
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64) {
	st := s.Current()
	ax, ay := s.px(x0, y0)
	bx, by := s.px(x1, y1)
	s.dc.SetColor(st.Color)
	s.dc.SetLineWidth(math.Max(s.ApplyLength(st.LineWidth)*s.scale, 1))
	s.dc.DrawLine(ax, ay, bx, by)
	s.fail(s.dc.Stroke())
}

func (s *Surface) FillRect(x, y, w, h float64) {
	ax, ay := s.px(x, y)
	bx, by := s.px(x+w, y+h)
	s.dc.SetColor(s.Current().Color)
	s.dc.DrawRectangle(math.Min(ax, bx), math.Min(ay, by), math.Abs(bx-ax), math.Abs(by-ay))
	s.fail(s.dc.Fill())
}

func (s *Surface) FillPolygon(pts []chart.Point) {
	if len(pts) < 3 {
		return
	}
	for i, p := range pts {
		x, y := s.px(p.X, p.Y)
		if i == 0 {
			s.dc.MoveTo(x, y)
		} else {
			s.dc.LineTo(x, y)
		}
	}
	s.dc.ClosePath()
	s.dc.SetColor(s.Current().Color)
	s.fail(s.dc.Fill())
}

func (s *Surface) ShowText(font layout.FontVariant, x, y float64, str string) {
	if str == "" {
		return
	}
	m := s.Metrics(font)
	ax, ay := s.Apply(x, y)
	w := s.ApplyLength(s.TextWidth(font, str))
	if !s.Visible(renderer.Rect{X0: ax, Y0: ay, X1: ax + w, Y1: ay + s.ApplyLength(m.LineHeight)}) {
		return
	}
	s.dc.SetFont(s.faces[font])
	s.dc.SetColor(s.Current().Color)
	s.dc.DrawString(str, ax*s.scale, (ay+s.ApplyLength(m.Ascent))*s.scale)
}

// ShowPage 把当前页编码为 PNG 并开始新的一页。
func (s *Surface) ShowPage() error {
	if s.err != nil {
		return s.err
	}
	s.pageNo++
	if s.opts.PageOutput == nil {
		return fmt.Errorf("%w: 缺少 PNG 输出", renderer.ErrConfiguration)
	}
	out, err := s.opts.PageOutput(s.pageNo)
	if err != nil {
		s.err = fmt.Errorf("打开第 %d 页输出失败: %w", s.pageNo, err)
		return s.err
	}
	err = s.dc.EncodePNG(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.err = fmt.Errorf("写入第 %d 页 PNG 失败: %w", s.pageNo, err)
		return s.err
	}
	s.newPage()
	return nil
}

// Finish 报告绘制过程中累积的错误。
func (s *Surface) Finish() error { return s.err }

// EncodePNG 把当前页（未结束）编码为 PNG。
func (s *Surface) EncodePNG(w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	return s.dc.EncodePNG(w)
}

// 图表导出的固定尺寸（像素）。
const (
	ChartWidth  = 640
	ChartHeight = 480
)

// WriteChartPNG 把图表绘制为白底 640×480 的 PNG，文件名由模板中的 '#' 替换为 number 得到。
// 返回写入的文件名。
func WriteChartPNG(ch *chart.Chart, template string, number int, specs [layout.NumFonts]fonts.Spec) (string, error) {
	s, err := New(Options{Width: ChartWidth, Height: ChartHeight, Fonts: specs})
	if err != nil {
		return "", err
	}
	if err := chart.Draw(s, ch, 0, 0, ChartWidth, ChartHeight); err != nil {
		return "", err
	}
	name := chart.PNGFileName(template, number)
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("创建 %s 失败: %w", name, err)
	}
	err = s.EncodePNG(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", name, err)
	}
	return name, nil
}
