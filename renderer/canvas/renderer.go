package canvasrenderer

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/ps"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/fonts"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
)

// Format 为输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPS  Format = "ps"
)

// ParseFormat 解析输出格式名称（大小写不敏感）。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatSVG, FormatPS:
		return f, nil
	case "":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: 不支持的输出格式 %q", renderer.ErrConfiguration, s)
	}
}

// Meta 为写入 PDF 的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// Options 配置 canvas 输出后端。
type Options struct {
	Format Format
	// Width/Height 为纸张尺寸（pt）。
	Width, Height float64
	// Output 接收 PDF 输出（单个文件包含全部页面）。
	Output io.Writer
	// PageOutput 为 SVG/PS 的每一页打开输出，page 从 1 开始。
	PageOutput func(page int) (io.WriteCloser, error)
	Fonts      [layout.NumFonts]fonts.Spec
	Meta       Meta
}

var transparent = color.RGBA{}

// Surface 通过 github.com/tdewolff/canvas 绘制页面：PDF 为多页文件，SVG/PS 每页一个文件。
type Surface struct {
	renderer.StateStack

	format     Format
	width      float64 // mm
	height     float64 // mm
	pageOutput func(page int) (io.WriteCloser, error)
	pdf        *pdf.PDF

	faces   [layout.NumFonts]*canvas.FontFace
	metrics [layout.NumFonts]renderer.Metrics

	page   *canvas.Canvas
	ctx    *canvas.Context
	pageNo int
	err    error
}

var _ renderer.Backend = (*Surface)(nil)

// New 加载字体并创建输出后端。
func New(opts Options) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: 纸张尺寸无效 %.1fx%.1fpt", renderer.ErrConfiguration, opts.Width, opts.Height)
	}
	format := opts.Format
	if format == "" {
		format = FormatPDF
	}
	s := &Surface{
		StateStack: renderer.NewStateStack(),
		format:     format,
		width:      toMm(opts.Width),
		height:     toMm(opts.Height),
		pageOutput: opts.PageOutput,
	}
	switch format {
	case FormatPDF:
		if opts.Output == nil {
			return nil, fmt.Errorf("%w: PDF 输出缺少 Output", renderer.ErrConfiguration)
		}
		s.pdf = pdf.New(opts.Output, s.width, s.height, nil)
		applyMeta(s.pdf, opts.Meta)
	case FormatSVG, FormatPS:
		if opts.PageOutput == nil {
			return nil, fmt.Errorf("%w: %s 输出缺少 PageOutput", renderer.ErrConfiguration, format)
		}
	default:
		return nil, fmt.Errorf("%w: 不支持的输出格式 %q", renderer.ErrConfiguration, format)
	}
	for i := range s.faces {
		face, err := defaultFamilies.face(opts.Fonts[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", renderer.ErrFontLoad, opts.Fonts[i], err)
		}
		s.faces[i] = face
		m := face.Metrics()
		s.metrics[i] = renderer.Metrics{Ascent: toPt(m.Ascent), LineHeight: toPt(m.LineHeight)}
	}
	s.newPage()
	return s, nil
}

func applyMeta(writer *pdf.PDF, meta Meta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (s *Surface) newPage() {
	s.page = canvas.New(s.width, s.height)
	s.ctx = canvas.NewContext(s.page)
	s.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
}

func (s *Surface) TextWidth(font layout.FontVariant, text string) float64 {
	return toPt(s.faces[font].TextWidth(text))
}

func (s *Surface) Metrics(font layout.FontVariant) renderer.Metrics {
	return s.metrics[font]
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64) {
	st := s.Current()
	ax, ay := s.Apply(x0, y0)
	bx, by := s.Apply(x1, y1)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(bx-ax), toMm(by-ay))
	s.ctx.SetFillColor(transparent)
	s.ctx.SetStrokeColor(st.Color)
	s.ctx.SetStrokeWidth(toMm(s.ApplyLength(st.LineWidth)))
	s.ctx.DrawPath(toMm(ax), toMm(ay), p)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	ax, ay := s.Apply(x, y)
	bx, by := s.Apply(x+w, y+h)
	s.ctx.SetFillColor(s.Current().Color)
	s.ctx.SetStrokeColor(transparent)
	s.ctx.DrawPath(toMm(min(ax, bx)), toMm(min(ay, by)), canvas.Rectangle(toMm(abs(bx-ax)), toMm(abs(by-ay))))
}

func (s *Surface) FillPolygon(pts []chart.Point) {
	if len(pts) < 3 {
		return
	}
	p := &canvas.Path{}
	for i, pt := range pts {
		x, y := s.Apply(pt.X, pt.Y)
		if i == 0 {
			p.MoveTo(toMm(x), toMm(y))
		} else {
			p.LineTo(toMm(x), toMm(y))
		}
	}
	p.Close()
	s.ctx.SetFillColor(s.Current().Color)
	s.ctx.SetStrokeColor(transparent)
	s.ctx.DrawPath(0, 0, p)
}

// ShowText 以黑色绘制一行文本。canvas 没有裁剪路径，落在裁剪区之外的行整体丢弃。
func (s *Surface) ShowText(font layout.FontVariant, x, y float64, text string) {
	if text == "" {
		return
	}
	ax, ay := s.Apply(x, y)
	m := s.metrics[font]
	w := s.ApplyLength(s.TextWidth(font, text))
	h := s.ApplyLength(m.LineHeight)
	if !s.Visible(renderer.Rect{X0: ax, Y0: ay, X1: ax + w, Y1: ay + h}) {
		return
	}
	baseline := ay + s.ApplyLength(m.Ascent)
	s.ctx.DrawText(toMm(ax), toMm(baseline), canvas.NewTextLine(s.faces[font], text, canvas.Left))
}

// ShowPage 输出当前页并开始新的一页。
func (s *Surface) ShowPage() error {
	if s.err != nil {
		return s.err
	}
	s.pageNo++
	switch s.format {
	case FormatPDF:
		if s.pageNo > 1 {
			s.pdf.NewPage(s.width, s.height)
		}
		s.page.RenderTo(s.pdf)
	default:
		if err := s.writePage(); err != nil {
			s.err = err
			return err
		}
	}
	s.newPage()
	return nil
}

func (s *Surface) writePage() error {
	out, err := s.pageOutput(s.pageNo)
	if err != nil {
		return fmt.Errorf("打开第 %d 页输出失败: %w", s.pageNo, err)
	}
	switch s.format {
	case FormatSVG:
		w := svg.New(out, s.width, s.height, nil)
		s.page.RenderTo(w)
		err = w.Close()
	case FormatPS:
		w := ps.New(out, s.width, s.height, nil)
		s.page.RenderTo(w)
		err = w.Close()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("写入第 %d 页失败: %w", s.pageNo, err)
	}
	return nil
}

// Finish 关闭输出。PDF 在此时写出文件尾。
func (s *Surface) Finish() error {
	if s.err != nil {
		return s.err
	}
	if s.pdf != nil {
		if err := s.pdf.Close(); err != nil {
			s.err = fmt.Errorf("写入 PDF 失败: %w", err)
			return s.err
		}
	}
	return nil
}

// Pages 返回已输出的页数。
func (s *Surface) Pages() int { return s.pageNo }

// PageFileName 返回多文件输出中第 page 页的文件名：
// 模板含 '#' 时替换为页码，否则在扩展名前插入 "-页码"。
func PageFileName(template string, page int) string {
	if strings.ContainsRune(template, '#') {
		return chart.PNGFileName(template, page)
	}
	ext := filepath.Ext(template)
	return strings.TrimSuffix(template, ext) + "-" + strconv.Itoa(page) + ext
}

// familyCache 按字体描述缓存已加载的字体族，多个 Surface 共享。
type familyCache struct {
	mu       sync.Mutex
	families map[string]*fontFamilyEntry
}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

var defaultFamilies = &familyCache{families: map[string]*fontFamilyEntry{}}

func (c *familyCache) face(spec fonts.Spec) (*canvas.FontFace, error) {
	entry, err := c.ensure(spec)
	if err != nil {
		return nil, err
	}
	size := spec.Size
	if size <= 0 {
		size = 10
	}
	return entry.family.Face(size, color.Black, entry.style, canvas.FontNormal), nil
}

func (c *familyCache) ensure(spec fonts.Spec) (*fontFamilyEntry, error) {
	key := fontCacheKey(spec)
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.families[key]; ok {
		return entry, nil
	}
	data, err := fonts.Load(spec)
	if err != nil {
		return nil, err
	}
	style := parseFontStyle(spec)
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", spec, err)
	}
	entry := &fontFamilyEntry{family: family, style: style}
	c.families[key] = entry
	return entry, nil
}

func parseFontStyle(spec fonts.Spec) canvas.FontStyle {
	result := canvas.FontRegular
	if spec.Bold {
		result = canvas.FontBold
	}
	if spec.Italic {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(spec fonts.Spec) string {
	return fmt.Sprintf("%s|%s|%t|%t", spec.Family, spec.Path, spec.Bold, spec.Italic)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
