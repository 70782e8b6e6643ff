package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/item"
	"github.com/ByLCY/paginate/layout"
)

// MinLength 为内容区至少需要容纳的默认字体行数。
const MinLength = 3

// Options 配置 Driver。所有长度均为设备单位（1/1024 pt）。
type Options struct {
	// Width/Length 为内容区尺寸（已扣除边距与页眉）。
	Width  int
	Length int
	// Left/Top 为内容区在页面上的左上角位置。页眉位于 Top 之上 3 个字高处。
	Left int
	Top  int

	FontHeight int
	LineGutter int
	LineSpace  int
	LineWidth  int

	Headers bool
	// StrictSizing 为 true 时，单个不可分割单元超过整页返回 ErrContentTooLarge，
	// 否则降级输出并记录告警。
	StrictSizing bool

	Locale  language.Tag
	Date    time.Time
	Version string
	Host    string

	Logger *slog.Logger
	// OnPageTurn 在每页输出后调用，参数为刚结束的页码。
	OnPageTurn func(page int)
}

// Stats 记录输出过程中的计数。
type Stats struct {
	Pages     int `json:"pages"`
	Tables    int `json:"tables"`
	Charts    int `json:"charts"`
	Oversized int `json:"oversized"`
}

// Driver 把条目依次排版到分页输出上。单个 Driver 不可并发使用。
type Driver struct {
	opts    Options
	backend Backend
	cells   *cellLayout
	geom    *layout.Geometry
	header  headerBand
	log     *slog.Logger
	stats   Stats
	closed  bool
}

// NewDriver 校验配置并创建 Driver；失败时不会向 backend 写入任何内容。
func NewDriver(backend Backend, opts Options) (*Driver, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: 缺少输出后端", ErrConfiguration)
	}
	if opts.Width <= 0 || opts.Length <= 0 {
		return nil, fmt.Errorf("%w: 内容区尺寸无效 %dx%d", ErrConfiguration, opts.Width, opts.Length)
	}
	if opts.FontHeight <= 0 {
		return nil, fmt.Errorf("%w: 字高无效 %d", ErrConfiguration, opts.FontHeight)
	}
	cells := newCellLayout(backend, backend, layout.ToPt(opts.LineWidth),
		layout.DoubleLineOffset(opts.LineSpace, opts.LineWidth))
	if lh := cells.charSize()[layout.V]; opts.Length < MinLength*lh {
		return nil, fmt.Errorf("%w: 页面长度不足以容纳边距、页眉以及至少 %d 行默认字体（当前仅 %d 行）",
			ErrConfiguration, MinLength, opts.Length/max(lh, 1))
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	d := &Driver{
		opts:    opts,
		backend: backend,
		cells:   cells,
		geom:    layout.NewGeometry(opts.Width, opts.Length),
		header:  newHeaderBand(opts),
		log:     log,
	}
	return d, nil
}

// Geometry 返回当前页面状态的副本。
func (d *Driver) Geometry() layout.Geometry { return *d.geom }

// Stats 返回输出计数。
func (d *Driver) Stats() Stats { return d.stats }

// Submit 输出一个条目。
func (d *Driver) Submit(ctx context.Context, it item.Item) error {
	if d.closed {
		return fmt.Errorf("renderer: Driver 已关闭")
	}
	switch it := it.(type) {
	case *item.TableItem:
		return d.submitTable(ctx, it)
	case *item.ChartItem:
		return d.submitChart(it)
	case *item.TextItem:
		return d.submitText(ctx, it)
	default:
		return fmt.Errorf("renderer: 不支持的条目类型 %T", it)
	}
}

func (d *Driver) params() layout.Params {
	p := layout.Params{
		Device:   d.cells,
		Size:     [layout.NumAxes]int{d.geom.Width, d.geom.Length},
		FontSize: d.cells.charSize(),
	}
	widths := layout.RuleWidths(d.opts.LineGutter, d.opts.LineSpace, d.opts.LineWidth)
	p.LineWidths[layout.H] = widths
	p.LineWidths[layout.V] = widths
	return p
}

func (d *Driver) submitTable(ctx context.Context, ti *item.TableItem) error {
	if ti.Table == nil {
		return fmt.Errorf("renderer: 表格为空")
	}
	if d.geom.Y > 0 {
		d.geom.Advance(d.opts.FontHeight)
	}
	page, err := layout.NewRenderPage(d.params(), ti.Table)
	if err != nil {
		return err
	}
	d.stats.Tables++

	var caption layout.Cell
	captionHeight := 0
	if ti.Caption != "" {
		caption = layout.Cell{Text: ti.Caption, Align: layout.AlignLeft}
		captionHeight = d.cells.MeasureCellHeight(caption, d.geom.Width)
	}

	xb := layout.NewBreak(page, layout.H)
	for xb.HasNext() {
		if xb.MinNextSize() > d.geom.Width {
			if err := d.oversized(layout.H, xb.MinNextSize(), d.geom.Width); err != nil {
				return err
			}
		}
		xs := xb.Next(d.geom.Width)
		yb := layout.NewBreak(xs, layout.V)
		for yb.HasNext() {
			if err := ctx.Err(); err != nil {
				return err
			}
			space := d.geom.Remaining() - captionHeight
			if yb.MinNextSize() > space {
				if !d.geom.Fresh() {
					if err := d.ShowPage(); err != nil {
						return err
					}
					continue
				}
				if err := d.oversized(layout.V, yb.MinNextSize(), space); err != nil {
					return err
				}
			}
			ys := yb.Next(space)
			if captionHeight > 0 {
				bb := layout.NewBox(0, 0, d.geom.Width, captionHeight)
				d.drawAt(func() { d.cells.DrawCell(caption, bb, bb) })
				d.geom.Advance(captionHeight)
				captionHeight = 0
			}
			d.drawAt(ys.Draw)
			d.geom.Advance(ys.Footprint(layout.V))
		}
	}
	return nil
}

// oversized 处理单个不可分割单元超出可用空间的情况。
func (d *Driver) oversized(a layout.Axis, need, avail int) error {
	if d.opts.StrictSizing {
		return fmt.Errorf("%w: %s 方向需要 %.1fpt，可用 %.1fpt", ErrContentTooLarge, a,
			layout.ToPt(need), layout.ToPt(avail))
	}
	d.stats.Oversized++
	d.log.Warn("内容超出页面，降级输出",
		slog.String("axis", a.String()),
		slog.Float64("need_pt", layout.ToPt(need)),
		slog.Float64("avail_pt", layout.ToPt(avail)),
		slog.Int("page", d.geom.Page))
	return nil
}

// drawAt 以当前写入位置为原点执行绘制。
func (d *Driver) drawAt(draw func()) {
	d.cells.origin = [layout.NumAxes]int{d.opts.Left, d.opts.Top + d.geom.Y}
	draw()
}

func (d *Driver) submitChart(ci *item.ChartItem) error {
	if !d.geom.Fresh() {
		if err := d.ShowPage(); err != nil {
			return err
		}
	}
	d.stats.Charts++
	s := d.backend
	s.Save()
	drawErr := chart.Draw(s, ci.Chart,
		layout.ToPt(d.opts.Left), layout.ToPt(d.opts.Top),
		layout.ToPt(d.geom.Width), layout.ToPt(d.geom.Length))
	s.Restore()
	// 图表独占一页，即使绘制失败也保持页面状态一致。
	if err := d.ShowPage(); err != nil {
		return err
	}
	if drawErr != nil {
		return fmt.Errorf("绘制图表失败: %w", drawErr)
	}
	return nil
}

func (d *Driver) submitText(ctx context.Context, ti *item.TextItem) error {
	switch ti.Kind {
	case item.TextTitle:
		d.header.title = ti.Text
	case item.TextSubtitle:
		d.header.subtitle = ti.Text
	case item.TextCommandClose:
	case item.TextBlankLine:
		if !d.geom.Fresh() {
			d.geom.Advance(d.opts.FontHeight)
		}
	case item.TextEjectPage:
		if !d.geom.Fresh() {
			return d.ShowPage()
		}
	default:
		t := layout.TableFromString(ti.Text)
		if ti.Kind == item.TextSyntax {
			t = layout.NewTable(1, 1)
			_ = t.SetCell(0, 0, layout.Cell{Text: ti.Text, Font: layout.FontFixed})
		}
		return d.submitTable(ctx, &item.TableItem{Table: t})
	}
	return nil
}

// ShowPage 绘制页眉（如启用）、结束当前页并把游标移到新页顶部。
func (d *Driver) ShowPage() error {
	if d.opts.Headers {
		d.header.draw(d.cells, d.geom.Page)
	}
	if err := d.backend.ShowPage(); err != nil {
		d.log.Error("输出页面失败", slog.Int("page", d.geom.Page), slog.Any("err", err))
		return fmt.Errorf("%w: 第 %d 页: %w", ErrSurface, d.geom.Page, err)
	}
	finished := d.geom.Page
	d.geom.Turn()
	d.stats.Pages++
	d.log.Debug("翻页", slog.Int("page", finished))
	if d.opts.OnPageTurn != nil {
		d.opts.OnPageTurn(finished)
	}
	return nil
}

// Close 输出尚未结束的页面并关闭输出。重复调用不产生效果。
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if !d.geom.Fresh() {
		if err := d.ShowPage(); err != nil {
			return err
		}
	}
	if err := d.backend.Finish(); err != nil {
		d.log.Error("关闭输出失败", slog.Any("err", err))
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	return nil
}
