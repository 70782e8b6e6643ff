package renderer

import (
	"fmt"

	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/item"
	"github.com/ByLCY/paginate/layout"
)

// 交互式显示中图表的固定尺寸（像素）。
const (
	ChartWidth  = 500
	ChartHeight = 375
)

// Rendering 把单个条目排版为可在交互窗口中测量与绘制的对象，不分页。
type Rendering struct {
	backend Backend
	cells   *cellLayout
	page    *layout.RenderPage
	chart   *chart.Chart
}

// NewRendering 为 it 创建 Rendering。标题、换页等没有可视内容的文本条目返回 (nil, nil)。
func NewRendering(backend Backend, opts Options, it item.Item) (*Rendering, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: 缺少输出后端", ErrConfiguration)
	}
	r := &Rendering{
		backend: backend,
		cells: newCellLayout(backend, backend, layout.ToPt(opts.LineWidth),
			layout.DoubleLineOffset(opts.LineSpace, opts.LineWidth)),
	}
	var t *layout.Table
	switch it := it.(type) {
	case *item.TableItem:
		t = it.Table
	case *item.ChartItem:
		r.chart = it.Chart
		return r, nil
	case *item.TextItem:
		switch it.Kind {
		case item.TextTitle, item.TextSubtitle, item.TextCommandClose,
			item.TextBlankLine, item.TextEjectPage:
			return nil, nil
		}
		t = layout.TableFromString(it.Text)
	default:
		return nil, fmt.Errorf("renderer: 不支持的条目类型 %T", it)
	}
	params := layout.Params{
		Device:   r.cells,
		Size:     [layout.NumAxes]int{opts.Width, opts.Length},
		FontSize: r.cells.charSize(),
	}
	widths := layout.RuleWidths(opts.LineGutter, opts.LineSpace, opts.LineWidth)
	params.LineWidths[layout.H] = widths
	params.LineWidths[layout.V] = widths
	page, err := layout.NewRenderPage(params, t)
	if err != nil {
		return nil, err
	}
	r.page = page
	return r, nil
}

// Measure 返回绘制所需的像素尺寸（1 像素 = 1pt）。
func (r *Rendering) Measure() (w, h int) {
	if r.chart != nil {
		return ChartWidth, ChartHeight
	}
	return r.page.Size(layout.H) / layout.XRPoint, r.page.Size(layout.V) / layout.XRPoint
}

// Draw 在后端当前原点处绘制条目。
func (r *Rendering) Draw() error {
	if r.chart != nil {
		return chart.Draw(r.backend, r.chart, 0, 0, ChartWidth, ChartHeight)
	}
	r.cells.origin = [layout.NumAxes]int{}
	r.page.Draw()
	return nil
}

// Dump 返回表格条目的布局快照；图表没有表格布局，返回 false。
func (r *Rendering) Dump() (layout.PageDump, bool) {
	if r.page == nil {
		return layout.PageDump{}, false
	}
	return r.page.Dump(), true
}
