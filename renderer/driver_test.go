package renderer_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/item"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
	"github.com/ByLCY/paginate/renderer/mono"
	"github.com/ByLCY/paginate/renderer/record"
)

// 10pt 等宽字体：每行 10pt，每个字符 5pt。
const line = 10 * layout.XRPoint

func testOptions(rows int) renderer.Options {
	return renderer.Options{
		Width:      500 * layout.XRPoint,
		Length:     rows * line,
		FontHeight: line,
		Date:       time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		Version:    "paginate 1.0",
		Host:       "test",
	}
}

func newDriver(t *testing.T, opts renderer.Options) (*renderer.Driver, *record.Surface) {
	t.Helper()
	rec := record.New(mono.New(10))
	d, err := renderer.NewDriver(rec, opts)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return d, rec
}

func grid(nc, nr int) *layout.Table {
	tbl := layout.NewTable(nc, nr)
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			_ = tbl.SetCell(c, r, layout.Cell{Text: "x"})
		}
	}
	return tbl
}

func TestNewDriverRejectsShortPage(t *testing.T) {
	_, err := renderer.NewDriver(record.New(mono.New(10)), testOptions(2))
	if !errors.Is(err, renderer.ErrConfiguration) {
		t.Fatalf("页面不足 3 行应返回配置错误, got %v", err)
	}
	if _, err := renderer.NewDriver(nil, testOptions(3)); !errors.Is(err, renderer.ErrConfiguration) {
		t.Fatalf("缺少后端应返回配置错误, got %v", err)
	}
}

func TestTableSplitsAcrossPages(t *testing.T) {
	d, rec := newDriver(t, testOptions(3))
	if err := d.Submit(context.Background(), &item.TableItem{Table: grid(2, 5)}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	pages := rec.Pages()
	if len(pages) != 2 {
		t.Fatalf("应输出 2 页, got %d", len(pages))
	}
	if got := len(rec.Texts(0)); got != 6 {
		t.Fatalf("第 1 页应有 6 个单元格, got %d", got)
	}
	if got := len(rec.Texts(1)); got != 4 {
		t.Fatalf("第 2 页应有 4 个单元格, got %d", got)
	}
}

// ruleRows 返回一页上水平线段所在的全部纵坐标（去重、升序）。
func ruleRows(ops []record.Op) []float64 {
	var ys []float64
	for _, op := range ops {
		if op.Kind == record.OpLine && op.Y0 == op.Y1 && op.X0 != op.X1 && !slices.Contains(ys, op.Y0) {
			ys = append(ys, op.Y0)
		}
	}
	slices.Sort(ys)
	return ys
}

// ruleColumns 返回一页上垂直线段所在的全部横坐标（去重、升序）。
func ruleColumns(ops []record.Op) []float64 {
	var xs []float64
	for _, op := range ops {
		if op.Kind == record.OpLine && op.X0 == op.X1 && op.Y0 != op.Y1 && !slices.Contains(xs, op.X0) {
			xs = append(xs, op.X0)
		}
	}
	slices.Sort(xs)
	return xs
}

func TestBorderedTableSplitsAcrossPages(t *testing.T) {
	// 单线宽 2·1+1 = 3pt，页面恰好容纳 3 行加 4 条线。
	opts := testOptions(3)
	opts.LineGutter = layout.XRPoint
	opts.LineSpace = layout.XRPoint
	opts.LineWidth = layout.XRPoint
	opts.Length = 3*line + 4*3*layout.XRPoint
	d, rec := newDriver(t, opts)
	tbl := grid(2, 5)
	tbl.Box(layout.BorderSingle, layout.BorderSingle, 0, 0, 1, 4)
	if err := d.Submit(context.Background(), &item.TableItem{Table: tbl}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	pages := rec.Pages()
	if len(pages) != 2 {
		t.Fatalf("应输出 2 页, got %d", len(pages))
	}
	if got := len(rec.Texts(0)); got != 6 {
		t.Fatalf("第 1 页应有 3 行共 6 个单元格, got %d", got)
	}
	if got := len(rec.Texts(1)); got != 4 {
		t.Fatalf("第 2 页应有 2 行共 4 个单元格, got %d", got)
	}
	// 每页的最后一行都要有下边框。
	if got, want := ruleRows(pages[0].Ops), []float64{1.5, 14.5, 27.5, 40.5}; !slices.Equal(got, want) {
		t.Fatalf("第 1 页水平线位置应为 %v, got %v", want, got)
	}
	if got, want := ruleRows(pages[1].Ops), []float64{1.5, 14.5, 27.5}; !slices.Equal(got, want) {
		t.Fatalf("第 2 页水平线位置应为 %v, got %v", want, got)
	}
	for i, p := range pages {
		if got := len(ruleColumns(p.Ops)); got != 3 {
			t.Fatalf("第 %d 页应有 3 条竖线, got %d", i+1, got)
		}
	}
}

func TestExactThreePages(t *testing.T) {
	var turns []int
	opts := testOptions(3)
	opts.OnPageTurn = func(p int) { turns = append(turns, p) }
	d, rec := newDriver(t, opts)
	if err := d.Submit(context.Background(), &item.TableItem{Table: grid(1, 9)}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("正好 3 页高度时提交过程中应翻页 2 次, got %v", turns)
	}
	if g := d.Geometry(); g.Y != 3*line || g.Page != 3 {
		t.Fatalf("第 3 页应已写满: %+v", g)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(turns) != 3 || turns[2] != 3 || len(rec.Pages()) != 3 {
		t.Fatalf("关闭时应输出第 3 页, turns=%v pages=%d", turns, len(rec.Pages()))
	}
	if g := d.Geometry(); g.Y != 0 {
		t.Fatalf("翻页后游标应归零: %+v", g)
	}
}

func TestThreePageTurns(t *testing.T) {
	var turns []int
	opts := testOptions(3)
	opts.OnPageTurn = func(p int) { turns = append(turns, p) }
	d, rec := newDriver(t, opts)
	if err := d.Submit(context.Background(), &item.TableItem{Table: grid(1, 10)}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(turns) != 3 || turns[2] != 3 {
		t.Fatalf("3 页高度加余数应翻页 3 次, got %v", turns)
	}
	if g := d.Geometry(); g.Y != line || g.Page != 4 {
		t.Fatalf("余数应留在第 4 页顶部: %+v", g)
	}
	if len(rec.Pending()) != 1 {
		t.Fatalf("余下的一行应在当前页, got %d 条指令", len(rec.Pending()))
	}
}

func TestEjectPage(t *testing.T) {
	d, rec := newDriver(t, testOptions(3))
	ctx := context.Background()
	if err := d.Submit(ctx, &item.TextItem{Kind: item.TextEjectPage}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(rec.Pages()) != 0 {
		t.Fatalf("空白页顶部换页不应产生页面")
	}
	_ = d.Submit(ctx, &item.TextItem{Text: "hello"})
	_ = d.Submit(ctx, &item.TextItem{Kind: item.TextEjectPage})
	if len(rec.Pages()) != 1 || d.Geometry().Y != 0 {
		t.Fatalf("有内容时换页应结束当前页: pages=%d y=%d", len(rec.Pages()), d.Geometry().Y)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(rec.Pages()) != 1 {
		t.Fatalf("关闭时不应输出空页, got %d", len(rec.Pages()))
	}
}

func TestBlankLineAndCommandClose(t *testing.T) {
	d, _ := newDriver(t, testOptions(5))
	ctx := context.Background()
	_ = d.Submit(ctx, &item.TextItem{Kind: item.TextBlankLine})
	if d.Geometry().Y != 0 {
		t.Fatalf("页顶空行不应移动游标")
	}
	_ = d.Submit(ctx, &item.TextItem{Text: "a"})
	_ = d.Submit(ctx, &item.TextItem{Kind: item.TextBlankLine})
	_ = d.Submit(ctx, &item.TextItem{Kind: item.TextCommandClose})
	if got := d.Geometry().Y; got != 2*line {
		t.Fatalf("空行应前进一个字高, y=%d", got)
	}
}

func TestCaptionOnlyOnFirstPage(t *testing.T) {
	d, rec := newDriver(t, testOptions(3))
	tbl := layout.NewTable(1, 5)
	for r := 0; r < 5; r++ {
		_ = tbl.SetCell(0, r, layout.Cell{Text: "row"})
	}
	if err := d.Submit(context.Background(), &item.TableItem{Table: tbl, Caption: "Cap"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_ = d.Close()
	first := strings.Join(rec.Texts(0), ",")
	second := strings.Join(rec.Texts(1), ",")
	if first != "Cap,row,row" {
		t.Fatalf("第 1 页应为标题加两行, got %q", first)
	}
	if second != "row,row,row" {
		t.Fatalf("第 2 页不应重复标题, got %q", second)
	}
}

func TestOversizedContent(t *testing.T) {
	tall := layout.NewTable(1, 1)
	_ = tall.SetCell(0, 0, layout.Cell{Text: "a\nb\nc\nd"})

	d, rec := newDriver(t, testOptions(3))
	if err := d.Submit(context.Background(), &item.TableItem{Table: tall}); err != nil {
		t.Fatalf("默认模式应降级输出, got %v", err)
	}
	if d.Stats().Oversized != 1 {
		t.Fatalf("应记录 1 次超尺寸, got %+v", d.Stats())
	}
	_ = d.Close()
	if len(rec.Pages()) != 1 {
		t.Fatalf("超尺寸内容应输出在一页上, got %d", len(rec.Pages()))
	}

	opts := testOptions(3)
	opts.StrictSizing = true
	strict, _ := newDriver(t, opts)
	err := strict.Submit(context.Background(), &item.TableItem{Table: tall})
	if !errors.Is(err, renderer.ErrContentTooLarge) {
		t.Fatalf("严格模式应返回 ErrContentTooLarge, got %v", err)
	}
}

func TestHeadersAndTitle(t *testing.T) {
	opts := testOptions(3)
	opts.Headers = true
	opts.Top = 3 * line
	d, rec := newDriver(t, opts)
	ctx := context.Background()
	_ = d.Submit(ctx, &item.TextItem{Kind: item.TextTitle, Text: "Report"})
	_ = d.Submit(ctx, &item.TextItem{Kind: item.TextSubtitle, Text: "Draft"})
	_ = d.Submit(ctx, &item.TextItem{Text: "body"})
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	texts := strings.Join(rec.Texts(0), "|")
	for _, want := range []string{"body", "Report", "Draft", "2024-01-02 03:04 - Page 1", "paginate 1.0 - test"} {
		if !strings.Contains(texts, want) {
			t.Fatalf("第 1 页缺少 %q: %s", want, texts)
		}
	}
}

func TestChartTakesWholePage(t *testing.T) {
	d, rec := newDriver(t, testOptions(3))
	ctx := context.Background()
	_ = d.Submit(ctx, &item.TextItem{Text: "before"})
	ch := &chart.Chart{Kind: "barchart", Title: "Sales", Labels: []string{"a", "b"}, Values: []float64{1, 2}}
	if err := d.Submit(ctx, &item.ChartItem{Chart: ch}); err != nil {
		t.Fatalf("Submit chart: %v", err)
	}
	if len(rec.Pages()) != 2 || !d.Geometry().Fresh() {
		t.Fatalf("图表前后都应翻页, pages=%d", len(rec.Pages()))
	}
	if !strings.Contains(strings.Join(rec.Texts(1), ","), "Sales") {
		t.Fatalf("第 2 页应为图表: %v", rec.Texts(1))
	}
	err := d.Submit(ctx, &item.ChartItem{Chart: &chart.Chart{Kind: "unknown"}})
	if err == nil || len(rec.Pages()) != 3 {
		t.Fatalf("未知图表应报错且仍占一页, err=%v pages=%d", err, len(rec.Pages()))
	}
}

func TestSurfaceErrors(t *testing.T) {
	rec := record.New(mono.New(10))
	rec.FailOn = 1
	d, err := renderer.NewDriver(rec, testOptions(3))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	_ = d.Submit(context.Background(), &item.TextItem{Text: "x"})
	if err := d.Close(); !errors.Is(err, renderer.ErrSurface) {
		t.Fatalf("输出失败应返回 ErrSurface, got %v", err)
	}
	if err := d.Submit(context.Background(), &item.TextItem{Text: "y"}); err == nil {
		t.Fatalf("关闭后提交应返回错误")
	}
}

func TestSubmitHonoursContext(t *testing.T) {
	d, rec := newDriver(t, testOptions(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Submit(ctx, &item.TableItem{Table: grid(1, 2)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("应返回 context.Canceled, got %v", err)
	}
	if len(rec.Pending()) != 0 {
		t.Fatalf("取消后不应绘制任何内容")
	}
}

func TestTablesSeparatedByFontHeight(t *testing.T) {
	d, _ := newDriver(t, testOptions(10))
	ctx := context.Background()
	_ = d.Submit(ctx, &item.TableItem{Table: grid(1, 2)})
	_ = d.Submit(ctx, &item.TableItem{Table: grid(1, 2)})
	if got := d.Geometry().Y; got != 5*line {
		t.Fatalf("两张表格之间应空一个字高, y=%d", got)
	}
}

func TestRenderingMeasure(t *testing.T) {
	rec := record.New(mono.New(10))
	opts := testOptions(3)
	r, err := renderer.NewRendering(rec, opts, &item.TableItem{Table: grid(2, 3)})
	if err != nil {
		t.Fatalf("NewRendering: %v", err)
	}
	if w, h := r.Measure(); w != 10 || h != 30 {
		t.Fatalf("尺寸应为 10x30, got %dx%d", w, h)
	}
	if err := r.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(rec.Pending()) != 6 {
		t.Fatalf("应绘制 6 个单元格, got %d", len(rec.Pending()))
	}
	c, _ := renderer.NewRendering(rec, opts, &item.ChartItem{Chart: &chart.Chart{Kind: "piechart"}})
	if w, h := c.Measure(); w != renderer.ChartWidth || h != renderer.ChartHeight {
		t.Fatalf("图表尺寸固定, got %dx%d", w, h)
	}
	if none, err := renderer.NewRendering(rec, opts, &item.TextItem{Kind: item.TextTitle}); none != nil || err != nil {
		t.Fatalf("标题没有可视内容")
	}
}
