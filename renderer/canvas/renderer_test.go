package canvasrenderer

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ByLCY/paginate/fonts"
	"github.com/ByLCY/paginate/item"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
)

func testFonts() [layout.NumFonts]fonts.Spec {
	return [layout.NumFonts]fonts.Spec{
		layout.FontProportional: {Family: "serif", Size: 10},
		layout.FontEmphasis:     {Family: "serif", Italic: true, Size: 10},
		layout.FontFixed:        {Family: "monospace", Size: 10},
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func TestTextWidthAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(Options{Width: 595, Height: 842, Output: &buf, Fonts: testFonts()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := s.TextWidth(layout.FontProportional, "a")
	ab := s.TextWidth(layout.FontProportional, "ab")
	if a <= 0 || ab <= a {
		t.Fatalf("宽度应随字符增加: a=%g ab=%g", a, ab)
	}
	// 等宽字体中各字符宽度一致。
	if i, m := s.TextWidth(layout.FontFixed, "i"), s.TextWidth(layout.FontFixed, "m"); i != m {
		t.Fatalf("等宽字体宽度不一致: i=%g m=%g", i, m)
	}
	m := s.Metrics(layout.FontProportional)
	if m.LineHeight <= 0 || m.Ascent <= 0 || m.Ascent > m.LineHeight {
		t.Fatalf("字体度量异常: %+v", m)
	}
}

func TestPDFOutput(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(Options{Width: 595, Height: 842, Output: &buf, Fonts: testFonts(), Meta: Meta{Title: "t"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	opts := renderer.Options{
		Left: 36 * layout.XRPoint, Top: 36 * layout.XRPoint,
		Width: 523 * layout.XRPoint, Length: 770 * layout.XRPoint,
		FontHeight: 10 * layout.XRPoint, LineGutter: layout.XRPoint,
		LineSpace: layout.XRPoint, LineWidth: layout.XRPoint / 2,
	}
	d, err := renderer.NewDriver(s, opts)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	tbl := layout.NewTable(2, 2)
	tbl.Box(layout.BorderSingle, layout.BorderDouble, 0, 0, 1, 1)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			_ = tbl.SetCell(c, r, layout.Cell{Text: "cell text"})
		}
	}
	if err := d.Submit(context.Background(), &item.TableItem{Table: tbl, Caption: "Caption"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
	if s.Pages() != 1 {
		t.Fatalf("应输出 1 页, got %d", s.Pages())
	}
}

func TestSVGOnePagePerFile(t *testing.T) {
	var files []*bytes.Buffer
	s, err := New(Options{
		Format: FormatSVG, Width: 200, Height: 200, Fonts: testFonts(),
		PageOutput: func(int) (io.WriteCloser, error) {
			b := &bytes.Buffer{}
			files = append(files, b)
			return nopCloser{b}, nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 2; i++ {
		s.ShowText(layout.FontProportional, 10, 10, "page")
		if err := s.ShowPage(); err != nil {
			t.Fatalf("ShowPage: %v", err)
		}
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("应输出 2 个文件, got %d", len(files))
	}
	for i, f := range files {
		if !strings.Contains(f.String(), "<svg") {
			t.Fatalf("第 %d 个文件不是 SVG", i+1)
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Width: 0, Height: 10, Output: &bytes.Buffer{}}); err == nil {
		t.Fatalf("纸张尺寸为 0 应返回错误")
	}
	if _, err := New(Options{Format: FormatSVG, Width: 10, Height: 10}); err == nil {
		t.Fatalf("SVG 缺少 PageOutput 应返回错误")
	}
	bad := testFonts()
	bad[layout.FontFixed] = fonts.Spec{Path: "/nonexistent/font.ttf"}
	if _, err := New(Options{Width: 10, Height: 10, Output: &bytes.Buffer{}, Fonts: bad}); err == nil {
		t.Fatalf("字体缺失应返回错误")
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("未知格式应返回错误")
	}
}

func TestPageFileName(t *testing.T) {
	if got := PageFileName("out.svg", 3); got != "out-3.svg" {
		t.Fatalf("got %s", got)
	}
	if got := PageFileName("page#.ps", 2); got != "page2.ps" {
		t.Fatalf("got %s", got)
	}
}
