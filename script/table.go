package script

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/paginate/binding"
	"github.com/ByLCY/paginate/dsl"
	"github.com/ByLCY/paginate/item"
	"github.com/ByLCY/paginate/layout"
)

type rowSpec struct {
	cells       []layout.Cell
	top, bottom layout.BorderStyle
}

// tableItem 展开 table 语句：
//
//	table caption "..." border single {
//	    row border-top double { cell right "..."; cell colspan 2 "..." }
//	    rows data.items as it { row { cell "${it.name}" } }
//	}
//
// 单元格按行依次放入第一个空位，列数由最宽的一行决定。
func tableItem(t *dsl.Table, data any) (item.Item, error) {
	ti := &item.TableItem{}
	var outline, inner layout.BorderStyle
	for _, o := range t.Options {
		var err error
		switch {
		case o.Caption != nil:
			ti.Caption = binding.Interpolate(string(*o.Caption), data)
		case o.Border != nil:
			outline, err = borderStyle(o.Pos, *o.Border)
			inner = outline
		case o.Frame != nil:
			outline, err = borderStyle(o.Pos, *o.Frame)
		case o.Grid != nil:
			inner, err = borderStyle(o.Pos, *o.Grid)
		}
		if err != nil {
			return nil, err
		}
	}
	rows, err := collectRows(t.Rows, data)
	if err != nil {
		return nil, err
	}
	tbl, err := buildTable(rows, outline, inner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Pos, err)
	}
	ti.Table = tbl
	return ti, nil
}

func borderStyle(pos lexer.Position, name string) (layout.BorderStyle, error) {
	s, err := layout.ParseBorderStyle(name)
	if err != nil {
		return layout.BorderNone, fmt.Errorf("%s: %w", pos, err)
	}
	return s, nil
}

func collectRows(entries []*dsl.RowEntry, data any) ([]rowSpec, error) {
	var rows []rowSpec
	for _, e := range entries {
		switch {
		case e.Row != nil:
			row, err := rowSpecOf(e.Row, data)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		case e.Repeat != nil:
			more, err := repeatRows(e.Repeat, data)
			if err != nil {
				return nil, err
			}
			rows = append(rows, more...)
		}
	}
	return rows, nil
}

// repeatRows 对 "rows <路径> as <名称> { ... }" 中数组的每个元素展开一次块内的行。
func repeatRows(r *dsl.Repeat, data any) ([]rowSpec, error) {
	path := r.Path.String()
	val, ok := binding.Lookup(data, path)
	if !ok {
		return nil, fmt.Errorf("%s: 数据中不存在 %q", r.Pos, path)
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %q 不是数组", r.Pos, path)
	}
	var rows []rowSpec
	for _, elem := range list {
		more, err := collectRows(r.Rows, binding.With(data, r.Name, elem))
		if err != nil {
			return nil, err
		}
		rows = append(rows, more...)
	}
	return rows, nil
}

func rowSpecOf(r *dsl.Row, data any) (rowSpec, error) {
	var row rowSpec
	for _, o := range r.Options {
		var err error
		switch {
		case o.Top != nil:
			row.top, err = borderStyle(o.Pos, *o.Top)
		case o.Bottom != nil:
			row.bottom, err = borderStyle(o.Pos, *o.Bottom)
		}
		if err != nil {
			return row, err
		}
	}
	for _, e := range r.Cells {
		if e.Text != nil {
			row.cells = append(row.cells, layout.Cell{Text: interpolate(e.Text, data)})
			continue
		}
		c, err := cellOf(e.Cell, data)
		if err != nil {
			return row, err
		}
		row.cells = append(row.cells, c)
	}
	return row, nil
}

func cellOf(dc *dsl.Cell, data any) (layout.Cell, error) {
	var (
		c     layout.Cell
		words []*dsl.TextLiteral
	)
	for _, o := range dc.Options {
		var err error
		switch {
		case o.Text != nil:
			words = append(words, &dsl.TextLiteral{Pos: o.Pos, Value: *o.Text})
		case o.Align != "":
			c.Align = alignments[o.Align]
		case o.Font != "":
			c.Font = cellFonts[o.Font]
		case o.ColSpan != nil:
			c.Span[layout.H], err = spanCount(o.Pos, *o.ColSpan)
		case o.RowSpan != nil:
			c.Span[layout.V], err = spanCount(o.Pos, *o.RowSpan)
		case o.Border != nil:
			var s layout.BorderStyle
			s, err = borderStyle(o.Pos, *o.Border)
			c.Borders = layout.Borders{Top: s, Bottom: s, Left: s, Right: s}
		case o.BorderTop != nil:
			c.Borders.Top, err = borderStyle(o.Pos, *o.BorderTop)
		case o.BorderBottom != nil:
			c.Borders.Bottom, err = borderStyle(o.Pos, *o.BorderBottom)
		case o.BorderLeft != nil:
			c.Borders.Left, err = borderStyle(o.Pos, *o.BorderLeft)
		case o.BorderRight != nil:
			c.Borders.Right, err = borderStyle(o.Pos, *o.BorderRight)
		}
		if err != nil {
			return c, err
		}
	}
	c.Text = joinText(words, dc.Lines, data)
	return c, nil
}

var alignments = map[string]layout.Alignment{
	"left":   layout.AlignLeft,
	"right":  layout.AlignRight,
	"center": layout.AlignCenter,
}

var cellFonts = map[string]layout.FontVariant{
	"prop":  layout.FontProportional,
	"emph":  layout.FontEmphasis,
	"fixed": layout.FontFixed,
}

func spanCount(pos lexer.Position, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%s: 跨越数必须为正整数，实际为 %d", pos, n)
	}
	return n, nil
}

// buildTable 按 HTML 表格的规则摆放单元格：每个单元格放在本行第一个未被
// 上方跨行单元格占据的位置。表格与行的边框先画，单元格自带的边框再与之合并。
func buildTable(rows []rowSpec, outline, inner layout.BorderStyle) (*layout.Table, error) {
	type placed struct {
		c, r int
		cell layout.Cell
	}
	taken := map[[2]int]bool{}
	var cells []placed
	nc := 0
	for r, row := range rows {
		c := 0
		for _, cell := range row.cells {
			for taken[[2]int{c, r}] {
				c++
			}
			cs, rs := max(cell.Span[layout.H], 1), max(cell.Span[layout.V], 1)
			if r+rs > len(rows) {
				return nil, fmt.Errorf("第 %d 行的单元格跨越 %d 行，超出表格的 %d 行", r+1, rs, len(rows))
			}
			for y := r; y < r+rs; y++ {
				for x := c; x < c+cs; x++ {
					taken[[2]int{x, y}] = true
				}
			}
			cells = append(cells, placed{c: c, r: r, cell: cell})
			c += cs
			nc = max(nc, c)
		}
	}
	for pos := range taken {
		nc = max(nc, pos[0]+1)
	}
	t := layout.NewTable(nc, len(rows))
	if nc > 0 && len(rows) > 0 {
		t.Box(outline, inner, 0, 0, nc-1, len(rows)-1)
	}
	for r, row := range rows {
		if row.top != layout.BorderNone {
			t.HLine(row.top, 0, nc-1, r)
		}
		if row.bottom != layout.BorderNone {
			t.HLine(row.bottom, 0, nc-1, r+1)
		}
	}
	for _, p := range cells {
		if err := t.SetCell(p.c, p.r, p.cell); err != nil {
			return nil, err
		}
	}
	return t, nil
}
