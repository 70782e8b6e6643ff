package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/paginate/dsl"
)

const sampleScript = `
doc Report v1 {
  meta {
    title: "Quarterly"
    keywords: [
      "finance"
      "internal"
    ]
  }

  setup {
    paper-size: "letter"
    headers: false
  }

  body {
    title "Quarterly report"
    table caption "Sales by region" border single {
      row { cell "Region"; cell right "Total" }
      rows data.regions as r {
        row { cell "${r.name}"; cell right "${r.total}" }
      }
      row border-top double { cell colspan 2 center "Sum" }
    }
    "Free paragraph"
    blank
    chart piechart "Share" {
      labels: ["North", "South"]
      values: data.shares
    }
  }
}
`

func TestParseScript(t *testing.T) {
	doc, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if doc.Name != "Report" || doc.Version != "v1" {
		t.Fatalf("文档头解析错误: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("期望 3 个段落，实际 %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,setup,body" {
		t.Fatalf("段落类型错误: %v", kinds)
	}

	meta := doc.Sections[0].Meta.Entries
	if meta[0].Key != "title" || string(*meta[0].Value.String) != "Quarterly" {
		t.Fatalf("title 赋值解析错误: %+v", meta[0])
	}
	if meta[1].Value.Array == nil || len(meta[1].Value.Array.Values) != 2 {
		t.Fatalf("keywords 应为 2 个元素的数组: %+v", meta[1])
	}

	setup := doc.Sections[1].Setup.Entries
	if len(setup) != 2 {
		t.Fatalf("setup 应有 2 条赋值，实际 %d", len(setup))
	}
	if setup[1].Key != "headers" || setup[1].Value.Path == nil || setup[1].Value.Path.String() != "false" {
		t.Fatalf("headers 赋值解析错误: %+v", setup[1])
	}

	body := doc.Sections[2].Body.Items
	if len(body) != 5 {
		t.Fatalf("body 应有 5 个条目，实际 %d", len(body))
	}
	if title := body[0].Text; title == nil || title.Kind != "title" || string(title.Words[0].Value) != "Quarterly report" {
		t.Fatalf("title 解析错误: %+v", body[0])
	}

	table := body[1].Table
	if table == nil || len(table.Options) != 2 {
		t.Fatalf("table 解析错误: %+v", table)
	}
	if c := table.Options[0].Caption; c == nil || string(*c) != "Sales by region" {
		t.Fatalf("caption 解析错误: %+v", table.Options[0])
	}
	if b := table.Options[1].Border; b == nil || *b != "single" {
		t.Fatalf("border 解析错误: %+v", table.Options[1])
	}
	if len(table.Rows) != 3 {
		t.Fatalf("table 应有 3 条行语句，实际 %d", len(table.Rows))
	}
	first := table.Rows[0].Row
	if first == nil || len(first.Cells) != 2 {
		t.Fatalf("第一行应有 2 个单元格: %+v", first)
	}
	total := first.Cells[1].Cell
	if total.Options[0].Align != "right" || string(*total.Options[1].Text) != "Total" {
		t.Fatalf("cell 选项解析错误: %+v", total.Options)
	}
	repeat := table.Rows[1].Repeat
	if repeat == nil || repeat.Path.String() != "data.regions" || repeat.Name != "r" || len(repeat.Rows) != 1 {
		t.Fatalf("rows 解析错误: %+v", repeat)
	}
	last := table.Rows[2].Row
	if top := last.Options[0].Top; top == nil || *top != "double" {
		t.Fatalf("row 选项解析错误: %+v", last.Options)
	}
	sum := last.Cells[0].Cell
	if span := sum.Options[0].ColSpan; span == nil || *span != 2 || sum.Options[1].Align != "center" {
		t.Fatalf("合并单元格选项解析错误: %+v", sum.Options)
	}

	if p := body[2].Paragraph; p == nil || string(p.Value) != "Free paragraph" {
		t.Fatalf("裸字符串应解析为正文: %+v", body[2])
	}
	if blank := body[3].Text; blank == nil || blank.Kind != "blank" || len(blank.Words) != 0 {
		t.Fatalf("blank 解析错误: %+v", body[3])
	}

	chart := body[4].Chart
	if chart == nil || chart.Kind != "piechart" || string(*chart.Title) != "Share" {
		t.Fatalf("chart 解析错误: %+v", chart)
	}
	if labels := chart.Entries[0].Value.Array; labels == nil || len(labels.Values) != 2 {
		t.Fatalf("labels 应为数组: %+v", chart.Entries[0])
	}
	if values := chart.Entries[1].Value.Path; values == nil || values.String() != "data.shares" {
		t.Fatalf("values 应为数据路径: %+v", chart.Entries[1])
	}
}

func TestParseIndexedPath(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 {
  setup { font-size: data.sizes[1] }
}`)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	v := doc.Sections[0].Setup.Entries[0].Value
	if v.Path == nil || v.Path.String() != "data.sizes[1]" {
		t.Fatalf("下标路径解析错误: %+v", v)
	}
}

func TestParseRejectsUnknownStatements(t *testing.T) {
	cases := map[string]string{
		"unknown command":  `doc T v1 { body { frobnicate } }`,
		"inline object":    `doc T v1 { meta { title: { a: "b" } } }`,
		"command in meta":  `doc T v1 { meta { title "x" } }`,
		"cell outside row": `doc T v1 { body { table { cell "x" } } }`,
		"word colspan":     `doc T v1 { body { table { row { cell colspan two "x" } } } }`,
	}
	for name, src := range cases {
		if _, err := dsl.Parse(name+".pgn", strings.NewReader(src)); err == nil {
			t.Fatalf("%s: 应解析失败", name)
		} else if !strings.Contains(err.Error(), name+".pgn:1:") {
			t.Fatalf("%s: 错误信息应包含位置: %v", name, err)
		}
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := dsl.Parse("broken.pgn", strings.NewReader("doc X v1 {\n  body {\n"))
	if err == nil {
		t.Fatal("缺少右括号应解析失败")
	}
	if !strings.Contains(err.Error(), "broken.pgn") {
		t.Fatalf("错误信息应包含文件名: %v", err)
	}
}
