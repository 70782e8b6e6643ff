package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		// 连续的空行（含缩进）合并为一个换行词元。
		{Name: "Newline", Pattern: `\n(?:[ \t\r]*\n)*`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][.;:,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是输出脚本的根节点：doc <名称> <版本> { 段落... }。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 为顶层段落：meta（文档元数据）、setup（输出选项）或 body（输出条目）。
type Section struct {
	Meta  *MetaSection  `parser:"  @@"`
	Setup *SetupSection `parser:"| @@"`
	Body  *BodySection  `parser:"| @@"`
}

// Kind 返回段落类型名称。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Setup != nil:
		return "setup"
	case s.Body != nil:
		return "body"
	default:
		return "unknown"
	}
}

// 块内语句之间以换行或分号分隔，左花括号必须与所属语句在同一行。

// MetaSection 记录标题、作者等元数据赋值。
type MetaSection struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// SetupSection 中的赋值覆盖配置文件中的同名选项（paper-size、headers 等）。
type SetupSection struct {
	Entries []*Assignment `parser:"'setup' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// BodySection 按顺序列出要输出的条目。
type BodySection struct {
	Items []*BodyItem `parser:"'body' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// BodyItem 为 body 中的一个条目。裸字符串等同于一段正文。
type BodyItem struct {
	Table     *Table       `parser:"  @@"`
	Chart     *Chart       `parser:"| @@"`
	Text      *Text        `parser:"| @@"`
	Paragraph *TextLiteral `parser:"| @@"`
}

// Table 对应 table [选项...] { 行... }。
type Table struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Options []*TableOption `parser:"'table' @@*"`
	Rows    []*RowEntry    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// TableOption：border 同时设置外框与内部分隔线，frame 只设外框，grid 只设内部。
type TableOption struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Caption *StringLiteral `parser:"  'caption' @String"`
	Border  *string        `parser:"| 'border' @Ident"`
	Frame   *string        `parser:"| 'frame' @Ident"`
	Grid    *string        `parser:"| 'grid' @Ident"`
}

// RowEntry 为表格中的一行或一组按数据展开的行。
type RowEntry struct {
	Row    *Row    `parser:"  @@"`
	Repeat *Repeat `parser:"| @@"`
}

// Row 对应 row [border-top 样式] [border-bottom 样式] { 单元格... }。
type Row struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Options []*RowOption   `parser:"'row' @@*"`
	Cells   []*CellEntry   `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

type RowOption struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Top    *string        `parser:"  'border-top' @Ident"`
	Bottom *string        `parser:"| 'border-bottom' @Ident"`
}

// Repeat 对应 rows <路径> as <名称> { 行... }，对数组中的每个元素展开一次。
type Repeat struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Path *Path          `parser:"'rows' @@"`
	Name string         `parser:"'as' @Ident"`
	Rows []*RowEntry    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// CellEntry 为一个单元格：cell 语句或裸字符串。
type CellEntry struct {
	Cell *Cell        `parser:"  @@"`
	Text *TextLiteral `parser:"| @@"`
}

// Cell 对应 cell [选项...] ["文本"...] [{ "多行文本" ... }]。
type Cell struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Options []*CellOption  `parser:"'cell' @@*"`
	Lines   []*TextLiteral `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// CellOption 为单元格的一个选项或一段文本。
type CellOption struct {
	Pos          lexer.Position `parser:"" json:"-"`
	Text         *StringLiteral `parser:"  @String"`
	Align        string         `parser:"| @( 'left' | 'right' | 'center' )"`
	Font         string         `parser:"| @( 'prop' | 'emph' | 'fixed' )"`
	ColSpan      *int           `parser:"| 'colspan' @Number"`
	RowSpan      *int           `parser:"| 'rowspan' @Number"`
	Border       *string        `parser:"| 'border' @Ident"`
	BorderTop    *string        `parser:"| 'border-top' @Ident"`
	BorderBottom *string        `parser:"| 'border-bottom' @Ident"`
	BorderLeft   *string        `parser:"| 'border-left' @Ident"`
	BorderRight  *string        `parser:"| 'border-right' @Ident"`
}

// Chart 对应 chart <类型> ["标题"] { labels: ... values: ... }。
type Chart struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Kind    string         `parser:"'chart' @Ident"`
	Title   *StringLiteral `parser:"@String?"`
	Entries []*Assignment  `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// Text 对应 text [类型] "..." 或直接以类型开头的 title、subtitle、blank、eject、close、syntax。
type Text struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"( 'text' @Ident? | @( 'title' | 'subtitle' | 'blank' | 'eject' | 'close' | 'syntax' ) )"`
	Words []*TextLiteral `parser:"@@*"`
	Lines []*TextLiteral `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// TextLiteral 为一个字符串字面量。
type TextLiteral struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value StringLiteral  `parser:"@String"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':' Newline*"`
	Value *Value         `parser:"@@"`
}

// Value 为赋值右侧的取值。不加引号的单词按数据路径解析，例如 data.items、false。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Array  *ArrayValue    `parser:"| @@"`
	Path   *Path          `parser:"| @@"`
}

// ArrayValue 对应 `[ ... ]`，元素以逗号、分号或换行分隔。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( ( ',' | ';' | Newline ) Newline* @@ )* )? Newline* ']'"`
}

// Path 为数据路径：名称后接 .字段 或 [下标]。
type Path struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Head  string         `parser:"@Ident"`
	Steps []*PathStep    `parser:"@@*"`
}

type PathStep struct {
	Field *string `parser:"  '.' @Ident"`
	Index *int    `parser:"| '[' @Number ']'"`
}

// String 把路径拼回原文，例如 "data.items[0]"。
func (p *Path) String() string {
	var b strings.Builder
	b.WriteString(p.Head)
	for _, s := range p.Steps {
		switch {
		case s.Field != nil:
			b.WriteString(".")
			b.WriteString(*s.Field)
		case s.Index != nil:
			fmt.Fprintf(&b, "[%d]", *s.Index)
		}
	}
	return b.String()
}

// StringLiteral 在捕获时按 Go 语法去掉引号。
type StringLiteral string

func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量缺少取值")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 r 解析脚本，name 用于错误信息中的位置。
func Parse(name string, r io.Reader) (*Document, error) {
	return documentParser.Parse(name, r)
}

// ParseString 从字符串解析脚本。
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
