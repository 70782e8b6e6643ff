// Package item 定义提交给渲染器的输出条目：表格、图表与文本。
package item

import (
	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/layout"
)

// Item 为可提交的输出条目，只有本包中的类型实现该接口。
type Item interface {
	isItem()
}

// TableItem 是一张带可选标题的表格。
type TableItem struct {
	Table   *layout.Table
	Caption string
}

// ChartItem 是一张图表，始终独占一页。
type ChartItem struct {
	Chart *chart.Chart
}

// TextKind 区分文本条目的语义。
type TextKind int

const (
	TextPlain        TextKind = iota // 普通段落，包装成单元格表格输出
	TextTitle                        // 设置页眉标题
	TextSubtitle                     // 设置页眉副标题
	TextBlankLine                    // 空一行
	TextEjectPage                    // 强制换页
	TextCommandClose                 // 命令结束标记，不产生输出
	TextSyntax                       // 回显的命令文本
)

func (k TextKind) String() string {
	switch k {
	case TextTitle:
		return "title"
	case TextSubtitle:
		return "subtitle"
	case TextBlankLine:
		return "blank"
	case TextEjectPage:
		return "eject"
	case TextCommandClose:
		return "close"
	case TextSyntax:
		return "syntax"
	default:
		return "plain"
	}
}

// TextItem 是一段文本或文本类控制指令。
type TextItem struct {
	Kind TextKind
	Text string
}

func (*TableItem) isItem() {}
func (*ChartItem) isItem() {}
func (*TextItem) isItem()  {}
