// Package script 解释输出脚本：把 dsl 语法树连同绑定数据展开成按顺序提交的条目。
package script

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ByLCY/paginate/binding"
	"github.com/ByLCY/paginate/dsl"
	"github.com/ByLCY/paginate/item"
)

// Meta 为文档元数据，写入 PDF 信息字典。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Author   string   `json:"author,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Setting 为 setup 段中的一条选项覆盖。
type Setting struct {
	Key   string
	Value string
}

// Script 是解释后的脚本。
type Script struct {
	Name    string
	Version string
	Meta    Meta
	// Setup 按出现顺序保存。
	Setup []Setting
	Items []item.Item
}

// Setter 接收 setup 段中的选项，config.Options 实现了该接口。
type Setter interface {
	Set(key, value string) error
}

// Configure 把 setup 段依次应用到 dst。
func (s *Script) Configure(dst Setter) error {
	for _, st := range s.Setup {
		if err := dst.Set(st.Key, st.Value); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}
	return nil
}

// LoadFile 解析并解释 path 处的脚本。
func LoadFile(path string, data any) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开脚本 %s: %w", path, err)
	}
	defer f.Close()
	return Load(path, f, data)
}

// Load 从 r 解析并解释脚本，name 用于错误信息。
func Load(name string, r io.Reader, data any) (*Script, error) {
	doc, err := dsl.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败: %w", err)
	}
	return Interpret(doc, data)
}

// Interpret 展开语法树。data 为 ${...} 占位符与 rows 循环的数据源，可为 nil。
func Interpret(doc *dsl.Document, data any) (*Script, error) {
	if doc == nil {
		return nil, fmt.Errorf("脚本为空")
	}
	s := &Script{Name: doc.Name, Version: doc.Version}
	for _, sec := range doc.Sections {
		var err error
		switch {
		case sec.Meta != nil:
			err = s.meta(sec.Meta.Entries, data)
		case sec.Setup != nil:
			s.setup(sec.Setup.Entries, data)
		case sec.Body != nil:
			err = s.body(sec.Body.Items, data)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Script) meta(entries []*dsl.Assignment, data any) error {
	for _, a := range entries {
		switch a.Key {
		case "title":
			s.Meta.Title = valueString(a.Value, data)
		case "subject":
			s.Meta.Subject = valueString(a.Value, data)
		case "author":
			s.Meta.Author = valueString(a.Value, data)
		case "creator":
			s.Meta.Creator = valueString(a.Value, data)
		case "keywords":
			if a.Value.Array != nil {
				for _, v := range a.Value.Array.Values {
					s.Meta.Keywords = append(s.Meta.Keywords, valueString(v, data))
				}
			} else {
				s.Meta.Keywords = append(s.Meta.Keywords, valueString(a.Value, data))
			}
		default:
			return fmt.Errorf("%s: meta: 未知的键 %q", a.Pos, a.Key)
		}
	}
	return nil
}

func (s *Script) setup(entries []*dsl.Assignment, data any) {
	for _, a := range entries {
		s.Setup = append(s.Setup, Setting{Key: a.Key, Value: valueString(a.Value, data)})
	}
}

func (s *Script) body(items []*dsl.BodyItem, data any) error {
	for _, bi := range items {
		var (
			it  item.Item
			err error
		)
		switch {
		case bi.Table != nil:
			it, err = tableItem(bi.Table, data)
		case bi.Chart != nil:
			it, err = chartItem(bi.Chart, data)
		case bi.Text != nil:
			it, err = textItem(bi.Text, data)
		case bi.Paragraph != nil:
			it = &item.TextItem{Kind: item.TextPlain, Text: interpolate(bi.Paragraph, data)}
		}
		if err != nil {
			return err
		}
		s.Items = append(s.Items, it)
	}
	return nil
}

var textKinds = map[string]item.TextKind{
	"":         item.TextPlain,
	"plain":    item.TextPlain,
	"title":    item.TextTitle,
	"subtitle": item.TextSubtitle,
	"blank":    item.TextBlankLine,
	"eject":    item.TextEjectPage,
	"close":    item.TextCommandClose,
	"syntax":   item.TextSyntax,
}

// textItem 把同一行的字符串以空格连接，块内的字符串以换行连接。
func textItem(t *dsl.Text, data any) (item.Item, error) {
	kind, ok := textKinds[t.Kind]
	if !ok {
		return nil, fmt.Errorf("%s: 未知的文本类型 %q", t.Pos, t.Kind)
	}
	return &item.TextItem{Kind: kind, Text: joinText(t.Words, t.Lines, data)}, nil
}

func joinText(words, lines []*dsl.TextLiteral, data any) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, interpolate(w, data))
	}
	text := strings.Join(parts, " ")
	for i, l := range lines {
		if i > 0 || text != "" {
			text += "\n"
		}
		text += interpolate(l, data)
	}
	return text
}

func interpolate(l *dsl.TextLiteral, data any) string {
	return binding.Interpolate(string(l.Value), data)
}

// valueString 把赋值右侧转换为字符串：字符串会做数据绑定，路径按数据取值，
// 取不到时保留原文（例如 false、letter）。
func valueString(v *dsl.Value, data any) string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return binding.Interpolate(string(*v.String), data)
	case v.Number != nil:
		return *v.Number
	case v.Path != nil:
		src := v.Path.String()
		if val, ok := binding.Lookup(data, src); ok {
			return binding.Format(val)
		}
		return src
	case v.Array != nil:
		parts := make([]string, 0, len(v.Array.Values))
		for _, e := range v.Array.Values {
			parts = append(parts, valueString(e, data))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
