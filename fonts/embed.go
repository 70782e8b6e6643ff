// Package fonts 提供内置字体数据以及字体描述（如 "serif italic 10"）的解析。
package fonts

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// builtin 按名称索引的内置字体。
var builtin = map[string][]byte{
	"goregular":        goregular.TTF,
	"goitalic":         goitalic.TTF,
	"gobold":           gobold.TTF,
	"gobolditalic":     gobolditalic.TTF,
	"gomono":           gomono.TTF,
	"gomonoitalic":     gomonoitalic.TTF,
	"gomonobold":       gomonobold.TTF,
	"gomonobolditalic": gomonobolditalic.TTF,
}

// Spec 描述一种字体：族名或字体文件、字形与字号（pt）。
type Spec struct {
	Family string  `yaml:"family" json:"family"`
	Path   string  `yaml:"path,omitempty" json:"path,omitempty"`
	Italic bool    `yaml:"italic,omitempty" json:"italic,omitempty"`
	Bold   bool    `yaml:"bold,omitempty" json:"bold,omitempty"`
	Size   float64 `yaml:"size,omitempty" json:"size,omitempty"`
}

// ParseSpec 解析形如 "serif italic 10"、"monospace"、"./fonts/a.ttf 9" 的字体描述。
// 未给出字号时使用 defaultSize。
func ParseSpec(desc string, defaultSize float64) (Spec, error) {
	spec := Spec{Size: defaultSize}
	var family []string
	for _, word := range strings.Fields(desc) {
		lower := strings.ToLower(word)
		switch {
		case lower == "italic" || lower == "oblique":
			spec.Italic = true
		case lower == "bold":
			spec.Bold = true
		case lower == "normal" || lower == "regular" || lower == "roman":
		case isPath(word):
			spec.Path = word
		default:
			if size, err := strconv.ParseFloat(word, 64); err == nil {
				if size <= 0 {
					return Spec{}, fmt.Errorf("字体 %q 的字号必须为正数", desc)
				}
				spec.Size = size
				continue
			}
			family = append(family, word)
		}
	}
	spec.Family = strings.Join(family, " ")
	if spec.Family == "" && spec.Path == "" {
		return Spec{}, fmt.Errorf("字体描述 %q 缺少族名", desc)
	}
	return spec, nil
}

func isPath(word string) bool {
	lower := strings.ToLower(word)
	return strings.ContainsRune(word, '/') || strings.HasSuffix(lower, ".ttf") ||
		strings.HasSuffix(lower, ".otf") || strings.HasPrefix(lower, "embed:")
}

// String 返回可再次被 ParseSpec 解析的描述。
func (s Spec) String() string {
	parts := []string{s.Family}
	if s.Path != "" {
		parts = []string{s.Path}
	}
	if s.Bold {
		parts = append(parts, "bold")
	}
	if s.Italic {
		parts = append(parts, "italic")
	}
	if s.Size > 0 {
		parts = append(parts, strconv.FormatFloat(s.Size, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

// Monospace 报告该字体是否映射到等宽内置字体。
func (s Spec) Monospace() bool {
	switch strings.ToLower(s.Family) {
	case "monospace", "mono", "fixed", "courier", "courier new", "gomono":
		return true
	}
	return false
}

// BuiltinName 返回 Spec 对应的内置字体名称。
func (s Spec) BuiltinName() string {
	name := "go"
	if s.Monospace() {
		name = "gomono"
	}
	switch {
	case s.Bold && s.Italic:
		return name + "bolditalic"
	case s.Bold:
		return name + "bold"
	case s.Italic:
		return name + "italic"
	case name == "go":
		return "goregular"
	default:
		return name
	}
}

// Load 返回字体数据：给出 Path 时读取文件（"embed:<name>" 表示内置字体），
// 否则按族名与字形选择内置字体。
func Load(s Spec) ([]byte, error) {
	if s.Path == "" {
		return Builtin(s.BuiltinName())
	}
	if name, ok := strings.CutPrefix(s.Path, "embed:"); ok {
		return Builtin(name)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", s.Path, err)
	}
	return data, nil
}

// Builtin 返回名为 name 的内置字体数据。
func Builtin(name string) ([]byte, error) {
	data, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s", name)
	}
	return data, nil
}
