// Package config 负责输出选项：默认值、YAML 配置文件加载，以及换算为
// 渲染器所需的页面几何（设备单位）。
//
// 长度可写作 ".5in"、"18mm"、"10pt" 或不带单位的 pt 数值。
package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/paginate/fonts"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
)

// Options 为可配置项，键名与命令行选项一致。
type Options struct {
	// OutputType 为 pdf、ps、svg 或 png。后三者每页输出一个文件。
	OutputType string `yaml:"output-type"`
	OutputFile string `yaml:"output-file"`

	// PaperSize 为纸张名称（a4、letter 等）或 "宽x高[单位]"，如 "210x297mm"。
	PaperSize    string `yaml:"paper-size"`
	LeftMargin   string `yaml:"left-margin"`
	RightMargin  string `yaml:"right-margin"`
	TopMargin    string `yaml:"top-margin"`
	BottomMargin string `yaml:"bottom-margin"`

	// Headers 控制每页顶部是否绘制页眉。
	Headers bool `yaml:"headers"`

	PropFont  string `yaml:"prop-font"`
	EmphFont  string `yaml:"emph-font"`
	FixedFont string `yaml:"fixed-font"`
	FontSize  string `yaml:"font-size"`

	LineGutter string `yaml:"line-gutter"`
	LineSpace  string `yaml:"line-space"`
	LineWidth  string `yaml:"line-width"`

	// Locale 用于页眉中的日期页码文本。
	Locale string `yaml:"locale"`
	// StrictSizing 为 true 时内容超出整页视为错误。
	StrictSizing bool `yaml:"strict-sizing"`
}

// Default 返回默认配置：A4、0.5in 边距、serif/serif italic/monospace 10pt、带页眉。
func Default() *Options {
	return &Options{
		OutputType:   "pdf",
		OutputFile:   "output.pdf",
		PaperSize:    "a4",
		LeftMargin:   ".5in",
		RightMargin:  ".5in",
		TopMargin:    ".5in",
		BottomMargin: ".5in",
		Headers:      true,
		PropFont:     "serif",
		EmphFont:     "serif italic",
		FixedFont:    "monospace",
		FontSize:     "10pt",
		LineGutter:   "1pt",
		LineSpace:    "1pt",
		LineWidth:    ".5pt",
		Locale:       "en",
	}
}

// LoadFile 在默认值之上合并 path 中的 YAML 配置。
func LoadFile(path string) (*Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return opts, nil
}

// Keys 返回全部选项的键名，顺序与结构体字段一致。
func Keys() []string {
	t := reflect.TypeOf(Options{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("yaml"); tag != "" {
			keys = append(keys, strings.Split(tag, ",")[0])
		}
	}
	return keys
}

// Set 按键名覆盖单个选项。value 按 YAML 标量解析，因此 "false"、"12pt" 与
// 配置文件中的写法一致。
func (o *Options) Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: 未知的选项 %q", renderer.ErrConfiguration, key)
	}
	node := yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: key},
		{Kind: yaml.ScalarNode, Value: value},
	}}
	if err := node.Decode(o); err != nil {
		return fmt.Errorf("%w: %s: %w", renderer.ErrConfiguration, key, err)
	}
	return nil
}

// Resolved 为换算后的输出参数。
type Resolved struct {
	Format     string
	OutputFile string
	// PaperWidth/PaperHeight 为纸张尺寸（设备单位）。
	PaperWidth  int
	PaperHeight int
	Fonts       [layout.NumFonts]fonts.Spec
	Driver      renderer.Options
}

// PaperPt 返回纸张尺寸（pt）。
func (r *Resolved) PaperPt() (float64, float64) {
	return layout.ToPt(r.PaperWidth), layout.ToPt(r.PaperHeight)
}

// Resolve 校验配置并计算内容区。页面长度不足以容纳边距、页眉以及
// renderer.MinLength 行默认字体时返回 renderer.ErrConfiguration。
func (o *Options) Resolve() (*Resolved, error) {
	res := &Resolved{Format: strings.ToLower(o.OutputType), OutputFile: o.OutputFile}
	switch res.Format {
	case "":
		res.Format = "pdf"
	case "pdf", "svg", "ps", "png":
	default:
		return nil, fmt.Errorf("%w: 不支持的输出格式 %q", renderer.ErrConfiguration, o.OutputType)
	}
	w, h, err := ParsePaperSize(o.PaperSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", renderer.ErrConfiguration, err)
	}
	res.PaperWidth, res.PaperHeight = w, h

	var left, right, top, bottom, fontSize, gutter, space, width int
	// 按固定顺序解析，多个取值无效时总是报告第一个。
	for _, target := range []struct {
		name  string
		value string
		dst   *int
	}{
		{"left-margin", o.LeftMargin, &left},
		{"right-margin", o.RightMargin, &right},
		{"top-margin", o.TopMargin, &top},
		{"bottom-margin", o.BottomMargin, &bottom},
		{"font-size", o.FontSize, &fontSize},
		{"line-gutter", o.LineGutter, &gutter},
		{"line-space", o.LineSpace, &space},
		{"line-width", o.LineWidth, &width},
	} {
		v, err := layout.ParseDimension(target.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", renderer.ErrConfiguration, target.name, err)
		}
		*target.dst = v
	}
	if fontSize <= 0 {
		return nil, fmt.Errorf("%w: font-size 必须为正数", renderer.ErrConfiguration)
	}

	sizePt := layout.ToPt(fontSize)
	for i, desc := range []string{o.PropFont, o.EmphFont, o.FixedFont} {
		spec, err := fonts.ParseSpec(desc, sizePt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", renderer.ErrConfiguration, err)
		}
		res.Fonts[i] = spec
	}

	tag := language.English
	if o.Locale != "" {
		tag, err = language.Parse(o.Locale)
		if err != nil {
			return nil, fmt.Errorf("%w: locale %q: %w", renderer.ErrConfiguration, o.Locale, err)
		}
	}

	headerSpace := 0
	if o.Headers {
		headerSpace = 3 * fontSize
	}
	d := renderer.Options{
		Left:         left,
		Top:          top + headerSpace,
		Width:        w - left - right,
		Length:       h - top - bottom - headerSpace,
		FontHeight:   fontSize,
		LineGutter:   gutter,
		LineSpace:    space,
		LineWidth:    width,
		Headers:      o.Headers,
		StrictSizing: o.StrictSizing,
		Locale:       tag,
		Date:         time.Now(),
		Version:      Version,
		Host:         hostname(),
	}
	if d.Width <= 0 {
		return nil, fmt.Errorf("%w: 左右边距之和超过纸张宽度", renderer.ErrConfiguration)
	}
	if d.Length < renderer.MinLength*fontSize {
		return nil, fmt.Errorf("%w: 页面长度不足以容纳边距、页眉以及至少 %d 行默认字体",
			renderer.ErrConfiguration, renderer.MinLength)
	}
	res.Driver = d
	return res, nil
}

// Version 显示在页眉第二行。
var Version = "paginate 0.1"

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
