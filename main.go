package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/spf13/pflag"

	"github.com/ByLCY/paginate/binding"
	"github.com/ByLCY/paginate/config"
	"github.com/ByLCY/paginate/item"
	"github.com/ByLCY/paginate/layout"
	"github.com/ByLCY/paginate/renderer"
	canvasrenderer "github.com/ByLCY/paginate/renderer/canvas"
	"github.com/ByLCY/paginate/renderer/raster"
	"github.com/ByLCY/paginate/renderer/record"
	"github.com/ByLCY/paginate/script"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "paginate: %v\n", err)
		os.Exit(1)
	}
}

// cliOptions 为命令行中不属于输出配置的部分。
type cliOptions struct {
	configPath string
	dataPath   string
	planPath   string
	chartPNG   string
	scale      float64
	verbose    bool
}

func run(args []string, stdout io.Writer) error {
	var cli cliOptions
	flagSet := pflag.NewFlagSet("paginate", pflag.ContinueOnError)
	flagSet.StringVarP(&cli.configPath, "config", "c", "", "YAML 配置文件")
	flagSet.StringVarP(&cli.dataPath, "data", "d", "", "绑定到脚本的 JSON/JSONC 数据文件")
	flagSet.StringVar(&cli.planPath, "plan", "", "只排版不输出文件，把每页的绘制指令与表格布局写入该 JSON 文件")
	flagSet.StringVar(&cli.chartPNG, "chart-png", "", "另外把每张图表导出为 PNG，文件名模板中的 '#' 替换为图表序号")
	flagSet.Float64Var(&cli.scale, "scale", 1, "png 输出时每 pt 对应的像素数")
	flagSet.BoolVarP(&cli.verbose, "verbose", "v", false, "输出调试日志")
	for _, key := range config.Keys() {
		short := ""
		switch key {
		case "output-type":
			short = "t"
		case "output-file":
			short = "o"
		}
		flagSet.StringP(key, short, "", "覆盖配置项 "+key)
	}
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: paginate [选项] <脚本.pgn>\n\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("需要且只需要一个脚本文件")
	}

	level := slog.LevelWarn
	if cli.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	renderer.SetLogger(logger)

	opts := config.Default()
	if cli.configPath != "" {
		var err error
		if opts, err = config.LoadFile(cli.configPath); err != nil {
			return err
		}
	}
	var data any
	if cli.dataPath != "" {
		var err error
		if data, err = binding.Load(cli.dataPath); err != nil {
			return err
		}
	}
	sc, err := script.LoadFile(flagSet.Arg(0), data)
	if err != nil {
		return err
	}
	// 优先级：命令行 > 脚本 setup 段 > 配置文件 > 默认值。
	if err := sc.Configure(opts); err != nil {
		return err
	}
	var setErr error
	flagSet.Visit(func(f *pflag.Flag) {
		if setErr == nil && slices.Contains(config.Keys(), f.Name) {
			setErr = opts.Set(f.Name, f.Value.String())
		}
	})
	if setErr != nil {
		return setErr
	}
	config.Version = "paginate " + version
	res, err := opts.Resolve()
	if err != nil {
		return err
	}
	res.Driver.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cli.planPath != "" {
		return plan(ctx, sc, res, cli, stdout)
	}
	backend, err := openBackend(sc, res, cli)
	if err != nil {
		return err
	}
	stats, err := render(ctx, backend, sc, res, cli)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "已生成 %s：%s（%d 页，%d 张表格，%d 张图表）\n",
		res.Format, res.OutputFile, stats.Pages, stats.Tables, stats.Charts)
	if stats.Oversized > 0 {
		fmt.Fprintf(stdout, "注意：%d 处内容超出页面\n", stats.Oversized)
	}
	return nil
}

// openBackend 按输出格式创建后端：pdf 写入单个文件，svg/ps/png 每页一个文件。
func openBackend(sc *script.Script, res *config.Resolved, cli cliOptions) (renderer.Backend, error) {
	if dir := filepath.Dir(res.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	pageOutput := func(page int) (io.WriteCloser, error) {
		return os.Create(canvasrenderer.PageFileName(res.OutputFile, page))
	}
	width, height := res.PaperPt()
	if res.Format == "png" {
		return raster.New(raster.Options{
			Width:      width,
			Height:     height,
			Scale:      cli.scale,
			Fonts:      res.Fonts,
			PageOutput: pageOutput,
		})
	}
	format, err := canvasrenderer.ParseFormat(res.Format)
	if err != nil {
		return nil, err
	}
	copts := canvasrenderer.Options{
		Format:     format,
		Width:      width,
		Height:     height,
		Fonts:      res.Fonts,
		PageOutput: pageOutput,
		Meta: canvasrenderer.Meta{
			Title:    sc.Meta.Title,
			Subject:  sc.Meta.Subject,
			Keywords: sc.Meta.Keywords,
			Author:   sc.Meta.Author,
			Creator:  "paginate " + version,
		},
	}
	if sc.Meta.Creator != "" {
		copts.Meta.Creator = sc.Meta.Creator
	}
	if format == canvasrenderer.FormatPDF {
		f, err := os.Create(res.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("创建输出文件失败: %w", err)
		}
		copts.Output = f
		s, err := canvasrenderer.New(copts)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &closingBackend{Backend: s, file: f}, nil
	}
	return canvasrenderer.New(copts)
}

// closingBackend 在 Finish 之后关闭 PDF 文件。
type closingBackend struct {
	renderer.Backend
	file *os.File
}

func (b *closingBackend) Finish() error {
	err := b.Backend.Finish()
	if cerr := b.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// render 依次提交全部条目。出错时仍关闭后端，返回最先出现的错误。
func render(ctx context.Context, backend renderer.Backend, sc *script.Script, res *config.Resolved, cli cliOptions) (renderer.Stats, error) {
	d, err := renderer.NewDriver(backend, res.Driver)
	if err != nil {
		return renderer.Stats{}, err
	}
	charts := 0
	for _, it := range sc.Items {
		if ci, ok := it.(*item.ChartItem); ok && cli.chartPNG != "" {
			charts++
			name, err := raster.WriteChartPNG(ci.Chart, cli.chartPNG, charts, res.Fonts)
			if err != nil {
				return d.Stats(), errors.Join(err, d.Close())
			}
			res.Driver.Logger.Debug("导出图表", slog.String("file", name))
		}
		if err := d.Submit(ctx, it); err != nil {
			return d.Stats(), errors.Join(err, d.Close())
		}
	}
	if err := d.Close(); err != nil {
		return d.Stats(), err
	}
	return d.Stats(), nil
}

// planDump 为 --plan 输出的 JSON 结构。
type planDump struct {
	Script string            `json:"script"`
	Meta   script.Meta       `json:"meta"`
	Stats  renderer.Stats    `json:"stats"`
	Pages  []record.Page     `json:"pages"`
	Tables []layout.PageDump `json:"tables"`
}

// plan 用记录后端排版全部条目，文本度量取自实际字体。
func plan(ctx context.Context, sc *script.Script, res *config.Resolved, cli cliOptions, stdout io.Writer) error {
	width, height := res.PaperPt()
	shaper, err := raster.New(raster.Options{Width: width, Height: height, Fonts: res.Fonts})
	if err != nil {
		return err
	}
	rec := record.New(shaper)
	stats, err := render(ctx, rec, sc, res, cli)
	if err != nil {
		return err
	}
	out := planDump{Script: sc.Name, Meta: sc.Meta, Stats: stats, Pages: rec.Pages()}
	for _, it := range sc.Items {
		r, err := renderer.NewRendering(rec, res.Driver, it)
		if err != nil {
			return err
		}
		if r == nil {
			continue
		}
		if dump, ok := r.Dump(); ok {
			out.Tables = append(out.Tables, dump)
		}
	}
	if err := layout.WriteDebugJSON(out, cli.planPath); err != nil {
		return fmt.Errorf("输出排版计划失败: %w", err)
	}
	fmt.Fprintf(stdout, "已写入排版计划：%s（%d 页）\n", cli.planPath, stats.Pages)
	return nil
}
