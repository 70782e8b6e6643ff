package renderer

import "errors"

// 渲染过程中的错误分类，调用方使用 errors.Is 判断。
var (
	// ErrConfiguration 表示构造参数无效（页面过小、缺少后端等），不会产生任何输出。
	ErrConfiguration = errors.New("renderer: 配置无效")
	// ErrSurface 表示绘制目标写入失败。
	ErrSurface = errors.New("renderer: 输出失败")
	// ErrFontLoad 表示字体无法加载。
	ErrFontLoad = errors.New("renderer: 字体加载失败")
	// ErrContentTooLarge 表示严格模式下单个不可分割单元超出整页。
	ErrContentTooLarge = errors.New("renderer: 内容超出页面")
)
