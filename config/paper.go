package config

import (
	"fmt"
	"strings"

	"github.com/ByLCY/paginate/layout"
)

// paperSizes 为常用纸张尺寸（pt，纵向）。
var paperSizes = map[string][2]float64{
	"a3":         {842, 1191},
	"a4":         {595, 842},
	"a5":         {420, 595},
	"b5":         {499, 709},
	"letter":     {612, 792},
	"legal":      {612, 1008},
	"tabloid":    {792, 1224},
	"halfletter": {396, 612},
}

// ParsePaperSize 解析纸张名称或 "宽x高[单位]"，返回设备单位。
// 单位只写在末尾时同时作用于宽和高，例如 "8.5x11in"。
func ParsePaperSize(s string) (int, int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if size, ok := paperSizes[v]; ok {
		return layout.FromPt(size[0]), layout.FromPt(size[1]), nil
	}
	w, h, ok := strings.Cut(v, "x")
	if !ok {
		return 0, 0, fmt.Errorf("未知的纸张尺寸 %q", s)
	}
	hl, err := layout.ParseRawLengthStr(h)
	if err != nil {
		return 0, 0, fmt.Errorf("纸张高度: %w", err)
	}
	wl, err := layout.ParseRawLengthStr(w)
	if err != nil {
		return 0, 0, fmt.Errorf("纸张宽度: %w", err)
	}
	if wl.Unit == layout.UnitNone {
		wl.Unit = hl.Unit
	}
	if wl.IsZero() || hl.IsZero() {
		return 0, 0, fmt.Errorf("纸张尺寸不能为 0: %q", s)
	}
	return wl.ToUnits(), hl.ToUnits(), nil
}
