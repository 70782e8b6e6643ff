package layout

import (
	"encoding/json"
	"os"
)

// PageDump 是 RenderPage 的可序列化快照，便于调试分页结果。
type PageDump struct {
	Columns [2]int `json:"columns"` // 列窗口 [c0, c1)
	Rows    [2]int `json:"rows"`    // 行窗口 [r0, r1)
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	// ColumnPos/RowPos 为分隔线与单元格交错的累计位置（整张表格）。
	ColumnPos []int `json:"columnPos"`
	RowPos    []int `json:"rowPos"`
}

// Dump 返回页面的调试快照。
func (p *RenderPage) Dump() PageDump {
	return PageDump{
		Columns:   p.w[H],
		Rows:      p.w[V],
		Width:     p.Size(H),
		Height:    p.Size(V),
		ColumnPos: append([]int(nil), p.d.cp[H]...),
		RowPos:    append([]int(nil), p.d.cp[V]...),
	}
}

// WriteDebugJSON 将任意调试结构输出为 JSON，便于检查或可视化。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
