package binding

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `{
  // 季度汇总
  "title": "Q3",
  "totals": {"north": 1200, "south": 87.5},
  "regions": [
    {"name": "North", "tags": ["a", "b"]},
    {"name": "South", "tags": []},
  ],
  "missing": null,
}`

func TestDecodeJSONC(t *testing.T) {
	data, err := Decode([]byte(sample))
	if err != nil {
		t.Fatalf("Decode 失败: %v", err)
	}
	cases := map[string]string{
		"标题 ${title}":                 "标题 Q3",
		"${totals.north}":             "1200",
		"${ totals.south }":           "87.5",
		"${regions[1].name}":          "South",
		"${regions[0].tags[1]}":       "b",
		"[${missing}]":                "[]",
		"${regions[5].name}":          "${regions[5].name}",
		"${nope}":                     "${nope}",
		"${title}/${regions[0].name}": "Q3/North",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", in, got, want)
		}
	}
	if got := Interpolate("${title}", nil); got != "${title}" {
		t.Fatalf("data 为空时应原样返回，实际 %q", got)
	}
}

func TestLookupAndWith(t *testing.T) {
	data, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	regions, ok := Lookup(data, "regions")
	if !ok {
		t.Fatal("regions 应存在")
	}
	list, ok := regions.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("regions 应为 2 个元素的数组: %#v", regions)
	}
	scoped := With(data, "r", list[0])
	if got := Interpolate("${r.name} ${title}", scoped); got != "North Q3" {
		t.Fatalf("循环变量绑定错误: %q", got)
	}
	if _, ok := Lookup(data, "r"); ok {
		t.Fatal("With 不应修改原数据")
	}
	if got := Interpolate("${r}", With(nil, "r", "x")); got != "x" {
		t.Fatalf("非对象数据上的绑定错误: %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.jsonc")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"a": `), 0o644)
	if _, err := Load(bad); err == nil {
		t.Fatal("非法 JSON 应返回错误")
	}
	if _, err := Load(filepath.Join(dir, "none.json")); err == nil {
		t.Fatal("缺失文件应返回错误")
	}
}
