package fonts

import "testing"

func TestParseSpec(t *testing.T) {
	cases := []struct {
		in      string
		family  string
		italic  bool
		size    float64
		builtin string
	}{
		{"serif", "serif", false, 10, "goregular"},
		{"serif italic", "serif", true, 10, "goitalic"},
		{"monospace 8", "monospace", false, 8, "gomono"},
		{"Sans Bold Italic 12", "Sans", true, 12, "gobolditalic"},
	}
	for _, tc := range cases {
		spec, err := ParseSpec(tc.in, 10)
		if err != nil {
			t.Fatalf("ParseSpec(%q): %v", tc.in, err)
		}
		if spec.Family != tc.family || spec.Italic != tc.italic || spec.Size != tc.size {
			t.Fatalf("ParseSpec(%q) = %+v", tc.in, spec)
		}
		if got := spec.BuiltinName(); got != tc.builtin {
			t.Fatalf("%q 应映射到 %s, got %s", tc.in, tc.builtin, got)
		}
	}
}

func TestParseSpecErrors(t *testing.T) {
	for _, in := range []string{"", "italic 10", "serif -3"} {
		if _, err := ParseSpec(in, 10); err == nil {
			t.Fatalf("ParseSpec(%q) 应返回错误", in)
		}
	}
}

func TestLoad(t *testing.T) {
	data, err := Load(Spec{Family: "serif"})
	if err != nil || len(data) == 0 {
		t.Fatalf("加载内置字体失败: %v", err)
	}
	if _, err := Load(Spec{Path: "embed:gomono"}); err != nil {
		t.Fatalf("embed: 前缀应加载内置字体: %v", err)
	}
	if _, err := Load(Spec{Path: "/nonexistent/x.ttf"}); err == nil {
		t.Fatalf("不存在的文件应返回错误")
	}
}

func TestSpecString(t *testing.T) {
	spec, _ := ParseSpec("serif italic 10", 0)
	round, err := ParseSpec(spec.String(), 0)
	if err != nil || round != spec {
		t.Fatalf("String 应可再解析: %q -> %+v (%v)", spec.String(), round, err)
	}
}
