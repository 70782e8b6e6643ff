package script

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/ByLCY/paginate/binding"
	"github.com/ByLCY/paginate/chart"
	"github.com/ByLCY/paginate/dsl"
	"github.com/ByLCY/paginate/item"
)

// chartItem 展开 chart 语句：chart <类型> ["标题"] { labels: [...] values: [...] }。
// labels 与 values 也可以是数据路径。
func chartItem(c *dsl.Chart, data any) (item.Item, error) {
	if !slices.Contains(chart.Kinds(), c.Kind) {
		return nil, fmt.Errorf("%s: 未知的图表类型 %q（可用: %v）", c.Pos, c.Kind, chart.Kinds())
	}
	ch := &chart.Chart{Kind: c.Kind}
	if c.Title != nil {
		ch.Title = binding.Interpolate(string(*c.Title), data)
	}
	for _, as := range c.Entries {
		if as.Key == "title" {
			ch.Title = valueString(as.Value, data)
			continue
		}
		list, err := valueList(as.Value, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", as.Pos, as.Key, err)
		}
		switch as.Key {
		case "labels":
			for _, v := range list {
				ch.Labels = append(ch.Labels, binding.Format(v))
			}
		case "values":
			for _, v := range list {
				f, err := toFloat(v)
				if err != nil {
					return nil, fmt.Errorf("%s: values: %w", as.Pos, err)
				}
				ch.Values = append(ch.Values, f)
			}
		default:
			return nil, fmt.Errorf("%s: chart 中未知的键 %q", as.Pos, as.Key)
		}
	}
	return &item.ChartItem{Chart: ch}, nil
}

// valueList 把数组字面量或指向数组的数据路径转换为元素列表。
func valueList(v *dsl.Value, data any) ([]any, error) {
	switch {
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, e := range v.Array.Values {
			out = append(out, valueString(e, data))
		}
		return out, nil
	case v.Path != nil:
		path := v.Path.String()
		val, ok := binding.Lookup(data, path)
		if !ok {
			return nil, fmt.Errorf("数据中不存在 %q", path)
		}
		list, ok := val.([]any)
		if !ok {
			return nil, fmt.Errorf("%q 不是数组", path)
		}
		return list, nil
	default:
		return []any{valueString(v, data)}, nil
	}
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%q 不是数值", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%v 不是数值", v)
	}
}
