package scraper

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Item 抓取服务返回的单条原始记录
type Item = map[string]any

func has(m Item, key string) bool {
	_, ok := m[key]
	return ok
}

func intField(m Item, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

func stringField(m Item, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

// firstString 返回第一个非空字段
func firstString(m Item, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}

func objectField(m Item, key string) Item {
	obj, _ := m[key].(map[string]any)
	return obj
}

func objectList(m Item, key string) []Item {
	raw, _ := m[key].([]any)
	out := make([]Item, 0, len(raw))
	for _, r := range raw {
		if obj, ok := r.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// timeField 支持 RFC3339 字符串与 Unix 秒，缺失时返回 fallback
func timeField(m Item, key string, fallback time.Time) time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC()
		}
	case float64:
		if v > 0 {
			return time.Unix(int64(v), 0).UTC()
		}
	}
	return fallback
}
