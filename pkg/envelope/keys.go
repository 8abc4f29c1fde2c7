package envelope

import "strings"

// 终端返回的字段是 lower_snake 命名，对外统一转成 lowerCamel。

// SnakeToLowerCamel 把 lower_snake 字段名转成 lowerCamel
func SnakeToLowerCamel(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return key
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// NormalizeKeys 对平面映射逐个键重写命名，值不动
func NormalizeKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[SnakeToLowerCamel(k)] = v
	}
	return out
}

// NormalizeKeysSlice 对记录集合逐条应用 NormalizeKeys
func NormalizeKeysSlice(ms []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(ms))
	for _, m := range ms {
		out = append(out, NormalizeKeys(m))
	}
	return out
}
