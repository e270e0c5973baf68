package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// jsonObject 模型返回的JSON值
//
// Fields 为nil表示合法JSON但不是对象，调用方按各自策略处理。
type jsonObject struct {
	Raw    json.RawMessage
	Fields map[string]json.RawMessage
}

// decodeObject 解析模型返回的JSON文本，只有文本不是合法JSON时返回包装了 ErrParse 的错误
//
// 字段的类型在这里不做校验，由各个取值函数宽松处理。
func decodeObject(text string) (*jsonObject, error) {
	raw := json.RawMessage(cleanJSONResponse(text))
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrParse)
	}

	obj := &jsonObject{Raw: raw}
	if bytes.HasPrefix(raw, []byte("{")) {
		if err := json.Unmarshal(raw, &obj.Fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	return obj, nil
}

// cleanJSONResponse 去掉模型偶尔附带的 markdown 代码块
func cleanJSONResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// stringField 字段缺失或不是字符串时返回默认值
func stringField(fields map[string]json.RawMessage, key, fallback string) string {
	var s string
	if !lookup(fields, key, &s) {
		return fallback
	}
	return s
}

// floatField 字段缺失或不是数字时返回0
func floatField(fields map[string]json.RawMessage, key string) float64 {
	var f float64
	lookup(fields, key, &f)
	return f
}

// stringsField 字段缺失或不是字符串数组时返回nil
func stringsField(fields map[string]json.RawMessage, key string) []string {
	var list []string
	if !lookup(fields, key, &list) {
		return nil
	}
	return list
}

// objectField 字段缺失或不是对象时返回nil
func objectField(fields map[string]json.RawMessage, key string) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if !lookup(fields, key, &obj) {
		return nil
	}
	return obj
}

func lookup(fields map[string]json.RawMessage, key string, v any) bool {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
