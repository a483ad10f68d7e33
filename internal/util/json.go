package util

import (
	"strings"
)

// ExtractJSONObject 从大模型的自由文本回复里切出 JSON 对象。
// 先剥掉 markdown 代码块围栏，再取第一个 { 到最后一个 } 之间的子串。
// 找不到对象时返回空串，由调用方决定是回退还是报错。
func ExtractJSONObject(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		start := 3
		if newlineIdx := strings.Index(content[start:], "\n"); newlineIdx != -1 {
			start += newlineIdx + 1
		}
		if endIdx := strings.Index(content[start:], "```"); endIdx != -1 {
			content = content[start : start+endIdx]
		} else {
			content = content[start:]
		}
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return strings.TrimSpace(content[startIdx : endIdx+1])
}
