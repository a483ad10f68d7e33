package util

import (
	"regexp"
	"strings"
)

// 支持的链接形态：watch 页、短链、embed 页
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)

// ExtractYouTubeVideoID 从任意字符串里取出视频 ID，认不出来返回空串，绝不 panic
func ExtractYouTubeVideoID(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if matches := youtubeIDPattern.FindStringSubmatch(input); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// CanonicalWatchURL 视频 ID 的唯一规范形态，用于去重和入库
func CanonicalWatchURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + videoID
}

// NormalizeVideoURLs 把一批链接折叠成规范 watch 链接，按首见顺序去重。
// 返回规范化结果和认不出来的原始输入两个列表。对已规范的输入幂等。
func NormalizeVideoURLs(urls []string) (normalized []string, invalid []string) {
	seen := make(map[string]bool, len(urls))
	for _, raw := range urls {
		id := ExtractYouTubeVideoID(raw)
		if id == "" {
			invalid = append(invalid, raw)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		normalized = append(normalized, CanonicalWatchURL(id))
	}
	return normalized, invalid
}
