package service

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// ThumbnailService 本地生成内联 SVG 封面。只由分类决定，
// 同一分类重复生成字节级一致。
type ThumbnailService struct{}

func NewThumbnailService() *ThumbnailService {
	return &ThumbnailService{}
}

type thumbnailPalette struct {
	Background string
	Accent     string
}

var categoryPalettes = map[string]thumbnailPalette{
	"programming": {Background: "#1e293b", Accent: "#38bdf8"},
	"design":      {Background: "#4c1d95", Accent: "#f0abfc"},
	"business":    {Background: "#14532d", Accent: "#facc15"},
	"science":     {Background: "#0c4a6e", Accent: "#4ade80"},
	"language":    {Background: "#7c2d12", Accent: "#fdba74"},
	"music":       {Background: "#581c87", Accent: "#fda4af"},
	"math":        {Background: "#1e3a5f", Accent: "#fbbf24"},
}

var defaultPalette = thumbnailPalette{Background: "#334155", Accent: "#94a3b8"}

// Generate 封面是 800x450 的 SVG 字符串，直接存库内联展示，不依赖对象存储
func (s *ThumbnailService) Generate(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	palette, ok := categoryPalettes[key]
	if !ok {
		palette = defaultPalette
	}

	// 分类哈希决定装饰圆的位置，不同分类的封面有区分度但可复现
	h := fnv.New32a()
	h.Write([]byte(key))
	seed := h.Sum32()
	cx := 600 + int(seed%150)
	cy := 80 + int((seed>>8)%120)
	r := 60 + int((seed>>16)%80)

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="450" viewBox="0 0 800 450">`+
		`<rect width="800" height="450" fill="%s"/>`+
		`<circle cx="%d" cy="%d" r="%d" fill="%s" opacity="0.25"/>`+
		`<text x="60" y="250" font-family="sans-serif" font-size="96" font-weight="bold" fill="%s">%s</text>`+
		`<text x="60" y="330" font-family="sans-serif" font-size="28" fill="#e2e8f0">%s</text>`+
		`</svg>`,
		palette.Background, cx, cy, r, palette.Accent, palette.Accent,
		categoryInitials(key), escapeXML(truncate(key, 42)))
}

func categoryInitials(category string) string {
	words := strings.Fields(category)
	var b strings.Builder
	for i, w := range words {
		if i >= 2 {
			break
		}
		// 取首个 rune 而不是首个字节，非 ASCII 分类不能产出坏编码
		first := []rune(w)[0]
		b.WriteString(strings.ToUpper(string(first)))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
