package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestThumbnailDeterministicPerCategory(t *testing.T) {
	svc := NewThumbnailService()

	first := svc.Generate("programming")
	second := svc.Generate("programming")
	assert.Equal(t, first, second)

	// 大小写和空白不影响结果
	assert.Equal(t, first, svc.Generate("  Programming "))
}

func TestThumbnailVariesByCategory(t *testing.T) {
	svc := NewThumbnailService()

	assert.NotEqual(t, svc.Generate("programming"), svc.Generate("design"))
}

func TestThumbnailCategoryPalette(t *testing.T) {
	svc := NewThumbnailService()

	svg := svc.Generate("Programming")
	assert.Contains(t, svg, categoryPalettes["programming"].Background)

	unknown := svc.Generate("underwater basket weaving")
	assert.Contains(t, unknown, defaultPalette.Background)
}

func TestThumbnailIsValidSVG(t *testing.T) {
	svc := NewThumbnailService()

	svg := svc.Generate(`tags <script> & "quotes"`)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.NotContains(t, svg, "<script>")
	assert.Contains(t, svg, "&lt;script&gt;")
}

func TestCategoryInitials(t *testing.T) {
	assert.Equal(t, "PG", categoryInitials("practical go"))
	assert.Equal(t, "M", categoryInitials("math"))
	assert.Equal(t, "AB", categoryInitials("a b c d"))
	assert.Equal(t, "?", categoryInitials("   "))
}

func TestCategoryInitialsNonASCII(t *testing.T) {
	// 首字符按 rune 取，多字节分类名不能截出坏编码
	assert.Equal(t, "编程", categoryInitials("编程 程序设计"))
	assert.Equal(t, "É", categoryInitials("économie"))
	assert.True(t, utf8.ValidString(categoryInitials("日本語")))
}
