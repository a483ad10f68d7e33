package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"leading prose", "Here is the course you asked for:\n{\"a\":1}", `{"a":1}`},
		{"trailing prose", "{\"a\":1}\nLet me know if you need changes.", `{"a":1}`},
		{"no object", "sorry, I cannot help with that", ""},
		{"empty", "", ""},
		{"only closing brace", "}", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSONObject(tc.input))
		})
	}
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	input := "```json\n{\"modules\": [{\"title\": \"Intro\"}, {\"title\": \"Next\"}]}\n```"

	got := ExtractJSONObject(input)
	require.NotEmpty(t, got)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Contains(t, parsed, "modules")
}
