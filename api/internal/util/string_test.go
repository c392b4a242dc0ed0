package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"name":"Mint"}`, `{"name":"Mint"}`},
		{"plain with spaces", "  \n{\"a\":1}\n ", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with trailing text", "```json\n{\"a\":1}\n```\nthanks", `{"a":1}`},
		{"multiline body", "```json\n{\n \"a\": 1\n}\n```", "{\n \"a\": 1\n}"},
		{"no closing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"closing fence right after open line", "```json\n```", "```"},
		{"single line with tag", "```json{\"a\":1}```", `{"a":1}`},
		{"single line without tag", "```{\"a\":1}```", `{"a":1}`},
		{"single line tag and space", "```json {\"a\":1} ```", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFences(tc.in))
		})
	}
}
