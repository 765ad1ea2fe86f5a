package coreutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"simple", "Hello World", 60, "hello-world"},
		{"punctuation", "SQLite is fast!! Really??", 60, "sqlite-is-fast-really"},
		{"leading trailing", "--Weird--", 60, "weird"},
		{"runs collapse", "a___b---c", 60, "a-b-c"},
		{"empty", "", 60, ""},
		{"default max", "x", 0, "x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Slug(c.in, c.max))
		})
	}
}

func TestSlug_TruncatesAtHyphenBoundary(t *testing.T) {
	in := strings.Repeat("word ", 20)
	got := Slug(in, 12)
	assert.LessOrEqual(t, len(got), 12)
	assert.NotEqual(t, byte('-'), got[len(got)-1])
}
