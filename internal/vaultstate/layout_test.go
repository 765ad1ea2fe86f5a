package vaultstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExcludedFolder(t *testing.T) {
	assert.True(t, IsExcludedFolder("_archive"))
	assert.True(t, IsExcludedFolder("projects"))
	assert.True(t, IsExcludedFolder("_drafts"))
	assert.False(t, IsExcludedFolder("knowledge"))
}

func TestIsEntryFile(t *testing.T) {
	assert.True(t, IsEntryFile("some-insight-abc12345.md"))
	assert.False(t, IsEntryFile("README.md"))
	assert.False(t, IsEntryFile("context.md"))
	assert.False(t, IsEntryFile("memory.md"))
	assert.False(t, IsEntryFile("notes.txt"))
}

func TestKindDir(t *testing.T) {
	assert.Equal(t, "/vault/knowledge/insight", KindDir("/vault", "insight"))
	assert.Equal(t, "/vault/entities/contact", KindDir("/vault", "contact"))
	assert.Equal(t, "/vault/events/session", KindDir("/vault", "session"))
}

func TestEntryPath(t *testing.T) {
	p, err := EntryPath("/vault", "insight", "", "sqlite-is-fast", "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.NoError(t, err)
	assert.Equal(t, "/vault/knowledge/insight/sqlite-is-fast-zzzzzzzz.md", p)
}

func TestEntryPath_WithFolder(t *testing.T) {
	p, err := EntryPath("/vault", "insight", "2026/q3", "slug", "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.NoError(t, err)
	assert.Equal(t, "/vault/knowledge/insight/2026/q3/slug-zzzzzzzz.md", p)
}

func TestEntryPath_RejectsFolderEscape(t *testing.T) {
	_, err := EntryPath("/vault", "insight", "../../etc", "slug", "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.Error(t, err)
}
