package server_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aguiproto/agui/server"
)

func TestChunks_ASCII(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"hell", "o wo", "rld"}, server.Chunks("hello world", 4))
}

func TestChunks_CountsGraphemesNotBytes(t *testing.T) {
	t.Parallel()

	// Skin-tone emoji and flag pairs are single graphemes spanning many
	// bytes; size 1 must never split them.
	assert.Equal(t, []string{"👍🏽", "👍🏽", "👍🏽"}, server.Chunks("👍🏽👍🏽👍🏽", 1))
	assert.Equal(t, []string{"🇵🇱", "🇯🇵"}, server.Chunks("🇵🇱🇯🇵", 1))
}

func TestChunks_KeepsCombiningMarksAttached(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "é", "b"}, server.Chunks("aéb", 1))
}

func TestChunks_EmptyString(t *testing.T) {
	t.Parallel()
	assert.Nil(t, server.Chunks("", 3))
}

func TestChunks_NonPositiveSize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"abc"}, server.Chunks("abc", 0))
	assert.Equal(t, []string{"abc"}, server.Chunks("abc", -1))
}

func TestChunks_SizeLargerThanText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"abc"}, server.Chunks("abc", 10))
}

func TestChunks_JoinRestoresText(t *testing.T) {
	t.Parallel()

	const text = "Grüße, 世界! Flags 🇵🇱🇯🇵 and tones 👍🏽 mixed with ASCII."
	for _, size := range []int{1, 2, 3, 7, 100} {
		chunks := server.Chunks(text, size)
		assert.Equal(t, text, strings.Join(chunks, ""), "size %d", size)
	}
}
