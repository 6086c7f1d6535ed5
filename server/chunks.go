package server

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Chunks splits text into pieces of at most size grapheme clusters.
// Byte or rune slicing can cut an emoji or combining sequence in half;
// grapheme clusters are the smallest unit a reader perceives, so deltas
// built from them always render. Size <= 0 returns the whole text as a
// single chunk; the empty string yields nil.
func Chunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	var chunks []string
	var b strings.Builder
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		b.WriteString(g.Str())
		n++
		if n == size {
			chunks = append(chunks, b.String())
			b.Reset()
			n = 0
		}
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
