package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("one small paragraph", 1000, 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "one small paragraph", chunks[0])
}

func TestChunkText_EmptyText(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 100))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 100))
}

func TestChunkText_SplitsLongText(t *testing.T) {
	chunker := NewTextChunker()

	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 60)
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := chunker.ChunkText(text, 500, 50)

	assert.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 500+50+1, "chunk %d too large", i)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkText_OverlapCarriesTail(t *testing.T) {
	chunker := NewTextChunker()

	text := strings.Repeat("alpha ", 100) + "\n\n" + strings.Repeat("beta ", 100)

	chunks := chunker.ChunkText(text, 600, 60)

	require.Greater(t, len(chunks), 1)
	tail := chunks[0][len(chunks[0])-20:]
	assert.Contains(t, chunks[1], strings.TrimSpace(tail))
}

func TestChunkText_OversizedParagraphSplitOnSentences(t *testing.T) {
	chunker := NewTextChunker()

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(strings.Repeat("x", 50))
		b.WriteString(". ")
	}

	chunks := chunker.ChunkText(b.String(), 200, 0)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 210)
	}
}

func TestChunkText_ParameterClamping(t *testing.T) {
	chunker := NewTextChunker()

	// Nonsense sizes fall back to workable defaults.
	chunks := chunker.ChunkText("some text here", -1, -5)
	require.Len(t, chunks, 1)

	chunks = chunker.ChunkText("some text here", 100, 100)
	require.Len(t, chunks, 1)
}
