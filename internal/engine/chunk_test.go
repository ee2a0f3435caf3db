package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk_SplitsWhenOverMax(t *testing.T) {
	chunks := Chunk([]string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, 2)
	assert.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 2)
	assert.Len(t, chunks[1], 1)
}

func TestChunk_SingleChunkWhenUnderMax(t *testing.T) {
	chunks := Chunk([]string{"BTCUSDT"}, 50)
	assert.Len(t, chunks, 1)
}

func TestChunk_ZeroMaxMeansOneChunk(t *testing.T) {
	symbols := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "XRPUSDT"}
	chunks := Chunk(symbols, 0)
	assert.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 4)
}

func TestChunk_Empty(t *testing.T) {
	assert.Nil(t, Chunk(nil, 2))
}
