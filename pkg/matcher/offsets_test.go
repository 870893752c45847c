package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteToRuneMap_ASCII(t *testing.T) {
	s := "abc"
	table := byteToRuneMap(s, len(s))
	assert.Equal(t, []int{0, 1, 2}, table)
}

func TestByteToRuneMap_MixedWidths(t *testing.T) {
	// one, two, three and four byte encodings
	s := "aé€\U0001F600"
	table := byteToRuneMap(s, len(s))
	assert.Equal(t, []int{0, 1, 1, 2, 2, 2, 3, 3, 3, 3}, table)
}

func TestByteToRuneMap_Empty(t *testing.T) {
	assert.Empty(t, byteToRuneMap("", 0))
}

func TestByteToRuneMap_EveryByteCovered(t *testing.T) {
	s := "Übung macht den Meister: 测试 \U0001F680"
	table := byteToRuneMap(s, len(s))
	assert.Len(t, table, len(s))

	// rune indices must be non-decreasing and end at runeCount-1
	prev := 0
	for _, idx := range table {
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
	assert.Equal(t, len([]rune(s))-1, table[len(table)-1])
}
