package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlag_RoundTrip(t *testing.T) {
	for _, fn := range flagNames {
		t.Run(fn.name, func(t *testing.T) {
			parsed, err := ParseFlag(fn.name)
			require.NoError(t, err)
			assert.Equal(t, fn.flag, parsed)
		})
	}
}

func TestParseFlag_Unknown(t *testing.T) {
	_, err := ParseFlag("lookbehind")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookbehind")
}

func TestFlag_Has(t *testing.T) {
	f := Caseless | SOMLeftmost
	assert.True(t, f.Has(Caseless))
	assert.True(t, f.Has(SOMLeftmost))
	assert.True(t, f.Has(Caseless|SOMLeftmost))
	assert.False(t, f.Has(DotAll))
	assert.False(t, f.Has(Caseless|DotAll))
}

func TestFlag_Names(t *testing.T) {
	assert.Nil(t, Flag(0).Names())
	assert.Equal(t, []string{"caseless", "som_leftmost"}, (Caseless | SOMLeftmost).Names())
}

func TestFlag_String(t *testing.T) {
	assert.Equal(t, "none", Flag(0).String())
	assert.Equal(t, "caseless|utf8", (Caseless | UTF8).String())
}
