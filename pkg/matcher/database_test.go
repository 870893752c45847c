package matcher

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runescan/runescan/pkg/types"
)

func mustExpr(t *testing.T, pattern string, id int, flags types.Flag) *types.Expression {
	t.Helper()
	e, err := types.NewExpressionWithID(pattern, id, flags)
	require.NoError(t, err)
	return e
}

func TestCompile_NoExpressions(t *testing.T) {
	db, err := Compile()
	require.ErrorIs(t, err, ErrNoExpressions)
	assert.Nil(t, db)
}

func TestCompile_Single(t *testing.T) {
	db, err := Compile(mustExpr(t, `Te?st`, 0, types.Caseless))
	require.NoError(t, err)
	defer db.Close()

	size, err := db.Size()
	require.NoError(t, err)
	assert.Greater(t, size, 0)
}

func TestCompile_InvalidPatternCarriesExpression(t *testing.T) {
	good := mustExpr(t, `abc`, 0, 0)
	bad := mustExpr(t, `test\1`, 1, 0)

	db, err := Compile(good, bad)
	require.Error(t, err)
	assert.Nil(t, db)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.True(t, bad.Equal(ce.Expression))
}

func TestDatabase_ExpressionLookup(t *testing.T) {
	first := mustExpr(t, `foo`, 3, 0)
	second := mustExpr(t, `bar`, 7, 0)
	db, err := Compile(first, second)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, first.Equal(db.Expression(3)))
	assert.True(t, second.Equal(db.Expression(7)))
	assert.Nil(t, db.Expression(42))
}

func TestDatabase_DuplicateIDsLastWins(t *testing.T) {
	first := mustExpr(t, `foo`, 1, 0)
	second := mustExpr(t, `bar`, 1, 0)
	db, err := Compile(first, second)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, second.Equal(db.Expression(1)))
	assert.Len(t, db.Expressions(), 2)
}

func TestDatabase_SaveLoadRoundTrip(t *testing.T) {
	exprs := []*types.Expression{
		mustExpr(t, `Te?st`, 0, types.Caseless|types.SOMLeftmost),
		mustExpr(t, `ist`, 1, types.Caseless),
	}
	db, err := Compile(exprs...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, db.Save(&buf))

	loaded, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer loaded.Close()

	assert.True(t, db.Equal(loaded), "round-tripped database must be equal")
	for _, e := range exprs {
		assert.True(t, e.Equal(loaded.Expression(e.ID())))
	}
	require.NoError(t, db.Close())

	// the loaded database must be scannable on its own
	s, err := NewScannerFor(loaded)
	require.NoError(t, err)
	defer s.Close()
	matches, err := s.Scan(loaded, "Dies ist ein Test tst.")
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestLoad_BadMagic(t *testing.T) {
	db, err := Load(bytes.NewReader([]byte("XXXX\x01rest")))
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "not a serialized pattern database")
}

func TestLoad_Truncated(t *testing.T) {
	db, err := Compile(mustExpr(t, `abc`, 0, 0))
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	require.NoError(t, db.Save(&buf))

	for _, cut := range []int{0, 3, 5, buf.Len() / 2, buf.Len() - 1} {
		truncated, err := Load(bytes.NewReader(buf.Bytes()[:cut]))
		require.Error(t, err, "cut at %d", cut)
		assert.Nil(t, truncated)
	}
}

func TestLoad_CorruptLengthFields(t *testing.T) {
	header := append(append([]byte(nil), dbMagic[:]...), dbFormatVersion)

	t.Run("huge metadata length", func(t *testing.T) {
		stream := append(append([]byte(nil), header...), 0xff, 0xff, 0xff, 0xff)
		db, err := Load(bytes.NewReader(stream))
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "corrupt database stream")
	})

	t.Run("huge database length", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(header)
		meta := []byte(`{}`)
		var lenBuf [8]byte
		binary.BigEndian.PutUint32(lenBuf[:4], uint32(len(meta)))
		buf.Write(lenBuf[:4])
		buf.Write(meta)
		buf.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

		db, err := Load(bytes.NewReader(buf.Bytes()))
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "corrupt database stream")
	})

	t.Run("null expression in metadata", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(header)
		meta := []byte(`{"engine_version":"x","expressions":[null]}`)
		var lenBuf [8]byte
		binary.BigEndian.PutUint32(lenBuf[:4], uint32(len(meta)))
		buf.Write(lenBuf[:4])
		buf.Write(meta)

		db, err := Load(bytes.NewReader(buf.Bytes()))
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "corrupt database stream")
	})
}

func TestDatabase_UseAfterClose(t *testing.T) {
	db, err := Compile(mustExpr(t, `abc`, 0, 0))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = db.Close()
	require.ErrorIs(t, err, ErrClosed)

	_, err = db.Size()
	require.ErrorIs(t, err, ErrClosed)

	err = db.Save(&bytes.Buffer{})
	require.ErrorIs(t, err, ErrClosed)

	s := NewScanner()
	err = s.AllocScratch(db)
	require.ErrorIs(t, err, ErrClosed)
}

func TestDatabase_EqualDifferentPatternSets(t *testing.T) {
	a, err := Compile(mustExpr(t, `abc`, 0, 0))
	require.NoError(t, err)
	defer a.Close()
	b, err := Compile(mustExpr(t, `abd`, 0, 0))
	require.NoError(t, err)
	defer b.Close()

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}

func TestCompileError_Unwrap(t *testing.T) {
	_, err := Compile(mustExpr(t, `test\1`, 0, 0))
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.NotNil(t, errors.Unwrap(ce))
}
