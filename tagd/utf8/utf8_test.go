package utf8

import (
	"testing"
	stdutf8 "unicode/utf8"

	"github.com/musetronstar/tagd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWidths(t *testing.T) {
	tests := []struct {
		cp   uint32
		want []byte
	}{
		{1, []byte{0x01}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0xC2, 0x80}},
		{0x7FF, []byte{0xDF, 0xBF}},
		{0x800, []byte{0xE0, 0xA0, 0x80}},
		{0xFFFC, []byte{0xEF, 0xBF, 0xBC}},
		{0x10000, []byte{0xF0, 0x90, 0x80, 0x80}},
		{MaxCodePoint, []byte{0xF7, 0xBF, 0xBF, 0xBF}},
	}

	for _, tt := range tests {
		got, err := Append(nil, tt.cp)
		require.NoError(t, err, "cp %d", tt.cp)
		assert.Equal(t, tt.want, got, "cp %d", tt.cp)

		cp, n := Decode(got)
		assert.Equal(t, tt.cp, cp)
		assert.Equal(t, len(tt.want), n)
	}
}

func TestAppendMatchesStandardEncoding(t *testing.T) {
	for _, cp := range []uint32{'a', 0xE9, 0x20AC, 0x1F600} {
		got, err := Append(nil, cp)
		require.NoError(t, err)
		assert.Equal(t, string(rune(cp)), string(got))
		assert.True(t, stdutf8.Valid(got))
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	for _, cp := range []uint32{0, Invalid, 0xD800, 0xDABC, 0xDFFF, 0xFFFE, 0xFFFF, MaxCodePoint + 1} {
		buf, err := Append([]byte{0x01}, cp)
		assert.True(t, errors.Is(err, ErrInvalidCodePoint), "cp %#x", cp)
		assert.Equal(t, []byte{0x01}, buf, "buffer must be unchanged")
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(1))
	assert.True(t, IsValid(0xD7FF))
	assert.True(t, IsValid(0xE000))
	assert.True(t, IsValid(0x1FFFE))
	assert.False(t, IsValid(0))
	assert.False(t, IsValid(0xFFFD))
	assert.False(t, IsValid(0xFFFE))
	assert.False(t, IsValid(MaxCodePoint+1))
}

func TestDecodeMalformed(t *testing.T) {
	cp, n := Decode(nil)
	assert.Equal(t, uint32(0), cp)
	assert.Equal(t, 0, n)

	// lone continuation byte
	cp, n = Decode([]byte{0x80})
	assert.Equal(t, Invalid, cp)
	assert.Equal(t, 1, n)

	// truncated sequence
	cp, _ = Decode([]byte{0xE0, 0xA0})
	assert.Equal(t, Invalid, cp)

	// overlong encoding of 1
	cp, n = Decode([]byte{0xC0, 0x81})
	assert.Equal(t, Invalid, cp)
	assert.Equal(t, 2, n)

	// encoded surrogate
	cp, _ = Decode([]byte{0xED, 0xA0, 0x80})
	assert.Equal(t, Invalid, cp)
}

func TestNextSkipsInvalid(t *testing.T) {
	tests := []struct {
		cp, want uint32
	}{
		{1, 2},
		{0x7F, 0x80},
		{0x7FF, 0x800},
		{0xD7FF, 0xE000},
		{0xFFFC, 0x10000},
		{MaxCodePoint - 1, MaxCodePoint},
	}
	for _, tt := range tests {
		got, err := Next(tt.cp)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "next(%#x)", tt.cp)
	}

	_, err := Next(MaxCodePoint)
	assert.True(t, errors.Is(err, ErrMaxCodePoint))
}

func TestByteOrderMatchesNumericOrder(t *testing.T) {
	prev, err := Append(nil, 1)
	require.NoError(t, err)
	for _, cp := range []uint32{2, 0x7F, 0x80, 0x7FF, 0x800, 0x10000, MaxCodePoint} {
		cur, err := Append(nil, cp)
		require.NoError(t, err)
		assert.Less(t, string(prev), string(cur))
		prev = cur
	}
}

func TestLastStartAndCount(t *testing.T) {
	b, _ := Append(nil, 1)
	b, _ = Append(b, 0x800)
	assert.Equal(t, 1, LastStart(b))
	assert.Equal(t, 2, Count(b))

	b, _ = Append(b, 3)
	assert.Equal(t, 4, LastStart(b))
	assert.Equal(t, 3, Count(b))

	assert.Equal(t, -1, LastStart(nil))
	assert.Equal(t, -1, LastStart([]byte{0x80, 0x80}))
}
