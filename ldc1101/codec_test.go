package ldc1101

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFrame(t *testing.T) {
	frame := writeFrame(regAltConfig, 0x01)
	assert.Equal(t, [2]byte{0x05, 0x01}, frame, "write frame should be [address, value]")

	// Bit 7 must never leak into a write frame.
	frame = writeFrame(0xFF, 0xAA)
	assert.Equal(t, [2]byte{0x7F, 0xAA}, frame, "direction bit should be masked off")
}

func TestReadFrame(t *testing.T) {
	for addr := byte(0); addr <= 0x7F; addr++ {
		frame := readFrame(addr, 3)
		assert.Equal(t, addr|0x80, frame[0], "read frame should set the direction bit")
		assert.Len(t, frame, 4, "read frame should reserve one byte per response byte plus the address")
	}
}

func TestDecodeSample(t *testing.T) {
	assert.Equal(t, uint32(0x030201), decodeSample([]byte{0x01, 0x02, 0x03}),
		"sample bytes are little endian")
	assert.Equal(t, uint32(0), decodeSample([]byte{0, 0, 0}))
	assert.Equal(t, uint32(0xFFFFFF), decodeSample([]byte{0xFF, 0xFF, 0xFF}),
		"full-scale sample should not sign extend")
}

func TestStatusReadyInverted(t *testing.T) {
	// Bit 0 set means NOT ready; clear means ready.
	assert.False(t, Status(0b00000001).Ready(), "set ready bit means conversion still running")
	assert.True(t, Status(0b00000000).Ready(), "clear ready bit means data is readable")
	assert.True(t, Status(0b00011110).Ready(), "error flags do not affect readiness")
}

func TestStatusErrorFlags(t *testing.T) {
	s := Status(0b00010110)
	assert.True(t, s.Overflow())
	assert.True(t, s.UnderRange())
	assert.False(t, s.OverRange())
	assert.True(t, s.ZeroCount())
	assert.Equal(t, []string{"overflow", "under-range", "zero-count"}, s.ErrorNames())

	assert.Empty(t, Status(0).ErrorNames(), "clean status has no error names")
}

func TestRPSet(t *testing.T) {
	assert.Equal(t, byte(0x07), RPSet(false, 0x00, 0x07),
		"rpmin in low bits, everything else zero")
	assert.Equal(t, byte(0x87), RPSet(true, 0x00, 0x07), "high-Q selector is bit 7")
	assert.Equal(t, byte(0x32), RPSet(false, 0x03, 0x02), "rpmax occupies bits 6:4")
	// Reserved bit 3 stays zero even for out-of-range field values.
	assert.Equal(t, byte(0x77), RPSet(false, 0xFF, 0xFF))
}
