package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasmlab/ldcdaq/config"
)

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(config.SensorConfig{SPIBackend: "bitbang"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown SPI backend")
}

func TestSimBusIdentity(t *testing.T) {
	bus, err := Open(config.SensorConfig{SPIBackend: "simulate"})
	require.NoError(t, err)
	defer bus.Close()

	buf := []byte{0x3F | 0x80, 0x00}
	resp, err := bus.Exchange(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0xD4), resp[1], "simulated bus must answer the LDC1101 identity")
}

func TestSimBusSample(t *testing.T) {
	bus, err := Open(config.SensorConfig{SPIBackend: "simulate"})
	require.NoError(t, err)
	defer bus.Close()

	status, err := bus.Exchange([]byte{0x3B | 0x80, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), status[1], "simulated conversions are always ready")

	data, err := bus.Exchange([]byte{0x38 | 0x80, 0, 0, 0})
	require.NoError(t, err)
	value := uint32(data[1]) | uint32(data[2])<<8 | uint32(data[3])<<16
	assert.NotZero(t, value, "simulated sample should be in the sensor's working range")
	assert.Less(t, value, uint32(1)<<24)
}
