package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseConfig = `
Sensor:
  SPIDevice: "/dev/spidev0.1"
  SPIBackend: "go-rpio"
  SPIFrequency: 500000
  RCount: 32768
  RPMin: 5
  RPMax: 2
  HighQ: true
  ReadyMaxPolls: 2000
Actuator:
  Host: "10.0.0.5"
  Port: 9000
  StartValue: 50
  Increment: 500
  MaxCommand: 12000
  SettleDelay: 250ms
Acquisition:
  Logfile: "/tmp/run.csv"
  SamplesPerStep: 200
  Steps: 4
Logging:
  Level: "DEBUG"
  Format: "json"
  File: "/tmp/ldcdaq.log"
Viewer:
  Enabled: true
  WindowSize: 100
`

func createConfigFile(t *testing.T, configData string) string {
	t.Helper()
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "ldcdaq.yml")
	err := os.WriteFile(configFile, []byte(configData), 0o644)
	require.NoError(t, err, "failed to write config file")
	return configFile
}

func TestReadConfig(t *testing.T) {
	conf, err := ReadConfig(createConfigFile(t, baseConfig))
	require.NoError(t, err, "ReadConfig should not return an error")

	assert.Equal(t, "/dev/spidev0.1", conf.Sensor.SPIDevice)
	assert.Equal(t, "go-rpio", conf.Sensor.SPIBackend)
	assert.Equal(t, int64(500000), conf.Sensor.SPIFrequency)
	assert.Equal(t, 32768, conf.Sensor.RCount)
	assert.Equal(t, 5, conf.Sensor.RPMin)
	assert.Equal(t, 2, conf.Sensor.RPMax)
	assert.True(t, conf.Sensor.HighQ)
	assert.Equal(t, 2000, conf.Sensor.ReadyMaxPolls)

	assert.Equal(t, "10.0.0.5", conf.Actuator.Host)
	assert.Equal(t, 9000, conf.Actuator.Port)
	assert.Equal(t, 250*time.Millisecond, conf.Actuator.SettleDelay)

	assert.Equal(t, "/tmp/run.csv", conf.Acquisition.Logfile)
	assert.Equal(t, 200, conf.Acquisition.SamplesPerStep)
	assert.Equal(t, 4, conf.Acquisition.Steps)

	assert.Equal(t, "DEBUG", conf.Logging.Level)
	assert.Equal(t, "json", conf.Logging.Format)
	assert.True(t, conf.Viewer.Enabled)
	assert.Equal(t, 100, conf.Viewer.WindowSize)
}

func TestReadConfig_Defaults(t *testing.T) {
	conf, err := ReadConfig("")
	require.NoError(t, err, "empty path should fall back to defaults")

	assert.Equal(t, "/dev/spidev0.0", conf.Sensor.SPIDevice)
	assert.Equal(t, 0xFFFF, conf.Sensor.RCount)
	assert.Equal(t, 7, conf.Sensor.RPMin)
	assert.Equal(t, 500, conf.Acquisition.SamplesPerStep)
	assert.Equal(t, 1, conf.Acquisition.Steps)
	assert.Equal(t, 24000, conf.Actuator.MaxCommand)
	assert.NoError(t, conf.Validate(), "defaults must validate")
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig("/nonexistent/ldcdaq.yml")
	assert.Error(t, err, "a named but missing config file is fatal")
}

func TestReadConfig_SamplesOutOfRange(t *testing.T) {
	for _, bad := range []string{"0", "1001"} {
		configData := strings.Replace(baseConfig, "SamplesPerStep: 200", "SamplesPerStep: "+bad, 1)
		_, err := ReadConfig(createConfigFile(t, configData))
		assert.Error(t, err, "SamplesPerStep %s should be rejected", bad)
		assert.Contains(t, err.Error(), "SamplesPerStep must be between 1 and 1000")
	}
}

func TestReadConfig_StepsOutOfRange(t *testing.T) {
	configData := strings.Replace(baseConfig, "Steps: 4", "Steps: 0", 1)
	_, err := ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Steps must be greater than 0")
}

func TestReadConfig_RCountOutOfRange(t *testing.T) {
	configData := strings.Replace(baseConfig, "RCount: 32768", "RCount: 65536", 1)
	_, err := ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RCount must be between 1 and 65535")
}

func TestReadConfig_RPFieldsOutOfRange(t *testing.T) {
	configData := strings.Replace(baseConfig, "RPMin: 5", "RPMin: 8", 1)
	_, err := ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RPMin must be between 0 and 7")

	configData = strings.Replace(baseConfig, "RPMax: 2", "RPMax: 9", 1)
	_, err = ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RPMax must be between 0 and 7")
}

func TestReadConfig_UnknownBackend(t *testing.T) {
	configData := strings.Replace(baseConfig, `SPIBackend: "go-rpio"`, `SPIBackend: "bitbang"`, 1)
	_, err := ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SPIBackend must be")
}

func TestReadConfig_CommandOutOfInt16(t *testing.T) {
	configData := strings.Replace(baseConfig, "Increment: 500", "Increment: 40000", 1)
	_, err := ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Increment must fit a 16-bit command word")
}

func TestReadConfig_MaxCommandOutOfRange(t *testing.T) {
	configData := strings.Replace(baseConfig, "MaxCommand: 12000", "MaxCommand: 0", 1)
	_, err := ReadConfig(createConfigFile(t, configData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MaxCommand must be between 1 and 32767")
}
