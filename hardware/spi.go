// Package hardware provides the SPI bus transports the LDC1101 driver
// runs on. Two backends are supported: periph.io (spidev through the
// host driver registry) and go-rpio (direct BCM register access). Both
// implement the shared-buffer exchange the driver expects.
package hardware

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/kasmlab/ldcdaq/config"
)

// Bus is a closeable SPI transport. Exchange clocks buf out and returns
// the same storage holding the response bytes.
type Bus interface {
	Exchange(buf []byte) ([]byte, error)
	Close() error
}

// Open creates the SPI bus selected by the configuration. The LDC1101
// is a mode-3 device (CPOL=1, CPHA=1).
func Open(conf config.SensorConfig) (Bus, error) {
	switch conf.SPIBackend {
	case "periph.io":
		return openPeriph(conf)
	case "go-rpio":
		return openRpio(conf)
	case "simulate":
		return newSimBus(), nil
	default:
		return nil, fmt.Errorf("unknown SPI backend %q", conf.SPIBackend)
	}
}

type periphBus struct {
	mu   sync.Mutex
	port spi.PortCloser
	conn spi.Conn
}

func openPeriph(conf config.SensorConfig) (*periphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init periph: %w", err)
	}
	port, err := spireg.Open(conf.SPIDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi port %s: %w", conf.SPIDevice, err)
	}
	conn, err := port.Connect(physic.Frequency(conf.SPIFrequency)*physic.Hertz, spi.Mode3, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect to spi device: %w", err)
	}
	return &periphBus{port: port, conn: conn}, nil
}

func (b *periphBus) Exchange(buf []byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	read := make([]byte, len(buf))
	if err := b.conn.Tx(buf, read); err != nil {
		return nil, fmt.Errorf("spi transaction failed: %w", err)
	}
	// The driver expects the response in the request buffer.
	copy(buf, read)
	return buf, nil
}

func (b *periphBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port.Close()
}

type rpioBus struct {
	mu sync.Mutex
}

func openRpio(conf config.SensorConfig) (*rpioBus, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open gpio memory: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(int(conf.SPIFrequency))
	rpio.SpiMode(1, 1) // mode 3
	return &rpioBus{}, nil
}

func (b *rpioBus) Exchange(buf []byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rpio.SpiExchange(buf)
	return buf, nil
}

func (b *rpioBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}
