package ldc1101

import (
	"errors"
	"fmt"
	"time"
)

// Transport is the half-duplex SPI exchange the driver runs on. The
// buffer is shared between request and response: the implementation
// clocks buf out and returns the same storage with the captured response
// bytes in it. A Transport is not reentrant; the driver never calls it
// concurrently.
type Transport interface {
	Exchange(buf []byte) ([]byte, error)
}

var (
	// ErrIdentityMismatch means the CHIP_ID register did not return the
	// expected LDC1101 identity byte. The device on the bus is not the
	// one we were configured for, so configuration is unverifiable and
	// the driver refuses to start conversions.
	ErrIdentityMismatch = errors.New("ldc1101: chip identity mismatch")

	// ErrReadyTimeout means the data-ready flag did not assert within
	// the configured number of status reads.
	ErrReadyTimeout = errors.New("ldc1101: timeout waiting for data ready")
)

// Config carries the tunable parts of the initialisation sequence.
type Config struct {
	// RCount is the 16-bit LHR reference count. Higher values trade
	// conversion speed for resolution.
	RCount uint16

	// RPMin and RPMax select the oscillation amplitude operating range
	// (3-bit codes from the datasheet table). HighQ selects the reduced
	// drive amplitude for high-Q sensors.
	RPMin byte
	RPMax byte
	HighQ bool

	// ReadyMaxPolls bounds the busy-wait on the data-ready flag, in
	// status reads per sample. Zero keeps the historical unbounded spin.
	ReadyMaxPolls int
}

type devState int

const (
	stateUninitialized devState = iota
	stateConfiguring
	stateVerified
	stateStreaming
)

// Sample is one decoded LHR conversion result.
type Sample struct {
	// Value is the 24-bit inductance-proportional measurement.
	Value uint32

	// Status is the LHR_STATUS byte observed on the read that reported
	// the conversion ready. Error flags here describe this conversion.
	Status Status

	// Timestamp is the monotonic elapsed time since the driver was
	// created.
	Timestamp time.Duration
}

// Device drives a single LDC1101 in LHR mode over the given transport.
// It is not safe for concurrent use.
type Device struct {
	tr    Transport
	conf  Config
	state devState
	start time.Time
}

// New creates a Device on tr. Init must be called before PollSample.
func New(tr Transport, conf Config) *Device {
	return &Device{
		tr:    tr,
		conf:  conf,
		start: time.Now(),
	}
}

func (d *Device) writeReg(reg, value byte) error {
	frame := writeFrame(reg, value)
	if _, err := d.tr.Exchange(frame[:]); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	return nil
}

// readReg reads n consecutive register bytes starting at reg. The
// returned slice excludes the leading address byte.
func (d *Device) readReg(reg byte, n int) ([]byte, error) {
	resp, err := d.tr.Exchange(readFrame(reg, n))
	if err != nil {
		return nil, fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	return resp[1:], nil
}

// Init runs the fixed configuration sequence and starts continuous
// conversion. The write order is prescribed by the datasheet; register
// interdependencies make reordering unsafe, and a failure part way
// through leaves the oscillator in an indeterminate state, so any error
// here is terminal for this Device.
func (d *Device) Init() error {
	if d.state != stateUninitialized {
		return errors.New("ldc1101: device already initialised")
	}
	d.state = stateConfiguring

	// Disable the RP calculation for a cleaner LHR measurement.
	if err := d.writeReg(regAltConfig, altConfigLOptimal); err != nil {
		return err
	}
	if err := d.writeReg(regDConf, dConfDOKReport); err != nil {
		return err
	}

	// Reference count, MSB first.
	if err := d.writeReg(regLHRRCountMSB, byte(d.conf.RCount>>8)); err != nil {
		return err
	}
	if err := d.writeReg(regLHRRCountLSB, byte(d.conf.RCount)); err != nil {
		return err
	}

	if err := d.writeReg(regRPSet, RPSet(d.conf.HighQ, d.conf.RPMax, d.conf.RPMin)); err != nil {
		return err
	}

	// Verify we are talking to an LDC1101 before triggering conversions.
	id, err := d.readReg(regChipID, 1)
	if err != nil {
		return err
	}
	if id[0] != chipID {
		return fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrIdentityMismatch, id[0], chipID)
	}
	d.state = stateVerified

	// Writing 0 to START_CONFIG is the trigger that begins continuous
	// conversion.
	if err := d.writeReg(regStartConfig, startConversion); err != nil {
		return err
	}
	d.state = stateStreaming
	return nil
}

// PollSample busy-waits for the data-ready flag, reads the three LHR
// data bytes in one transaction and returns the decoded sample. The spin
// matches the sensor's sub-millisecond conversion time; with
// ReadyMaxPolls > 0 an overlong wait returns ErrReadyTimeout instead of
// hanging. Errors during steady-state polling leave the device streaming
// and the caller may simply poll again.
func (d *Device) PollSample() (Sample, error) {
	if d.state != stateStreaming {
		return Sample{}, errors.New("ldc1101: device not streaming, call Init first")
	}

	var status Status
	for polls := 0; ; polls++ {
		raw, err := d.readReg(regLHRStatus, 1)
		if err != nil {
			return Sample{}, err
		}
		status = Status(raw[0])
		if status.Ready() {
			break
		}
		if d.conf.ReadyMaxPolls > 0 && polls+1 >= d.conf.ReadyMaxPolls {
			return Sample{}, fmt.Errorf("%w after %d status reads", ErrReadyTimeout, polls+1)
		}
	}

	data, err := d.readReg(regLHRDataLSB, 3)
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		Value:     decodeSample(data),
		Status:    status,
		Timestamp: time.Since(d.start),
	}, nil
}
