package hardware

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// simBus emulates enough of the LDC1101 register file to exercise the
// whole acquisition path without a sensor on the bus: the identity
// register answers correctly, LHR status is always ready and the LHR
// data registers return a slow sine with a little noise on top.
type simBus struct {
	mu    sync.Mutex
	start time.Time
	rng   *rand.Rand
}

func newSimBus() *simBus {
	return &simBus{
		start: time.Now(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *simBus) Exchange(buf []byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buf[0]&0x80 == 0 {
		// Configuration writes are accepted and ignored.
		return buf, nil
	}
	switch buf[0] & 0x7F {
	case 0x3F: // CHIP_ID
		buf[1] = 0xD4
	case 0x3B: // LHR_STATUS, ready bit clear
		buf[1] = 0x00
	case 0x38: // LHR_DATA_LSB..MSB
		v := b.sample()
		buf[1] = byte(v)
		buf[2] = byte(v >> 8)
		buf[3] = byte(v >> 16)
	}
	return buf, nil
}

func (b *simBus) sample() uint32 {
	t := time.Since(b.start).Seconds()
	base := 8_000_000 + 500_000*math.Sin(2*math.Pi*t/5)
	return uint32(base) + uint32(b.rng.Intn(2000))
}

func (b *simBus) Close() error { return nil }
