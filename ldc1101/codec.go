package ldc1101

// writeFrame builds the 2-byte SPI frame that writes value to a register.
// Bit 7 of the address byte stays clear to select a write.
func writeFrame(reg, value byte) [2]byte {
	return [2]byte{reg & 0x7F, value}
}

// readFrame builds the frame that reads n consecutive register bytes
// starting at reg. The first byte carries the read flag; the remaining n
// bytes are don't-care on the wire and get overwritten with the response.
func readFrame(reg byte, n int) []byte {
	frame := make([]byte, n+1)
	frame[0] = reg | 0x80
	return frame
}

// decodeSample assembles the 24-bit LHR measurement from the three data
// bytes read in ascending register order (LSB, MID, MSB).
func decodeSample(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// Status is the raw LHR_STATUS register byte.
type Status byte

// Ready reports whether a conversion result is readable. The device
// signals this with a CLEAR bit 0.
func (s Status) Ready() bool { return s&lhrStatusNotReady == 0 }

// Overflow reports that the sensor frequency is too close to the
// reference frequency.
func (s Status) Overflow() bool { return s&lhrStatusOverflow != 0 }

// UnderRange reports a negative output code, i.e. the configured offset
// is too large.
func (s Status) UnderRange() bool { return s&lhrStatusUnderRange != 0 }

// OverRange reports that the sensor frequency exceeds the reference
// frequency.
func (s Status) OverRange() bool { return s&lhrStatusOverRange != 0 }

// ZeroCount reports a zero-count error: the sensor frequency is too low,
// or the sensor is faulty.
func (s Status) ZeroCount() bool { return s&lhrStatusZeroCount != 0 }

// ErrorNames returns the names of all error conditions set in the status
// byte, in bit order. The data-ready flag is not an error condition.
func (s Status) ErrorNames() []string {
	var names []string
	if s.Overflow() {
		names = append(names, "overflow")
	}
	if s.UnderRange() {
		names = append(names, "under-range")
	}
	if s.OverRange() {
		names = append(names, "over-range")
	}
	if s.ZeroCount() {
		names = append(names, "zero-count")
	}
	return names
}

// RPSet composes the RP_SET register byte: bit 7 selects low sensor
// amplitude for high-Q coils, bits 6:4 carry RP_MAX, bits 2:0 RP_MIN and
// bit 3 is reserved and kept zero. The RP_MIN/RP_MAX codes come straight
// from the datasheet's dynamic-range table.
func RPSet(highQ bool, rpMax, rpMin byte) byte {
	v := (rpMax<<4)&0x70 | rpMin&0x07
	if highQ {
		v |= 1 << 7
	}
	return v
}
