package ldc1101

// Register addresses of the LDC1101, from the TI datasheet memory map.
// Addresses are 7 bit; bit 7 of the frame's first byte selects the
// transfer direction.
const (
	regRPSet        = 0x01 // RP measurement dynamic range
	regTC1          = 0x02 // time constant 1
	regTC2          = 0x03 // time constant 2
	regDigConfig    = 0x04 // RP+L conversion interval
	regAltConfig    = 0x05 // additional device settings
	regRPThreshHLSB = 0x06
	regRPThreshHMSB = 0x07
	regRPThreshLLSB = 0x08
	regRPThreshLMSB = 0x09
	regINTBMode     = 0x0A // INTB reporting on the SDO pin
	regStartConfig  = 0x0B // power state
	regDConf        = 0x0C // sensor amplitude control
	regLThreshHiLSB = 0x16
	regLThreshHiMSB = 0x17
	regLThreshLoLSB = 0x18
	regLThreshLoMSB = 0x19
	regStatus       = 0x20 // RP+L measurement status
	regRPDataLSB    = 0x21
	regRPDataMSB    = 0x22
	regLDataLSB     = 0x23
	regLDataMSB     = 0x24
	regLHRRCountLSB = 0x30 // LHR reference count LSB
	regLHRRCountMSB = 0x31 // LHR reference count MSB
	regLHROffsetLSB = 0x32
	regLHROffsetMSB = 0x33
	regLHRConfig    = 0x34
	regLHRDataLSB   = 0x38 // LHR measurement data LSB
	regLHRDataMid   = 0x39 // LHR measurement data MID
	regLHRDataMSB   = 0x3A // LHR measurement data MSB
	regLHRStatus    = 0x3B
	regRID          = 0x3E
	regChipID       = 0x3F
)

// chipID is the fixed identity byte every LDC1101 reports from CHIP_ID.
const chipID = 0xD4

// Register values used by the fixed initialisation sequence.
const (
	altConfigLOptimal = 0x01 // disables the RP calculation for cleaner LHR data
	dConfDOKReport    = 0x01 // sensor amplitude control / DOK reporting
	startConversion   = 0x00 // only valid START_CONFIG value for normal operation
)

// LHR_STATUS bit masks. The data-ready flag has inverted sense: the bit
// is clear when a conversion result is readable.
const (
	lhrStatusNotReady   = 1 << 0
	lhrStatusOverflow   = 1 << 1
	lhrStatusUnderRange = 1 << 2
	lhrStatusOverRange  = 1 << 3
	lhrStatusZeroCount  = 1 << 4
)
