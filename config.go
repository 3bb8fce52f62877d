// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import (
	"fmt"
	"time"
)

// Bandwidth selects the LoRa channel bandwidth. The values are the chip's
// own encoding for the high nibble of RegModemConfig1.
type Bandwidth byte

const (
	Bandwidth7_8 Bandwidth = iota // 7.8kHz
	Bandwidth10_4
	Bandwidth15_6
	Bandwidth20_8
	Bandwidth31_25
	Bandwidth41_7
	Bandwidth62_5
	Bandwidth125
	Bandwidth250
	Bandwidth500
)

var bandwidthHz = [Bandwidth500 + 1]uint32{
	Bandwidth7_8:   7800,
	Bandwidth10_4:  10400,
	Bandwidth15_6:  15600,
	Bandwidth20_8:  20800,
	Bandwidth31_25: 31250,
	Bandwidth41_7:  41700,
	Bandwidth62_5:  62500,
	Bandwidth125:   125000,
	Bandwidth250:   250000,
	Bandwidth500:   500000,
}

// Hz returns the bandwidth in Hertz, or 0 for an invalid value.
func (bw Bandwidth) Hz() uint32 {
	if bw > Bandwidth500 {
		return 0
	}
	return bandwidthHz[bw]
}

func (bw Bandwidth) String() string {
	if bw > Bandwidth500 {
		return "bw?"
	}
	return fmt.Sprintf("%gkHz", float64(bandwidthHz[bw])/1000)
}

// CodingRate selects the forward error correction rate. The values are the
// chip's encoding for bits 3-1 of RegModemConfig1.
type CodingRate byte

const (
	CR4_5 CodingRate = iota + 1 // 4/5
	CR4_6
	CR4_7
	CR4_8
)

func (cr CodingRate) String() string {
	if cr < CR4_5 || cr > CR4_8 {
		return "cr?"
	}
	return fmt.Sprintf("4/%d", cr+4)
}

// Config holds the modulation parameters programmed by Configure. All
// fields are checked against the chip's documented ranges before any
// register is touched; an out-of-range value fails validation instead of
// being clamped.
type Config struct {
	Frequency       uint32     // carrier frequency in Hz
	SpreadingFactor byte       // 7..12 (6 needs implicit headers, not supported)
	Bandwidth       Bandwidth  // channel bandwidth
	CodingRate      CodingRate // FEC coding rate
	Power           int8       // output power in dBm, -4..20
	CRC             bool       // append/check the payload CRC
	PreambleLength  uint16     // preamble symbols, 6..65535, 0 means 8
	SyncWord        byte       // network sync word, 0 means PrivateSyncWord
}

// DefaultConfig returns a medium-range starting point: SF7, 125kHz, 4/5
// coding, CRC on.
func DefaultConfig(freq uint32) Config {
	return Config{
		Frequency:       freq,
		SpreadingFactor: 7,
		Bandwidth:       Bandwidth125,
		CodingRate:      CR4_5,
		Power:           14,
		CRC:             true,
		PreambleLength:  8,
		SyncWord:        PrivateSyncWord,
	}
}

// withDefaults fills the fields whose zero value stands for "unset".
func (c Config) withDefaults() Config {
	if c.PreambleLength == 0 {
		c.PreambleLength = 8
	}
	if c.SyncWord == 0 {
		c.SyncWord = PrivateSyncWord
	}
	return c
}

// The chip serves two frequency bands: the LF port covers 137-525Mhz, the
// HF port 779-1020Mhz. The gap in between is not usable.
const (
	bandLFMin = 137000000
	bandLFMax = 525000000
	bandHFMin = 779000000
	bandHFMax = 1020000000
)

// symbolPeriod returns the on-air duration of one LoRa symbol, 2^SF/BW.
func (c Config) symbolPeriod() time.Duration {
	hz := c.Bandwidth.Hz()
	if hz == 0 {
		return 0
	}
	return time.Duration(uint64(1) << c.SpreadingFactor * uint64(time.Second) / uint64(hz))
}

// maxSymbolPeriod bounds the spreading-factor/bandwidth product: past this
// the symbol is too slow even with low data rate optimization enabled.
const maxSymbolPeriod = 250 * time.Millisecond

// ldroThreshold is the symbol period above which the chip requires low
// data rate optimization (datasheet 4.1.1.2).
const ldroThreshold = 16 * time.Millisecond

// Validate checks every field against the chip's documented ranges. It is
// pure translation logic: no I/O happens here, and Configure performs zero
// register writes when validation fails.
func (c Config) Validate() error {
	lf := c.Frequency >= bandLFMin && c.Frequency <= bandLFMax
	hf := c.Frequency >= bandHFMin && c.Frequency <= bandHFMax
	switch {
	case !lf && !hf:
		return fmt.Errorf("%w: frequency %dHz outside the 137-525/779-1020Mhz bands",
			ErrInvalidParameter, c.Frequency)
	case c.SpreadingFactor < 6 || c.SpreadingFactor > 12:
		return fmt.Errorf("%w: spreading factor %d not in 6..12",
			ErrInvalidParameter, c.SpreadingFactor)
	case c.SpreadingFactor == 6:
		// SF6 only works with implicit headers, this driver frames every
		// packet with an explicit header.
		return fmt.Errorf("%w: spreading factor 6 requires implicit header mode",
			ErrInvalidParameter)
	case c.Bandwidth > Bandwidth500:
		return fmt.Errorf("%w: unknown bandwidth %d", ErrInvalidParameter, c.Bandwidth)
	case c.CodingRate < CR4_5 || c.CodingRate > CR4_8:
		return fmt.Errorf("%w: unknown coding rate %d", ErrInvalidParameter, c.CodingRate)
	case c.symbolPeriod() > maxSymbolPeriod:
		return fmt.Errorf("%w: SF%d at %s exceeds the %v symbol period limit",
			ErrInvalidParameter, c.SpreadingFactor, c.Bandwidth, maxSymbolPeriod)
	case c.Frequency < 175000000 && c.Bandwidth > Bandwidth125:
		return fmt.Errorf("%w: bandwidth %s not supported below 175Mhz",
			ErrInvalidParameter, c.Bandwidth)
	case c.Power < -4 || c.Power > 20:
		return fmt.Errorf("%w: output power %ddBm not in -4..20",
			ErrInvalidParameter, c.Power)
	case c.PreambleLength != 0 && c.PreambleLength < 6:
		return fmt.Errorf("%w: preamble length %d too short, minimum 6",
			ErrInvalidParameter, c.PreambleLength)
	}
	return nil
}

// modemConf1 packs bandwidth (bits 7-4), coding rate (bits 3-1) and the
// explicit header flag (bit 0, always 0 here).
func (c Config) modemConf1() byte {
	return byte(c.Bandwidth)<<4 | byte(c.CodingRate)<<1
}

// modemConf2 packs the spreading factor (bits 7-4), the CRC flag (bit 2)
// and the top bits of the symbol timeout, kept at the maximum.
func (c Config) modemConf2() byte {
	v := c.SpreadingFactor<<4 | 0x03
	if c.CRC {
		v |= 0x04
	}
	return v
}

// modemConf3 carries the LNA AGC flag (bit 2, always on) and low data rate
// optimization (bit 3), which the chip mandates once a symbol stretches
// past 16ms.
func (c Config) modemConf3() byte {
	v := byte(0x04)
	if c.symbolPeriod() >= ldroThreshold {
		v |= 0x08
	}
	return v
}

// frfBytes converts the carrier frequency to the 24-bit Frf register
// value. Steps are fXOSC/2^19 = 61.03515625Hz.
func (c Config) frfBytes() [3]byte {
	frf := uint64(c.Frequency) << 19 / fXOSC
	return [3]byte{byte(frf >> 16), byte(frf >> 8), byte(frf)}
}

// paBoostThreshold is the most the RFO pin can deliver; anything above it
// must go through the PA_BOOST pin with over-current protection raised.
const paBoostThreshold = 14

// paBytes maps the output power to the PA configuration registers:
// RegPaConfig, RegPaDac and RegOcp. Power up to paBoostThreshold uses the
// RFO pin, above it the PA_BOOST pin, and above 17dBm the +20dBm DAC mode.
func (c Config) paBytes() (paConfig, paDac, ocp byte) {
	if c.Power <= paBoostThreshold {
		maxPower, outPower := rfoPowerRegs(c.Power)
		return maxPower<<4 | outPower, 0x84, ocpReg(45)
	}
	if c.Power > 17 {
		// +20dBm mode offsets the output power formula by 3.
		return 0xF0 + byte(c.Power) - 5, 0x87, ocpReg(140)
	}
	return 0xF0 + byte(c.Power) - 2, 0x84, ocpReg(100)
}

// rfoPowerRegs balances the MaxPower and OutputPower fields of RegPaConfig
// for the RFO pin: Pout = Pmax - (15 - OutputPower), Pmax = 10.8 + 0.6*MaxPower.
func rfoPowerRegs(dBm int8) (maxPower, outPower byte) {
	switch {
	case dBm < 2:
		maxPower = 0
	case dBm < 10:
		maxPower = 2
	case dBm < 14:
		maxPower = 4
	default:
		maxPower = 7
	}
	pMax := 11 + int(maxPower)*6/10
	out := 15 - (pMax - int(dBm))
	if out < 0 {
		out = 0
	} else if out > 15 {
		out = 15
	}
	return maxPower, byte(out)
}

// ocpReg encodes the over-current protection trim for a current limit in
// milliamperes (datasheet table 23).
func ocpReg(mA int) byte {
	var trim int
	switch {
	case mA < 45:
		trim = 0
	case mA <= 120:
		trim = (mA - 45) / 5
	case mA <= 240:
		trim = (mA + 30) / 10
	default:
		trim = 27
	}
	return 0x20 | byte(trim&0x1F)
}
