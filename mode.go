// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import (
	"fmt"
	"time"
)

// Mode is one of the chip's LoRa operating modes. The values match the
// mode field of RegOpMode.
type Mode byte

const (
	ModeSleep        Mode = 0
	ModeStandby      Mode = 1
	ModeFSTx         Mode = 2 // frequency synthesis before transmit
	ModeTx           Mode = 3
	ModeFSRx         Mode = 4 // frequency synthesis before receive
	ModeRxContinuous Mode = 5
	ModeRxSingle     Mode = 6

	modeUnknown Mode = 0xFF // before the first reset
)

func (m Mode) String() string {
	switch m {
	case ModeSleep:
		return "sleep"
	case ModeStandby:
		return "standby"
	case ModeFSTx:
		return "fstx"
	case ModeTx:
		return "tx"
	case ModeFSRx:
		return "fsrx"
	case ModeRxContinuous:
		return "rx-continuous"
	case ModeRxSingle:
		return "rx-single"
	}
	return fmt.Sprintf("mode(%#x)", byte(m))
}

// modeGraph is the only valid transition table. Requests outside of it
// fail with ErrIllegalTransition and leave the current mode untouched.
var modeGraph = map[Mode][]Mode{
	ModeSleep:        {ModeStandby},
	ModeStandby:      {ModeSleep, ModeFSTx, ModeFSRx},
	ModeFSTx:         {ModeTx, ModeStandby},
	ModeTx:           {ModeStandby},
	ModeFSRx:         {ModeRxSingle, ModeRxContinuous, ModeStandby},
	ModeRxSingle:     {ModeStandby, ModeSleep},
	ModeRxContinuous: {ModeStandby, ModeSleep},
}

func (m Mode) canEnter(next Mode) bool {
	for _, t := range modeGraph[m] {
		if t == next {
			return true
		}
	}
	return false
}

// Mode returns the cached operating mode.
func (r *Radio) Mode() Mode { return r.mode }

// opmodeBits builds the RegOpMode value for a mode: LoRa always on, plus
// low-frequency register access when the carrier sits on the LF port.
func (r *Radio) opmodeBits(m Mode) byte {
	b := OPMODE_LORA | byte(m)
	if r.lowBand {
		b |= OPMODE_LOWFREQ
	}
	return b
}

// setMode moves the chip along the transition graph and points DIO0 at
// the event that ends the new mode.
func (r *Radio) setMode(m Mode) error {
	if r.mode == m {
		return nil
	}
	if !r.mode.canEnter(m) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, r.mode, m)
	}

	var dio byte
	switch m {
	case ModeTx:
		dio = DIO0_TXDONE
	case ModeRxSingle, ModeRxContinuous:
		dio = DIO0_RXDONE
	default:
		dio = DIO0_NONE
	}
	if err := r.writeReg(REG_DIOMAPPING1, dio); err != nil {
		return err
	}
	if err := r.writeReg(REG_OPMODE, r.opmodeBits(m)); err != nil {
		return err
	}

	// Tx and the synthesis modes end on their own; only verify the modes
	// the chip is supposed to stay in.
	switch m {
	case ModeSleep, ModeStandby, ModeRxSingle, ModeRxContinuous:
		got, err := r.readReg(REG_OPMODE)
		if err != nil {
			return err
		}
		if got&(OPMODE_MASK|OPMODE_LORA) != OPMODE_LORA|byte(m) {
			return fmt.Errorf("sx1276: mode %s not reached, opmode %#x", m, got)
		}
	}
	r.log("mode %s", m)
	r.mode = m
	return nil
}

// Reset pulses the reset line with the chip's documented hold and settle
// delays, switches the modem to LoRa (only writable from sleep) and leaves
// the radio in sleep mode. The register file is back at its defaults
// afterwards, so the cached configuration is invalidated.
func (r *Radio) Reset() error {
	r.hw.SetReset(false)
	r.hw.Delay(time.Millisecond) // datasheet asks for >=100us low
	r.hw.SetReset(true)
	r.hw.Delay(5 * time.Millisecond)

	if err := r.writeReg(REG_OPMODE, 0x00); err != nil { // FSK sleep
		return err
	}
	if err := r.writeReg(REG_OPMODE, r.opmodeBits(ModeSleep)); err != nil {
		return err
	}
	r.mode = ModeSleep
	r.configValid = false
	return nil
}

// Configure validates cfg, verifies the chip identity and programs every
// modulation register, leaving the radio in standby with the FIFO pointers
// staged. Legal only from sleep or standby. Validation happens before any
// register write, so a bad parameter leaves the chip untouched.
func (r *Radio) Configure(cfg Config) error {
	if r.mode != ModeSleep && r.mode != ModeStandby {
		return fmt.Errorf("%w: configure requested in %s", ErrIllegalTransition, r.mode)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	v, err := r.readReg(REG_VERSION)
	if err != nil {
		return err
	}
	if v != chipVersion {
		return fmt.Errorf("%w: version register %#x, want %#x", ErrIdentityMismatch, v, chipVersion)
	}

	// Which antenna port is in play follows from the carrier band and
	// decides the low-frequency opmode bit and the RSSI offset.
	r.lowBand = cfg.Frequency <= bandLFMax

	// The modem selector bit is only writable from FSK sleep.
	if err := r.writeReg(REG_OPMODE, 0x00); err != nil {
		return err
	}
	if err := r.writeReg(REG_OPMODE, r.opmodeBits(ModeSleep)); err != nil {
		return err
	}
	r.mode = ModeSleep

	frf := cfg.frfBytes()
	paConfig, paDac, ocp := cfg.paBytes()
	w := &regWriter{r: r}
	w.write(REG_FRFMSB, frf[0], frf[1], frf[2])
	w.write(REG_MODEMCONF1, cfg.modemConf1(), cfg.modemConf2(), 0xFF) // conf2 carries the timeout MSBs
	w.write(REG_MODEMCONF3, cfg.modemConf3())
	w.write(REG_PREAMBLEMSB, byte(cfg.PreambleLength>>8), byte(cfg.PreambleLength))
	w.write(REG_SYNC, cfg.SyncWord)
	w.write(REG_PACONFIG, paConfig)
	w.write(REG_PADAC, paDac)
	w.write(REG_OCP, ocp)
	w.write(REG_MAXPAYLENGTH, MaxPayload)
	w.write(REG_HOPPERIOD, 0)
	if w.err != nil {
		return w.err
	}

	// FIFO registers want standby.
	if err := r.setMode(ModeStandby); err != nil {
		return err
	}
	w.write(REG_FIFOTXBASE, 0)
	w.write(REG_FIFORXBASE, 0)
	w.write(REG_FIFOPTR, 0)
	if w.err != nil {
		return w.err
	}

	r.cfg = cfg
	r.configValid = true
	r.log("configured %dHz SF%d %s cr=%s pow=%ddBm crc=%v",
		cfg.Frequency, cfg.SpreadingFactor, cfg.Bandwidth, cfg.CodingRate, cfg.Power, cfg.CRC)
	r.logRegs()
	return nil
}

// regWriter chains register writes, keeping the first error.
type regWriter struct {
	r   *Radio
	err error
}

func (w *regWriter) write(addr byte, data ...byte) {
	if w.err != nil {
		return
	}
	w.err = w.r.writeReg(addr, data...)
}
