// Copyright 2016 by Thorsten von Eicken, see LICENSE file

// Package sx1276 interfaces with a HopeRF RFM95/96/97/98 LoRA radio
// connected to an SPI bus.
//
// The RFM9x modules use a Semtech SX1276 radio chip; the SX1276, SX1277,
// SX1278 and SX1279 function identically and only differ in the RF bands
// they support. The driver uses the chip in LoRa mode with explicit
// headers.
//
// The driver is not interrupt driven: Transmit and Receive block until
// complete or until the caller's timeout expires, polling the IRQ flags
// (gated on the DIO0 line when it is wired). The methods are not
// concurrency safe; the radio is a single physical resource and one
// goroutine must own it.
package sx1276

import (
	"fmt"
)

// Radio represents one SX1276 transceiver. Exactly one Radio exists per
// physical chip; all register mutation goes through it.
type Radio struct {
	// configuration
	hw Hardware // bus, chip select, reset and DIO0 lines

	// state
	mode        Mode      // cached operating mode
	cfg         Config    // active modulation parameters
	configValid bool      // cfg has been programmed since the last reset
	lowBand     bool      // carrier is on the 137-525Mhz port
	surfaceCRC  bool      // report CRC mismatches instead of dropping
	log         LogPrintf // function to use for logging
}

// Opts contains options used when initializing a Radio.
type Opts struct {
	// SurfaceCRCErrors makes Available report ErrCRCMismatch for a
	// corrupt payload instead of silently dropping it.
	SurfaceCRCErrors bool

	Logger LogPrintf // function to use for logging, nil disables
}

// LogPrintf is a function used by the driver to print logging info.
type LogPrintf func(format string, v ...interface{})

// New initializes a Radio behind the given hardware shim and resets the
// chip into sleep mode. Configure must be called before transmitting or
// receiving.
func New(hw Hardware, opts Opts) (*Radio, error) {
	r := &Radio{
		hw:         hw,
		mode:       modeUnknown,
		surfaceCRC: opts.SurfaceCRCErrors,
		log:        func(format string, v ...interface{}) {},
	}
	if opts.Logger != nil {
		r.log = func(format string, v ...interface{}) {
			opts.Logger("sx1276: "+format, v...)
		}
	}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// Config returns the active modulation parameters. The second return is
// false until Configure has succeeded after the latest reset.
func (r *Radio) Config() (Config, bool) { return r.cfg, r.configValid }

// logRegs is a debug helper function to print almost all the sx1276's registers.
func (r *Radio) logRegs() {
	var regs [0x50]byte
	if err := r.readBurst(0x01, regs[1:]); err != nil {
		r.log("cannot dump registers: %v", err)
		return
	}
	r.log("     0  1  2  3  4  5  6  7  8  9  A  B  C  D  E  F")
	for i := 0; i < len(regs); i += 16 {
		line := fmt.Sprintf("%02x:", i)
		for j := 0; j < 16 && i+j < len(regs); j++ {
			line += fmt.Sprintf(" %02x", regs[i+j])
		}
		r.log(line)
	}
}
