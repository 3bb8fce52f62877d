// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import "fmt"

// Raw register access. Every transaction is framed by a chip-select
// assertion that is released on all exit paths. Address bit 7 selects
// write (1) or read (0); the chip auto-increments the address for burst
// transfers, except for the FIFO register which stays put.
//
// Bus errors are wrapped in ErrBusFailure and passed up as-is: retry
// policy belongs to the caller.

func (r *Radio) transfer(w, rd []byte) error {
	r.hw.SetChipSelect(false)
	defer r.hw.SetChipSelect(true)
	if err := r.hw.Transfer(w, rd); err != nil {
		return fmt.Errorf("%w: %v", ErrBusFailure, err)
	}
	return nil
}

// readReg reads one register and returns its value.
func (r *Radio) readReg(addr byte) (byte, error) {
	var buf [2]byte
	if err := r.transfer([]byte{addr & 0x7F, 0}, buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// writeReg writes one or more registers starting at addr.
func (r *Radio) writeReg(addr byte, data ...byte) error {
	wBuf := make([]byte, len(data)+1)
	rBuf := make([]byte, len(data)+1)
	wBuf[0] = addr | 0x80
	copy(wBuf[1:], data)
	return r.transfer(wBuf, rBuf)
}

// readBurst reads n consecutive bytes starting at addr into buf.
func (r *Radio) readBurst(addr byte, buf []byte) error {
	wBuf := make([]byte, len(buf)+1)
	rBuf := make([]byte, len(buf)+1)
	wBuf[0] = addr & 0x7F
	if err := r.transfer(wBuf, rBuf); err != nil {
		return err
	}
	copy(buf, rBuf[1:])
	return nil
}
