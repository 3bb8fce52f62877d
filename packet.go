// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import (
	"fmt"
	"time"
)

// pollInterval is the backoff between IRQ flag polls while waiting for an
// event.
const pollInterval = time.Millisecond

// waitIRQ waits until one of the flags in mask is raised, or until the
// caller's budget runs out. The DIO0 line gates the register polls when it
// is wired; platforms without it report the line high and every poll hits
// the IRQ flags register. The budget is accounted through the hardware
// delay, so the wait never exceeds timeout by more than one poll interval.
func (r *Radio) waitIRQ(mask byte, timeout time.Duration) (byte, error) {
	var waited time.Duration
	for {
		if r.hw.ReadInterrupt() {
			flags, err := r.readReg(REG_IRQFLAGS)
			if err != nil {
				return 0, err
			}
			if flags&mask != 0 {
				return flags, nil
			}
		}
		if waited >= timeout {
			return 0, fmt.Errorf("%w: no event within %v", ErrTimeout, timeout)
		}
		r.hw.Delay(pollInterval)
		waited += pollInterval
	}
}

// Transmit frames payload into the FIFO, transmits it and waits for the
// transmit-done event, bounded by timeout. It returns the number of bytes
// sent. The radio must be in standby with a valid configuration; it is
// back in standby when Transmit returns, also after a timeout. There is no
// retry inside this call.
func (r *Radio) Transmit(payload []byte, timeout time.Duration) (int, error) {
	if len(payload) == 0 || len(payload) > MaxPayload {
		return 0, fmt.Errorf("%w: payload length %d not in 1..%d",
			ErrInvalidParameter, len(payload), MaxPayload)
	}
	if r.mode != ModeStandby || !r.configValid {
		return 0, fmt.Errorf("%w: transmit needs standby with a valid configuration, radio is in %s",
			ErrIllegalTransition, r.mode)
	}

	// Stage the FIFO: write pointer at the TX base, then the payload and
	// its length.
	w := &regWriter{r: r}
	w.write(REG_FIFOTXBASE, 0)
	w.write(REG_FIFOPTR, 0)
	w.write(REG_FIFO, payload...)
	w.write(REG_PAYLENGTH, byte(len(payload)))
	if w.err != nil {
		return 0, w.err
	}

	if err := r.setMode(ModeFSTx); err != nil {
		return 0, err
	}
	if err := r.setMode(ModeTx); err != nil {
		return 0, err
	}

	if _, err := r.waitIRQ(IRQ_TXDONE, timeout); err != nil {
		// Abort: drop whatever is pending and put the radio back into
		// standby so the caller can retry.
		r.writeReg(REG_IRQFLAGS, 0xFF)
		r.setMode(ModeStandby)
		return 0, err
	}
	if err := r.writeReg(REG_IRQFLAGS, IRQ_TXDONE); err != nil {
		return 0, err
	}
	if err := r.setMode(ModeStandby); err != nil {
		return 0, err
	}
	r.log("sent %d bytes", len(payload))
	return len(payload), nil
}

// StartReceive clears stale events, stages the FIFO read pointer and moves
// the radio into a receive mode: continuous listening when continuous is
// set, single-packet otherwise. The caller then polls Available and drains
// with Drain. The radio must be in standby with a valid configuration.
func (r *Radio) StartReceive(continuous bool) error {
	if r.mode != ModeStandby || !r.configValid {
		return fmt.Errorf("%w: receive needs standby with a valid configuration, radio is in %s",
			ErrIllegalTransition, r.mode)
	}
	w := &regWriter{r: r}
	w.write(REG_IRQFLAGS, 0xFF)
	w.write(REG_FIFORXBASE, 0)
	w.write(REG_FIFOPTR, 0)
	if w.err != nil {
		return w.err
	}
	if err := r.setMode(ModeFSRx); err != nil {
		return err
	}
	target := ModeRxSingle
	if continuous {
		target = ModeRxContinuous
	}
	return r.setMode(target)
}

// Available reports the length of a ready payload, or 0 when nothing is
// ready. A payload whose CRC check failed counts as nothing ready: the
// chip's corrupted bytes are dropped and the flags cleared, unless the
// radio was opened with SurfaceCRCErrors, in which case ErrCRCMismatch is
// returned alongside the zero count.
func (r *Radio) Available() (int, error) {
	if r.mode != ModeRxSingle && r.mode != ModeRxContinuous {
		return 0, nil
	}
	flags, err := r.readReg(REG_IRQFLAGS)
	if err != nil {
		return 0, err
	}
	if flags&IRQ_RXDONE == 0 {
		return 0, nil
	}
	if r.cfg.CRC && flags&IRQ_CRCERROR != 0 {
		if err := r.writeReg(REG_IRQFLAGS, IRQ_RXDONE|IRQ_CRCERROR|IRQ_VALIDHEADER); err != nil {
			return 0, err
		}
		r.log("dropped payload with bad crc")
		if r.surfaceCRC {
			return 0, ErrCRCMismatch
		}
		return 0, nil
	}
	n, err := r.readReg(REG_RXBYTES)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Drain copies the ready payload out of the FIFO into buf and clears the
// receive-done event. It returns the number of bytes copied, at most
// len(buf). Call it after Available reported a non-zero length.
func (r *Radio) Drain(buf []byte) (int, error) {
	if r.mode != ModeRxSingle && r.mode != ModeRxContinuous {
		return 0, fmt.Errorf("%w: drain requested in %s", ErrIllegalTransition, r.mode)
	}
	curr, err := r.readReg(REG_FIFORXCURR)
	if err != nil {
		return 0, err
	}
	n, err := r.readReg(REG_RXBYTES)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if int(n) > len(buf) {
		n = byte(len(buf))
	}
	if err := r.writeReg(REG_FIFOPTR, curr); err != nil {
		return 0, err
	}
	if err := r.readBurst(REG_FIFO, buf[:n]); err != nil {
		return 0, err
	}
	if err := r.writeReg(REG_IRQFLAGS, IRQ_RXDONE|IRQ_VALIDHEADER); err != nil {
		return 0, err
	}
	return int(n), nil
}

// RxPacket is a received packet with stats.
type RxPacket struct {
	Payload []byte // payload, excluding length & crc
	Rssi    int    // rssi in dBm for packet
	Snr     int    // signal-to-noise in dB for packet
}

// Receive blocks until one packet arrives or timeout expires, whichever
// comes first, and restores standby before returning. A timeout is
// reported as ErrTimeout; the caller decides whether to listen again.
func (r *Radio) Receive(timeout time.Duration) (*RxPacket, error) {
	if err := r.StartReceive(false); err != nil {
		return nil, err
	}
	var waited time.Duration
	for {
		n, err := r.Available()
		if err != nil {
			r.setMode(ModeStandby)
			return nil, err
		}
		if n > 0 {
			buf := make([]byte, n)
			if _, err := r.Drain(buf); err != nil {
				r.setMode(ModeStandby)
				return nil, err
			}
			rssi, _ := r.LastPacketStrength()
			snr, _ := r.LastPacketSNR()
			if err := r.setMode(ModeStandby); err != nil {
				return nil, err
			}
			r.log("received %d bytes rssi=%ddBm snr=%ddB", n, rssi, snr)
			return &RxPacket{Payload: buf, Rssi: rssi, Snr: snr}, nil
		}
		if waited >= timeout {
			r.setMode(ModeStandby)
			return nil, fmt.Errorf("%w: no packet within %v", ErrTimeout, timeout)
		}
		r.hw.Delay(pollInterval)
		waited += pollInterval
	}
}
