// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import (
	"errors"
	"time"
)

// simChip is a host-side model of the SX1276 register file and FIFO,
// implementing Hardware. It mimics the SPI framing (address byte with the
// read/write bit, auto-increment, the FIFO pointer special case), the
// write-1-to-clear IRQ register, the transmit auto-return to standby, and
// the DIO0 line. Time never passes for real: Delay only advances a
// virtual clock, so timeout bounds can be asserted exactly.
type simChip struct {
	regs [0x80]byte
	fifo [fifoSize]byte

	csHigh  bool
	resetLo bool

	version byte          // value served from REG_VERSION
	stuckTx bool          // never raise TxDone, for timeout tests
	sent    [][]byte      // payloads captured at transmit
	rxQueue []simPacket   // delivered on entering a receive mode
	elapsed time.Duration // virtual time accumulated by Delay
	writes  int           // write transactions seen
}

type simPacket struct {
	payload []byte
	badCRC  bool
}

func newSimChip() *simChip {
	s := &simChip{csHigh: true, version: chipVersion}
	s.powerOnDefaults()
	return s
}

func (s *simChip) powerOnDefaults() {
	s.regs = [0x80]byte{}
	s.regs[REG_OPMODE] = 0x01 // FSK standby
	s.regs[REG_VERSION] = s.version
	s.regs[REG_MAXPAYLENGTH] = 0xFF
}

func (s *simChip) SetChipSelect(high bool) { s.csHigh = high }

func (s *simChip) SetReset(high bool) {
	if !high {
		s.resetLo = true
		return
	}
	if s.resetLo {
		s.resetLo = false
		s.powerOnDefaults()
	}
}

func (s *simChip) ReadInterrupt() bool {
	return s.regs[REG_IRQFLAGS]&(IRQ_TXDONE|IRQ_RXDONE) != 0
}

func (s *simChip) Delay(d time.Duration) { s.elapsed += d }

func (s *simChip) Transfer(w, r []byte) error {
	if s.csHigh {
		return errors.New("transfer without chip select asserted")
	}
	if len(w) != len(r) {
		return errors.New("transfer buffers differ in length")
	}
	addr := w[0] & 0x7F
	write := w[0]&0x80 != 0
	if write {
		s.writes++
	}
	for i := 1; i < len(w); i++ {
		if write {
			s.writeByte(addr, w[i])
		} else {
			r[i] = s.readByte(addr)
		}
		if addr != REG_FIFO {
			addr++ // the chip auto-increments everywhere but the FIFO
		}
	}
	return nil
}

func (s *simChip) readByte(addr byte) byte {
	if addr == REG_FIFO {
		v := s.fifo[s.regs[REG_FIFOPTR]]
		s.regs[REG_FIFOPTR]++
		return v
	}
	if addr == REG_VERSION {
		return s.version
	}
	return s.regs[addr]
}

func (s *simChip) writeByte(addr, v byte) {
	switch addr {
	case REG_FIFO:
		s.fifo[s.regs[REG_FIFOPTR]] = v
		s.regs[REG_FIFOPTR]++
	case REG_IRQFLAGS:
		s.regs[REG_IRQFLAGS] &^= v // write 1 to clear
	case REG_OPMODE:
		s.regs[REG_OPMODE] = v
		switch v & OPMODE_MASK {
		case byte(ModeTx):
			s.transmit(v)
		case byte(ModeRxContinuous), byte(ModeRxSingle):
			s.deliverQueued()
		}
	default:
		s.regs[addr] = v
	}
}

// transmit captures the staged payload and, unless stuckTx is set, raises
// TxDone and drops back to standby the way the chip does.
func (s *simChip) transmit(opmode byte) {
	if s.stuckTx {
		return
	}
	n := int(s.regs[REG_PAYLENGTH])
	base := int(s.regs[REG_FIFOTXBASE])
	payload := make([]byte, n)
	copy(payload, s.fifo[base:base+n])
	s.sent = append(s.sent, payload)
	s.regs[REG_IRQFLAGS] |= IRQ_TXDONE
	s.regs[REG_OPMODE] = opmode&^OPMODE_MASK | byte(ModeStandby)
}

// inject queues a packet for delivery; it lands as soon as the chip is in
// a receive mode (immediately, if it already is).
func (s *simChip) inject(payload []byte, badCRC bool) {
	p := make([]byte, len(payload))
	copy(p, payload)
	s.rxQueue = append(s.rxQueue, simPacket{payload: p, badCRC: badCRC})
	s.deliverQueued()
}

func (s *simChip) deliverQueued() {
	mode := s.regs[REG_OPMODE] & OPMODE_MASK
	if mode != byte(ModeRxContinuous) && mode != byte(ModeRxSingle) {
		return
	}
	if len(s.rxQueue) == 0 || s.regs[REG_IRQFLAGS]&IRQ_RXDONE != 0 {
		return
	}
	p := s.rxQueue[0]
	s.rxQueue = s.rxQueue[1:]
	base := s.regs[REG_FIFORXBASE]
	copy(s.fifo[base:], p.payload)
	s.regs[REG_FIFORXCURR] = base
	s.regs[REG_RXBYTES] = byte(len(p.payload))
	s.regs[REG_IRQFLAGS] |= IRQ_RXDONE | IRQ_VALIDHEADER
	if p.badCRC {
		s.regs[REG_IRQFLAGS] |= IRQ_CRCERROR
	}
}

func (s *simChip) lastSent() []byte {
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

// deadBus is a Hardware with no chip behind it: reads float high.
type deadBus struct{}

func (deadBus) Transfer(w, r []byte) error {
	for i := range r {
		r[i] = 0xFF
	}
	return nil
}
func (deadBus) SetChipSelect(bool)  {}
func (deadBus) SetReset(bool)       {}
func (deadBus) ReadInterrupt() bool { return true }
func (deadBus) Delay(time.Duration) {}

// brokenBus fails every transfer, for bus error propagation tests.
type brokenBus struct{ err error }

func (b brokenBus) Transfer(w, r []byte) error { return b.err }
func (brokenBus) SetChipSelect(bool)           {}
func (brokenBus) SetReset(bool)                {}
func (brokenBus) ReadInterrupt() bool          { return true }
func (brokenBus) Delay(time.Duration)          {}
