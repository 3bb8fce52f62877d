// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Hardware is the narrow shim between the driver core and the platform. It
// owns the SPI channel and the three discrete lines wired to the radio:
// chip select, reset, and DIO0 (interrupt status). The core addresses the
// hardware only through this interface, never through platform packages.
type Hardware interface {
	// Transfer performs a full-duplex exchange: w is clocked out while r,
	// of equal length, is filled with the bytes clocked in.
	Transfer(w, r []byte) error

	// SetChipSelect drives the chip-select line. The line is active low:
	// the driver passes false to open a transaction window and true to
	// close it.
	SetChipSelect(high bool)

	// SetReset drives the reset line.
	SetReset(high bool)

	// ReadInterrupt reports the level of the DIO0 line. Implementations
	// that do not wire DIO0 must return true so that the driver falls
	// through to polling the IRQ flags register directly.
	ReadInterrupt() bool

	// Delay blocks for the given duration. Used for reset sequencing and
	// polling backoff.
	Delay(d time.Duration)
}

// PeriphHardware implements Hardware on top of periph.io. The SPI port is
// connected at 4Mhz, mode 0, 8 bits; chip select is driven manually through
// a GPIO pin so that every register access is framed explicitly.
type PeriphHardware struct {
	conn spi.Conn
	cs   gpio.PinOut
	rst  gpio.PinOut
	intr gpio.PinIn // may be nil when DIO0 is not wired
}

// NewPeriphHardware binds an SPI port and the radio's discrete lines. The
// intr pin may be nil, in which case the driver polls status registers only.
func NewPeriphHardware(port spi.Port, cs, rst gpio.PinOut, intr gpio.PinIn) (*PeriphHardware, error) {
	conn, err := port.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("sx1276: cannot set device params: %v", err)
	}
	if err := cs.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("sx1276: cannot drive chip select: %v", err)
	}
	if intr != nil {
		if err := intr.In(gpio.PullDown, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("sx1276: cannot init interrupt pin: %v", err)
		}
	}
	return &PeriphHardware{conn: conn, cs: cs, rst: rst, intr: intr}, nil
}

func (h *PeriphHardware) Transfer(w, r []byte) error { return h.conn.Tx(w, r) }

func (h *PeriphHardware) SetChipSelect(high bool) { h.cs.Out(gpio.Level(high)) }

func (h *PeriphHardware) SetReset(high bool) { h.rst.Out(gpio.Level(high)) }

func (h *PeriphHardware) ReadInterrupt() bool {
	if h.intr == nil {
		return true
	}
	return h.intr.Read() == gpio.High
}

func (h *PeriphHardware) Delay(d time.Duration) { time.Sleep(d) }
