// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

// LoRa-page register addresses.
const (
	REG_FIFO           = 0x00
	REG_OPMODE         = 0x01
	REG_FRFMSB         = 0x06
	REG_FRFMID         = 0x07
	REG_FRFLSB         = 0x08
	REG_PACONFIG       = 0x09
	REG_PARAMP         = 0x0A
	REG_OCP            = 0x0B
	REG_LNA            = 0x0C
	REG_FIFOPTR        = 0x0D
	REG_FIFOTXBASE     = 0x0E
	REG_FIFORXBASE     = 0x0F
	REG_FIFORXCURR     = 0x10
	REG_IRQMASK        = 0x11
	REG_IRQFLAGS       = 0x12
	REG_RXBYTES        = 0x13
	REG_MODEMSTAT      = 0x18
	REG_PKTSNR         = 0x19
	REG_PKTRSSI        = 0x1A
	REG_RSSIVALUE      = 0x1B
	REG_MODEMCONF1     = 0x1D
	REG_MODEMCONF2     = 0x1E
	REG_SYMBTIMEOUT    = 0x1F
	REG_PREAMBLEMSB    = 0x20
	REG_PREAMBLELSB    = 0x21
	REG_PAYLENGTH      = 0x22
	REG_MAXPAYLENGTH   = 0x23
	REG_HOPPERIOD      = 0x24
	REG_MODEMCONF3     = 0x26
	REG_DETECTOPTIMIZE = 0x31
	REG_DETECTTHRESH   = 0x37
	REG_SYNC           = 0x39
	REG_DIOMAPPING1    = 0x40
	REG_DIOMAPPING2    = 0x41
	REG_VERSION        = 0x42
	REG_PADAC          = 0x4D
)

// IRQ flag bits in REG_IRQFLAGS, write-1-to-clear.
const (
	IRQ_RXTIMEOUT   = 0x80
	IRQ_RXDONE      = 0x40
	IRQ_CRCERROR    = 0x20
	IRQ_VALIDHEADER = 0x10
	IRQ_TXDONE      = 0x08
	IRQ_CADDONE     = 0x04
	IRQ_FHSSCHANGE  = 0x02
	IRQ_CADDETECTED = 0x01
)

// REG_OPMODE bits beyond the mode field.
const (
	OPMODE_LORA    = 0x80 // LongRangeMode, writable in sleep only
	OPMODE_LOWFREQ = 0x08 // LowFrequencyModeOn, for the sub-525Mhz bands
	OPMODE_MASK    = 0x07
)

// DIO0 mappings for REG_DIOMAPPING1.
const (
	DIO0_RXDONE = 0x00
	DIO0_TXDONE = 0x40
	DIO0_NONE   = 0xC0
)

// Fixed chip parameters.
const (
	chipVersion = 0x12     // REG_VERSION signature for the SX1276/77/78/79
	fXOSC       = 32000000 // crystal oscillator frequency in Hz
	fifoSize    = 256      // shared TX/RX FIFO size in bytes
	MaxPayload  = 255      // longest payload the chip can frame
)

// LoRa sync words. The private word is the chip default, the public word is
// reserved for LoRaWAN networks.
const (
	PrivateSyncWord = 0x12
	PublicSyncWord  = 0x34
)
