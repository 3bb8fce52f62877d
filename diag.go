// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

// Link quality readouts. These are pure register reads with the offset
// correction from datasheet section 5.5.5: the constant differs between
// the high-frequency and the low-frequency antenna port, and the port in
// play follows from the configured carrier band.

func (r *Radio) rssiOffset() int {
	if r.lowBand {
		return -164
	}
	return -157
}

// SignalStrength returns the current RSSI in dBm. Safe to call at any
// time, including outside an active receive.
func (r *Radio) SignalStrength() (int, error) {
	v, err := r.readReg(REG_RSSIVALUE)
	if err != nil {
		return 0, err
	}
	return r.rssiOffset() + int(v), nil
}

// LastPacketStrength returns the RSSI in dBm of the last received packet.
// Only meaningful right after a receive event.
func (r *Radio) LastPacketStrength() (int, error) {
	v, err := r.readReg(REG_PKTRSSI)
	if err != nil {
		return 0, err
	}
	return r.rssiOffset() + int(v), nil
}

// LastPacketSNR returns the signal-to-noise ratio in dB of the last
// received packet. The register holds a two's complement value in 0.25dB
// steps.
func (r *Radio) LastPacketSNR() (int, error) {
	v, err := r.readReg(REG_PKTSNR)
	if err != nil {
		return 0, err
	}
	return int(int8(v)) / 4, nil
}
