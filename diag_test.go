// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package sx1276

import "testing"

func TestSignalStrengthOffsetPerPort(t *testing.T) {
	// Low-frequency port at 433Mhz: -164 offset.
	r, sim := newTestRadio(t, Opts{})
	if err := r.Configure(DefaultConfig(433000000)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	sim.regs[REG_RSSIVALUE] = 80
	if rssi, err := r.SignalStrength(); err != nil || rssi != -84 {
		t.Errorf("SignalStrength at 433Mhz = %d, %v, want -84", rssi, err)
	}

	// High-frequency port at 868Mhz: -157 offset.
	r, sim = newTestRadio(t, Opts{})
	if err := r.Configure(DefaultConfig(868000000)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	sim.regs[REG_RSSIVALUE] = 80
	if rssi, err := r.SignalStrength(); err != nil || rssi != -77 {
		t.Errorf("SignalStrength at 868Mhz = %d, %v, want -77", rssi, err)
	}
}

func TestLastPacketSNRIsSigned(t *testing.T) {
	r, sim := newTestRadio(t, Opts{})
	if err := r.Configure(DefaultConfig(868000000)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	sim.regs[REG_PKTSNR] = 0xF0 // -16 quarter-dB steps
	if snr, err := r.LastPacketSNR(); err != nil || snr != -4 {
		t.Errorf("LastPacketSNR = %d, %v, want -4", snr, err)
	}
	sim.regs[REG_PKTSNR] = 24 // +6dB
	if snr, err := r.LastPacketSNR(); err != nil || snr != 6 {
		t.Errorf("LastPacketSNR = %d, %v, want 6", snr, err)
	}
}
