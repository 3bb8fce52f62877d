// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/radionode/sx1276"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func run(spiPortName, intrPinName, resetPinName, csPinName string, freq uint, sf, power int, tx, debug bool) error {
	if _, err := host.Init(); err != nil {
		return err
	}

	intrPin := gpioreg.ByName(intrPinName)
	if intrPin == nil {
		return fmt.Errorf("cannot open pin %s", intrPinName)
	}

	csPin := gpioreg.ByName(csPinName)
	if csPin == nil {
		return fmt.Errorf("cannot open pin %s", csPinName)
	}

	resetPin := gpioreg.ByName(resetPinName)
	if resetPin == nil {
		return fmt.Errorf("cannot open pin %s", resetPinName)
	}

	spiPort, err := spireg.Open(spiPortName)
	if err != nil {
		return err
	}

	hw, err := sx1276.NewPeriphHardware(spiPort, csPin, resetPin, intrPin)
	if err != nil {
		return err
	}

	log.Printf("Initializing sx1276...")
	t0 := time.Now()
	opts := sx1276.Opts{}
	if debug {
		opts.Logger = log.Printf
	}
	radio, err := sx1276.New(hw, opts)
	if err != nil {
		return err
	}

	cfg := sx1276.DefaultConfig(uint32(freq))
	cfg.SpreadingFactor = byte(sf)
	cfg.Power = int8(power)
	if err := radio.Configure(cfg); err != nil {
		return err
	}
	log.Printf("Ready (%.1fms)", time.Since(t0).Seconds()*1000)

	if tx {
		for i := 1; i <= 20; i++ {
			msg := []byte(fmt.Sprintf("Hello %03d", i))
			log.Printf("Sending packet %d ...", i)
			n, err := radio.Transmit(msg, 2*time.Second)
			if err != nil {
				return err
			}
			log.Printf("Sent %d bytes", n)
			time.Sleep(time.Second)
		}
		log.Printf("Bye...")
		return nil
	}

	log.Printf("Receiving packets ...")
	for {
		pkt, err := radio.Receive(30 * time.Second)
		if err != nil {
			log.Printf("Receive: %v", err)
			continue
		}
		log.Printf("Got len=%d rssi=%ddBm snr=%ddB %q",
			len(pkt.Payload), pkt.Rssi, pkt.Snr, string(pkt.Payload))
	}
}

func main() {
	spiPort := flag.String("port", "/dev/spidev0.1", "sx1276 SPI port name")
	intrPin := flag.String("intr", "GPIO22", "sx1276 radio DIO0 pin name")
	resetPin := flag.String("reset", "GPIO25", "sx1276 radio reset pin name")
	csPin := flag.String("cspin", "GPIO7", "sx1276 radio chip select pin name")
	freq := flag.Uint("freq", 433000000, "carrier frequency in Hz")
	sf := flag.Int("sf", 7, "spreading factor (7..12)")
	power := flag.Int("power", 14, "output power in dBm (-4..20)")
	tx := flag.Bool("tx", false, "transmit test packets instead of receiving")
	debug := flag.Bool("debug", false, "enable debug output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s:\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()

	if err := run(*spiPort, *intrPin, *resetPin, *csPin, *freq, *sf, *power, *tx, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Exiting due to error: %s\n", err)
		os.Exit(2)
	}
}
