package main

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/config"
)

// applyArgs applies the positional [port [baud]] arguments. A port implies
// the serial source. An unparsable baud keeps the configured rate.
func applyArgs(cfg *config.Config, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("too many arguments: want [port [baud]], got %d", len(args))
	}
	if len(args) > 0 {
		cfg.GPS.Source = "serial"
		cfg.GPS.Device = args[0]
	}
	if len(args) > 1 {
		baud, err := strconv.Atoi(args[1])
		if err != nil || baud <= 0 {
			log.Warnf("invalid baud %q, using %d", args[1], cfg.GPS.Baud)
			return nil
		}
		cfg.GPS.Baud = baud
	}
	return nil
}
