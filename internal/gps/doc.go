// Package gps reads NMEA 0183 from a positioning receiver.
//
// A Service owns one byte source (a serial port, gpsd's raw NMEA relay, or a
// capture replay) and a single reader goroutine that pushes chunks through an
// nmea.Stream. Decoded sentences are fanned out to subscribers and folded
// into a Snapshot that is safe to read from any goroutine.
package gps
