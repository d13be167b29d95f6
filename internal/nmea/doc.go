// Package nmea frames and decodes NMEA 0183 sentences.
//
// It is the I/O-free core of the reader:
// - Framer turns arbitrary byte chunks into trimmed sentence strings
// - ValidChecksum checks the optional *hh suffix
// - Decode dispatches GGA/RMC/GSV/GSA (GP and GN talkers) to typed records
//
// Nothing here blocks or owns goroutines. A Framer (or Stream) must be fed
// by a single goroutine; use one instance per byte stream.
package nmea
