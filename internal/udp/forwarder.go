// Package udp relays validated NMEA sentences to a UDP listener, e.g. a
// chart plotter or OpenCPN on the local network.
package udp

import (
	"fmt"
	"net"
	"sync"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/nmea"
)

type udpConn interface {
	Write([]byte) (int, error)
	Close() error
}

type resolveFunc func(network, address string) (*net.UDPAddr, error)

type dialFunc func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)

// Forwarder sends every checksum-valid sentence as one datagram terminated
// by CRLF. It implements nmea.Handler; checksum failures are not forwarded.
type Forwarder struct {
	dest string
	conn udpConn

	mu      sync.Mutex
	sent    uint64
	failed  uint64
	failing bool
}

// Stats is a point-in-time view of forwarding counters.
type Stats struct {
	Dest   string `json:"dest"`
	Sent   uint64 `json:"sent"`
	Failed uint64 `json:"failed"`
}

func NewForwarder(dest string) (*Forwarder, error) {
	return newForwarder(dest, net.ResolveUDPAddr, func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return net.DialUDP(network, laddr, raddr)
	})
}

func newForwarder(dest string, resolve resolveFunc, dial dialFunc) (*Forwarder, error) {
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := dial("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Forwarder{dest: dest, conn: conn}, nil
}

// Send writes one datagram. Empty payloads are skipped.
func (f *Forwarder) Send(payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	_, err := f.conn.Write(payload)
	return err
}

func (f *Forwarder) HandleSentence(raw string, _ nmea.Sentence) {
	err := f.Send([]byte(raw + "\r\n"))

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.failed++
		// Log the first failure of a streak only; a missing listener would
		// otherwise log once per sentence.
		if !f.failing {
			log.WithError(err).WithField("dest", f.dest).Warn("udp forward failed")
		}
		f.failing = true
		return
	}
	if f.failing {
		log.WithField("dest", f.dest).Info("udp forward recovered")
	}
	f.failing = false
	f.sent++
}

func (f *Forwarder) HandleChecksumError(*nmea.ChecksumError) {}

func (f *Forwarder) Stats() Stats {
	if f == nil {
		return Stats{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{Dest: f.dest, Sent: f.sent, Failed: f.failed}
}

func (f *Forwarder) Close() error {
	if f == nil || f.conn == nil {
		return nil
	}
	return f.conn.Close()
}
