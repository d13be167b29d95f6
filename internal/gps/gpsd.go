package gps

import (
	"context"
	"net"
	"strings"
	"time"
)

const gpsdDefaultAddr = "127.0.0.1:2947"

// gpsdWatchNMEA asks gpsd to relay the receiver's sentences verbatim instead
// of its JSON reports, so the bytes go through the same framer as a serial
// port would.
const gpsdWatchNMEA = "?WATCH={\"enable\":true,\"nmea\":true}\n"

// dialGPSD connects to gpsd over TCP.
func dialGPSD(ctx context.Context, addr string) (net.Conn, error) {
	if strings.TrimSpace(addr) == "" {
		addr = gpsdDefaultAddr
	}
	d := &net.Dialer{Timeout: 2 * time.Second}
	if ctx == nil {
		return d.Dial("tcp", addr)
	}
	return d.DialContext(ctx, "tcp", addr)
}

// gpsdWatch enables the raw NMEA relay.
func gpsdWatch(conn net.Conn) error {
	_, err := conn.Write([]byte(gpsdWatchNMEA))
	return err
}
