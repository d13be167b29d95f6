//go:build !linux

package gps

import (
	"io"

	"go.bug.st/serial"
)

// openSerial opens the port 8N1 through go.bug.st/serial on platforms
// without the termios path (macOS COM names, Windows COMn).
func openSerial(path string, baud int) (io.ReadCloser, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}
