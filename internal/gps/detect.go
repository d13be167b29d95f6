package gps

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.bug.st/serial"
)

// autoDetectDevice returns the first plausible GNSS serial port, or "".
//
// USB receivers show up as CDC-ACM (u-blox) or USB-serial bridges. The
// platform port list is consulted first; the fixed /dev candidates cover
// systems where enumeration fails.
func autoDetectDevice() string {
	if ports, err := serial.GetPortsList(); err == nil {
		if p := pickPort(ports); p != "" {
			return p
		}
	}
	for _, pattern := range []string{"/dev/ttyACM%d", "/dev/ttyUSB%d"} {
		for i := 0; i < 10; i++ {
			p := fmt.Sprintf(pattern, i)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// ListPorts returns the serial ports the platform reports.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	sort.Strings(ports)
	return ports, nil
}

func pickPort(ports []string) string {
	var acm, usb, other []string
	for _, p := range ports {
		switch {
		case strings.Contains(p, "ttyACM"):
			acm = append(acm, p)
		case strings.Contains(p, "ttyUSB"), strings.Contains(p, "usbserial"), strings.Contains(p, "usbmodem"):
			usb = append(usb, p)
		case strings.HasPrefix(strings.ToUpper(p), "COM"):
			other = append(other, p)
		}
	}
	for _, group := range [][]string{acm, usb, other} {
		if len(group) > 0 {
			sort.Strings(group)
			return group[0]
		}
	}
	return ""
}
