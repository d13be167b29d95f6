package gps

import (
	"encoding/hex"
	"testing"
	"time"

	"nmea-reader/internal/nmea"
)

const (
	testGGA  = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47"
	testRMC  = "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"
	testGSA  = "$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39"
	testGSV1 = "$GPGSV,2,1,08,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*75"
)

func line(payload string) string {
	return "$" + payload + "*" + nmea.Checksum(payload)
}

func mustDecode(t *testing.T, s string) nmea.Sentence {
	t.Helper()
	sent, err := nmea.Decode(s)
	if err != nil {
		t.Fatalf("Decode(%q): %v", s, err)
	}
	return sent
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func requireFloat(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s is nil, want %v", name, want)
	}
	d := *got - want
	if d < -1e-6 || d > 1e-6 {
		t.Fatalf("%s=%v want %v", name, *got, want)
	}
}

func hexOf(s string) string {
	return hex.EncodeToString([]byte(s))
}
