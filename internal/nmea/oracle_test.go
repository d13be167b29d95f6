package nmea

import (
	"math"
	"strings"
	"testing"

	gonmea "github.com/adrianmo/go-nmea"
)

// Cross-check against an independent NMEA implementation.

func TestChecksum_MatchesGoNMEA(t *testing.T) {
	for _, line := range []string{classicGGA, classicRMC, classicGSA, classicGSV} {
		body := line[1:strings.IndexByte(line, '*')]
		if got, want := Checksum(body), gonmea.Checksum(body); got != want {
			t.Fatalf("Checksum(%q)=%s go-nmea=%s", body, got, want)
		}
	}
}

func TestDecodeGGA_MatchesGoNMEA(t *testing.T) {
	for _, line := range []string{
		classicGGA,
		nmeaLine("GNGGA,092750.000,5321.6802,N,00630.3372,W,1,8,1.03,61.7,M,55.2,M,,"),
		nmeaLine("GPGGA,001038.00,3334.2313457,S,11211.0576940,W,2,04,5.4,354.682,M,-26.574,M,7.0,0138"),
	} {
		ref, err := gonmea.Parse(line)
		if err != nil {
			t.Fatalf("go-nmea parse %q: %v", line, err)
		}
		want, ok := ref.(gonmea.GGA)
		if !ok {
			t.Fatalf("go-nmea returned %T", ref)
		}
		got := mustDecode(t, line).(GGA)
		requireFloat(t, "lat", got.LatDeg, want.Latitude)
		requireFloat(t, "lon", got.LonDeg, want.Longitude)
		requireFloat(t, "altitude", got.AltitudeM, want.Altitude)
		requireInt(t, "satellites", got.Satellites, int(want.NumSatellites))
	}
}

func TestDecodeRMC_MatchesGoNMEA(t *testing.T) {
	line := nmeaLine("GNRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W")
	ref, err := gonmea.Parse(line)
	if err != nil {
		t.Fatalf("go-nmea parse: %v", err)
	}
	want := ref.(gonmea.RMC)
	got := mustDecode(t, line).(RMC)
	requireFloat(t, "lat", got.LatDeg, want.Latitude)
	requireFloat(t, "lon", got.LonDeg, want.Longitude)
	requireFloat(t, "course", got.CourseDeg, want.Course)
	if got.SpeedKmh == nil || math.Abs(*got.SpeedKmh-want.Speed*1.852) > 1e-9 {
		t.Fatalf("speed_kmh=%v want %v", got.SpeedKmh, want.Speed*1.852)
	}
}
