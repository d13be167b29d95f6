package main

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/nmea"
)

// consolePrinter writes one human-readable block per decoded sentence.
// It runs on the gps reader goroutine.
type consolePrinter struct {
	w io.Writer
}

func newConsolePrinter(w io.Writer) *consolePrinter {
	return &consolePrinter{w: w}
}

func (p *consolePrinter) HandleSentence(_ string, s nmea.Sentence) {
	switch v := s.(type) {
	case nmea.GGA:
		p.printGGA(v)
	case nmea.RMC:
		p.printRMC(v)
	case nmea.GSV:
		p.printGSV(v)
	case nmea.GSA:
		p.printGSA(v)
	case nmea.Unrecognized:
		log.WithField("id", v.ID).Trace("unrecognized sentence")
	}
}

func (p *consolePrinter) HandleChecksumError(err *nmea.ChecksumError) {
	log.WithField("sentence", err.Sentence).Warn("checksum error")
}

func (p *consolePrinter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func (p *consolePrinter) printGGA(g nmea.GGA) {
	p.printf("  Type: GGA (Fix Data)\n")
	if g.Time != nil {
		p.printf("  Time: %s\n", *g.Time)
	}
	if g.LatDeg != nil {
		p.printf("  Latitude: %.6f\n", *g.LatDeg)
	}
	if g.LonDeg != nil {
		p.printf("  Longitude: %.6f\n", *g.LonDeg)
	}
	if g.FixQuality != nil {
		p.printf("  Quality: %s\n", g.FixQuality.String())
	}
	if g.Satellites != nil {
		p.printf("  Satellites: %d\n", *g.Satellites)
	}
	if g.HDOP != nil {
		p.printf("  HDOP: %g\n", *g.HDOP)
	}
	if g.AltitudeM != nil {
		p.printf("  Altitude: %g m\n", *g.AltitudeM)
	}
	p.printf("-------------------------------\n")
}

func (p *consolePrinter) printRMC(r nmea.RMC) {
	p.printf("  Type: RMC (Recommended Minimum)\n")
	if r.Active != nil {
		status := "inactive"
		if *r.Active {
			status = "active"
		}
		p.printf("  Status: %s\n", status)
	}
	if r.DateTime != nil {
		p.printf("  Date/time: %s\n", r.DateTime.Format("2006-01-02 15:04:05"))
	}
	if r.LatDeg != nil {
		p.printf("  Latitude: %.6f\n", *r.LatDeg)
	}
	if r.LonDeg != nil {
		p.printf("  Longitude: %.6f\n", *r.LonDeg)
	}
	if r.SpeedKmh != nil {
		p.printf("  Speed: %.2f km/h\n", *r.SpeedKmh)
	}
	if r.CourseDeg != nil {
		p.printf("  Course: %g°\n", *r.CourseDeg)
	}
	if r.MagVarDeg != nil {
		p.printf("  Magnetic variation: %g°\n", *r.MagVarDeg)
	}
}

func (p *consolePrinter) printGSV(g nmea.GSV) {
	p.printf("  Type: GSV (Satellites in View)\n")
	if g.TotalMessages != nil && g.MessageIndex != nil && g.SatellitesInView != nil {
		p.printf("  Total messages: %d\n", *g.TotalMessages)
		p.printf("  Message number: %d\n", *g.MessageIndex)
		p.printf("  Satellites in view: %d\n", *g.SatellitesInView)
	}
	for _, sat := range g.Satellites {
		p.printf("    Satellite %2s: elevation=%3s°, azimuth=%3s°, SNR=%2s dB\n",
			optInt(sat.PRN), optInt(sat.ElevationDeg), optInt(sat.AzimuthDeg), optInt(sat.SNRdB))
	}
}

func (p *consolePrinter) printGSA(g nmea.GSA) {
	p.printf("  Type: GSA (DOP and Active Satellites)\n")
	if g.Mode != nil {
		p.printf("  Mode: %s\n", *g.Mode)
	}
	if g.FixType != nil {
		p.printf("  Fix: %s\n", g.FixType.String())
	}
	if len(g.PRNs) > 0 {
		p.printf("  Satellites used: %v\n", g.PRNs)
	}
	if g.PDOP != nil {
		p.printf("  PDOP: %g\n", *g.PDOP)
	}
	if g.HDOP != nil {
		p.printf("  HDOP: %g\n", *g.HDOP)
	}
	if g.VDOP != nil {
		p.printf("  VDOP: %g\n", *g.VDOP)
	}
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}
