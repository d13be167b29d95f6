package nmea

import (
	"fmt"
	"time"
)

// Minimum field counts, identifier included. Shorter sentences decode to an
// empty record of their type.
const (
	ggaMinFields = 15
	rmcMinFields = 12
	gsvMinFields = 4
	gsaMinFields = 17
)

const knotsToKmh = 1.852

// GGA fields:
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality
//	7: satellites used
//	8: HDOP
//	9: altitude
//
// 10: units (M)
// 11: geoid separation
// 12: units (M)
// 13: age of differential data (s)
// 14: differential station ID
func decodeGGA(f Fields) Sentence {
	var out GGA
	if len(f) < ggaMinFields {
		return out
	}
	if h, m, s, _, ok := parseClock(f.at(1)); ok {
		v := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
		out.Time = &v
	}
	out.LatDeg = f.coordAt(2)
	out.LonDeg = f.coordAt(4)
	if q := f.intAt(6); q != nil {
		v := FixQuality(*q)
		out.FixQuality = &v
	}
	out.Satellites = f.intAt(7)
	out.HDOP = f.floatAt(8)
	out.AltitudeM = f.floatAt(9)
	out.GeoidSepM = f.floatAt(11)
	out.DGPSAgeSec = f.floatAt(13)
	out.DGPSStation = f.strAt(14)
	return out
}

// RMC fields (NMEA 0183 v2.3):
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
//
// 10: magnetic variation (deg)
// 11: E/W
// 12: mode indicator (v2.3+)
func decodeRMC(f Fields) Sentence {
	var out RMC
	if len(f) < rmcMinFields {
		return out
	}
	if st := f.at(2); st != "" {
		v := st == "A"
		out.Active = &v
	}
	if t, ok := parseDateTime(f.at(9), f.at(1)); ok {
		out.DateTime = &t
	}
	out.LatDeg = f.coordAt(3)
	out.LonDeg = f.coordAt(5)
	if kt := f.floatAt(7); kt != nil {
		v := *kt * knotsToKmh
		out.SpeedKmh = &v
	}
	out.CourseDeg = f.floatAt(8)
	if mv := f.floatAt(10); mv != nil {
		v := *mv
		if f.at(11) == "W" {
			v = -v
		}
		out.MagVarDeg = &v
	}
	out.Mode = f.strAt(12)
	return out
}

// GSV fields:
//
//	0: talker+type
//	1: total number of messages
//	2: message number
//	3: satellites in view
//	4..7: PRN, elevation (deg), azimuth (deg), SNR (dB); repeated up to 4 times
//
// NMEA 4.1 appends a signal ID after the last group. Groups padded with four
// empty fields are skipped.
func decodeGSV(f Fields) Sentence {
	var out GSV
	if len(f) < gsvMinFields {
		return out
	}
	out.TotalMessages = f.intAt(1)
	out.MessageIndex = f.intAt(2)
	out.SatellitesInView = f.intAt(3)

	groups := (len(f) - gsvMinFields) / 4
	if groups > 0 {
		out.Satellites = make([]SatelliteInfo, 0, groups)
	}
	for i := 0; i < groups; i++ {
		idx := gsvMinFields + i*4
		if idx+3 >= len(f) {
			panic(fmt.Sprintf("nmea: gsv group %d out of range (%d fields)", i, len(f)))
		}
		if f.at(idx) == "" && f.at(idx+1) == "" && f.at(idx+2) == "" && f.at(idx+3) == "" {
			continue
		}
		out.Satellites = append(out.Satellites, SatelliteInfo{
			PRN:          f.intAt(idx),
			ElevationDeg: f.intAt(idx + 1),
			AzimuthDeg:   f.intAt(idx + 2),
			SNRdB:        f.intAt(idx + 3),
		})
	}
	if (len(f)-gsvMinFields)%4 == 1 {
		out.SignalID = f.strAt(len(f) - 1)
	}
	return out
}

// GSA fields:
//
//	0: talker+type
//	1: selection mode (M=manual, A=automatic)
//	2: fix type (1=none, 2=2D, 3=3D)
//	3..14: PRNs used in the solution
//
// 15: PDOP
// 16: HDOP
// 17: VDOP
func decodeGSA(f Fields) Sentence {
	var out GSA
	if len(f) < gsaMinFields {
		return out
	}
	if m := f.at(1); m != "" {
		v := SelectionAutomatic
		if m == "M" {
			v = SelectionManual
		}
		out.Mode = &v
	}
	if ft := f.intAt(2); ft != nil {
		v := FixType(*ft)
		out.FixType = &v
	}
	for i := 3; i <= 14; i++ {
		if prn := f.intAt(i); prn != nil {
			out.PRNs = append(out.PRNs, *prn)
		}
	}
	out.PDOP = f.floatAt(15)
	out.HDOP = f.floatAt(16)
	out.VDOP = f.floatAt(17)
	return out
}

// parseClock parses hhmmss with an optional .sss fraction. Second 60 is a
// leap second.
func parseClock(s string) (h, m, sec, nsec int, ok bool) {
	if len(s) < 6 {
		return 0, 0, 0, 0, false
	}
	var ok1, ok2, ok3 bool
	h, ok1 = twoDigits(s[0:2])
	m, ok2 = twoDigits(s[2:4])
	sec, ok3 = twoDigits(s[4:6])
	if !ok1 || !ok2 || !ok3 || h > 23 || m > 59 || sec > 60 {
		return 0, 0, 0, 0, false
	}
	if frac := s[6:]; frac != "" {
		if frac[0] != '.' {
			return 0, 0, 0, 0, false
		}
		scale := 100000000
		for i := 1; i < len(frac); i++ {
			c := frac[i]
			if c < '0' || c > '9' {
				return 0, 0, 0, 0, false
			}
			nsec += int(c-'0') * scale
			scale /= 10
		}
	}
	return h, m, sec, nsec, true
}

// parseDateTime combines an RMC ddmmyy date and hhmmss time into UTC.
func parseDateTime(date string, clock string) (time.Time, bool) {
	if len(date) != 6 {
		return time.Time{}, false
	}
	d, ok1 := twoDigits(date[0:2])
	mo, ok2 := twoDigits(date[2:4])
	yy, ok3 := twoDigits(date[4:6])
	if !ok1 || !ok2 || !ok3 || mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	h, m, s, ns, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	leap := s == 60
	if leap {
		s = 59
	}
	t := time.Date(2000+yy, time.Month(mo), d, h, m, s, ns, time.UTC)
	// time.Date normalizes 31 April to 1 May; reject instead.
	if t.Day() != d {
		return time.Time{}, false
	}
	// time.Time has no leap second; second 60 rolls into the next minute.
	if leap {
		t = t.Add(time.Second)
	}
	return t, true
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
