package gps

import (
	"time"

	"nmea-reader/internal/nmea"
)

// Snapshot is the aggregated receiver state. Optional values are nil until a
// sentence has reported them.
type Snapshot struct {
	Source   string `json:"source"`
	Device   string `json:"device,omitempty"`
	Baud     int    `json:"baud,omitempty"`
	GPSDAddr string `json:"gpsd_addr,omitempty"`
	Replay   string `json:"replay,omitempty"`

	Connected bool `json:"connected"`
	Valid     bool `json:"valid"`

	LatDeg          *float64 `json:"lat_deg,omitempty"`
	LonDeg          *float64 `json:"lon_deg,omitempty"`
	AltitudeM       *float64 `json:"altitude_m,omitempty"`
	SpeedKmh        *float64 `json:"speed_kmh,omitempty"`
	CourseDeg       *float64 `json:"course_deg,omitempty"`
	FixQuality      *int     `json:"fix_quality,omitempty"`
	FixQualityLabel string   `json:"fix_quality_label,omitempty"`
	FixType         *int     `json:"fix_type,omitempty"`
	FixTypeLabel    string   `json:"fix_type_label,omitempty"`
	Satellites      *int     `json:"satellites,omitempty"`
	HDOP            *float64 `json:"hdop,omitempty"`
	PDOP            *float64 `json:"pdop,omitempty"`
	VDOP            *float64 `json:"vdop,omitempty"`
	UsedPRNs        []int    `json:"used_prns,omitempty"`

	SatellitesInView *int                 `json:"satellites_in_view,omitempty"`
	Sky              []nmea.SatelliteInfo `json:"sky,omitempty"`

	ReceiverUTC string `json:"receiver_utc,omitempty"`
	LastFixUTC  string `json:"last_fix_utc,omitempty"`

	Sentences      uint64 `json:"sentences"`
	ChecksumErrors uint64 `json:"checksum_errors"`
	Ignored        uint64 `json:"ignored"`
	Unrecognized   uint64 `json:"unrecognized"`

	LastChecksumError string `json:"last_checksum_error,omitempty"`
	LastError         string `json:"last_error,omitempty"`
}

// fixState folds decoded sentences into a Snapshot. It is owned by the
// reader goroutine.
type fixState struct {
	base Snapshot

	lat, lon *float64
	alt      *float64
	speed    *float64
	course   *float64
	quality  *nmea.FixQuality
	fixType  *nmea.FixType
	sats     *int
	hdop     *float64
	pdop     *float64
	vdop     *float64
	usedPRNs []int

	inView     *int
	sky        []nmea.SatelliteInfo
	skyPending []nmea.SatelliteInfo

	receiverTime time.Time
	lastFix      time.Time
	valid        bool

	sentences, checksumErrors, ignored, unrecognized uint64
	lastChecksumErr                                  string
}

func newFixState(base Snapshot) *fixState {
	return &fixState{base: base}
}

// apply folds one decoded sentence into the state.
func (st *fixState) apply(nowUTC time.Time, s nmea.Sentence) {
	st.sentences++
	switch v := s.(type) {
	case nmea.GGA:
		st.applyGGA(nowUTC, v)
	case nmea.RMC:
		st.applyRMC(nowUTC, v)
	case nmea.GSA:
		st.applyGSA(v)
	case nmea.GSV:
		st.applyGSV(v)
	default:
		st.unrecognized++
	}
}

func (st *fixState) applyGGA(nowUTC time.Time, g nmea.GGA) {
	if g.FixQuality != nil {
		q := *g.FixQuality
		st.quality = &q
	}
	if g.Satellites != nil {
		st.sats = g.Satellites
	}
	if g.HDOP != nil {
		st.hdop = g.HDOP
	}
	if g.AltitudeM != nil {
		st.alt = g.AltitudeM
	}

	// A GGA with quality 0 carries stale or empty coordinates.
	if g.FixQuality == nil || *g.FixQuality == nmea.FixNone {
		st.valid = false
		return
	}
	if g.LatDeg == nil || g.LonDeg == nil {
		return
	}
	st.lat, st.lon = g.LatDeg, g.LonDeg
	st.valid = true
	st.lastFix = nowUTC
}

func (st *fixState) applyRMC(nowUTC time.Time, r nmea.RMC) {
	if r.DateTime != nil {
		st.receiverTime = *r.DateTime
	}
	if r.Active == nil || !*r.Active {
		// Void fixes keep the last known position but are not valid.
		st.valid = false
		return
	}
	if r.SpeedKmh != nil {
		st.speed = r.SpeedKmh
	}
	if r.CourseDeg != nil {
		st.course = r.CourseDeg
	}
	if r.LatDeg == nil || r.LonDeg == nil {
		return
	}
	st.lat, st.lon = r.LatDeg, r.LonDeg
	st.valid = true
	st.lastFix = nowUTC
	if r.DateTime != nil {
		st.lastFix = *r.DateTime
	}
}

func (st *fixState) applyGSA(g nmea.GSA) {
	if g.FixType != nil {
		ft := *g.FixType
		st.fixType = &ft
	}
	st.usedPRNs = append(st.usedPRNs[:0], g.PRNs...)
	if g.PDOP != nil {
		st.pdop = g.PDOP
	}
	if g.HDOP != nil {
		st.hdop = g.HDOP
	}
	if g.VDOP != nil {
		st.vdop = g.VDOP
	}
}

// applyGSV collects one GSV cycle and publishes it once the last message of
// the cycle arrives. A cycle that skips a message is still published.
func (st *fixState) applyGSV(g nmea.GSV) {
	if g.SatellitesInView != nil {
		st.inView = g.SatellitesInView
	}
	if g.MessageIndex == nil || g.TotalMessages == nil {
		return
	}
	if *g.MessageIndex == 1 {
		st.skyPending = st.skyPending[:0]
	}
	st.skyPending = append(st.skyPending, g.Satellites...)
	if *g.MessageIndex >= *g.TotalMessages {
		st.sky = append([]nmea.SatelliteInfo(nil), st.skyPending...)
		st.skyPending = st.skyPending[:0]
	}
}

func (st *fixState) checksumError(err *nmea.ChecksumError) {
	st.checksumErrors++
	st.lastChecksumErr = err.Error()
}

func (st *fixState) snapshot() Snapshot {
	out := st.base
	out.Valid = st.valid
	out.LatDeg = cloneFloat(st.lat)
	out.LonDeg = cloneFloat(st.lon)
	out.AltitudeM = cloneFloat(st.alt)
	out.SpeedKmh = cloneFloat(st.speed)
	out.CourseDeg = cloneFloat(st.course)
	out.HDOP = cloneFloat(st.hdop)
	out.PDOP = cloneFloat(st.pdop)
	out.VDOP = cloneFloat(st.vdop)
	if st.quality != nil {
		v := int(*st.quality)
		out.FixQuality = &v
		out.FixQualityLabel = st.quality.String()
	}
	if st.fixType != nil {
		v := int(*st.fixType)
		out.FixType = &v
		out.FixTypeLabel = st.fixType.String()
	}
	if st.sats != nil {
		v := *st.sats
		out.Satellites = &v
	}
	if st.inView != nil {
		v := *st.inView
		out.SatellitesInView = &v
	}
	if len(st.usedPRNs) > 0 {
		out.UsedPRNs = append([]int(nil), st.usedPRNs...)
	}
	if len(st.sky) > 0 {
		out.Sky = append([]nmea.SatelliteInfo(nil), st.sky...)
	}
	if !st.receiverTime.IsZero() {
		out.ReceiverUTC = st.receiverTime.UTC().Format(time.RFC3339Nano)
	}
	if !st.lastFix.IsZero() {
		out.LastFixUTC = st.lastFix.UTC().Format(time.RFC3339Nano)
	}
	out.Sentences = st.sentences
	out.ChecksumErrors = st.checksumErrors
	out.Ignored = st.ignored
	out.Unrecognized = st.unrecognized
	out.LastChecksumError = st.lastChecksumErr
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
