package nmea

import "time"

// Kind names a decoded sentence variant.
type Kind string

const (
	KindGGA          Kind = "GGA"
	KindRMC          Kind = "RMC"
	KindGSV          Kind = "GSV"
	KindGSA          Kind = "GSA"
	KindUnrecognized Kind = "unrecognized"
)

// Sentence is a decoded sentence: one of GGA, RMC, GSV, GSA or Unrecognized.
//
// Optional attributes are pointers. nil means the field was absent, empty or
// unparseable and must be read as "unknown", never as zero.
type Sentence interface {
	Kind() Kind
	sentence()
}

// FixQuality is the GGA fix quality indicator.
type FixQuality int

const (
	FixNone FixQuality = iota
	FixGPS
	FixDGPS
	FixPPS
	FixRTKFixed
	FixRTKFloat
	FixEstimated
)

var fixQualityLabels = [...]string{
	FixNone:      "no fix",
	FixGPS:       "GPS",
	FixDGPS:      "DGPS",
	FixPPS:       "PPS",
	FixRTKFixed:  "RTK fixed",
	FixRTKFloat:  "RTK float",
	FixEstimated: "estimated",
}

func (q FixQuality) String() string {
	if q < 0 || int(q) >= len(fixQualityLabels) {
		return "unknown"
	}
	return fixQualityLabels[q]
}

// GGA: Global Positioning System Fix Data.
type GGA struct {
	// Time is UTC as HH:MM:SS.
	Time       *string     `json:"time,omitempty"`
	LatDeg     *float64    `json:"lat_deg,omitempty"`
	LonDeg     *float64    `json:"lon_deg,omitempty"`
	FixQuality *FixQuality `json:"fix_quality,omitempty"`
	Satellites *int        `json:"satellites,omitempty"`
	HDOP       *float64    `json:"hdop,omitempty"`
	// AltitudeM is antenna altitude above mean sea level in meters.
	AltitudeM *float64 `json:"altitude_m,omitempty"`
	GeoidSepM *float64 `json:"geoid_sep_m,omitempty"`

	DGPSAgeSec  *float64 `json:"dgps_age_sec,omitempty"`
	DGPSStation *string  `json:"dgps_station,omitempty"`
}

// RMC: Recommended Minimum Specific GNSS Data.
type RMC struct {
	Active *bool `json:"active,omitempty"`
	// DateTime needs both the time and date fields. Two-digit years are
	// taken as 20YY.
	DateTime  *time.Time `json:"date_time,omitempty"`
	LatDeg    *float64   `json:"lat_deg,omitempty"`
	LonDeg    *float64   `json:"lon_deg,omitempty"`
	SpeedKmh  *float64   `json:"speed_kmh,omitempty"`
	CourseDeg *float64   `json:"course_deg,omitempty"`
	// MagVarDeg is negative for westerly variation.
	MagVarDeg *float64 `json:"mag_var_deg,omitempty"`
	// Mode is the NMEA 2.3 FAA mode indicator (A, D, E, N, ...).
	Mode *string `json:"mode,omitempty"`
}

// SatelliteInfo is one satellite of a GSV message.
type SatelliteInfo struct {
	PRN          *int `json:"prn,omitempty"`
	ElevationDeg *int `json:"elevation_deg,omitempty"`
	AzimuthDeg   *int `json:"azimuth_deg,omitempty"`
	SNRdB        *int `json:"snr_db,omitempty"`
}

// GSV: Satellites in View. A full sky view spans TotalMessages sentences.
type GSV struct {
	TotalMessages    *int            `json:"total_messages,omitempty"`
	MessageIndex     *int            `json:"message_index,omitempty"`
	SatellitesInView *int            `json:"satellites_in_view,omitempty"`
	Satellites       []SatelliteInfo `json:"satellites,omitempty"`
	// SignalID is the NMEA 4.1 trailing signal identifier.
	SignalID *string `json:"signal_id,omitempty"`
}

// SelectionMode is the GSA 2D/3D switching mode.
type SelectionMode string

const (
	SelectionManual    SelectionMode = "manual"
	SelectionAutomatic SelectionMode = "automatic"
)

// FixType is the GSA fix dimensionality.
type FixType int

const (
	FixTypeNone FixType = 1
	FixType2D   FixType = 2
	FixType3D   FixType = 3
)

func (t FixType) String() string {
	switch t {
	case FixTypeNone:
		return "no fix"
	case FixType2D:
		return "2D"
	case FixType3D:
		return "3D"
	default:
		return "unknown"
	}
}

// GSA: GNSS DOP and Active Satellites.
type GSA struct {
	Mode    *SelectionMode `json:"mode,omitempty"`
	FixType *FixType       `json:"fix_type,omitempty"`
	// PRNs lists the satellites used in the solution.
	PRNs []int    `json:"prns,omitempty"`
	PDOP *float64 `json:"pdop,omitempty"`
	HDOP *float64 `json:"hdop,omitempty"`
	VDOP *float64 `json:"vdop,omitempty"`
}

// Unrecognized is a sentence that is not decoded. ID is the raw identifier,
// or empty when the line was not an NMEA sentence at all.
type Unrecognized struct {
	ID string `json:"id,omitempty"`
}

func (GGA) Kind() Kind          { return KindGGA }
func (RMC) Kind() Kind          { return KindRMC }
func (GSV) Kind() Kind          { return KindGSV }
func (GSA) Kind() Kind          { return KindGSA }
func (Unrecognized) Kind() Kind { return KindUnrecognized }

func (GGA) sentence()          {}
func (RMC) sentence()          {}
func (GSV) sentence()          {}
func (GSA) sentence()          {}
func (Unrecognized) sentence() {}
