package nmea

import (
	"math"
	"strconv"
	"strings"
)

// ParseCoordinate converts an NMEA coordinate plus hemisphere to signed
// decimal degrees.
//
// Latitude is ddmm.mmmm and longitude dddmm.mmmm: the two digits before the
// decimal point and the fraction are minutes, everything in front of them is
// degrees. S and W are negative. ok is false for empty or malformed input,
// including a missing decimal point or a result outside [-180, 180].
func ParseCoordinate(coord string, hemi string) (float64, bool) {
	if coord == "" {
		return 0, false
	}
	dot := strings.IndexByte(coord, '.')
	if dot < 2 {
		return 0, false
	}
	deg, err := strconv.Atoi(coord[:dot-2])
	if err != nil {
		return 0, false
	}
	mins, ok := parseFloat(coord[dot-2:])
	if !ok || mins < 0 {
		return 0, false
	}

	dec := float64(deg) + mins/60.0
	if math.Abs(dec) > 180 {
		return 0, false
	}
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, true
}

// ConvertCoordinate is ParseCoordinate with 0.0 standing in for "unparseable".
// The sentinel cannot be told apart from a real 0°0' position; decoders use
// ParseCoordinate and leave the attribute unset instead.
func ConvertCoordinate(coord string, hemi string) float64 {
	v, ok := ParseCoordinate(coord, hemi)
	if !ok {
		return 0
	}
	return v
}
