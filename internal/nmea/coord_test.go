package nmea

import (
	"math"
	"testing"
)

func TestConvertCoordinate(t *testing.T) {
	cases := []struct {
		name  string
		coord string
		hemi  string
		want  float64
	}{
		{name: "North", coord: "4807.038", hemi: "N", want: 48.1173},
		{name: "South", coord: "4807.038", hemi: "S", want: -48.1173},
		{name: "East", coord: "01131.000", hemi: "E", want: 11.516666666666667},
		{name: "West", coord: "12311.12", hemi: "W", want: -123.18533333333333},
		{name: "OtherHemisphereIsPositive", coord: "4807.038", hemi: "", want: 48.1173},
		{name: "Empty", coord: "", hemi: "N", want: 0},
		{name: "NoDecimalPoint", coord: "4807", hemi: "N", want: 0},
		{name: "DotTooEarly", coord: "7.038", hemi: "N", want: 0},
		{name: "NoDegreeDigits", coord: "07.038", hemi: "N", want: 0},
		{name: "NonNumeric", coord: "48x7.038", hemi: "N", want: 0},
		{name: "BadMinutes", coord: "4807.0a8", hemi: "N", want: 0},
		{name: "OutOfRange", coord: "99907.000", hemi: "E", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConvertCoordinate(tc.coord, tc.hemi)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ConvertCoordinate(%q,%q)=%v want %v", tc.coord, tc.hemi, got, tc.want)
			}
		})
	}
}

func TestParseCoordinate_UnsetDistinctFromZero(t *testing.T) {
	if _, ok := ParseCoordinate("", "N"); ok {
		t.Fatalf("expected empty coordinate unset")
	}
	if _, ok := ParseCoordinate("4807", "N"); ok {
		t.Fatalf("expected malformed coordinate unset")
	}
	v, ok := ParseCoordinate("0000.000", "N")
	if !ok || v != 0 {
		t.Fatalf("expected a real zero, got %v ok=%v", v, ok)
	}
}
