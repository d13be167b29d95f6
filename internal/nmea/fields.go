package nmea

import (
	"math"
	"strconv"
	"strings"
)

// Fields is the comma-split sentence body (without '$' and checksum).
// Fields[0] is the talker+type identifier, e.g. "GPGGA".
type Fields []string

// Tokenize splits a sentence into its fields. NMEA fields never contain
// commas, so there is no quoting.
func Tokenize(sentence string) Fields {
	body := strings.TrimPrefix(sentence, "$")
	if star := strings.IndexByte(body, '*'); star != -1 {
		body = body[:star]
	}
	return Fields(strings.Split(body, ","))
}

// ID returns the identifier field.
func (f Fields) ID() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// at returns field i, or "" when the sentence is too short.
func (f Fields) at(i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return f[i]
}

func (f Fields) strAt(i int) *string {
	v := f.at(i)
	if v == "" {
		return nil
	}
	return &v
}

func (f Fields) intAt(i int) *int {
	v := f.at(i)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func (f Fields) floatAt(i int) *float64 {
	v, ok := parseFloat(f.at(i))
	if !ok {
		return nil
	}
	return &v
}

// coord decodes a coordinate/hemisphere pair; both must be present.
func (f Fields) coordAt(i int) *float64 {
	c, h := f.at(i), f.at(i+1)
	if c == "" || h == "" {
		return nil
	}
	v, ok := ParseCoordinate(c, h)
	if !ok {
		return nil
	}
	return &v
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
