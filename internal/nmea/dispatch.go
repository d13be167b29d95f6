package nmea

import (
	"sort"
	"strings"
)

type decodeFunc func(Fields) Sentence

// Talker IDs treated as equivalent. GN is the multi-constellation talker.
var talkers = []string{"GP", "GN"}

var formatters = map[string]decodeFunc{
	"GGA": decodeGGA,
	"RMC": decodeRMC,
	"GSV": decodeGSV,
	"GSA": decodeGSA,
}

// decoders maps full identifiers (GPGGA, GNGGA, ...) to their decoder.
var decoders = buildDecoders()

func buildDecoders() map[string]decodeFunc {
	out := make(map[string]decodeFunc, len(talkers)*len(formatters))
	for _, t := range talkers {
		for f, fn := range formatters {
			out[t+f] = fn
		}
	}
	return out
}

// Supported reports whether id (e.g. "GNRMC") has a decoder.
func Supported(id string) bool {
	_, ok := decoders[id]
	return ok
}

// SupportedIDs returns every decodable identifier in sorted order.
func SupportedIDs() []string {
	out := make([]string, 0, len(decoders))
	for id := range decoders {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Dispatch routes tokenized fields to the decoder for their identifier.
//
// The checksum must already have been validated. A sentence not starting
// with '$' yields an empty Unrecognized; an unknown identifier yields
// Unrecognized carrying it.
func Dispatch(sentence string, f Fields) Sentence {
	if !strings.HasPrefix(sentence, "$") {
		return Unrecognized{}
	}
	fn, ok := decoders[f.ID()]
	if !ok {
		return Unrecognized{ID: f.ID()}
	}
	return fn(f)
}

// Decode validates, tokenizes and dispatches one framed sentence.
//
// Lines not starting with '$' are not NMEA and come back as an empty
// Unrecognized with a nil error. A failing checksum returns a
// *ChecksumError and no sentence.
func Decode(line string) (Sentence, error) {
	if !strings.HasPrefix(line, "$") {
		return Unrecognized{}, nil
	}
	if want, got, ok := checkChecksum(line); !ok {
		return nil, &ChecksumError{Sentence: line, Want: want, Got: got}
	}
	return Dispatch(line, Tokenize(line)), nil
}
