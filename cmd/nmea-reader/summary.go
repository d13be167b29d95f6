package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"nmea-reader/internal/nmea"
	"nmea-reader/internal/replay"
)

type captureSummary struct {
	Segments       int
	Chunks         int
	Bytes          int
	Lines          int
	ChecksumErrors int
	Ignored        int
	MaxDuration    time.Duration
	KindCounts     map[nmea.Kind]int
	Unrecognized   map[string]int
}

type summaryHandler struct {
	s *captureSummary
}

func (h summaryHandler) HandleSentence(_ string, sent nmea.Sentence) {
	h.s.KindCounts[sent.Kind()]++
	if u, ok := sent.(nmea.Unrecognized); ok {
		h.s.Unrecognized[u.ID]++
	}
}

func (h summaryHandler) HandleChecksumError(*nmea.ChecksumError) { h.s.ChecksumErrors++ }

func (h summaryHandler) HandleIgnored(string) { h.s.Ignored++ }

// summarizeCapture frames and decodes a capture the same way the live reader
// would. Each START segment gets a fresh framer.
func summarizeCapture(records []replay.Record) captureSummary {
	s := captureSummary{
		KindCounts:   map[nmea.Kind]int{},
		Unrecognized: map[string]int{},
	}
	stream := nmea.NewStream(summaryHandler{&s})

	origin := time.Duration(0)
	hasChunks := false
	segments := 0

	for _, r := range records {
		if r.Chunk == nil {
			segments++
			origin = r.At
			stream.Reset()
			continue
		}
		hasChunks = true

		s.Chunks++
		s.Bytes += len(r.Chunk)
		at := r.At - origin
		if at < 0 {
			at = 0
		}
		if at > s.MaxDuration {
			s.MaxDuration = at
		}
		s.Lines += stream.Push(r.Chunk)
	}
	if segments == 0 && hasChunks {
		segments = 1
	}
	s.Segments = segments
	return s
}

func printCaptureSummary(w io.Writer, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	recs, err := replay.ReadFile(path)
	if err != nil {
		return err
	}
	s := summarizeCapture(recs)

	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "segments: %d\n", s.Segments)
	fmt.Fprintf(w, "chunks: %d\n", s.Chunks)
	fmt.Fprintf(w, "bytes: %d\n", s.Bytes)
	fmt.Fprintf(w, "lines: %d\n", s.Lines)
	fmt.Fprintf(w, "checksum_errors: %d\n", s.ChecksumErrors)
	fmt.Fprintf(w, "ignored_lines: %d\n", s.Ignored)
	fmt.Fprintf(w, "max_duration: %s\n", s.MaxDuration)

	kinds := make([]string, 0, len(s.KindCounts))
	for k := range s.KindCounts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	fmt.Fprintf(w, "sentences:\n")
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, s.KindCounts[nmea.Kind(k)])
	}

	if len(s.Unrecognized) > 0 {
		ids := make([]string, 0, len(s.Unrecognized))
		for id := range s.Unrecognized {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintf(w, "unrecognized_ids:\n")
		for _, id := range ids {
			fmt.Fprintf(w, "  %s: %d\n", id, s.Unrecognized[id])
		}
	}
	return nil
}
