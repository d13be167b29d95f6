package nmea

import (
	"errors"
	"strings"
)

// Handler receives the results of a Stream in framing order.
type Handler interface {
	// HandleSentence is called for every sentence that passed checksum
	// validation, including Unrecognized ones. raw is the framed line.
	HandleSentence(raw string, s Sentence)
	HandleChecksumError(err *ChecksumError)
}

// IgnoreHandler is optionally implemented by a Handler that wants to see
// lines dropped for not starting with '$'.
type IgnoreHandler interface {
	HandleIgnored(line string)
}

// HandlerFunc adapts a single function to Handler. Checksum failures arrive
// with a nil Sentence and a non-nil err.
type HandlerFunc func(raw string, s Sentence, err error)

func (f HandlerFunc) HandleSentence(raw string, s Sentence) { f(raw, s, nil) }

func (f HandlerFunc) HandleChecksumError(err *ChecksumError) { f(err.Sentence, nil, err) }

// Stream frames byte chunks and decodes each completed sentence.
type Stream struct {
	framer Framer
	h      Handler
}

func NewStream(h Handler) *Stream {
	return &Stream{h: h}
}

// Push feeds one chunk and delivers every sentence it completes before
// returning. It returns the number of lines framed.
func (s *Stream) Push(chunk []byte) int {
	lines := s.framer.Push(chunk)
	for _, line := range lines {
		if !strings.HasPrefix(line, "$") {
			if ih, ok := s.h.(IgnoreHandler); ok {
				ih.HandleIgnored(line)
			}
			continue
		}
		sent, err := Decode(line)
		if err != nil {
			var ce *ChecksumError
			if errors.As(err, &ce) {
				s.h.HandleChecksumError(ce)
			}
			continue
		}
		s.h.HandleSentence(line, sent)
	}
	return len(lines)
}

// Pending returns the number of bytes buffered for the unterminated line.
func (s *Stream) Pending() int {
	return s.framer.Pending()
}

// Reset drops the unterminated line, e.g. after the transport reconnected.
func (s *Stream) Reset() {
	s.framer.Reset()
}
