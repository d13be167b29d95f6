package gps

import (
	"context"
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/nmea"
	"nmea-reader/internal/replay"
)

// pipeline is the reader goroutine's view of a Service: it owns the Stream,
// the fix state and the optional capture writer.
type pipeline struct {
	s      *Service
	stream *nmea.Stream
	st     *fixState
	subs   []nmea.Handler
	rec    *replay.Writer

	recFlushed time.Time
}

func (s *Service) newPipeline(base Snapshot, recordPath string) (*pipeline, error) {
	p := &pipeline{
		s:    s,
		st:   newFixState(base),
		subs: append([]nmea.Handler(nil), s.subs...),
	}
	p.stream = nmea.NewStream(p)
	if recordPath != "" {
		w, err := replay.CreateWriter(recordPath)
		if err != nil {
			return nil, err
		}
		p.rec = w
		log.WithField("path", recordPath).Info("gps recording enabled")
	}
	s.last.Store(p.st.snapshot())
	return p, nil
}

// run reads rc until it fails or ctx is done.
func (p *pipeline) run(ctx context.Context, rc io.ReadCloser) error {
	stop := context.AfterFunc(ctx, func() { _ = rc.Close() })
	defer stop()

	// Half a sentence from a previous connection must not prefix the first
	// line of this one.
	p.stream.Reset()
	p.setConnected(true)
	defer p.setConnected(false)

	buf := make([]byte, readChunkSize)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			p.push(buf[:n])
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// push feeds one chunk through the stream. The chunk is not retained.
func (p *pipeline) push(chunk []byte) {
	if p.rec != nil {
		p.record(p.s.now(), chunk)
	}
	lines := p.stream.Push(chunk)
	p.s.metrics.ObserveChunk(len(chunk), lines, p.stream.Pending())
	p.publish()
}

// record appends chunk to the capture and flushes it at most once per
// recordFlushInterval.
func (p *pipeline) record(now time.Time, chunk []byte) {
	err := p.rec.WriteChunk(now, chunk)
	if err == nil && now.Sub(p.recFlushed) >= recordFlushInterval {
		err = p.rec.Flush()
		p.recFlushed = now
	}
	if err != nil {
		log.WithError(err).Warn("gps capture write failed, recording stopped")
		_ = p.rec.Close()
		p.rec = nil
	}
}

func (p *pipeline) HandleSentence(raw string, s nmea.Sentence) {
	p.st.apply(p.s.now(), s)
	p.s.metrics.ObserveSentence(s.Kind())
	for _, h := range p.subs {
		h.HandleSentence(raw, s)
	}
}

func (p *pipeline) HandleChecksumError(err *nmea.ChecksumError) {
	p.st.checksumError(err)
	p.s.metrics.ObserveChecksumError()
	log.WithError(err).Debug("gps checksum error")
	for _, h := range p.subs {
		h.HandleChecksumError(err)
	}
}

func (p *pipeline) HandleIgnored(line string) {
	p.st.ignored++
	p.s.metrics.ObserveIgnored()
	for _, h := range p.subs {
		if ih, ok := h.(nmea.IgnoreHandler); ok {
			ih.HandleIgnored(line)
		}
	}
}

func (p *pipeline) setConnected(v bool) {
	p.st.base.Connected = v
	if v {
		p.st.base.LastError = ""
	}
	p.publish()
}

func (p *pipeline) sourceError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	p.st.base.LastError = err.Error()
	p.s.metrics.ObserveSourceError(p.st.base.Source)
	log.WithError(err).Warn("gps source error")
	p.publish()
}

func (p *pipeline) publish() {
	p.s.last.Store(p.st.snapshot())
}

func (p *pipeline) close() {
	if p.rec != nil {
		if err := p.rec.Close(); err != nil {
			log.WithError(err).Warn("gps capture close failed")
		}
		p.rec = nil
	}
}
