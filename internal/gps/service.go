package gps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/metrics"
	"nmea-reader/internal/nmea"
	"nmea-reader/internal/replay"
)

const (
	SourceSerial = "serial"
	SourceGPSD   = "gpsd"
	SourceReplay = "replay"

	DefaultBaud = 9600

	readChunkSize = 4096

	recordFlushInterval = time.Second
)

// Config controls the receiver input.
//
// Device may be empty to auto-detect. RecordPath, when set, captures every
// raw chunk read from a serial or gpsd source for later replay.
type Config struct {
	// Source is "serial", "gpsd" or "replay". Empty means "serial".
	Source string

	Device string
	Baud   int

	// GPSDAddr is host:port for gpsd when Source=="gpsd".
	GPSDAddr string

	RecordPath string

	ReplayPath  string
	ReplaySpeed float64
	ReplayLoop  bool
}

type opener func(ctx context.Context) (io.ReadCloser, error)

type Service struct {
	cfg     Config
	metrics *metrics.Metrics
	now     func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	last atomic.Value // Snapshot

	mu     sync.Mutex
	closer io.Closer
	subs   []nmea.Handler

	minBackoff time.Duration
	maxBackoff time.Duration
}

// New returns a stopped Service. m may be nil.
func New(cfg Config, m *metrics.Metrics) *Service {
	cfg.Source = normalizeSource(cfg.Source)
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReplaySpeed == 0 {
		cfg.ReplaySpeed = 1
	}
	s := &Service{
		cfg:        cfg,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
		done:       make(chan struct{}),
		minBackoff: 250 * time.Millisecond,
		maxBackoff: 10 * time.Second,
	}
	s.last.Store(s.baseSnapshot())
	return s
}

func normalizeSource(src string) string {
	src = strings.ToLower(strings.TrimSpace(src))
	if src == "" {
		return SourceSerial
	}
	return src
}

func (s *Service) baseSnapshot() Snapshot {
	snap := Snapshot{Source: s.cfg.Source}
	switch s.cfg.Source {
	case SourceSerial:
		snap.Device = s.cfg.Device
		snap.Baud = s.cfg.Baud
	case SourceGPSD:
		snap.GPSDAddr = s.gpsdAddr()
	case SourceReplay:
		snap.Replay = s.cfg.ReplayPath
	}
	return snap
}

func (s *Service) gpsdAddr() string {
	addr := strings.TrimSpace(s.cfg.GPSDAddr)
	if addr == "" {
		return gpsdDefaultAddr
	}
	return addr
}

// Subscribe registers h for every decoded sentence and checksum error.
// Handlers run on the reader goroutine and must not block. Subscribe has no
// effect on a Service that is already running.
func (s *Service) Subscribe(h nmea.Handler) {
	if s == nil || h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, h)
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	switch s.cfg.Source {
	case SourceSerial:
		return s.startSerialLocked(ctx)
	case SourceGPSD:
		return s.startGPSDLocked(ctx)
	case SourceReplay:
		return s.startReplayLocked(ctx)
	default:
		return fmt.Errorf("unknown gps source %q", s.cfg.Source)
	}
}

func (s *Service) startSerialLocked(ctx context.Context) error {
	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setStartError("gps auto-detect failed: no serial receiver found")
			return fmt.Errorf("gps auto-detect failed")
		}
	}
	baud := s.cfg.Baud

	// The first open is synchronous so a wrong port fails the process early.
	f, err := openSerial(device, baud)
	if err != nil {
		s.setStartError(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err))
		return fmt.Errorf("open %s: %w", device, err)
	}

	base := s.baseSnapshot()
	base.Device = device
	log.WithFields(log.Fields{"device": device, "baud": baud}).Info("gps enabled source=serial")

	open := func(context.Context) (io.ReadCloser, error) { return openSerial(device, baud) }
	return s.startLoopLocked(ctx, base, f, open)
}

func (s *Service) startGPSDLocked(ctx context.Context) error {
	addr := s.gpsdAddr()
	log.WithField("addr", addr).Info("gps enabled source=gpsd")

	open := func(ctx context.Context) (io.ReadCloser, error) {
		conn, err := dialGPSD(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("gpsd dial failed addr=%s: %w", addr, err)
		}
		if err := gpsdWatch(conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("gpsd watch failed: %w", err)
		}
		return conn, nil
	}
	return s.startLoopLocked(ctx, s.baseSnapshot(), nil, open)
}

// startLoopLocked runs the reconnecting reader. first, when non-nil, is an
// already open source used before open is ever called.
func (s *Service) startLoopLocked(ctx context.Context, base Snapshot, first io.ReadCloser, open opener) error {
	p, err := s.newPipeline(base, s.cfg.RecordPath)
	if err != nil {
		if first != nil {
			_ = first.Close()
		}
		return err
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.closer = first

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.done)
		defer p.close()
		s.connectLoop(childCtx, p, first, open)
	}()
	return nil
}

func (s *Service) connectLoop(ctx context.Context, p *pipeline, rc io.ReadCloser, open opener) {
	backoff := s.minBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		if rc == nil {
			var err error
			rc, err = open(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.sourceError(err)
				t := backoff
				if t > s.maxBackoff {
					t = s.maxBackoff
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(t):
				}
				if backoff < s.maxBackoff {
					backoff *= 2
				}
				continue
			}
			s.mu.Lock()
			// Swap the closer so Close() can interrupt an active connection.
			s.closer = rc
			s.mu.Unlock()
		}

		// Reset backoff after a successful connection.
		backoff = s.minBackoff

		err := p.run(ctx, rc)
		_ = rc.Close()
		rc = nil
		if ctx.Err() != nil {
			return
		}
		p.sourceError(fmt.Errorf("gps read stopped: %w", err))
		log.WithError(err).Warn("gps source disconnected, reconnecting")
	}
}

func (s *Service) startReplayLocked(ctx context.Context) error {
	path := strings.TrimSpace(s.cfg.ReplayPath)
	if path == "" {
		return fmt.Errorf("gps replay path is empty")
	}
	records, err := replay.ReadFile(path)
	if err != nil {
		s.setStartError(fmt.Sprintf("gps replay load failed: %v", err))
		return fmt.Errorf("load replay %s: %w", path, err)
	}
	return s.startPlaybackLocked(ctx, records, nil)
}

func (s *Service) startPlaybackLocked(ctx context.Context, records []replay.Record, sleeper replay.Sleeper) error {
	p, err := s.newPipeline(s.baseSnapshot(), "")
	if err != nil {
		return err
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	log.WithFields(log.Fields{
		"path":  s.cfg.ReplayPath,
		"speed": s.cfg.ReplaySpeed,
		"loop":  s.cfg.ReplayLoop,
	}).Info("gps enabled source=replay")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.done)
		defer p.close()

		p.setConnected(true)
		err := replay.Play(childCtx, records, s.cfg.ReplaySpeed, s.cfg.ReplayLoop, sleeper, func(chunk []byte) error {
			if chunk == nil {
				p.stream.Reset()
				return nil
			}
			p.push(chunk)
			return nil
		})
		p.setConnected(false)
		switch {
		case err == nil:
			log.Info("gps replay finished")
		case errors.Is(err, context.Canceled):
		default:
			p.sourceError(fmt.Errorf("gps replay failed: %w", err))
		}
	}()
	return nil
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

// Done is closed when the reader goroutine exits: after Close, or when a
// non-looping replay reaches the end of the capture.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

// setStartError records a failure that happened before the reader started.
func (s *Service) setStartError(msg string) {
	cur := s.Snapshot()
	cur.LastError = msg
	s.last.Store(cur)
}
