package web

import (
	"sync/atomic"
	"time"

	"nmea-reader/internal/gps"
	"nmea-reader/internal/udp"
)

// GPSSource is satisfied by *gps.Service.
type GPSSource interface {
	Snapshot() gps.Snapshot
}

// ForwardSource is satisfied by *udp.Forwarder.
type ForwardSource interface {
	Stats() udp.Stats
}

// StreamSource is satisfied by *Hub.
type StreamSource interface {
	Stats() StreamStats
}

type Status struct {
	startUnixNano int64
	gps           atomic.Value // gpsHolder
	forward       atomic.Value // forwardHolder
	stream        atomic.Value // streamHolder
}

// atomic.Value requires one concrete type per Value.
type gpsHolder struct{ src GPSSource }

type forwardHolder struct{ src ForwardSource }

type streamHolder struct{ src StreamSource }

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	return s
}

func (s *Status) SetGPS(src GPSSource) {
	if src != nil {
		s.gps.Store(gpsHolder{src})
	}
}

func (s *Status) SetForward(src ForwardSource) {
	if src != nil {
		s.forward.Store(forwardHolder{src})
	}
}

func (s *Status) SetStream(src StreamSource) {
	if src != nil {
		s.stream.Store(streamHolder{src})
	}
}

type StatusSnapshot struct {
	Service   string       `json:"service"`
	NowUTC    string       `json:"now_utc"`
	UptimeSec int64        `json:"uptime_sec"`
	GPS       gps.Snapshot `json:"gps"`
	Forward   *udp.Stats   `json:"forward,omitempty"`
	Stream    *StreamStats `json:"stream,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	snap := StatusSnapshot{
		Service:   serviceName,
		NowUTC:    nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec: int64(nowUTC.Sub(start).Seconds()),
	}
	if h, ok := s.gps.Load().(gpsHolder); ok {
		snap.GPS = h.src.Snapshot()
	}
	if h, ok := s.forward.Load().(forwardHolder); ok {
		st := h.src.Stats()
		snap.Forward = &st
	}
	if h, ok := s.stream.Load().(streamHolder); ok {
		st := h.src.Stats()
		snap.Stream = &st
	}
	return snap
}
