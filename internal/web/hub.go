package web

import (
	"sync"
	"time"

	"nmea-reader/internal/nmea"
)

// SentenceEvent is what /api/stream sends for each framed sentence.
type SentenceEvent struct {
	ReceivedUTC string        `json:"received_utc"`
	Kind        nmea.Kind     `json:"kind,omitempty"`
	Raw         string        `json:"raw"`
	Sentence    nmea.Sentence `json:"sentence,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Hub fans decoded sentences out to websocket clients. It implements
// nmea.Handler and is fed from the gps reader goroutine, so Publish never
// blocks: a subscriber whose buffer is full misses events.
type Hub struct {
	mu       sync.RWMutex
	subs     map[int]chan SentenceEvent
	nextID   int
	last     SentenceEvent
	haveLast bool
	dropped  uint64

	now func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]chan SentenceEvent),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe registers a listener. The most recent event, if any, is
// delivered immediately so new clients do not start empty.
func (h *Hub) Subscribe(buffer int) (int, <-chan SentenceEvent) {
	if h == nil {
		return 0, nil
	}
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan SentenceEvent, buffer)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	last := h.last
	have := h.haveLast
	h.mu.Unlock()
	if have {
		select {
		case ch <- last:
		default:
		}
	}
	return id, ch
}

func (h *Hub) Unsubscribe(id int) {
	if h == nil {
		return
	}
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(ev SentenceEvent) {
	if h == nil {
		return
	}
	if ev.ReceivedUTC == "" {
		ev.ReceivedUTC = h.now().Format(time.RFC3339Nano)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.dropped++
		}
	}
	h.last = ev
	h.haveLast = true
}

// Dropped returns how many events were discarded for slow subscribers.
func (h *Hub) Dropped() uint64 {
	return h.Stats().Dropped
}

// StreamStats describes the websocket fan-out in /api/status.
type StreamStats struct {
	Clients int    `json:"clients"`
	Dropped uint64 `json:"dropped"`
}

func (h *Hub) Stats() StreamStats {
	if h == nil {
		return StreamStats{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return StreamStats{Clients: len(h.subs), Dropped: h.dropped}
}

func (h *Hub) HandleSentence(raw string, s nmea.Sentence) {
	h.Publish(SentenceEvent{Kind: s.Kind(), Raw: raw, Sentence: s})
}

func (h *Hub) HandleChecksumError(err *nmea.ChecksumError) {
	h.Publish(SentenceEvent{Raw: err.Sentence, Error: err.Error()})
}
