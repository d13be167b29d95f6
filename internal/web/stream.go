package web

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"

	"nmea-reader/internal/nmea"
)

// StreamHandler serves /api/stream: one JSON SentenceEvent per websocket
// message. ?kinds=GGA,RMC limits the stream to those kinds; checksum errors
// are only sent when ?errors=1.
func StreamHandler(hub *Hub) http.Handler {
	return websocket.Server{
		// Any origin may watch the stream; it is read-only.
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(ws *websocket.Conn) {
			defer ws.Close()

			q := ws.Request().URL.Query()
			kinds := parseKinds(q.Get("kinds"))
			withErrors := q.Get("errors") == "1"

			id, ch := hub.Subscribe(64)
			defer hub.Unsubscribe(id)

			// Clients never send anything; a failed read means they left.
			gone := make(chan struct{})
			go func() {
				defer close(gone)
				var discard []byte
				for {
					if err := websocket.Message.Receive(ws, &discard); err != nil {
						return
					}
				}
			}()

			remote := ws.Request().RemoteAddr
			log.WithField("remote", remote).Debug("stream client connected")
			defer log.WithField("remote", remote).Debug("stream client disconnected")

			for {
				select {
				case <-gone:
					return
				case ev, ok := <-ch:
					if !ok {
						return
					}
					if !wantEvent(ev, kinds, withErrors) {
						continue
					}
					if err := websocket.JSON.Send(ws, ev); err != nil {
						return
					}
				}
			}
		},
	}
}

func parseKinds(s string) map[nmea.Kind]bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	out := make(map[nmea.Kind]bool)
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if strings.EqualFold(k, string(nmea.KindUnrecognized)) {
			k = string(nmea.KindUnrecognized)
		} else {
			k = strings.ToUpper(k)
		}
		out[nmea.Kind(k)] = true
	}
	return out
}

func wantEvent(ev SentenceEvent, kinds map[nmea.Kind]bool, withErrors bool) bool {
	if ev.Error != "" {
		return withErrors
	}
	return kinds == nil || kinds[ev.Kind]
}
