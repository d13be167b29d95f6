package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"nmea-reader/internal/nmea"
)

func dialStream(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream" + query
	ws, err := websocket.Dial(url, "", ts.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func receiveEvent(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var raw string
	if err := websocket.Message.Receive(ws, &raw); err != nil {
		t.Fatalf("receive: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return out
}

func TestStream_SendsDecodedSentence(t *testing.T) {
	hub := NewHub()
	sent, err := nmea.Decode("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Published before the client connects: delivered as the hub's last event.
	hub.HandleSentence("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47", sent)

	ts := httptest.NewServer(Handler(Deps{Hub: hub}))
	defer ts.Close()
	ws := dialStream(t, ts, "")

	ev := receiveEvent(t, ws)
	if ev["kind"] != "GGA" {
		t.Fatalf("kind=%v", ev["kind"])
	}
	body, ok := ev["sentence"].(map[string]any)
	if !ok {
		t.Fatalf("sentence=%v", ev["sentence"])
	}
	if body["time"] != "12:35:19" || body["satellites"] != float64(8) {
		t.Fatalf("sentence=%v", body)
	}
}

func TestStream_FiltersKindsAndErrors(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(Handler(Deps{Hub: hub}))
	defer ts.Close()
	ws := dialStream(t, ts, "?kinds=rmc")

	// The subscription is registered by the server goroutine after the
	// handshake; keep publishing until the client sees the wanted event.
	type result struct {
		raw string
		err error
	}
	done := make(chan result, 1)
	go func() {
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		var raw string
		err := websocket.Message.Receive(ws, &raw)
		done <- result{raw, err}
	}()
	deadline := time.After(2 * time.Second)
	for {
		hub.HandleChecksumError(&nmea.ChecksumError{Sentence: "$GPRMC*00", Want: "4B", Got: "00"})
		hub.HandleSentence("$GPGSA", nmea.GSA{})
		hub.HandleSentence("$GPRMC", nmea.RMC{})
		select {
		case res := <-done:
			if res.err != nil {
				t.Fatalf("receive: %v", res.err)
			}
			var out map[string]any
			if err := json.Unmarshal([]byte(res.raw), &out); err != nil {
				t.Fatalf("decode %q: %v", res.raw, err)
			}
			if out["kind"] != "RMC" || out["raw"] != "$GPRMC" {
				t.Fatalf("event=%v", out)
			}
			return
		case <-deadline:
			t.Fatalf("no event")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestParseKinds(t *testing.T) {
	if parseKinds("  ") != nil {
		t.Fatalf("expected nil for empty")
	}
	got := parseKinds("gga, RMC,,Unrecognized")
	for _, k := range []nmea.Kind{nmea.KindGGA, nmea.KindRMC, nmea.KindUnrecognized} {
		if !got[k] {
			t.Fatalf("missing %s in %v", k, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("kinds=%v", got)
	}
}
