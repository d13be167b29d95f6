package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nmea-reader/internal/gps"
	"nmea-reader/internal/udp"
)

type fakeGPS struct{ snap gps.Snapshot }

func (f fakeGPS) Snapshot() gps.Snapshot { return f.snap }

type fakeForward struct{ st udp.Stats }

func (f fakeForward) Stats() udp.Stats { return f.st }

func TestAPIStatus(t *testing.T) {
	lat, lon := 48.1173, 11.516667
	st := NewStatus()
	st.SetGPS(fakeGPS{snap: gps.Snapshot{Source: "serial", Device: "/dev/ttyACM0", Valid: true, LatDeg: &lat, LonDeg: &lon, Sentences: 12}})
	st.SetForward(fakeForward{st: udp.Stats{Dest: "127.0.0.1:10110", Sent: 12}})
	hub := NewHub()
	_, _ = hub.Subscribe(1)
	hub.Publish(SentenceEvent{Raw: "a"})
	hub.Publish(SentenceEvent{Raw: "b"})
	st.SetStream(hub)

	ts := httptest.NewServer(Handler(Deps{Status: st}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code=%d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%q", ct)
	}

	var snap StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if snap.Service != "nmea-reader" {
		t.Fatalf("service=%q", snap.Service)
	}
	if snap.GPS.Device != "/dev/ttyACM0" || !snap.GPS.Valid || snap.GPS.Sentences != 12 {
		t.Fatalf("gps=%+v", snap.GPS)
	}
	if snap.GPS.LatDeg == nil || *snap.GPS.LatDeg != lat {
		t.Fatalf("lat=%v", snap.GPS.LatDeg)
	}
	if snap.Forward == nil || snap.Forward.Dest != "127.0.0.1:10110" {
		t.Fatalf("forward=%+v", snap.Forward)
	}
	if snap.Stream == nil || snap.Stream.Clients != 1 || snap.Stream.Dropped != 1 {
		t.Fatalf("stream=%+v", snap.Stream)
	}
}

func TestAPIStatus_MethodNotAllowed(t *testing.T) {
	ts := httptest.NewServer(Handler(Deps{}))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/status", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status code=%d", resp.StatusCode)
	}
	if got := resp.Header.Get("Allow"); got != http.MethodGet {
		t.Fatalf("allow=%q", got)
	}
}

func TestRootPage(t *testing.T) {
	lat, lon := -33.5, 151.25
	st := NewStatus()
	st.SetGPS(fakeGPS{snap: gps.Snapshot{Source: "gpsd", LatDeg: &lat, LonDeg: &lon, LastError: "<boom>"}})
	ts := httptest.NewServer(Handler(Deps{Status: st}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get root: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code=%d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"position=-33.500000,151.250000", "last_error=&lt;boom&gt;"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}

	resp2, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("get unknown: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("status code=%d", resp2.StatusCode)
	}
}

func TestOptionalEndpoints(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "nmea_reader_bytes_read_total 0\n")
	})

	cases := []struct {
		name string
		deps Deps
		path string
		want int
	}{
		{name: "LogsDisabled", deps: Deps{}, path: "/api/logs", want: http.StatusNotFound},
		{name: "LogsEnabled", deps: Deps{Logs: NewLogBuffer(10)}, path: "/api/logs", want: http.StatusOK},
		{name: "MetricsDisabled", deps: Deps{}, path: "/metrics", want: http.StatusNotFound},
		{name: "MetricsEnabled", deps: Deps{Metrics: metrics}, path: "/metrics", want: http.StatusOK},
		{name: "About", deps: Deps{}, path: "/api/about", want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(tc.deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.want {
				t.Fatalf("code=%d want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAPIAbout_ListsSentences(t *testing.T) {
	rec := httptest.NewRecorder()
	AboutHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/about", nil))

	var about AboutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &about); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if about.Service != "nmea-reader" || about.GoVersion == "" {
		t.Fatalf("about=%+v", about)
	}
	if len(about.Sentences) != 8 || about.Sentences[0] != "GNGGA" {
		t.Fatalf("sentences=%v", about.Sentences)
	}
}
