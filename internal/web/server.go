package web

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"
)

// Deps are the pieces the HTTP API exposes. Nil fields disable their
// endpoints.
type Deps struct {
	Status  *Status
	Logs    *LogBuffer
	Hub     *Hub
	Metrics http.Handler
}

func Handler(d Deps) http.Handler {
	status := d.Status
	if status == nil {
		status = NewStatus()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, status.Snapshot(time.Now().UTC()))
	})

	if d.Logs != nil {
		mux.Handle("/api/logs", d.Logs.Handler())
	}
	if d.Hub != nil {
		mux.Handle("/api/stream", StreamHandler(d.Hub))
	}
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics)
	}
	mux.Handle("/api/about", AboutHandler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		renderIndex(w, status.Snapshot(time.Now().UTC()))
	})

	return mux
}

// renderIndex is a plain overview for browsers; tools should use the JSON API.
func renderIndex(w http.ResponseWriter, snap StatusSnapshot) {
	g := snap.GPS
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>nmea-reader</title></head><body>")
	_, _ = fmt.Fprintf(w, "<h1>nmea-reader</h1>")
	_, _ = fmt.Fprintf(w, "<p>JSON: <a href=\"/api/status\">/api/status</a>, <a href=\"/api/logs?format=text\">/api/logs</a>, <a href=\"/metrics\">/metrics</a>. Live sentences: websocket <code>/api/stream</code>.</p>")
	_, _ = fmt.Fprintf(w, "<pre>source=%s device=%s connected=%v valid=%v\n", html.EscapeString(g.Source), html.EscapeString(g.Device), g.Connected, g.Valid)
	if g.LatDeg != nil && g.LonDeg != nil {
		_, _ = fmt.Fprintf(w, "position=%.6f,%.6f\n", *g.LatDeg, *g.LonDeg)
	}
	if g.FixQualityLabel != "" {
		_, _ = fmt.Fprintf(w, "fix=%s\n", html.EscapeString(g.FixQualityLabel))
	}
	_, _ = fmt.Fprintf(w, "sentences=%d checksum_errors=%d ignored=%d unrecognized=%d\n", g.Sentences, g.ChecksumErrors, g.Ignored, g.Unrecognized)
	if g.LastError != "" {
		_, _ = fmt.Fprintf(w, "last_error=%s\n", html.EscapeString(g.LastError))
	}
	_, _ = fmt.Fprintf(w, "</pre></body></html>")
}

func Serve(ctx context.Context, listenAddr string, d Deps) error {
	// No Read/WriteTimeout: /api/stream connections are long-lived.
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           Handler(d),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
