package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "gps: {}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GPS.Source != "serial" || cfg.GPS.Baud != 9600 {
		t.Fatalf("source=%q baud=%d", cfg.GPS.Source, cfg.GPS.Baud)
	}
	if cfg.GPS.GPSDAddr != "127.0.0.1:2947" {
		t.Fatalf("gpsd_addr=%q", cfg.GPS.GPSDAddr)
	}
	if cfg.GPS.Replay.Speed != 1 {
		t.Fatalf("replay.speed=%v", cfg.GPS.Replay.Speed)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("log=%+v", cfg.Log)
	}
	if cfg.Forward.UDPDest != "" || cfg.Web.Listen != "" {
		t.Fatalf("expected outputs disabled by default")
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeTempConfig(t, `
gps:
  source: GPSD
  gpsd_addr: 10.0.0.5:2947
  record:
    enable: true
    path: /tmp/gps.log
forward:
  udp_dest: 192.168.1.255:10110
web:
  listen: ":8080"
log:
  level: DEBUG
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GPS.Source != "gpsd" || cfg.GPS.GPSDAddr != "10.0.0.5:2947" {
		t.Fatalf("gps=%+v", cfg.GPS)
	}
	if !cfg.GPS.Record.Enable || cfg.GPS.Record.Path != "/tmp/gps.log" {
		t.Fatalf("record=%+v", cfg.GPS.Record)
	}
	if cfg.Forward.UDPDest != "192.168.1.255:10110" || cfg.Web.Listen != ":8080" {
		t.Fatalf("forward=%+v web=%+v", cfg.Forward, cfg.Web)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "UnknownSource",
			yaml: "gps:\n  source: bluetooth\n",
			want: `gps.source must be serial, gpsd or replay (got "bluetooth")`,
		},
		{
			name: "NegativeBaud",
			yaml: "gps:\n  baud: -1\n",
			want: "gps.baud must be > 0",
		},
		{
			name: "RecordWithoutPath",
			yaml: "gps:\n  record:\n    enable: true\n",
			want: "gps.record.path is required when gps.record.enable is true",
		},
		{
			name: "RecordDuringReplay",
			yaml: "gps:\n  source: replay\n  record:\n    enable: true\n    path: x\n  replay:\n    path: y\n",
			want: "gps.record cannot be used with gps.source=replay",
		},
		{
			name: "ReplayWithoutPath",
			yaml: "gps:\n  source: replay\n",
			want: "gps.replay.path is required when gps.source=replay",
		},
		{
			name: "NegativeReplaySpeed",
			yaml: "gps:\n  replay:\n    speed: -2\n",
			want: "gps.replay.speed must be > 0",
		},
		{
			name: "BadLogLevel",
			yaml: "log:\n  level: loud\n",
			want: `log.level must be one of trace, debug, info, warn, error (got "loud")`,
		},
		{
			name: "BadLogFormat",
			yaml: "log:\n  format: xml\n",
			want: `log.format must be text or json (got "xml")`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.yaml))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeTempConfig(t, "gps: [\n"))
	if err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg=%+v want defaults", cfg)
	}

	_, err = LoadOrDefault(writeTempConfig(t, "gps:\n  baud: -5\n"))
	requireErrEq(t, err, "gps.baud must be > 0")
}

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}
