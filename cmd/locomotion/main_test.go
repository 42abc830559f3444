package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Versifine/locomotion/internal/config"
)

func TestRunFrames(t *testing.T) {
	tests := []struct {
		name      string
		flag      int
		frames    int
		scriptLen int
		want      int
	}{
		{"flag wins", 5, 100, 300, 5},
		{"configured frames", 0, 100, 300, 100},
		{"script length", 0, 0, 300, 300},
		{"empty script falls back to fixed seconds", 0, 0, 0, fallbackRunSeconds * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Sim.TickRate = 60
			cfg.Sim.Frames = tt.frames
			if got := runFrames(tt.flag, cfg, tt.scriptLen); got != tt.want {
				t.Fatalf("runFrames() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRun_PrintsDefaultConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"config"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
	}
	if !bytes.Equal(stdout.Bytes(), config.DefaultYAML) {
		t.Fatalf("config output differs from the embedded defaults")
	}
}

func TestRun_InvalidModeFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--mode", "top_down", "run"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "unknown mode") {
		t.Fatalf("stderr = %q, want unknown mode", stderr.String())
	}
}

func TestRun_EmptyScriptTerminates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	content := "sim:\n  tick_rate: 10\n  frames: 0\n  script: []\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--file", path, "run"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "frames=100") {
		t.Fatalf("summary missing frames=100: %q", stdout.String())
	}
}
