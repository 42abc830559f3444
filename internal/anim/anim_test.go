package anim

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRecorderKeepsLatestValues(t *testing.T) {
	r := NewRecorder(nil)
	r.SetFloat("MoveX", 0.25)
	r.SetFloat("MoveX", -0.5)
	r.SetBool("Grounded", true)
	r.SetTrigger("Jump")
	r.SetTrigger("Jump")

	if got := r.Float("MoveX"); got != -0.5 {
		t.Fatalf("MoveX = %v, want -0.5", got)
	}
	if !r.Bool("Grounded") {
		t.Fatalf("Grounded = false, want true")
	}
	if got := r.Triggers("Jump"); got != 2 {
		t.Fatalf("Jump triggers = %d, want 2", got)
	}
	if got := r.Triggers("Emote"); got != 0 {
		t.Fatalf("Emote triggers = %d, want 0", got)
	}
}

func TestRecorderLogsBoolTransitionsOnly(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRecorder(log)

	r.SetBool("Grounded", true)
	r.SetBool("Grounded", true)
	r.SetBool("Grounded", false)

	if got := strings.Count(buf.String(), "Animator bool changed"); got != 2 {
		t.Fatalf("logged %d bool changes, want 2\n%s", got, buf.String())
	}
}
